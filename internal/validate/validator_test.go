package validate

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ppiankov/verinex/internal/model"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(model.ValidationConfig{MinChars: 50, MaxChars: 10000})

	tests := []struct {
		name    string
		text    string
		wantErr error
		wantMsg string
	}{
		{"empty", "", ErrEmpty, "Por favor, insira uma notícia para verificar."},
		{"whitespace only", "   \n\t ", ErrEmpty, "Por favor, insira uma notícia para verificar."},
		{"one short of minimum", strings.Repeat("a", 49), ErrTooShort, "A notícia precisa ter pelo menos 50 caracteres para análise precisa."},
		{"exactly minimum", strings.Repeat("a", 50), nil, ""},
		{"exactly maximum", strings.Repeat("a", 10000), nil, ""},
		{"one over maximum", strings.Repeat("a", 10001), ErrTooLong, "A notícia é muito longa. Limite: 10.000 caracteres."},
		{"padding does not count", "   " + strings.Repeat("a", 49) + "   ", ErrTooShort, ""},
		{"accented characters count once", strings.Repeat("ã", 50), nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.text)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if got != strings.TrimSpace(tt.text) {
					t.Errorf("Expected trimmed text to be returned")
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if got != "" {
				t.Errorf("Expected no text on error, got %q", got)
			}
			if tt.wantMsg != "" && Message(err) != tt.wantMsg {
				t.Errorf("Message = %q, want %q", Message(err), tt.wantMsg)
			}
		})
	}
}

func TestNewValidator_Defaults(t *testing.T) {
	v := NewValidator(model.ValidationConfig{})

	if v.MinChars() != 50 || v.MaxChars() != 10000 {
		t.Errorf("Expected defaults 50/10000, got %d/%d", v.MinChars(), v.MaxChars())
	}
}

func TestValidator_CustomBounds(t *testing.T) {
	v := NewValidator(model.ValidationConfig{MinChars: 10, MaxChars: 20})

	if _, err := v.Validate("0123456789"); err != nil {
		t.Errorf("Expected 10 characters to pass, got %v", err)
	}
	_, err := v.Validate(strings.Repeat("x", 21))
	if !errors.Is(err, ErrTooLong) {
		t.Fatalf("Expected ErrTooLong, got %v", err)
	}
	if Message(err) != "A notícia é muito longa. Limite: 20 caracteres." {
		t.Errorf("Unexpected message %q", Message(err))
	}
}

func TestValidator_Truncate(t *testing.T) {
	v := NewValidator(model.ValidationConfig{MinChars: 5, MaxChars: 10})

	got, cut := v.Truncate("çççççççççççççç")
	if !cut {
		t.Error("Expected text to be truncated")
	}
	if utf8.RuneCountInString(got) != 10 {
		t.Errorf("Expected 10 characters, got %d", utf8.RuneCountInString(got))
	}

	got, cut = v.Truncate("  curto  ")
	if cut || got != "curto" {
		t.Errorf("Expected untouched trimmed text, got %q (cut=%v)", got, cut)
	}
}

func TestValidator_CountsComposedCharacters(t *testing.T) {
	v := NewValidator(model.ValidationConfig{})

	// "e" + combining acute is one character once composed
	short := strings.Repeat("e\u0301", 25)
	_, err := v.Validate(short)
	if !errors.Is(err, ErrTooShort) {
		t.Fatalf("Expected ErrTooShort for 25 composed characters, got %v", err)
	}
	var verr *Error
	if !errors.As(err, &verr) || verr.Length != 25 {
		t.Errorf("Expected length 25, got %+v", verr)
	}

	got, err := v.Validate(strings.Repeat("e\u0301", 50))
	if err != nil {
		t.Fatalf("Expected 50 composed characters to pass, got %v", err)
	}
	if got != strings.Repeat("é", 50) {
		t.Errorf("Expected the NFC form to be returned, got %q", got)
	}
	if utf8.RuneCountInString(got) != 50 {
		t.Errorf("Expected 50 characters, got %d", utf8.RuneCountInString(got))
	}
}

func TestValidator_TruncateComposes(t *testing.T) {
	v := NewValidator(model.ValidationConfig{MinChars: 5, MaxChars: 10})

	got, cut := v.Truncate(strings.Repeat("e\u0301", 10))
	if cut {
		t.Error("Expected 10 composed characters to fit")
	}
	if got != strings.Repeat("é", 10) {
		t.Errorf("Expected composed text, got %q", got)
	}
}

func TestMessage_PlainError(t *testing.T) {
	err := fmt.Errorf("boom")
	if Message(err) != "boom" {
		t.Errorf("Expected plain error text, got %q", Message(err))
	}
}
