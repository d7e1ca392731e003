package share

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/verinex/internal/model"
)

func TestText(t *testing.T) {
	got := Text(64, "A notícia parece ter fundamento.")
	want := "Verifiquei uma notícia no VERINEX: 64% de confiança. A notícia parece ter fundamento."
	if got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestSharer_WebhookSuccess(t *testing.T) {
	var received Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var clip bytes.Buffer
	s := NewSharer(NewWebhook(server.URL), Clipboard{W: &clip})

	a := model.Analysis{FinalPercentage: 80, Verdict: model.Verdict{Description: "Ok."}}
	out := s.Share(context.Background(), NewPayload(a, "https://verinex.example"))

	if out.Err != nil || out.Method != MethodWebhook {
		t.Fatalf("Expected webhook delivery, got %+v", out)
	}
	if received.Title != Title || received.URL != "https://verinex.example" {
		t.Errorf("Unexpected payload: %+v", received)
	}
	if clip.Len() != 0 {
		t.Error("Expected clipboard to stay untouched")
	}
}

func TestSharer_FallsBackToClipboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	var clip bytes.Buffer
	s := NewSharer(NewWebhook(server.URL), Clipboard{W: &clip})

	out := s.Share(context.Background(), Payload{Title: Title, Text: "resumo"})
	if out.Err != nil || out.Method != MethodClipboard {
		t.Fatalf("Expected clipboard fallback, got %+v", out)
	}
	if strings.TrimSpace(clip.String()) != "resumo" {
		t.Errorf("Expected share text on clipboard, got %q", clip.String())
	}
}

type failingTarget struct{}

func (failingTarget) Share(context.Context, Payload) error { return errors.New("denied") }

func TestSharer_ClipboardFailure(t *testing.T) {
	s := NewSharer(nil, failingTarget{})

	out := s.Share(context.Background(), Payload{Text: "x"})
	if out.Err == nil {
		t.Error("Expected clipboard failure to be reported")
	}
	if out.Method != MethodClipboard {
		t.Errorf("Expected clipboard method, got %s", out.Method)
	}
}
