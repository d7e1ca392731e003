package validate

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ppiankov/verinex/internal/extract"
	"github.com/ppiankov/verinex/internal/model"
)

// Sentinel errors for each rejection reason, usable with errors.Is
var (
	ErrEmpty    = errors.New("empty text")
	ErrTooShort = errors.New("text too short")
	ErrTooLong  = errors.New("text too long")
)

// Error is a rejected input. Message is the user-facing Portuguese text.
type Error struct {
	Kind    error
	Message string
	Length  int
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Validator bounds input length before any scoring runs
type Validator struct {
	minChars int
	maxChars int
	printer  *message.Printer
}

// NewValidator creates a validator. Non-positive bounds fall back to the defaults.
func NewValidator(cfg model.ValidationConfig) *Validator {
	defaults := model.DefaultConfig().Validation
	if cfg.MinChars <= 0 {
		cfg.MinChars = defaults.MinChars
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = defaults.MaxChars
	}

	return &Validator{
		minChars: cfg.MinChars,
		maxChars: cfg.MaxChars,
		printer:  message.NewPrinter(language.BrazilianPortuguese),
	}
}

// MinChars returns the minimum accepted length
func (v *Validator) MinChars() int { return v.minChars }

// MaxChars returns the maximum accepted length
func (v *Validator) MaxChars() int { return v.maxChars }

// Validate trims surrounding whitespace and checks the length in characters
// of the NFC form, the same length the scorer sees.
// It returns the normalized, trimmed text that should be analyzed.
func (v *Validator) Validate(text string) (string, error) {
	trimmed := strings.TrimSpace(extract.Normalize(text))
	length := utf8.RuneCountInString(trimmed)

	switch {
	case length == 0:
		return "", &Error{
			Kind:    ErrEmpty,
			Message: "Por favor, insira uma notícia para verificar.",
		}
	case length < v.minChars:
		return "", &Error{
			Kind:    ErrTooShort,
			Message: v.printer.Sprintf("A notícia precisa ter pelo menos %d caracteres para análise precisa.", v.minChars),
			Length:  length,
		}
	case length > v.maxChars:
		return "", &Error{
			Kind:    ErrTooLong,
			Message: v.printer.Sprintf("A notícia é muito longa. Limite: %d caracteres.", v.maxChars),
			Length:  length,
		}
	}

	return trimmed, nil
}

// Truncate cuts text to the maximum length, reporting whether it was cut.
// Used for fetched articles, which the reader cannot shorten by hand.
func (v *Validator) Truncate(text string) (string, bool) {
	text = strings.TrimSpace(extract.Normalize(text))
	if utf8.RuneCountInString(text) <= v.maxChars {
		return text, false
	}

	runes := []rune(text)
	return strings.TrimSpace(string(runes[:v.maxChars])), true
}

// Message returns the user-facing text of a validation error, or err.Error()
func Message(err error) string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
