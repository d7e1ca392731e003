// Package share publishes a one-line summary of a verification result.
package share

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/verinex/internal/model"
)

// Title is attached to shared results
const Title = "Resultado da Verificação - VERINEX"

// Method names how a result was shared
type Method string

const (
	MethodWebhook   Method = "webhook"
	MethodClipboard Method = "clipboard"
)

// Payload is what gets shared
type Payload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url,omitempty"`
}

// Outcome reports how the payload was delivered
type Outcome struct {
	Method Method `json:"method"`
	Text   string `json:"text"`
	Err    error  `json:"-"`
}

// Text builds the share line from a percentage and verdict description
func Text(percentage int, description string) string {
	return fmt.Sprintf("Verifiquei uma notícia no VERINEX: %d%% de confiança. %s", percentage, description)
}

// NewPayload builds the payload for an analysis
func NewPayload(a model.Analysis, pageURL string) Payload {
	return Payload{
		Title: Title,
		Text:  Text(a.FinalPercentage, a.Verdict.Description),
		URL:   pageURL,
	}
}

// Target delivers a payload somewhere
type Target interface {
	Share(ctx context.Context, p Payload) error
}

// Webhook posts the payload as JSON
type Webhook struct {
	URL    string
	Client *http.Client
}

// NewWebhook creates a webhook target with a short timeout
func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: 5 * time.Second}}
}

func (w *Webhook) Share(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("share webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// Clipboard writes the share text to w (a terminal, or a buffer the
// browser copies from)
type Clipboard struct {
	W io.Writer
}

func (c Clipboard) Share(_ context.Context, p Payload) error {
	if c.W == nil {
		return errors.New("no clipboard available")
	}
	_, err := fmt.Fprintln(c.W, p.Text)
	return err
}

// Sharer tries the primary target and falls back to the clipboard on failure
type Sharer struct {
	primary   Target
	clipboard Target
}

// NewSharer creates a sharer. primary may be nil.
func NewSharer(primary Target, clipboard Target) *Sharer {
	return &Sharer{primary: primary, clipboard: clipboard}
}

// Share delivers p. A non-nil Outcome.Err means even the clipboard failed.
func (s *Sharer) Share(ctx context.Context, p Payload) Outcome {
	if s.primary != nil {
		if err := s.primary.Share(ctx, p); err == nil {
			return Outcome{Method: MethodWebhook, Text: p.Text}
		}
	}

	out := Outcome{Method: MethodClipboard, Text: p.Text}
	if s.clipboard == nil {
		out.Err = errors.New("no clipboard available")
		return out
	}
	out.Err = s.clipboard.Share(ctx, p)
	return out
}
