package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/validate"
)

const sampleNews = "Segundo a universidade federal, o novo estudo sobre o consumo de água nas cidades mostra que houve queda de dez por cento em todo o último ano. Conforme dados do instituto, a economia veio de campanhas de conscientização."

func testPipeline() *Pipeline {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.HTTP.RespectRobots = false
	return NewPipeline(cfg, WithScheduler(NoDelay{}))
}

func TestPipeline_CheckText(t *testing.T) {
	p := testPipeline()

	var logs []model.LogEntry
	var revealed *model.Report
	report, err := p.CheckText(context.Background(), sampleNews, ObserverFuncs{
		Log:    func(e model.LogEntry) { logs = append(logs, e) },
		Result: func(r *model.Report) { revealed = r },
	})
	if err != nil {
		t.Fatalf("CheckText failed: %v", err)
	}

	if revealed != report {
		t.Error("Expected observer to receive the returned report")
	}
	if len(logs) == 0 || len(report.Log) != len(logs) {
		t.Errorf("Expected log entries recorded on report, got %d/%d", len(report.Log), len(logs))
	}
	if report.Analysis.TrustScore < 5 {
		t.Errorf("Expected strong trust score, got %d", report.Analysis.TrustScore)
	}
	if report.LanguageHint != "" {
		t.Errorf("Expected no language hint for Portuguese text, got %q", report.LanguageHint)
	}
	if !report.Principles.Deterministic {
		t.Error("Expected principles to be set")
	}
}

func TestPipeline_InvalidInputNeverScored(t *testing.T) {
	p := testPipeline()

	called := false
	_, err := p.CheckText(context.Background(), strings.Repeat("a", 49), ObserverFuncs{
		Log: func(model.LogEntry) { called = true },
	})
	if !errors.Is(err, validate.ErrTooShort) {
		t.Fatalf("Expected ErrTooShort, got %v", err)
	}
	if called {
		t.Error("Expected no analysis log for invalid input")
	}
}

func TestPipeline_LanguageHint(t *testing.T) {
	p := testPipeline()

	report, err := p.Analyze("The government announced a new program to support scientific research at federal universities today.")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.LanguageHint == "" {
		t.Error("Expected a language hint for English text")
	}
}

func TestPipeline_CheckURL(t *testing.T) {
	long := strings.Repeat("Segundo a universidade, a obra da ponte vai terminar em maio. ", 200)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprintf(w, "<html><head><title>Obra da ponte</title><script>var x=1;</script></head><body><p>%s</p></body></html>", long)
	}))
	defer server.Close()

	p := testPipeline()
	report, err := p.CheckURL(context.Background(), server.URL+"/cidades/obra-da-ponte", nil)
	if err != nil {
		t.Fatalf("CheckURL failed: %v", err)
	}

	if report.Subject != "Obra da ponte" {
		t.Errorf("Expected page title as subject, got %q", report.Subject)
	}
	if report.FetchMeta == nil || !report.FetchMeta.Truncated {
		t.Error("Expected long page text to be truncated")
	}
	if n := report.Analysis.TextLength; n > 10000 || n < 9990 {
		t.Errorf("Expected text cut near 10000 characters, got %d", n)
	}
	if report.SourceURL == "" {
		t.Error("Expected source URL to be set")
	}
}

func TestPipeline_CheckURL_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "<html><body><script>only()</script></body></html>")
	}))
	defer server.Close()

	_, err := testPipeline().CheckURL(context.Background(), server.URL, nil)
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("Expected ErrNoText, got %v", err)
	}
}

func TestPipeline_CheckText_Cancelled(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := NewPipeline(cfg, WithScheduler(RealTime{}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.CheckText(ctx, sampleNews, ObserverFuncs{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
}

func TestPipeline_NoObserverSkipsPacing(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := NewPipeline(cfg, WithScheduler(RealTime{}))

	start := time.Now()
	report, err := p.CheckText(context.Background(), sampleNews, nil)
	if err != nil {
		t.Fatalf("CheckText failed: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Expected no pacing without an observer")
	}
	if len(report.Log) == 0 {
		t.Error("Expected the log to be recorded anyway")
	}
}

func TestSubjectFromText(t *testing.T) {
	if got := subjectFromText("curto\n  texto"); got != "curto texto" {
		t.Errorf("Expected whitespace collapsed, got %q", got)
	}
	long := strings.Repeat("palavra ", 20)
	if got := subjectFromText(long); !strings.HasSuffix(got, "...") || len([]rune(got)) != 63 {
		t.Errorf("Expected 60 characters plus ellipsis, got %q", got)
	}
}
