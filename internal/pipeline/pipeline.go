package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/verinex/internal/extract"
	"github.com/ppiankov/verinex/internal/logging"
	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/score"
	"github.com/ppiankov/verinex/internal/validate"
)

// ErrNoText is returned when a fetched page has no readable text
var ErrNoText = errors.New("page has no readable text")

// Pipeline validates, scores and presents one text at a time.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	fetcher   *Fetcher
	validator *validate.Validator
	scorer    *score.Scorer
	scheduler Scheduler
	renderer  *Renderer
	config    *model.Config
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithScheduler replaces the pacing scheduler
func WithScheduler(s Scheduler) Option {
	return func(p *Pipeline) { p.scheduler = s }
}

// WithFetcher replaces the URL fetcher
func WithFetcher(f *Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// NewPipeline creates a pipeline from cfg
func NewPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	var sched Scheduler = RealTime{}
	if !cfg.Analysis.Paced {
		sched = NoDelay{}
	}

	p := &Pipeline{
		validator: validate.NewValidator(cfg.Validation),
		scorer:    score.NewScorer(),
		scheduler: sched,
		renderer:  NewRenderer(),
		config:    cfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fetcher == nil {
		p.fetcher = NewFetcherFromConfig(cfg)
	}
	return p
}

// Validator exposes the input validator
func (p *Pipeline) Validator() *validate.Validator {
	return p.validator
}

// Analyze validates and scores text without any presentation.
// Invalid input returns a *validate.Error and the scorer never runs.
func (p *Pipeline) Analyze(text string) (*model.Report, error) {
	trimmed, err := p.validator.Validate(text)
	if err != nil {
		return nil, err
	}
	return p.newReport(trimmed), nil
}

// CheckText validates and scores text, then plays the staged log to obs.
// obs may be nil.
func (p *Pipeline) CheckText(ctx context.Context, text string, obs Observer) (*model.Report, error) {
	report, err := p.Analyze(text)
	if err != nil {
		return nil, err
	}

	if err := p.play(ctx, report, obs); err != nil {
		return nil, err
	}
	return report, nil
}

// CheckURL fetches an article, extracts its visible text and checks it.
// Text beyond the maximum length is cut rather than rejected.
func (p *Pipeline) CheckURL(ctx context.Context, rawURL string, obs Observer) (*model.Report, error) {
	log := logging.C(ctx)

	fetched, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	log.Debug().Str("url", fetched.FinalURL).Bool("from_cache", fetched.Meta.FromCache).Msg("page fetched")

	page, err := extract.VisibleText(fetched.HTML)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if page.Text == "" {
		return nil, ErrNoText
	}

	text, truncated := p.validator.Truncate(page.Text)
	trimmed, err := p.validator.Validate(text)
	if err != nil {
		return nil, err
	}

	report := p.newReport(trimmed)
	report.SourceURL = fetched.FinalURL
	report.Subject = fetched.Subject
	if page.Title != "" {
		report.Subject = page.Title
	}
	meta := fetched.Meta
	meta.Truncated = truncated
	report.FetchMeta = &meta

	if err := p.play(ctx, report, obs); err != nil {
		return nil, err
	}
	return report, nil
}

// RenderReport writes the report to the requested files
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
	}
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
	}
	return nil
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

func (p *Pipeline) newReport(text string) *model.Report {
	return &model.Report{
		Subject:      subjectFromText(text),
		AnalyzedAt:   time.Now().UTC(),
		Analysis:     p.scorer.Analyze(text),
		LanguageHint: languageHint(text),
		Principles:   model.DefaultPrinciples(),
	}
}

// play presents the stages. Without an observer nobody sees the pacing,
// so it runs without delays.
func (p *Pipeline) play(ctx context.Context, report *model.Report, obs Observer) error {
	sched := p.scheduler
	if obs == nil {
		sched = NoDelay{}
	}
	return Play(ctx, Stages(report.Analysis), sched, report, obs)
}

// subjectFromText uses the first few words of the text as its subject
func subjectFromText(text string) string {
	const maxRunes = 60
	runes := []rune(strings.Join(strings.Fields(text), " "))
	if len(runes) <= maxRunes {
		return string(runes)
	}
	return string(runes[:maxRunes]) + "..."
}
