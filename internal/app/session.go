// Package app holds the per-user application state: the current result,
// preferences, the draft autosave and notifications.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ppiankov/verinex/internal/extract"
	"github.com/ppiankov/verinex/internal/logging"
	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/notify"
	"github.com/ppiankov/verinex/internal/pipeline"
	"github.com/ppiankov/verinex/internal/prefs"
	"github.com/ppiankov/verinex/internal/share"
	"github.com/ppiankov/verinex/internal/telemetry"
	"github.com/ppiankov/verinex/internal/validate"
)

// ErrBusy is returned when an analysis is already running for the session
var ErrBusy = errors.New("an analysis is already running")

// User-facing messages
const (
	MsgAnalysisDone  = "Análise concluída! Resultado disponível abaixo."
	MsgReady         = "Pronto para nova análise!"
	MsgNothingShared = "Nenhum resultado para compartilhar."
	MsgCopied        = "Resultado copiado para a área de transferência!"
	MsgCopyFailed    = "Não foi possível copiar o resultado."
	MsgDraftRestored = "Texto anterior recuperado."
	MsgExampleLoaded = "Exemplo carregado! Clique em \"Verificar\" para analisar."
	MsgLimitReached  = "Limite de 10.000 caracteres atingido."
)

// Deps are the collaborators a session uses. Store, Telemetry and Sharer
// may be nil.
type Deps struct {
	Pipeline  *pipeline.Pipeline
	Store     prefs.Store
	Telemetry telemetry.Collector
	Sharer    *share.Sharer
	Listeners []notify.Listener
}

// Session is one user's view of the application.
// At most one analysis runs per session at a time.
type Session struct {
	id        string
	config    *model.Config
	pipeline  *pipeline.Pipeline
	prefs     *prefs.Preferences
	drafts    *prefs.DraftSaver
	notices   *notify.Center
	telemetry telemetry.Collector
	sharer    *share.Sharer

	running atomic.Bool

	mu   sync.RWMutex
	last *model.Report
}

// NewSession creates a session with a fresh id
func NewSession(cfg *model.Config, deps Deps) *Session {
	return NewSessionWithID(uuid.NewString(), cfg, deps)
}

// NewSessionWithID creates a session for a known id
func NewSessionWithID(id string, cfg *model.Config, deps Deps) *Session {
	if deps.Pipeline == nil {
		deps.Pipeline = pipeline.NewPipeline(cfg)
	}
	if deps.Store == nil {
		deps.Store = prefs.NewMemoryStore()
	}
	if deps.Telemetry == nil {
		deps.Telemetry = telemetry.Nop{}
	}
	if deps.Sharer == nil {
		deps.Sharer = share.NewSharer(nil, nil)
	}

	s := &Session{
		id:        id,
		config:    cfg,
		pipeline:  deps.Pipeline,
		prefs:     prefs.NewPreferences(deps.Store, cfg.Store.DefaultTheme),
		notices:   notify.NewCenter(notify.DefaultTTL, deps.Listeners...),
		telemetry: deps.Telemetry,
		sharer:    deps.Sharer,
	}
	s.drafts = prefs.NewDraftSaver(s.prefs, cfg.Analysis.DraftDebounce, cfg.Analysis.DraftMinChars, func(err error) {
		logging.Named("app").Warn().Err(err).Str("session", id).Msg("draft save failed")
	})
	return s
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// Notifications returns the session's notification center
func (s *Session) Notifications() *notify.Center { return s.notices }

// Busy reports whether an analysis is running
func (s *Session) Busy() bool { return s.running.Load() }

// Last returns the most recent result, or nil
func (s *Session) Last() *model.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Verify validates and analyzes text, playing the staged log to obs.
// Invalid text shows an error notification and is never scored.
func (s *Session) Verify(ctx context.Context, text string, obs pipeline.Observer) (*model.Report, error) {
	trimmed := strings.TrimSpace(text)
	s.telemetry.Track(telemetry.ActionVerify, map[string]interface{}{
		"text_length": utf8.RuneCountInString(trimmed),
	})

	if _, err := s.pipeline.Validator().Validate(trimmed); err != nil {
		s.notices.Show(notify.KindError, validate.Message(err))
		return nil, err
	}

	return s.run(ctx, func(ctx context.Context) (*model.Report, error) {
		return s.pipeline.CheckText(ctx, trimmed, obs)
	})
}

// VerifyURL fetches an article and analyzes its text
func (s *Session) VerifyURL(ctx context.Context, rawURL string, obs pipeline.Observer) (*model.Report, error) {
	s.telemetry.Track(telemetry.ActionVerify, map[string]interface{}{"url": rawURL})

	report, err := s.run(ctx, func(ctx context.Context) (*model.Report, error) {
		return s.pipeline.CheckURL(ctx, rawURL, obs)
	})
	if err != nil && !errors.Is(err, ErrBusy) && ctx.Err() == nil {
		s.notices.Show(notify.KindError, validate.Message(err))
	}
	return report, err
}

func (s *Session) run(ctx context.Context, check func(context.Context) (*model.Report, error)) (*model.Report, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.running.Store(false)

	report, err := check(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	s.notices.Show(notify.KindSuccess, MsgAnalysisDone)
	logging.C(ctx).Info().
		Str("session", s.id).
		Int("percentage", report.Analysis.FinalPercentage).
		Str("level", string(report.Analysis.Verdict.Level)).
		Msg("analysis complete")
	return report, nil
}

// NewCheck clears the result and the saved draft
func (s *Session) NewCheck() error {
	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()

	s.drafts.Cancel()
	err := s.prefs.ClearLastText()

	s.notices.Show(notify.KindInfo, MsgReady)
	s.telemetry.Track(telemetry.ActionNewCheck, nil)
	if err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

// Share sends the last result to the share target, falling back to the
// clipboard. Failing to share is reported through notifications only.
func (s *Session) Share(ctx context.Context) (share.Outcome, bool) {
	last := s.Last()

	percentage := 0
	if last != nil {
		percentage = last.Analysis.FinalPercentage
	}
	s.telemetry.Track(telemetry.ActionShare, map[string]interface{}{
		"percentage": fmt.Sprintf("%d%%", percentage),
	})

	if last == nil {
		s.notices.Show(notify.KindWarning, MsgNothingShared)
		return share.Outcome{}, false
	}

	out := s.sharer.Share(ctx, share.NewPayload(last.Analysis, s.config.Share.PageURL))
	switch {
	case out.Err != nil:
		logging.C(ctx).Warn().Err(out.Err).Str("session", s.id).Msg("share failed")
		s.notices.Show(notify.KindError, MsgCopyFailed)
	case out.Method == share.MethodClipboard:
		s.notices.Show(notify.KindSuccess, MsgCopied)
	}
	return out, true
}

// Theme returns the current theme
func (s *Session) Theme() prefs.Theme { return s.prefs.Theme() }

// SetTheme stores a theme
func (s *Session) SetTheme(t prefs.Theme) error { return s.prefs.SetTheme(t) }

// ToggleTheme flips between light and dark
func (s *Session) ToggleTheme() (prefs.Theme, error) { return s.prefs.ToggleTheme() }

// SaveDraft schedules the input text for autosave
func (s *Session) SaveDraft(text string) {
	s.drafts.Touch(text)
}

// FlushDraft writes a pending draft now
func (s *Session) FlushDraft() {
	s.drafts.Flush()
}

// RestoreDraft returns the saved draft, if any
func (s *Session) RestoreDraft() (string, bool) {
	text, ok := s.prefs.LastText()
	if !ok || text == "" {
		return "", false
	}
	s.notices.Show(notify.KindInfo, MsgDraftRestored)
	return text, true
}

// LoadExample returns quick example i
func (s *Session) LoadExample(i int) (Example, error) {
	ex, err := ExampleAt(i)
	if err != nil {
		return Example{}, err
	}
	s.notices.Show(notify.KindInfo, MsgExampleLoaded)
	return ex, nil
}

// LanguageHint shows an info notification when text does not look Portuguese
func (s *Session) LanguageHint(text string) (string, bool) {
	hint, ok := extract.LanguageHint(text)
	if ok {
		s.notices.Show(notify.KindInfo, hint)
	}
	return hint, ok
}

// LimitReached warns when text is at or over the maximum length
func (s *Session) LimitReached(text string) bool {
	if utf8.RuneCountInString(text) < s.pipeline.Validator().MaxChars() {
		return false
	}
	s.notices.Show(notify.KindWarning, MsgLimitReached)
	return true
}

// Close writes any pending draft
func (s *Session) Close() {
	s.drafts.Flush()
}
