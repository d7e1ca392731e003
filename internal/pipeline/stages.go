package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/verinex/internal/extract"
	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/score"
)

// Pacing of the analysis log. None of it affects the result.
const (
	logLinePause   = 300 * time.Millisecond
	tokenizeDelay  = 800 * time.Millisecond
	stopwordDelay  = 600 * time.Millisecond
	patternDelay   = 800 * time.Millisecond
	diversityDelay = 1000 * time.Millisecond
	classifyDelay  = 1200 * time.Millisecond
	reportDelay    = 600 * time.Millisecond
)

// Stage is one step of the staged analysis presentation.
// A stage either logs a line or, when Reveal is set, marks the moment the
// result becomes visible. Pause follows the log line; Delay then simulates work.
type Stage struct {
	Kind    model.LogKind
	Message string
	Pause   time.Duration
	Delay   time.Duration
	Reveal  bool
}

// Stages builds the presentation sequence for an already computed analysis.
// Indicator lines appear only when terms matched and list at most three.
func Stages(a model.Analysis) []Stage {
	stages := []Stage{
		{Kind: model.LogInfo, Message: "🔍 Iniciando análise do texto...", Pause: logLinePause, Delay: tokenizeDelay},
		{Kind: model.LogInfo, Message: fmt.Sprintf("📊 %d palavras identificadas", a.TotalWordCount), Pause: logLinePause},
		{Kind: model.LogProcess, Message: "🧹 Removendo stopwords...", Pause: logLinePause, Delay: stopwordDelay},
		{Kind: model.LogSuccess, Message: fmt.Sprintf("✅ %d palavras significativas", a.MeaningfulWordCount), Pause: logLinePause},
		{Kind: model.LogProcess, Message: "🔬 Analisando padrões linguísticos...", Pause: logLinePause, Delay: patternDelay},
	}

	if len(a.FakeMatches) > 0 {
		stages = append(stages, Stage{
			Kind:    model.LogWarning,
			Message: "⚠️ Indicadores de fake news encontrados: " + strings.Join(score.Displayed(a.FakeMatches), ", "),
		})
	}
	if len(a.TrustMatches) > 0 {
		stages = append(stages, Stage{
			Kind:    model.LogSuccess,
			Message: "✅ Indicadores de confiança encontrados: " + strings.Join(score.Displayed(a.TrustMatches), ", "),
		})
	}

	return append(stages,
		Stage{Kind: model.LogProcess, Message: "🧮 Calculando importância dos termos (TF-IDF)...", Pause: logLinePause, Delay: diversityDelay},
		Stage{Kind: model.LogProcess, Message: "🤖 Aplicando modelo de classificação...", Pause: logLinePause, Delay: classifyDelay},
		Stage{Kind: model.LogProcess, Message: "📈 Gerando relatório de análise...", Pause: logLinePause, Delay: reportDelay},
		Stage{Reveal: true},
		Stage{Kind: model.LogSuccess, Message: "🎉 Análise concluída com sucesso!", Pause: logLinePause},
	)
}

// TotalDelay is the wall time a paced run of stages takes
func TotalDelay(stages []Stage) time.Duration {
	var d time.Duration
	for _, s := range stages {
		d += s.Pause + s.Delay
	}
	return d
}

// Scheduler waits between stages
type Scheduler interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealTime sleeps for real, returning early when ctx is done
type RealTime struct{}

func (RealTime) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoDelay never waits; used by tests, --fast and batch runs
type NoDelay struct{}

func (NoDelay) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Observer receives the presentation as it is played
type Observer interface {
	OnLog(entry model.LogEntry)
	OnResult(report *model.Report)
}

// ObserverFuncs adapts plain functions to Observer; nil fields are skipped
type ObserverFuncs struct {
	Log    func(model.LogEntry)
	Result func(*model.Report)
}

func (o ObserverFuncs) OnLog(e model.LogEntry) {
	if o.Log != nil {
		o.Log(e)
	}
}

func (o ObserverFuncs) OnResult(r *model.Report) {
	if o.Result != nil {
		o.Result(r)
	}
}

// Play walks the stages, emitting log lines to obs and revealing report at
// the Reveal stage. The log is recorded on report as it goes. A cancelled
// ctx stops the presentation; the returned error is ctx.Err().
func Play(ctx context.Context, stages []Stage, sched Scheduler, report *model.Report, obs Observer) error {
	if obs == nil {
		obs = ObserverFuncs{}
	}

	for _, s := range stages {
		if s.Reveal {
			obs.OnResult(report)
		} else {
			entry := model.LogEntry{Kind: s.Kind, Message: s.Message, At: time.Now()}
			report.Log = append(report.Log, entry)
			obs.OnLog(entry)
		}

		if err := sched.Sleep(ctx, s.Pause); err != nil {
			return err
		}
		if err := sched.Sleep(ctx, s.Delay); err != nil {
			return err
		}
	}
	return nil
}

// languageHint wraps extract.LanguageHint for the report
func languageHint(text string) string {
	hint, _ := extract.LanguageHint(text)
	return hint
}
