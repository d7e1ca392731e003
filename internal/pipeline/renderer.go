package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/verinex/internal/model"
)

const banner = "═══════════════════════════════════════════════════════════"

// Renderer writes reports as JSON, Markdown or a terminal summary
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the report as indented JSON to path ("-" for stdout)
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeTo(path, func(w io.Writer) error {
		return r.WriteJSON(w, report)
	})
}

// WriteJSON writes the report as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// RenderMarkdown writes the report as Markdown to path ("-" for stdout)
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeTo(path, func(w io.Writer) error {
		_, err := io.WriteString(w, r.Markdown(report))
		return err
	})
}

// Markdown formats the report
func (r *Renderer) Markdown(report *model.Report) string {
	a := report.Analysis
	var b strings.Builder

	fmt.Fprintf(&b, "# VERINEX: %s\n\n", report.Subject)
	if report.SourceURL != "" {
		fmt.Fprintf(&b, "Fonte: <%s>\n\n", report.SourceURL)
	}
	fmt.Fprintf(&b, "Analisado em: %s\n\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(&b, "## %d%% · %s\n\n", a.FinalPercentage, a.Verdict.Label)
	fmt.Fprintf(&b, "%s\n\n", a.Verdict.Description)

	b.WriteString("## Detalhes\n\n")
	b.WriteString("| Métrica | Valor |\n|---|---|\n")
	fmt.Fprintf(&b, "| Palavras analisadas | %d |\n", a.TotalWordCount)
	fmt.Fprintf(&b, "| Palavras significativas | %d |\n", a.MeaningfulWordCount)
	fmt.Fprintf(&b, "| Score Fake Indicators | %d/10 |\n", a.FakeScore)
	fmt.Fprintf(&b, "| Score Trust Indicators | %d/10 |\n", a.TrustScore)
	fmt.Fprintf(&b, "| Diversidade lexical (TF-IDF) | %.2f/10 |\n", a.TFIDFScore)
	fmt.Fprintf(&b, "| Confiança do modelo | %d%% |\n\n", a.ModelConfidence)

	if len(a.FakeMatches) > 0 {
		fmt.Fprintf(&b, "Indicadores de fake news: %s\n\n", strings.Join(a.FakeMatches, ", "))
	}
	if len(a.TrustMatches) > 0 {
		fmt.Fprintf(&b, "Indicadores de confiança: %s\n\n", strings.Join(a.TrustMatches, ", "))
	}

	b.WriteString("## Recomendações\n\n")
	for _, rec := range a.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	b.WriteString("\n")

	b.WriteString("## Sinais\n\n")
	for _, s := range a.Signals {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", s.Type, s.Severity, s.Description)
		if formula, ok := s.Data["formula"].(string); ok {
			fmt.Fprintf(&b, "  - `%s`\n", formula)
		}
	}
	b.WriteString("\n")

	if report.LanguageHint != "" {
		fmt.Fprintf(&b, "> %s\n\n", report.LanguageHint)
	}

	b.WriteString("---\n\n")
	b.WriteString("_A porcentagem é uma heurística de palavras-chave, não uma probabilidade calibrada de veracidade._\n")

	return b.String()
}

// RenderSummary prints a short human-readable summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	a := report.Analysis

	fmt.Fprintln(w)
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "  %d%%  %s\n", a.FinalPercentage, a.Verdict.Label)
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n\n", a.Verdict.Description)
	fmt.Fprintf(w, "  Palavras analisadas:      %d\n", a.TotalWordCount)
	fmt.Fprintf(w, "  Palavras significativas:  %d\n", a.MeaningfulWordCount)
	fmt.Fprintf(w, "  Score Fake Indicators:    %d/10\n", a.FakeScore)
	fmt.Fprintf(w, "  Score Trust Indicators:   %d/10\n", a.TrustScore)
	fmt.Fprintf(w, "  Confiança do modelo:      %d%%\n", a.ModelConfidence)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Recomendações:")
	for _, rec := range a.Recommendations {
		fmt.Fprintf(w, "    • %s\n", rec)
	}
	if report.FetchMeta != nil && report.FetchMeta.Truncated {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  ⚠️  Texto da página cortado no limite de caracteres")
	}
	fmt.Fprintln(w)
}

// FormatLogEntry renders one analysis log line for a terminal
func FormatLogEntry(e model.LogEntry) string {
	return fmt.Sprintf("[%s] %s", e.At.Format("15:04"), e.Message)
}

func writeTo(path string, write func(io.Writer) error) (err error) {
	if path == "-" {
		return write(os.Stdout)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return write(f)
}
