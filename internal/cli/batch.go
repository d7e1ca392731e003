package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/pipeline"
	"github.com/ppiankov/verinex/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check many texts or URLs from a file in parallel",
	Long: `Batch checks every line of a file concurrently:
- Lines starting with http:// or https:// are fetched as articles
- Any other line is checked as text
- Blank lines and lines starting with # are skipped
- A JSON and Markdown report is written for each entry

Example:
  verinex batch noticias.txt
  verinex batch noticias.txt --concurrency 8 --output-dir ./relatorios`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./verinex-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 10*time.Minute, "total timeout for the batch")
	addFetchFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFetchFlags(cfg)
	if cmd.Flags().Changed("timeout") {
		cfg.HTTP.Timeout = timeout
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  VERINEX Batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	entries, err := worker.ReadEntriesFromFile(file)
	if err != nil {
		return fmt.Errorf("read entries: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d entries\n", len(entries))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, pipeline.WithScheduler(pipeline.NoDelay{}))
	renderer := pipeline.NewRenderer()

	fmt.Fprintf(os.Stderr, "⚙️  Checking with %d workers...\n\n", cfg.Concurrency.Workers)

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize).
		OnResult(func(res *worker.CheckResult) {
			if res.Error != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Entry.Label(), res.Error)
				return
			}
			a := res.Report.Analysis
			fmt.Fprintf(os.Stderr, "✓ %s (%d%%, %s)\n", res.Entry.Label(), a.FinalPercentage, a.Verdict.Label)
		})
	results := processor.Process(ctx, entries)

	for _, res := range results {
		if res.Error != nil {
			continue
		}
		base := filepath.Join(outputDir, reportName(res.Entry.Index, res.Report))
		if err := renderer.RenderJSON(res.Report, base+".json"); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", res.Entry.Label(), err)
			continue
		}
		if err := renderer.RenderMarkdown(res.Report, base+".md"); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", res.Entry.Label(), err)
		}
	}

	summary := worker.Summarize(results)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d entries\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", summary.Failed)
	for _, level := range []model.VeracityLevel{model.LevelLow, model.LevelMediumLow, model.LevelMedium, model.LevelHigh, model.LevelVeryHigh} {
		fmt.Fprintf(os.Stderr, "  %-10s %d\n", string(level)+":", summary.ByLevel[level])
	}
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted, %d of %d entries failed: %w", summary.Failed, len(entries), err)
	}
	return nil
}

// reportName builds a file name from the entry position and its subject
func reportName(index int, report *model.Report) string {
	return fmt.Sprintf("%03d-%s", index+1, sanitizeFilename(report.Subject))
}

var filenameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
)

// sanitizeFilename makes s safe to use as a file name
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".-_")

	runes := []rune(s)
	if len(runes) > 60 {
		runes = runes[:60]
	}
	if len(runes) == 0 {
		return "report"
	}
	return string(runes)
}
