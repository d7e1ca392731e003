package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/pipeline"
)

var (
	inFile      string
	inURL       string
	outJSON     string
	outMD       string
	fast        bool
	shareResult bool
	timeout     time.Duration
	userAgent   string
	noCache     bool
	insecureTLS bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Check a news text or article URL",
	Long: `Check scores a piece of news from 0 to 100:
- Validates the length (50 to 10.000 characters)
- Looks for sensationalist and attribution markers
- Plays the analysis log, then prints the verdict and recommendations

Text can be passed as arguments, read from --file (or "-" for stdin), piped
on stdin, or fetched from an article with --url.

Example:
  verinex check "Segundo pesquisa publicada pela universidade..."
  verinex check --file noticia.txt --json report.json --md report.md
  verinex check --url https://g1.globo.com/... --fast
  pbpaste | verinex check --json -`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&inFile, "file", "f", "", "read the text from a file (\"-\" for stdin)")
	checkCmd.Flags().StringVar(&inURL, "url", "", "fetch and check an article URL")
	checkCmd.Flags().StringVar(&outJSON, "json", "", "write the JSON report to this path (\"-\" for stdout)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "write the Markdown report to this path (\"-\" for stdout)")
	checkCmd.Flags().BoolVar(&fast, "fast", false, "skip the paced analysis log")
	checkCmd.Flags().BoolVar(&shareResult, "share", false, "share the result (webhook if configured, else print it)")
	addFetchFlags(checkCmd)
}

// addFetchFlags registers the URL fetching flags shared by check and batch
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	cmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent for --url (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	cmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
}

func applyFetchFlags(cfg *model.Config) {
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if insecureTLS {
		cfg.HTTP.InsecureTLS = true
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFetchFlags(cfg)

	var text string
	if inURL == "" {
		text, err = readInput(args, inFile, os.Stdin)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// JSON on stdout is for machines: no paced log
	quiet := outJSON == "-" || outMD == "-"
	s, closeSession := newSession(cfg, fast || quiet)
	defer closeSession()

	var obs pipeline.Observer
	if !quiet {
		obs = pipeline.ObserverFuncs{
			Log: func(e model.LogEntry) {
				fmt.Fprintln(os.Stderr, pipeline.FormatLogEntry(e))
			},
		}
	}

	var report *model.Report
	if inURL != "" {
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Fetching %s...\n", inURL)
		}
		report, err = s.VerifyURL(ctx, inURL, obs)
	} else {
		s.LanguageHint(text)
		report, err = s.Verify(ctx, text, obs)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	renderer := pipeline.NewRenderer()
	if outJSON == "" && outMD == "" {
		renderer.RenderSummary(os.Stdout, report)
	}
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if outJSON != "-" {
			fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if outMD != "-" {
			fmt.Fprintf(os.Stderr, "✓ Markdown report: %s\n", outMD)
		}
	}

	if shareResult {
		s.Share(ctx)
	}
	return nil
}
