package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/verinex/internal/app"
	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/notify"
	"github.com/ppiankov/verinex/internal/pipeline"
	"github.com/ppiankov/verinex/internal/prefs"
	"github.com/ppiankov/verinex/internal/share"
	"github.com/ppiankov/verinex/internal/telemetry"
)

// cliSessionID keys terminal preferences in the store
const cliSessionID = "cli"

// newSession builds the terminal session: disk-backed preferences,
// notifications on stderr and the clipboard fallback on stdout
func newSession(cfg *model.Config, fast bool) (*app.Session, func()) {
	var opts []pipeline.Option
	if fast || !cfg.Analysis.Paced {
		opts = append(opts, pipeline.WithScheduler(pipeline.NoDelay{}))
	}

	var primary share.Target
	if cfg.Share.WebhookURL != "" {
		primary = share.NewWebhook(cfg.Share.WebhookURL)
	}

	collector := telemetry.New(cfg.Telemetry)
	s := app.NewSessionWithID(cliSessionID, cfg, app.Deps{
		Pipeline:  pipeline.NewPipeline(cfg, opts...),
		Store:     prefs.NewDiskStore(cfg.Store.Dir),
		Telemetry: collector,
		Sharer:    share.NewSharer(primary, share.Clipboard{W: os.Stdout}),
		Listeners: []notify.Listener{printNotification(os.Stderr)},
	})

	return s, func() {
		s.Close()
		_ = collector.Close()
	}
}

func printNotification(w io.Writer) notify.Listener {
	return func(n notify.Notification) {
		fmt.Fprintf(w, "%s %s\n", noticeGlyph(n.Kind), n.Message)
	}
}

func noticeGlyph(kind notify.Kind) string {
	switch kind {
	case notify.KindSuccess:
		return "✓"
	case notify.KindError:
		return "✗"
	case notify.KindWarning:
		return "⚠️ "
	default:
		return "ℹ️ "
	}
}

// readInput returns the text to check from args, a file ("-" for stdin)
// or piped stdin
func readInput(args []string, file string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if file != "" {
		if file == "-" {
			return readAll(stdin)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return string(data), nil
	}

	if info, err := stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice == 0 {
		return readAll(stdin)
	}
	return "", fmt.Errorf("no text given: pass it as an argument, with --file, --url or on stdin")
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
