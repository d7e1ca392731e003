package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/verinex/internal/server"
	"github.com/ppiankov/verinex/internal/telemetry"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the verification page and JSON API",
	Long: `Serve starts the web front end:
- GET /            verification page
- POST /api/verify JSON analysis
- GET /api/verify/stream WebSocket with the paced analysis log

Example:
  verinex serve
  verinex serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := telemetry.New(cfg.Telemetry)
	defer func() { _ = collector.Close() }()

	srv := server.New(cfg, server.Options{
		Telemetry: collector,
		Version:   version,
	})

	fmt.Fprintf(os.Stderr, "✓ VERINEX listening on %s\n", cfg.Server.Addr)
	return srv.Run(ctx)
}
