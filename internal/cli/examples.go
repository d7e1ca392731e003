package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ppiankov/verinex/internal/app"
	"github.com/ppiankov/verinex/internal/pipeline"
)

// examplesCmd represents the examples command
var examplesCmd = &cobra.Command{
	Use:   "examples [n]",
	Short: "List the quick examples, or check example n",
	Example: `  verinex examples
  verinex examples 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			for i, ex := range app.Examples() {
				fmt.Fprintf(out, "  %d. [%s] %s\n", i+1, ex.Badge, ex.Button)
			}
			return nil
		}

		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("example must be a number: %w", err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, closeSession := newSession(cfg, true)
		defer closeSession()

		ex, err := s.LoadExample(n - 1)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n  %s\n", ex.Text)

		report, err := s.Verify(context.Background(), ex.Text, nil)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		pipeline.NewRenderer().RenderSummary(os.Stdout, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(examplesCmd)
}
