package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/verinex/internal/prefs"
)

// themeCmd represents the theme command
var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the saved theme",
	Long:      `Without arguments prints the saved theme. The theme is shared with reports and persisted in the store directory.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, closeSession := newSession(cfg, true)
		defer closeSession()

		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), s.Theme())
			return nil
		}

		if args[0] == "toggle" {
			next, err := s.ToggleTheme()
			if err != nil {
				return fmt.Errorf("toggle theme: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Theme: %s\n", next)
			return nil
		}

		theme, err := prefs.ParseTheme(args[0])
		if err != nil {
			return err
		}
		if err := s.SetTheme(theme); err != nil {
			return fmt.Errorf("set theme: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Theme: %s\n", theme)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
