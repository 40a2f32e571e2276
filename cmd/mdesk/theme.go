// ABOUTME: Theme command for switching between light and dark rendering.
// ABOUTME: Persists the choice in the config file.

package main

import (
	"fmt"

	"github.com/harper/mdesk/internal/config"
	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:         "theme [light|dark]",
	Short:       "Show, set, or toggle the theme",
	Long:        `With no argument, toggle between light and dark. The theme picks the style used to render markdown.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{noStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		show, _ := cmd.Flags().GetBool("show")
		if show {
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Theme)
			return nil
		}

		if len(args) == 1 {
			cfg.Theme = args[0]
			if err := cfg.Validate(); err != nil {
				return err
			}
		} else {
			cfg.ToggleTheme()
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Theme set to %s", cfg.Theme)))
		return nil
	},
}

func init() {
	themeCmd.Flags().Bool("show", false, "print the current theme")
	rootCmd.AddCommand(themeCmd)
}
