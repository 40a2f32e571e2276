// ABOUTME: Search command across all documents.
// ABOUTME: Case-insensitive regex with a literal fallback for invalid patterns.

package main

import (
	"fmt"

	"github.com/harper/mdesk/internal/editor"
	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Search document content",
	Long:  `Find every match of a case-insensitive pattern and print it with its line and column.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		out := cmd.OutOrStdout()

		found := 0
		for _, d := range docs.AllDocuments() {
			matches := editor.Find(d.Content, args[0])
			if len(matches) == 0 {
				continue
			}
			fmt.Fprintf(out, "#%d %s (%d)\n", d.ID, d.Title, len(matches))
			fmt.Fprint(out, ui.FormatMatches(d.Content, matches))
			found++
			if limit > 0 && found >= limit {
				break
			}
		}

		if found == 0 {
			fmt.Fprintln(out, "No matches.")
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntP("limit", "n", 0, "max documents to show (0 for all)")
	rootCmd.AddCommand(searchCmd)
}
