// ABOUTME: Replace command for find-and-replace inside one document.
// ABOUTME: Case-sensitive regex; invalid patterns are replaced literally.

package main

import (
	"fmt"

	"github.com/harper/mdesk/internal/editor"
	"github.com/harper/mdesk/internal/models"
	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var replaceCmd = &cobra.Command{
	Use:   "replace <id> <pattern> <replacement>",
	Short: "Replace text in a document",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		doc, ok := docs.GetDocument(id)
		if !ok {
			return documentNotFound(id)
		}

		content, n := editor.ReplaceAll(doc.Content, args[1], args[2])
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
			return nil
		}
		if _, err := docs.UpdateDocument(id, models.DocumentPatch{Content: &content}); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Replaced %d matches in document #%d", n, id)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replaceCmd)
}
