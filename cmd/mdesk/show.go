// ABOUTME: Show command for displaying a single document.
// ABOUTME: Renders markdown content with glamour in the configured theme.

package main

import (
	"fmt"

	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a document",
	Long:  `Display a document's full content with rendered markdown.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetBool("raw")

		doc, ok := docs.GetDocument(id)
		if !ok {
			return documentNotFound(id)
		}

		out := cmd.OutOrStdout()
		if raw {
			fmt.Fprint(out, doc.Content)
			return nil
		}
		fmt.Fprint(out, ui.FormatDocumentHeader(doc, folderName(doc.FolderID)))
		fmt.Fprint(out, ui.FormatDocumentContent(doc.Content, cfg.Render.Width, cfg.Theme))
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("raw", false, "print the markdown source only")
	rootCmd.AddCommand(showCmd)
}
