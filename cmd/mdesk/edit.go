// ABOUTME: Edit command for modifying existing documents.
// ABOUTME: Opens document content in $EDITOR or replaces it from --content.

package main

import (
	"fmt"

	"github.com/harper/mdesk/internal/models"
	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a document",
	Long:  `Open a document in $EDITOR for editing, or replace its content with --content.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		doc, ok := docs.GetDocument(id)
		if !ok {
			return documentNotFound(id)
		}

		var newContent string
		if cmd.Flags().Changed("content") {
			newContent, _ = cmd.Flags().GetString("content")
		} else {
			newContent, err = openEditor(doc.Content)
			if err != nil {
				return fmt.Errorf("failed to open editor: %w", err)
			}
		}

		if newContent == doc.Content {
			fmt.Fprintln(cmd.OutOrStdout(), "No changes made.")
			return nil
		}

		if _, err := docs.UpdateDocument(id, models.DocumentPatch{Content: &newContent}); err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Updated document #%d", id)))
		return nil
	},
}

func init() {
	editCmd.Flags().String("content", "", "replace content instead of opening $EDITOR")
	rootCmd.AddCommand(editCmd)
}
