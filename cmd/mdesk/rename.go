// ABOUTME: Rename command for document titles.
// ABOUTME: A blank title cancels without touching the document.

package main

import (
	"errors"
	"fmt"

	"github.com/harper/mdesk/internal/docdb"
	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		doc, err := docs.RenameDocument(id, args[1])
		if errors.Is(err, docdb.ErrValidationSkipped) {
			fmt.Fprintln(cmd.OutOrStdout(), "Rename cancelled.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to rename document: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Renamed document #%d to %q", doc.ID, doc.Title)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
