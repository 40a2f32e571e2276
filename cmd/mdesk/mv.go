// ABOUTME: Move command for filing documents into folders.
// ABOUTME: "root" as the target takes a document out of its folder.

package main

import (
	"fmt"

	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var mvCmd = &cobra.Command{
	Use:   "mv <id> <folder-id|root>",
	Short: "Move a document to a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		folderID, err := parseFolderArg(args[1])
		if err != nil {
			return err
		}

		doc, err := docs.MoveDocument(id, folderID)
		if err != nil {
			return fmt.Errorf("failed to move document: %w", err)
		}

		target := "root"
		if doc.FolderID != nil {
			target = folderName(doc.FolderID)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Moved document #%d to %s", doc.ID, target)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mvCmd)
}
