// ABOUTME: Folder commands for creating, renaming, listing, and deleting folders.
// ABOUTME: Deleting a folder also deletes every document inside it.

package main

import (
	"errors"
	"fmt"

	"github.com/harper/mdesk/internal/docdb"
	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders",
}

var folderAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, err := docs.CreateFolder(args[0])
		if errors.Is(err, docdb.ErrValidationSkipped) {
			fmt.Fprintln(cmd.OutOrStdout(), "Folder name is empty, nothing created.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to create folder: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Created folder #%d %q", folder.ID, folder.Name)))
		return nil
	},
}

var folderRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		folder, err := docs.RenameFolder(id, args[1])
		if errors.Is(err, docdb.ErrValidationSkipped) {
			fmt.Fprintln(cmd.OutOrStdout(), "Rename cancelled.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to rename folder: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Renamed folder #%d to %q", folder.ID, folder.Name)))
		return nil
	},
}

var folderRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a folder and its documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		folder, ok := docs.GetFolder(id)
		if !ok {
			return folderNotFound(id)
		}
		members := len(docs.FolderDocuments(id))

		question := fmt.Sprintf("Delete folder %q and its %d documents?", folder.Name, members)
		if !force && !confirm(cmd, question) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if _, err := docs.DeleteFolder(id); err != nil {
			return fmt.Errorf("failed to delete folder: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Deleted folder #%d and %d documents", id, members)))
		return nil
	},
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders with document counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		folders := docs.AllFolders()
		if len(folders) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No folders.")
			return nil
		}

		counts := make([]ui.FolderCount, 0, len(folders))
		for _, f := range folders {
			counts = append(counts, ui.FolderCount{Folder: f, Count: len(docs.FolderDocuments(f.ID))})
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.FormatFolderList(counts))
		return nil
	},
}

func init() {
	folderRmCmd.Flags().BoolP("force", "f", false, "skip confirmation")
	folderCmd.AddCommand(folderAddCmd, folderRenameCmd, folderRmCmd, folderListCmd)
	rootCmd.AddCommand(folderCmd)
}
