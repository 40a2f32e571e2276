// ABOUTME: Backup command for dumping the whole store as JSON.
// ABOUTME: The bundle can be restored with the import command.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/harper/mdesk/internal/export"
	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up all documents and folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath, _ := cmd.Flags().GetString("output")

		all, folders := docs.AllDocuments(), docs.AllFolders()
		data, err := export.Backup(all, folders, time.Now())
		if err != nil {
			return err
		}

		if outputPath == "" || outputPath == "-" {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		if err := os.WriteFile(outputPath, data, 0600); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Backed up %d documents and %d folders to %s", len(all), len(folders), outputPath)))
		return nil
	},
}

func init() {
	backupCmd.Flags().StringP("output", "o", "", "output path (default: stdout)")
	rootCmd.AddCommand(backupCmd)
}
