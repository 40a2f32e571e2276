// ABOUTME: Import command for files, directories, and backup bundles.
// ABOUTME: Markdown, text, and HTML files become documents.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/harper/mdesk/internal/export"
	"github.com/harper/mdesk/internal/importer"
	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import documents",
	Long:  `Import a markdown, text, or HTML file, a directory of them, or a JSON backup bundle.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		folderFlag, _ := cmd.Flags().GetString("folder")

		folderID, err := parseFolderArg(folderFlag)
		if err != nil {
			return err
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat path: %w", err)
		}

		im := importer.New(docs, logger)
		out := cmd.OutOrStdout()

		switch {
		case info.IsDir():
			n, err := im.Dir(path, folderID)
			if err != nil {
				return fmt.Errorf("failed to import directory: %w", err)
			}
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("Imported %d documents", n)))

		case strings.HasSuffix(strings.ToLower(path), ".json"):
			data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
			if err != nil {
				return err
			}
			bundle, err := export.ReadBundle(data)
			if err != nil {
				return err
			}
			n, f, err := im.Restore(bundle)
			if err != nil {
				return fmt.Errorf("restore stopped after %d documents: %w", n, err)
			}
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("Restored %d documents and %d folders", n, f)))

		default:
			doc, err := im.File(path, folderID)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", path, err)
			}
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("Imported document #%d %q", doc.ID, doc.Title)))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("folder", "", "folder id to file imported documents in")
	rootCmd.AddCommand(importCmd)
}
