// ABOUTME: Export command for writing one document as markdown, HTML, or PDF.
// ABOUTME: Writes to the titled filename, a chosen path, or stdout.

package main

import (
	"fmt"
	"os"

	"github.com/harper/mdesk/internal/export"
	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a document",
	Long:  `Export a document to markdown, a standalone HTML page, or a letter-size PDF.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		formatFlag, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")
		frontMatter, _ := cmd.Flags().GetBool("front-matter")

		format, err := export.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		doc, ok := docs.GetDocument(id)
		if !ok {
			return documentNotFound(id)
		}

		var fm *export.FrontMatter
		if frontMatter {
			name := ""
			if doc.FolderID != nil {
				name = folderName(doc.FolderID)
			}
			fm = export.NewFrontMatter(doc, name)
		}
		art, err := export.ExportDocument(doc, format, fm)
		if err != nil {
			return fmt.Errorf("failed to export document: %w", err)
		}

		if outputPath == "-" {
			_, err := cmd.OutOrStdout().Write(art.Data)
			return err
		}
		if outputPath == "" {
			outputPath = art.Filename
		}
		if err := os.WriteFile(outputPath, art.Data, 0644); err != nil { //nolint:gosec // exported files are meant to be shared
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Exported as %s to %s", format, outputPath)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "markdown", "export format (markdown|html|pdf)")
	exportCmd.Flags().StringP("output", "o", "", "output path, - for stdout (default: title with extension)")
	exportCmd.Flags().Bool("front-matter", false, "prefix markdown with YAML front matter")
	rootCmd.AddCommand(exportCmd)
}
