// ABOUTME: New command for creating documents.
// ABOUTME: Content comes from --content, --file, or $EDITOR.

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a document",
	Long:  `Create a new document. A missing title becomes "Untitled Document". Content can be provided via --content, --file, or --editor.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := ""
		if len(args) == 1 {
			title = args[0]
		}

		contentFlag, _ := cmd.Flags().GetString("content")
		fileFlag, _ := cmd.Flags().GetString("file")
		editorFlag, _ := cmd.Flags().GetBool("editor")
		folderFlag, _ := cmd.Flags().GetString("folder")

		folderID, err := parseFolderArg(folderFlag)
		if err != nil {
			return err
		}
		if folderID != nil {
			if _, ok := docs.GetFolder(*folderID); !ok {
				return folderNotFound(*folderID)
			}
		}

		var content string
		switch {
		case contentFlag != "":
			content = contentFlag
		case fileFlag != "":
			data, err := os.ReadFile(fileFlag) //nolint:gosec // User-specified file path is expected CLI behavior
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			content = string(data)
		case editorFlag:
			content, err = openEditor("")
			if err != nil {
				return fmt.Errorf("failed to open editor: %w", err)
			}
		}

		doc, err := docs.CreateDocumentIn(title, content, folderID)
		if err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Created document #%d %q", doc.ID, doc.Title)))
		return nil
	},
}

func openEditor(initial string) (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	tmpFile, err := os.CreateTemp("", "mdesk-*.md")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(tmpFile.Name()) // Best-effort cleanup
	}()

	if initial != "" {
		if _, err := tmpFile.WriteString(initial); err != nil {
			_ = tmpFile.Close()
			return "", fmt.Errorf("failed to write initial content: %w", err)
		}
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	cmd := exec.Command(editor, tmpFile.Name()) //nolint:gosec // Launching $EDITOR is expected CLI behavior
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func init() {
	newCmd.Flags().String("content", "", "document content (inline)")
	newCmd.Flags().String("file", "", "read content from file")
	newCmd.Flags().Bool("editor", false, "write content in $EDITOR")
	newCmd.Flags().String("folder", "", "folder id to file the document in")
	rootCmd.AddCommand(newCmd)
}
