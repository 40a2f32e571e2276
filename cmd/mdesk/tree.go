// ABOUTME: Tree command for the folder sidebar view.
// ABOUTME: Prints root documents, then each folder with its documents.

package main

import (
	"fmt"

	"github.com/harper/mdesk/internal/tree"
	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the folder tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := tree.Project(docs)
		out := cmd.OutOrStdout()
		if t.DocumentCount() == 0 && len(t.Folders) == 0 {
			fmt.Fprintln(out, "No documents or folders yet.")
			return nil
		}
		fmt.Fprint(out, ui.FormatTree(t))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
