// ABOUTME: List command for displaying documents.
// ABOUTME: Supports filtering by folder, root-only, and search.

package main

import (
	"fmt"

	"github.com/harper/mdesk/internal/editor"
	"github.com/harper/mdesk/internal/models"
	"github.com/harper/mdesk/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Long:  `List documents in creation order, optionally limited to one folder, the root, or a search.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		folderFlag, _ := cmd.Flags().GetString("folder")
		rootFlag, _ := cmd.Flags().GetBool("root")
		searchFlag, _ := cmd.Flags().GetString("search")
		limitFlag, _ := cmd.Flags().GetInt("limit")

		var list []*models.Document
		switch {
		case folderFlag != "":
			id, err := parseID(folderFlag)
			if err != nil {
				return err
			}
			if _, ok := docs.GetFolder(id); !ok {
				return folderNotFound(id)
			}
			list = docs.FolderDocuments(id)
		case rootFlag:
			for _, d := range docs.AllDocuments() {
				if d.IsRoot() {
					list = append(list, d)
				}
			}
		default:
			list = docs.AllDocuments()
		}

		if searchFlag != "" {
			var hits []*models.Document
			for _, d := range list {
				if len(editor.Find(d.Title+"\n"+d.Content, searchFlag)) > 0 {
					hits = append(hits, d)
				}
			}
			list = hits
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No documents found.")
			return nil
		}
		if limitFlag > 0 && len(list) > limitFlag {
			list = list[:limitFlag]
		}
		for _, d := range list {
			fmt.Fprint(out, ui.FormatDocumentListItem(d, folderName(d.FolderID)))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("folder", "f", "", "only documents in this folder id")
	listCmd.Flags().Bool("root", false, "only documents outside any folder")
	listCmd.Flags().StringP("search", "s", "", "search pattern (case-insensitive regex)")
	listCmd.Flags().IntP("limit", "n", 0, "number of results (0 for all)")
	rootCmd.AddCommand(listCmd)
}
