// ABOUTME: Folder tree projection over the flat document store.
// ABOUTME: Recomputed in full from the current records on every call.

package tree

import (
	"time"

	"github.com/harper/mdesk/internal/docdb"
	"github.com/harper/mdesk/internal/editor"
	"github.com/harper/mdesk/internal/models"
)

// Tree is the sidebar view: unfiled documents, then each folder with its members.
type Tree struct {
	Root    []DocumentNode `json:"root"`
	Folders []FolderNode   `json:"folders"`
	// Orphans are documents whose folder no longer exists.
	Orphans []DocumentNode `json:"orphans,omitempty"`
}

type FolderNode struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Documents []DocumentNode `json:"documents"`
}

// DocumentNode carries metadata only, no content.
type DocumentNode struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	FolderID  *int64    `json:"folderId"`
	WordCount int       `json:"words"`
	Modified  time.Time `json:"modified"`
}

// Source is anything that can enumerate documents and folders.
type Source interface {
	AllDocuments() []*models.Document
	AllFolders() []*models.Folder
}

// Build projects docs and folders, preserving their enumeration order.
func Build(docs []*models.Document, folders []*models.Folder) Tree {
	t := Tree{
		Root:    []DocumentNode{},
		Folders: make([]FolderNode, 0, len(folders)),
	}
	known := make(map[int64]bool, len(folders))
	for _, f := range folders {
		known[f.ID] = true
	}

	for _, d := range docs {
		switch {
		case d.IsRoot():
			t.Root = append(t.Root, node(d))
		case !known[*d.FolderID]:
			t.Orphans = append(t.Orphans, node(d))
		}
	}

	for _, f := range folders {
		fn := FolderNode{ID: f.ID, Name: f.Name, Documents: []DocumentNode{}}
		for _, d := range docs {
			if d.InFolder(f.ID) {
				fn.Documents = append(fn.Documents, node(d))
			}
		}
		t.Folders = append(t.Folders, fn)
	}
	return t
}

// Project builds the tree from src's current state.
func Project(src Source) Tree {
	return Build(src.AllDocuments(), src.AllFolders())
}

// Watch calls fn with a freshly projected tree after every mutation of db.
func Watch(db *docdb.DB, fn func(Tree)) (cancel func()) {
	return db.Subscribe(func(docdb.Change) {
		fn(Project(db))
	})
}

// DocumentCount returns the number of documents shown in the tree.
func (t Tree) DocumentCount() int {
	n := len(t.Root) + len(t.Orphans)
	for _, f := range t.Folders {
		n += len(f.Documents)
	}
	return n
}

func node(d *models.Document) DocumentNode {
	return DocumentNode{
		ID:        d.ID,
		Title:     d.Title,
		FolderID:  d.FolderID,
		WordCount: editor.WordCount(d.Content),
		Modified:  d.Modified,
	}
}
