// ABOUTME: Folder model grouping documents.
// ABOUTME: Folders have a name and creation time only.

package models

import "time"

type Folder struct {
	ID      int64
	Name    string
	Created time.Time
}

func NewFolder(name string, now time.Time) *Folder {
	return &Folder{
		Name:    name,
		Created: Millis(now),
	}
}

func (f *Folder) Clone() *Folder {
	c := *f
	return &c
}

// FolderPatch is a partial folder update.
type FolderPatch struct {
	Name *string
}

func (p FolderPatch) Apply(f *Folder) {
	if p.Name != nil {
		f.Name = *p.Name
	}
}
