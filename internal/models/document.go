// ABOUTME: Document model representing a markdown document with metadata.
// ABOUTME: Provides constructor, patch type, and timestamp helpers.

package models

import (
	"strings"
	"time"
)

// DefaultTitle is used for documents created without a title.
const DefaultTitle = "Untitled Document"

type Document struct {
	ID       int64
	Title    string
	Content  string
	Created  time.Time
	Modified time.Time
	FolderID *int64 // nil = root
}

// NewDocument builds an unfiled document stamped with now. The caller assigns the ID.
func NewDocument(title, content string, now time.Time) *Document {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	now = Millis(now)
	return &Document{
		Title:    title,
		Content:  content,
		Created:  now,
		Modified: now,
	}
}

// InFolder reports whether the document is filed under folderID.
func (d *Document) InFolder(folderID int64) bool {
	return d.FolderID != nil && *d.FolderID == folderID
}

// IsRoot reports whether the document is unfiled.
func (d *Document) IsRoot() bool {
	return d.FolderID == nil
}

// Touch advances Modified to now, or one millisecond past the previous value
// when the clock has not moved, so every mutation is observable.
func (d *Document) Touch(now time.Time) {
	now = Millis(now)
	if !now.After(d.Modified) {
		now = d.Modified.Add(time.Millisecond)
	}
	d.Modified = now
}

// Clone returns a deep copy safe to hand out of the index.
func (d *Document) Clone() *Document {
	c := *d
	if d.FolderID != nil {
		id := *d.FolderID
		c.FolderID = &id
	}
	return &c
}

// Millis truncates t to the millisecond resolution used on the wire.
func Millis(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli())
}

// OptionalID tracks presence for nullable id fields in a patch:
//   - Set=false: leave unchanged
//   - Set=true, ID=nil: clear (move to root)
//   - Set=true, ID=&n: set to n
type OptionalID struct {
	Set bool
	ID  *int64
}

// SetID returns an OptionalID that assigns id.
func SetID(id int64) OptionalID {
	return OptionalID{Set: true, ID: &id}
}

// ClearID returns an OptionalID that assigns null.
func ClearID() OptionalID {
	return OptionalID{Set: true}
}

// DocumentPatch is a shallow partial update; nil fields are left alone.
type DocumentPatch struct {
	Title    *string
	Content  *string
	FolderID OptionalID
}

// Apply merges the patch into d. It does not touch Modified.
func (p DocumentPatch) Apply(d *Document) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Content != nil {
		d.Content = *p.Content
	}
	if p.FolderID.Set {
		if p.FolderID.ID == nil {
			d.FolderID = nil
		} else {
			id := *p.FolderID.ID
			d.FolderID = &id
		}
	}
}

// Empty reports whether the patch changes nothing.
func (p DocumentPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && !p.FolderID.Set
}
