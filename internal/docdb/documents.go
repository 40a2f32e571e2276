// ABOUTME: Document operations on the storage engine.
// ABOUTME: Create, read, partial update, move, and delete with write-through.

package docdb

import (
	"strings"

	"github.com/harper/mdesk/internal/models"
)

// CreateDocument allocates the next document id and persists the new record.
func (db *DB) CreateDocument(title, content string) (*models.Document, error) {
	return db.CreateDocumentIn(title, content, nil)
}

// CreateDocumentIn creates a document already filed in folderID (nil for root)
// in a single persisted step. An unknown folder fails with a folder NotFoundError
// and allocates no id.
func (db *DB) CreateDocumentIn(title, content string, folderID *int64) (*models.Document, error) {
	db.mu.Lock()
	if !db.ready {
		db.mu.Unlock()
		return nil, ErrNotInitialized
	}
	if folderID != nil {
		if _, ok := db.folders.byID[*folderID]; !ok {
			db.mu.Unlock()
			return nil, &NotFoundError{Kind: KindFolder, ID: *folderID}
		}
	}
	doc := models.NewDocument(title, content, db.now())
	doc.ID = db.nextDocID
	if folderID != nil {
		id := *folderID
		doc.FolderID = &id
	}
	db.nextDocID++

	prevDocs, prevFolders := db.docs.clone(), db.folders
	db.docs.put(doc.ID, doc)
	if err := db.commit(prevDocs, prevFolders); err != nil {
		db.mu.Unlock()
		return nil, err
	}
	out := doc.Clone()
	db.mu.Unlock()

	db.notify(Change{Op: OpCreate, Kind: KindDocument, ID: out.ID})
	return out, nil
}

// GetDocument returns a copy of the document, or false when absent.
func (db *DB) GetDocument(id int64) (*models.Document, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, ok := db.docs.byID[id]
	if !ok {
		return nil, false
	}
	return doc.Clone(), true
}

// UpdateDocument merges patch into the document and always refreshes Modified.
// Moving into a folder that does not exist fails with a folder NotFoundError.
func (db *DB) UpdateDocument(id int64, patch models.DocumentPatch) (*models.Document, error) {
	db.mu.Lock()
	if !db.ready {
		db.mu.Unlock()
		return nil, ErrNotInitialized
	}
	existing, ok := db.docs.byID[id]
	if !ok {
		db.mu.Unlock()
		return nil, &NotFoundError{Kind: KindDocument, ID: id}
	}
	if patch.FolderID.Set && patch.FolderID.ID != nil {
		if _, ok := db.folders.byID[*patch.FolderID.ID]; !ok {
			db.mu.Unlock()
			return nil, &NotFoundError{Kind: KindFolder, ID: *patch.FolderID.ID}
		}
	}

	updated := existing.Clone()
	patch.Apply(updated)
	updated.Touch(db.now())

	prevDocs, prevFolders := db.docs.clone(), db.folders
	db.docs.put(id, updated)
	if err := db.commit(prevDocs, prevFolders); err != nil {
		db.mu.Unlock()
		return nil, err
	}
	out := updated.Clone()
	db.mu.Unlock()

	db.notify(Change{Op: OpUpdate, Kind: KindDocument, ID: id})
	return out, nil
}

// RenameDocument sets a new title. A blank title is skipped.
func (db *DB) RenameDocument(id int64, title string) (*models.Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrValidationSkipped
	}
	return db.UpdateDocument(id, models.DocumentPatch{Title: &title})
}

// MoveDocument files the document under folderID, or at root when nil.
func (db *DB) MoveDocument(id int64, folderID *int64) (*models.Document, error) {
	move := models.ClearID()
	if folderID != nil {
		move = models.SetID(*folderID)
	}
	return db.UpdateDocument(id, models.DocumentPatch{FolderID: move})
}

// DeleteDocument removes the document. It persists only when something was removed.
func (db *DB) DeleteDocument(id int64) (bool, error) {
	db.mu.Lock()
	if !db.ready {
		db.mu.Unlock()
		return false, ErrNotInitialized
	}
	if _, ok := db.docs.byID[id]; !ok {
		db.mu.Unlock()
		return false, nil
	}
	prevDocs, prevFolders := db.docs.clone(), db.folders
	db.docs.remove(id)
	if err := db.commit(prevDocs, prevFolders); err != nil {
		db.mu.Unlock()
		return false, err
	}
	db.mu.Unlock()

	db.notify(Change{Op: OpDelete, Kind: KindDocument, ID: id})
	return true, nil
}

// AllDocuments returns copies of every document in insertion order.
func (db *DB) AllDocuments() []*models.Document {
	db.mu.Lock()
	defer db.mu.Unlock()
	docs := db.docs.values()
	out := make([]*models.Document, len(docs))
	for i, d := range docs {
		out[i] = d.Clone()
	}
	return out
}
