// ABOUTME: Folder operations on the storage engine.
// ABOUTME: Folder delete cascades to member documents in one persisted step.

package docdb

import (
	"strings"

	"github.com/harper/mdesk/internal/models"
)

// CreateFolder allocates the next folder id. A blank name is skipped.
func (db *DB) CreateFolder(name string) (*models.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrValidationSkipped
	}

	db.mu.Lock()
	if !db.ready {
		db.mu.Unlock()
		return nil, ErrNotInitialized
	}
	folder := models.NewFolder(name, db.now())
	folder.ID = db.nextFolID
	db.nextFolID++

	prevDocs, prevFolders := db.docs, db.folders.clone()
	db.folders.put(folder.ID, folder)
	if err := db.commit(prevDocs, prevFolders); err != nil {
		db.mu.Unlock()
		return nil, err
	}
	out := folder.Clone()
	db.mu.Unlock()

	db.notify(Change{Op: OpCreate, Kind: KindFolder, ID: out.ID})
	return out, nil
}

// GetFolder returns a copy of the folder, or false when absent.
func (db *DB) GetFolder(id int64) (*models.Folder, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	folder, ok := db.folders.byID[id]
	if !ok {
		return nil, false
	}
	return folder.Clone(), true
}

// UpdateFolder merges patch into the folder. Folders carry no modified stamp.
func (db *DB) UpdateFolder(id int64, patch models.FolderPatch) (*models.Folder, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrValidationSkipped
	}

	db.mu.Lock()
	if !db.ready {
		db.mu.Unlock()
		return nil, ErrNotInitialized
	}
	existing, ok := db.folders.byID[id]
	if !ok {
		db.mu.Unlock()
		return nil, &NotFoundError{Kind: KindFolder, ID: id}
	}

	updated := existing.Clone()
	patch.Apply(updated)

	prevDocs, prevFolders := db.docs, db.folders.clone()
	db.folders.put(id, updated)
	if err := db.commit(prevDocs, prevFolders); err != nil {
		db.mu.Unlock()
		return nil, err
	}
	out := updated.Clone()
	db.mu.Unlock()

	db.notify(Change{Op: OpUpdate, Kind: KindFolder, ID: id})
	return out, nil
}

// RenameFolder sets a new name. A blank name is skipped.
func (db *DB) RenameFolder(id int64, name string) (*models.Folder, error) {
	return db.UpdateFolder(id, models.FolderPatch{Name: &name})
}

// DeleteFolder removes every document filed in the folder, then the folder,
// then persists once. Observers never see the folder without its documents
// or the reverse. Returns false when neither folder nor members existed.
func (db *DB) DeleteFolder(id int64) (bool, error) {
	db.mu.Lock()
	if !db.ready {
		db.mu.Unlock()
		return false, ErrNotInitialized
	}

	var members []int64
	for _, docID := range db.docs.order {
		if db.docs.byID[docID].InFolder(id) {
			members = append(members, docID)
		}
	}
	_, exists := db.folders.byID[id]
	if !exists && len(members) == 0 {
		db.mu.Unlock()
		return false, nil
	}

	prevDocs, prevFolders := db.docs.clone(), db.folders.clone()
	for _, docID := range members {
		db.docs.remove(docID)
	}
	db.folders.remove(id)
	if err := db.commit(prevDocs, prevFolders); err != nil {
		db.mu.Unlock()
		return false, err
	}
	db.mu.Unlock()

	db.notify(Change{Op: OpDelete, Kind: KindFolder, ID: id, Cascade: members})
	return exists, nil
}

// AllFolders returns copies of every folder in insertion order.
func (db *DB) AllFolders() []*models.Folder {
	db.mu.Lock()
	defer db.mu.Unlock()
	folders := db.folders.values()
	out := make([]*models.Folder, len(folders))
	for i, f := range folders {
		out[i] = f.Clone()
	}
	return out
}

// FolderDocuments returns copies of the documents filed in folderID.
func (db *DB) FolderDocuments(folderID int64) []*models.Document {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*models.Document
	for _, d := range db.docs.values() {
		if d.InFolder(folderID) {
			out = append(out, d.Clone())
		}
	}
	return out
}
