// ABOUTME: Typed repository over the key-value store.
// ABOUTME: Encodes each record kind as a JSON array of objects in its own slot.

package docdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/mdesk/internal/models"
	"github.com/harper/mdesk/internal/store"
)

// ErrCorrupt marks a slot whose contents could not be decoded.
var ErrCorrupt = errors.New("corrupt stored data")

// Repository loads and saves whole collections. Load returns an empty slice when
// a collection has never been written.
type Repository interface {
	LoadDocuments() ([]*models.Document, error)
	LoadFolders() ([]*models.Folder, error)
	SaveAll(docs []*models.Document, folders []*models.Folder) error
}

// DocumentRecord is the persisted form of a document. Timestamps are epoch
// milliseconds and folderId is null for root documents.
type DocumentRecord struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Created  int64  `json:"created"`
	Modified int64  `json:"modified"`
	FolderID *int64 `json:"folderId"`
}

// FolderRecord is the persisted form of a folder.
type FolderRecord struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Created int64  `json:"created"`
}

func (r *DocumentRecord) ToModel() *models.Document {
	doc := &models.Document{
		ID:       r.ID,
		Title:    r.Title,
		Content:  r.Content,
		Created:  time.UnixMilli(r.Created),
		Modified: time.UnixMilli(r.Modified),
	}
	if r.FolderID != nil {
		id := *r.FolderID
		doc.FolderID = &id
	}
	// Older records may lack a modified stamp.
	if doc.Modified.Before(doc.Created) {
		doc.Modified = doc.Created
	}
	return doc
}

func FromDocument(d *models.Document) DocumentRecord {
	return DocumentRecord{
		ID:       d.ID,
		Title:    d.Title,
		Content:  d.Content,
		Created:  d.Created.UnixMilli(),
		Modified: d.Modified.UnixMilli(),
		FolderID: d.FolderID,
	}
}

func (r *FolderRecord) ToModel() *models.Folder {
	return &models.Folder{
		ID:      r.ID,
		Name:    r.Name,
		Created: time.UnixMilli(r.Created),
	}
}

func FromFolder(f *models.Folder) FolderRecord {
	return FolderRecord{ID: f.ID, Name: f.Name, Created: f.Created.UnixMilli()}
}

type kvRepository struct {
	kv store.Store
}

// NewKVRepository stores documents and folders in the store's two slots.
func NewKVRepository(kv store.Store) Repository {
	return &kvRepository{kv: kv}
}

func (r *kvRepository) LoadDocuments() ([]*models.Document, error) {
	var records []DocumentRecord
	if err := r.load(store.DocumentsSlot, &records); err != nil {
		return nil, err
	}
	docs := make([]*models.Document, 0, len(records))
	for i := range records {
		if records[i].ID <= 0 {
			return nil, fmt.Errorf("%w: document id %d", ErrCorrupt, records[i].ID)
		}
		docs = append(docs, records[i].ToModel())
	}
	return docs, nil
}

func (r *kvRepository) LoadFolders() ([]*models.Folder, error) {
	var records []FolderRecord
	if err := r.load(store.FoldersSlot, &records); err != nil {
		return nil, err
	}
	folders := make([]*models.Folder, 0, len(records))
	for i := range records {
		if records[i].ID <= 0 {
			return nil, fmt.Errorf("%w: folder id %d", ErrCorrupt, records[i].ID)
		}
		folders = append(folders, records[i].ToModel())
	}
	return folders, nil
}

func (r *kvRepository) load(slot string, out interface{}) error {
	data, err := r.kv.Get(slot)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return &StorageError{Op: "read " + slot, Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, slot, err)
	}
	return nil
}

func (r *kvRepository) SaveAll(docs []*models.Document, folders []*models.Folder) error {
	docRecords := make([]DocumentRecord, len(docs))
	for i, d := range docs {
		docRecords[i] = FromDocument(d)
	}
	folderRecords := make([]FolderRecord, len(folders))
	for i, f := range folders {
		folderRecords[i] = FromFolder(f)
	}

	encodedDocs, err := json.Marshal(docRecords)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}
	encodedFolders, err := json.Marshal(folderRecords)
	if err != nil {
		return fmt.Errorf("marshal folders: %w", err)
	}

	if err := r.kv.SetMany(map[string][]byte{
		store.DocumentsSlot: encodedDocs,
		store.FoldersSlot:   encodedFolders,
	}); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}
