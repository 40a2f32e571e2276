// ABOUTME: Whole-store backup bundle in JSON.
// ABOUTME: Uses the same record shape as the persisted slots.

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/mdesk/internal/docdb"
	"github.com/harper/mdesk/internal/models"
)

const BundleVersion = "1.0"

type Bundle struct {
	ExportedAt time.Time              `json:"exported_at"`
	Version    string                 `json:"version"`
	Documents  []docdb.DocumentRecord `json:"documents"`
	Folders    []docdb.FolderRecord   `json:"folders"`
}

// Backup serializes every document and folder into one JSON bundle.
func Backup(docs []*models.Document, folders []*models.Folder, now time.Time) ([]byte, error) {
	b := Bundle{
		ExportedAt: now.UTC(),
		Version:    BundleVersion,
		Documents:  make([]docdb.DocumentRecord, 0, len(docs)),
		Folders:    make([]docdb.FolderRecord, 0, len(folders)),
	}
	for _, d := range docs {
		b.Documents = append(b.Documents, docdb.FromDocument(d))
	}
	for _, f := range folders {
		b.Folders = append(b.Folders, docdb.FromFolder(f))
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup: %w", err)
	}
	return data, nil
}

// ReadBundle parses a backup produced by Backup.
func ReadBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse backup: %w", err)
	}
	if b.Version == "" {
		return nil, fmt.Errorf("not a backup bundle: missing version")
	}
	return &b, nil
}
