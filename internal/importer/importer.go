// ABOUTME: Imports markdown, text, and HTML files as documents.
// ABOUTME: Also restores whole-store backup bundles, remapping folder ids.

package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/charmbracelet/log"
	"github.com/harper/mdesk/internal/docdb"
	"github.com/harper/mdesk/internal/export"
	"github.com/harper/mdesk/internal/logging"
	"github.com/harper/mdesk/internal/models"
	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"
)

// ErrUnsupported is returned for files whose extension is not importable.
var ErrUnsupported = errors.New("unsupported file type")

// Target is the slice of the storage engine an import writes into.
type Target interface {
	CreateDocumentIn(title, content string, folderID *int64) (*models.Document, error)
	CreateFolder(name string) (*models.Folder, error)
}

type Importer struct {
	target    Target
	converter *md.Converter
	sanitizer *bluemonday.Policy
	logger    *log.Logger
}

func New(target Target, logger *log.Logger) *Importer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Importer{
		target:    target,
		converter: md.NewConverter("", true, nil),
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger,
	}
}

// Supported reports whether path has an importable extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt", ".html", ".htm":
		return true
	}
	return false
}

// Parse turns file bytes into a title and markdown body. A front matter
// title wins over the name derived from the file.
func (im *Importer) Parse(name string, data []byte) (title, content string, err error) {
	ext := strings.ToLower(filepath.Ext(name))
	content = string(data)

	switch ext {
	case ".md", ".markdown", ".txt":
	case ".html", ".htm":
		content, err = im.converter.ConvertString(im.sanitizer.Sanitize(content))
		if err != nil {
			return "", "", fmt.Errorf("failed to convert html: %w", err)
		}
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}

	title, content = splitFrontMatter(content)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	return title, content, nil
}

func splitFrontMatter(content string) (title, body string) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return "", content
	}
	parts := strings.SplitN(normalized, "---\n", 3)
	if len(parts) < 3 {
		return "", content
	}
	var fm struct {
		Title string `yaml:"title"`
	}
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		return "", content
	}
	return strings.TrimSpace(fm.Title), strings.TrimLeft(parts[2], "\n")
}

// File imports one file, optionally filing it into folderID.
func (im *Importer) File(path string, folderID *int64) (*models.Document, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	title, content, err := im.Parse(path, data)
	if err != nil {
		return nil, err
	}

	doc, err := im.target.CreateDocumentIn(title, content, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	im.logger.Debug("imported file", "path", path, "document", doc.ID)
	return doc, nil
}

// Dir imports every supported file under dir. Failures are logged and skipped.
func (im *Importer) Dir(dir string, folderID *int64) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		if _, err := im.File(path, folderID); err != nil {
			im.logger.Warn("skipping file", "path", path, "err", err)
			return nil
		}
		count++
		return nil
	})
	return count, err
}

// Restore recreates a backup bundle as new records. Folder references are
// remapped onto the new folder ids; documents pointing at folders missing
// from the bundle land at the root.
func (im *Importer) Restore(b *export.Bundle) (docs, folders int, err error) {
	ids := make(map[int64]int64, len(b.Folders))
	for _, rec := range b.Folders {
		f, err := im.target.CreateFolder(rec.Name)
		if errors.Is(err, docdb.ErrValidationSkipped) {
			im.logger.Warn("skipping unnamed folder", "id", rec.ID)
			continue
		}
		if err != nil {
			return docs, folders, fmt.Errorf("failed to restore folder %q: %w", rec.Name, err)
		}
		ids[rec.ID] = f.ID
		folders++
	}

	for _, rec := range b.Documents {
		var folderID *int64
		if rec.FolderID != nil {
			if newID, ok := ids[*rec.FolderID]; ok {
				folderID = &newID
			}
		}
		if _, err := im.target.CreateDocumentIn(rec.Title, rec.Content, folderID); err != nil {
			return docs, folders, fmt.Errorf("failed to restore document %q: %w", rec.Title, err)
		}
		docs++
	}
	return docs, folders, nil
}
