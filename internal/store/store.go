// ABOUTME: Persistent key-value slots backing the document store.
// ABOUTME: Defines the Store interface plus slot names and errors.

package store

import "errors"

const (
	// DocumentsSlot holds the JSON array of every document record.
	DocumentsSlot = "documents"
	// FoldersSlot holds the JSON array of every folder record.
	FoldersSlot = "folders"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("store closed")
)

// Store is a whole-value key-value store. SetMany writes every entry in one
// transaction: readers observe all of them or none.
type Store interface {
	Get(key string) ([]byte, error)
	SetMany(entries map[string][]byte) error
	Close() error
}

// Set writes a single key.
func Set(s Store, key string, value []byte) error {
	return s.SetMany(map[string][]byte{key: value})
}
