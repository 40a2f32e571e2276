// ABOUTME: Error taxonomy for the document store.
// ABOUTME: NotFound and StorageUnavailable are typed; ValidationSkipped is a no-op signal.

package docdb

import (
	"errors"
	"fmt"
)

// Kind names a record kind.
type Kind string

const (
	KindDocument Kind = "document"
	KindFolder   Kind = "folder"
)

// Sentinel errors - match with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrValidationSkipped reports a blank name or title. Nothing was changed;
	// callers treat it as a cancelled prompt rather than a failure.
	ErrValidationSkipped = errors.New("validation skipped")
	ErrNotInitialized    = errors.New("store not initialized")
)

// NotFoundError is returned by mutations on an id that does not resolve.
type NotFoundError struct {
	Kind Kind
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps a failure of the underlying persistent store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// IsNotFound reports whether err is a NotFound for the given kind.
func IsNotFound(err error, kind Kind) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Kind == kind
}
