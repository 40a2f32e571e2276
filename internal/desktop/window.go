// ABOUTME: Window session records, layout states, and desktop events.
// ABOUTME: Snapshots handed out by the manager are copies, never live state.

package desktop

import (
	"errors"
	"fmt"

	"github.com/harper/mdesk/internal/models"
)

// State is a window's display state.
type State int

const (
	Normal State = iota
	Minimized
	Maximized
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case Minimized:
		return "minimized"
	case Maximized:
		return "maximized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Window is one open editor session.
type Window struct {
	SessionID string
	// DocumentID is nil for a scratch window that was never saved.
	DocumentID *int64
	Title      string
	Content    string
	State      State
	Z          int
	X, Y       int

	// layout is the visible state restored after a minimize.
	layout State
	dirty  bool
}

// Bound reports whether the window is backed by a stored document.
func (w *Window) Bound() bool {
	return w.DocumentID != nil
}

// Visible reports whether the window is drawn on the desktop.
func (w *Window) Visible() bool {
	return w.State != Minimized
}

// Dirty reports whether the window holds an edit not yet saved.
func (w *Window) Dirty() bool {
	return w.dirty
}

func (w *Window) snapshot() Window {
	c := *w
	if w.DocumentID != nil {
		id := *w.DocumentID
		c.DocumentID = &id
	}
	return c
}

// TaskbarEntry mirrors one open window, in open order.
type TaskbarEntry struct {
	SessionID string
	Title     string
	Active    bool
	Minimized bool
}

// EventKind names a desktop state change.
type EventKind string

const (
	EventOpened     EventKind = "opened"
	EventFocused    EventKind = "focused"
	EventMinimized  EventKind = "minimized"
	EventMaximized  EventKind = "maximized"
	EventRestored   EventKind = "restored"
	EventMoved      EventKind = "moved"
	EventClosed     EventKind = "closed"
	EventSaved      EventKind = "saved"
	EventSaveFailed EventKind = "save_failed"
	EventRetitled   EventKind = "retitled"
)

// Event is delivered to subscribers after the change is applied.
type Event struct {
	Kind       EventKind
	SessionID  string
	DocumentID *int64
	Err        error
}

var (
	ErrSessionNotFound = errors.New("window session not found")
	ErrAlreadyBound    = errors.New("window is already bound to a document")
)

// SessionNotFoundError reports an operation on a window that is not open.
type SessionNotFoundError struct {
	SessionID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("window %q not found", e.SessionID)
}

func (e *SessionNotFoundError) Is(target error) bool {
	return target == ErrSessionNotFound
}

// DocumentUpdater receives save-through edits from bound windows.
type DocumentUpdater interface {
	UpdateDocument(id int64, patch models.DocumentPatch) (*models.Document, error)
}

// DocumentStore is the slice of the storage engine the desktop depends on.
type DocumentStore interface {
	DocumentUpdater
	CreateDocument(title, content string) (*models.Document, error)
}
