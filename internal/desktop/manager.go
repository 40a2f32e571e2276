// ABOUTME: Desktop window manager: open windows, z-order, focus, and taskbar.
// ABOUTME: Bound windows save edits back through the document store.

package desktop

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/mdesk/internal/logging"
	"github.com/harper/mdesk/internal/models"
)

const (
	// BaselineZ is the z-order a window drops to when it loses focus.
	BaselineZ = 1000

	DefaultOrigin = 50
	DefaultStep   = 30
)

type Option func(*Manager)

// WithSaveDebounce delays save-through until edits pause for d.
// Zero saves on every edit.
func WithSaveDebounce(d time.Duration) Option {
	return func(m *Manager) { m.delay = d }
}

// WithCascade sets where new windows are placed: origin + n*step on both axes.
func WithCascade(origin, step int) Option {
	return func(m *Manager) {
		m.origin = origin
		m.step = step
	}
}

func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithSessionIDs replaces the uuid session id generator.
func WithSessionIDs(next func() string) Option {
	return func(m *Manager) { m.newID = next }
}

type subscriber struct {
	id int
	fn func(Event)
}

// Manager owns all window session state for one desktop.
type Manager struct {
	mu         sync.Mutex
	docs       DocumentStore
	windows    map[string]*Window
	order      []string
	active     string
	top        int
	debouncers map[string]func(func())

	// saveMu serializes save-through so the newest content always lands last.
	saveMu sync.Mutex

	origin int
	step   int
	delay  time.Duration
	newID  func() string
	logger *log.Logger

	subMu   sync.Mutex
	subs    []subscriber
	nextSub int
}

func New(docs DocumentStore, opts ...Option) *Manager {
	m := &Manager{
		docs:       docs,
		windows:    make(map[string]*Window),
		top:        BaselineZ,
		debouncers: make(map[string]func(func())),
		origin:     DefaultOrigin,
		step:       DefaultStep,
		newID:      uuid.NewString,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open creates a focused window for doc, or a scratch window when doc is nil.
func (m *Manager) Open(doc *models.Document) string {
	m.mu.Lock()
	id := m.newID()
	n := len(m.order)
	w := &Window{
		SessionID: id,
		Title:     models.DefaultTitle,
		State:     Normal,
		layout:    Normal,
		X:         m.origin + n*m.step,
		Y:         m.origin + n*m.step,
	}
	if doc != nil {
		docID := doc.ID
		w.DocumentID = &docID
		w.Title = doc.Title
		w.Content = doc.Content
	}
	m.windows[id] = w
	m.order = append(m.order, id)
	m.focusLocked(w)
	opened := Event{Kind: EventOpened, SessionID: id, DocumentID: w.snapshot().DocumentID}
	title := w.Title
	m.mu.Unlock()

	m.logger.Debug("window opened", "session", id, "title", title)
	m.notify(opened, Event{Kind: EventFocused, SessionID: id})
	return id
}

// Focus raises a window above all others and makes it active.
func (m *Manager) Focus(id string) error {
	m.mu.Lock()
	w, err := m.lookup(id)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.focusLocked(w)
	m.mu.Unlock()

	m.notify(Event{Kind: EventFocused, SessionID: id})
	return nil
}

func (m *Manager) focusLocked(w *Window) {
	if m.active != "" && m.active != w.SessionID {
		if prev, ok := m.windows[m.active]; ok {
			prev.Z = BaselineZ
		}
	}
	m.top++
	w.Z = m.top
	m.active = w.SessionID
}

// Minimize hides a window without touching z-order or focus.
func (m *Manager) Minimize(id string) error {
	return m.apply(id, func(w *Window) []Event {
		w.State = Minimized
		return []Event{{Kind: EventMinimized, SessionID: id}}
	})
}

// Maximize toggles between the normal and maximized layouts.
func (m *Manager) Maximize(id string) error {
	return m.apply(id, func(w *Window) []Event {
		if w.layout == Maximized {
			w.layout = Normal
		} else {
			w.layout = Maximized
		}
		w.State = w.layout
		if w.layout == Maximized {
			return []Event{{Kind: EventMaximized, SessionID: id}}
		}
		return []Event{{Kind: EventRestored, SessionID: id}}
	})
}

// Restore shows a minimized window in its previous layout.
func (m *Manager) Restore(id string) error {
	return m.apply(id, func(w *Window) []Event {
		if w.State != Minimized {
			return nil
		}
		w.State = w.layout
		return []Event{{Kind: EventRestored, SessionID: id}}
	})
}

// ActivateFromTaskbar handles a click on a taskbar entry: minimized windows
// come back focused, the active window minimizes, anything else gains focus.
func (m *Manager) ActivateFromTaskbar(id string) error {
	return m.apply(id, func(w *Window) []Event {
		switch {
		case w.State == Minimized:
			w.State = w.layout
			m.focusLocked(w)
			return []Event{{Kind: EventRestored, SessionID: id}, {Kind: EventFocused, SessionID: id}}
		case m.active == id:
			w.State = Minimized
			return []Event{{Kind: EventMinimized, SessionID: id}}
		default:
			m.focusLocked(w)
			return []Event{{Kind: EventFocused, SessionID: id}}
		}
	})
}

// Drag moves a window to (x, y) and focuses it.
func (m *Manager) Drag(id string, x, y int) error {
	return m.apply(id, func(w *Window) []Event {
		w.X, w.Y = x, y
		m.focusLocked(w)
		return []Event{{Kind: EventMoved, SessionID: id}, {Kind: EventFocused, SessionID: id}}
	})
}

func (m *Manager) apply(id string, fn func(w *Window) []Event) error {
	m.mu.Lock()
	w, err := m.lookup(id)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	events := fn(w)
	m.mu.Unlock()

	m.notify(events...)
	return nil
}

// Close flushes pending edits, then removes the window and its taskbar entry.
// Closing the active window leaves no window focused.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	_, err := m.lookup(id)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	if err := m.Flush(id); err != nil && !errors.Is(err, ErrSessionNotFound) {
		m.logger.Warn("closing window with unsaved changes", "session", id, "err", err)
	}

	m.mu.Lock()
	w, err := m.lookup(id)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	delete(m.windows, id)
	delete(m.debouncers, id)
	for i, sid := range m.order {
		if sid == id {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	if m.active == id {
		m.active = ""
	}
	closed := Event{Kind: EventClosed, SessionID: id, DocumentID: w.snapshot().DocumentID}
	m.mu.Unlock()

	m.logger.Debug("window closed", "session", id)
	m.notify(closed)
	return nil
}

// CloseAll closes every open window and returns how many were closed.
func (m *Manager) CloseAll() int {
	closed := 0
	for _, id := range m.ids() {
		if m.Close(id) == nil {
			closed++
		}
	}
	return closed
}

// CloseDocument discards unsaved edits and closes every window bound to docID.
func (m *Manager) CloseDocument(docID int64) int {
	m.mu.Lock()
	var ids []string
	for _, id := range m.order {
		w := m.windows[id]
		if w.DocumentID != nil && *w.DocumentID == docID {
			w.dirty = false
			ids = append(ids, id)
		}
	}
	m.mu.Unlock()

	closed := 0
	for _, id := range ids {
		if m.Close(id) == nil {
			closed++
		}
	}
	return closed
}

// Edit replaces a window's content. Bound windows save through to the store,
// immediately or once edits pause when a debounce is configured.
func (m *Manager) Edit(id, content string) error {
	m.mu.Lock()
	w, err := m.lookup(id)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	w.Content = content
	if !w.Bound() {
		m.mu.Unlock()
		return nil
	}
	w.dirty = true
	if m.delay <= 0 {
		m.mu.Unlock()
		return m.Flush(id)
	}
	deb, ok := m.debouncers[id]
	if !ok {
		deb = debounce.New(m.delay)
		m.debouncers[id] = deb
	}
	m.mu.Unlock()

	deb(func() { _ = m.Flush(id) })
	return nil
}

// Flush saves a window's pending edit, if any.
func (m *Manager) Flush(id string) error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	w, err := m.lookup(id)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if !w.dirty || !w.Bound() {
		m.mu.Unlock()
		return nil
	}
	docID := *w.DocumentID
	content := w.Content
	w.dirty = false
	m.mu.Unlock()

	if _, err := m.docs.UpdateDocument(docID, models.DocumentPatch{Content: &content}); err != nil {
		m.mu.Lock()
		if w, ok := m.windows[id]; ok {
			w.dirty = true
		}
		m.mu.Unlock()

		m.logger.Warn("save failed", "session", id, "document", docID, "err", err)
		m.notify(Event{Kind: EventSaveFailed, SessionID: id, DocumentID: &docID, Err: err})
		return fmt.Errorf("save window %s: %w", id, err)
	}

	m.notify(Event{Kind: EventSaved, SessionID: id, DocumentID: &docID})
	return nil
}

// FlushAll saves every window with a pending edit.
func (m *Manager) FlushAll() error {
	var errs []error
	for _, id := range m.ids() {
		if err := m.Flush(id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SaveAs stores a scratch window as a new document and binds the window to it.
func (m *Manager) SaveAs(id, title string) (*models.Document, error) {
	m.mu.Lock()
	w, err := m.lookup(id)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if w.Bound() {
		m.mu.Unlock()
		return nil, ErrAlreadyBound
	}
	content := w.Content
	m.mu.Unlock()

	doc, err := m.docs.CreateDocument(title, content)
	if err != nil {
		return nil, fmt.Errorf("save window %s as document: %w", id, err)
	}

	m.mu.Lock()
	if w, ok := m.windows[id]; ok {
		docID := doc.ID
		w.DocumentID = &docID
		w.Title = doc.Title
		if w.Content != content {
			w.dirty = true
		}
	}
	m.mu.Unlock()

	docID := doc.ID
	m.notify(
		Event{Kind: EventSaved, SessionID: id, DocumentID: &docID},
		Event{Kind: EventRetitled, SessionID: id, DocumentID: &docID},
	)
	return doc, nil
}

// Retitle updates the title of every window bound to docID.
func (m *Manager) Retitle(docID int64, title string) int {
	m.mu.Lock()
	var events []Event
	for _, id := range m.order {
		w := m.windows[id]
		if w.DocumentID != nil && *w.DocumentID == docID {
			w.Title = title
			d := docID
			events = append(events, Event{Kind: EventRetitled, SessionID: id, DocumentID: &d})
		}
	}
	m.mu.Unlock()

	m.notify(events...)
	return len(events)
}

// Windows returns copies of all open windows in open order.
func (m *Manager) Windows() []Window {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Window, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.windows[id].snapshot())
	}
	return out
}

func (m *Manager) Window(id string) (Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, err := m.lookup(id)
	if err != nil {
		return Window{}, err
	}
	return w.snapshot(), nil
}

// Active returns the focused window, if any.
func (m *Manager) Active() (Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == "" {
		return Window{}, false
	}
	return m.windows[m.active].snapshot(), true
}

// Taskbar mirrors the open windows in open order.
func (m *Manager) Taskbar() []TaskbarEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TaskbarEntry, 0, len(m.order))
	for _, id := range m.order {
		w := m.windows[id]
		out = append(out, TaskbarEntry{
			SessionID: id,
			Title:     w.Title,
			Active:    id == m.active,
			Minimized: w.State == Minimized,
		})
	}
	return out
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// Subscribe registers fn for every desktop event. Call cancel to stop.
func (m *Manager) Subscribe(fn func(Event)) (cancel func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) notify(events ...Event) {
	if len(events) == 0 {
		return
	}
	m.subMu.Lock()
	subs := append([]subscriber(nil), m.subs...)
	m.subMu.Unlock()
	for _, e := range events {
		for _, s := range subs {
			s.fn(e)
		}
	}
}

func (m *Manager) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

func (m *Manager) lookup(id string) (*Window, error) {
	w, ok := m.windows[id]
	if !ok {
		return nil, &SessionNotFoundError{SessionID: id}
	}
	return w, nil
}
