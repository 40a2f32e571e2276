// ABOUTME: Tests for the desktop window manager state machine.
// ABOUTME: Covers z-order, focus, taskbar mirroring, and save-through edits.

package desktop

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/harper/mdesk/internal/docdb"
	"github.com/harper/mdesk/internal/models"
	"github.com/harper/mdesk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocs struct {
	mu      sync.Mutex
	next    int64
	updates []string
	fail    error
}

func (f *fakeDocs) UpdateDocument(id int64, patch models.DocumentPatch) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	f.updates = append(f.updates, *patch.Content)
	return &models.Document{ID: id, Content: *patch.Content}, nil
}

func (f *fakeDocs) CreateDocument(title, content string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	f.next++
	d := models.NewDocument(title, content, time.UnixMilli(1))
	d.ID = f.next
	return d, nil
}

func (f *fakeDocs) saved() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.updates...)
}

func sequentialIDs() Option {
	n := 0
	return WithSessionIDs(func() string {
		n++
		return fmt.Sprintf("w%d", n)
	})
}

func newManager(t *testing.T, opts ...Option) (*Manager, *fakeDocs) {
	t.Helper()
	docs := &fakeDocs{}
	return New(docs, append([]Option{sequentialIDs()}, opts...)...), docs
}

func boundDoc(id int64, title string) *models.Document {
	d := models.NewDocument(title, "body", time.UnixMilli(1))
	d.ID = id
	return d
}

func TestOpenCascadesAndFocuses(t *testing.T) {
	m, _ := newManager(t)

	a := m.Open(boundDoc(1, "A"))
	b := m.Open(boundDoc(2, "B"))
	c := m.Open(nil)

	wins := m.Windows()
	require.Len(t, wins, 3)
	assert.Equal(t, []int{50, 80, 110}, []int{wins[0].X, wins[1].X, wins[2].X})
	assert.Equal(t, wins[2].X, wins[2].Y)

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, c, active.SessionID)
	assert.Equal(t, models.DefaultTitle, active.Title)
	assert.False(t, active.Bound())

	wa, _ := m.Window(a)
	wb, _ := m.Window(b)
	assert.Equal(t, BaselineZ, wa.Z)
	assert.Equal(t, BaselineZ, wb.Z)
	assert.Greater(t, active.Z, BaselineZ)
	assert.Equal(t, Normal, active.State)
}

func TestCustomCascade(t *testing.T) {
	m, _ := newManager(t, WithCascade(10, 5))
	m.Open(nil)
	m.Open(nil)
	wins := m.Windows()
	assert.Equal(t, 10, wins[0].X)
	assert.Equal(t, 15, wins[1].Y)
}

func TestFocusRaisesAndDemotes(t *testing.T) {
	m, _ := newManager(t)
	a := m.Open(nil)
	b := m.Open(nil)

	require.NoError(t, m.Focus(a))

	wa, _ := m.Window(a)
	wb, _ := m.Window(b)
	assert.Equal(t, BaselineZ, wb.Z)
	assert.Greater(t, wa.Z, wb.Z)
	active, _ := m.Active()
	assert.Equal(t, a, active.SessionID)
}

func TestFocusActiveWindowIsIdempotent(t *testing.T) {
	m, _ := newManager(t)
	m.Open(nil)
	b := m.Open(nil)
	before := m.Windows()
	zBefore := before[1].Z

	require.NoError(t, m.Focus(b))
	require.NoError(t, m.Focus(b))

	after := m.Windows()
	require.Len(t, after, 2)
	assert.Equal(t, before[0].SessionID, after[0].SessionID)
	assert.Equal(t, b, after[1].SessionID)
	assert.GreaterOrEqual(t, after[1].Z, zBefore)
	active, _ := m.Active()
	assert.Equal(t, b, active.SessionID)
}

func TestMinimizeKeepsZAndFocus(t *testing.T) {
	m, _ := newManager(t)
	a := m.Open(nil)
	before, _ := m.Window(a)

	require.NoError(t, m.Minimize(a))

	w, _ := m.Window(a)
	assert.Equal(t, Minimized, w.State)
	assert.False(t, w.Visible())
	assert.Equal(t, before.Z, w.Z)
	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, a, active.SessionID)
}

func TestMaximizeIsTwoStateToggle(t *testing.T) {
	m, _ := newManager(t)
	a := m.Open(nil)

	require.NoError(t, m.Maximize(a))
	w, _ := m.Window(a)
	assert.Equal(t, Maximized, w.State)

	require.NoError(t, m.Maximize(a))
	w, _ = m.Window(a)
	assert.Equal(t, Normal, w.State)

	require.NoError(t, m.Maximize(a))
	require.NoError(t, m.Minimize(a))
	require.NoError(t, m.Restore(a))
	w, _ = m.Window(a)
	assert.Equal(t, Maximized, w.State, "restore returns to the previous layout")

	require.NoError(t, m.Minimize(a))
	require.NoError(t, m.Maximize(a))
	w, _ = m.Window(a)
	assert.Equal(t, Normal, w.State, "toggling a minimized window shows it")
}

func TestActivateFromTaskbar(t *testing.T) {
	m, _ := newManager(t)
	a := m.Open(nil)
	b := m.Open(nil)

	// active window minimizes
	require.NoError(t, m.ActivateFromTaskbar(b))
	wb, _ := m.Window(b)
	assert.Equal(t, Minimized, wb.State)

	// minimized window restores and takes focus
	require.NoError(t, m.ActivateFromTaskbar(b))
	wb, _ = m.Window(b)
	assert.Equal(t, Normal, wb.State)
	active, _ := m.Active()
	assert.Equal(t, b, active.SessionID)

	// inactive visible window gains focus
	require.NoError(t, m.ActivateFromTaskbar(a))
	active, _ = m.Active()
	assert.Equal(t, a, active.SessionID)
	wa, _ := m.Window(a)
	assert.Equal(t, Normal, wa.State)
}

func TestDragMovesAndFocuses(t *testing.T) {
	m, _ := newManager(t)
	a := m.Open(nil)
	m.Open(nil)

	require.NoError(t, m.Drag(a, 300, 40))

	w, _ := m.Window(a)
	assert.Equal(t, 300, w.X)
	assert.Equal(t, 40, w.Y)
	active, _ := m.Active()
	assert.Equal(t, a, active.SessionID)
}

func TestCloseActiveLeavesFocusUnset(t *testing.T) {
	m, _ := newManager(t)
	a := m.Open(nil)
	b := m.Open(nil)

	require.NoError(t, m.Close(b))

	_, ok := m.Active()
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
	_, err := m.Window(b)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, m.Close(a))
	assert.Empty(t, m.Taskbar())
}

func TestCloseInactiveKeepsFocus(t *testing.T) {
	m, _ := newManager(t)
	a := m.Open(nil)
	b := m.Open(nil)

	require.NoError(t, m.Close(a))

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, b, active.SessionID)
}

func TestCloseAll(t *testing.T) {
	m, _ := newManager(t)
	m.Open(nil)
	m.Open(boundDoc(1, "A"))
	m.Open(nil)

	assert.Equal(t, 3, m.CloseAll())

	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Windows())
	assert.Empty(t, m.Taskbar())
	_, ok := m.Active()
	assert.False(t, ok)
	assert.Equal(t, 0, m.CloseAll())
}

func TestTaskbarMirrorsWindows(t *testing.T) {
	m, _ := newManager(t)
	a := m.Open(boundDoc(1, "Alpha"))
	b := m.Open(boundDoc(2, "Beta"))
	c := m.Open(boundDoc(3, "Gamma"))
	require.NoError(t, m.Minimize(a))
	require.NoError(t, m.Close(b))

	bar := m.Taskbar()
	require.Len(t, bar, 2)
	assert.Equal(t, TaskbarEntry{SessionID: a, Title: "Alpha", Minimized: true}, bar[0])
	assert.Equal(t, TaskbarEntry{SessionID: c, Title: "Gamma", Active: true}, bar[1])

	wins := m.Windows()
	for i, w := range wins {
		assert.Equal(t, w.SessionID, bar[i].SessionID)
	}
}

func TestUnknownSession(t *testing.T) {
	m, _ := newManager(t)

	checks := map[string]error{
		"focus":    m.Focus("nope"),
		"minimize": m.Minimize("nope"),
		"maximize": m.Maximize("nope"),
		"restore":  m.Restore("nope"),
		"taskbar":  m.ActivateFromTaskbar("nope"),
		"drag":     m.Drag("nope", 1, 1),
		"close":    m.Close("nope"),
		"edit":     m.Edit("nope", "x"),
		"flush":    m.Flush("nope"),
	}
	for name, err := range checks {
		assert.ErrorIs(t, err, ErrSessionNotFound, name)
		var snf *SessionNotFoundError
		assert.True(t, errors.As(err, &snf), name)
	}
	_, err := m.SaveAs("nope", "x")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEditSavesThroughImmediately(t *testing.T) {
	m, docs := newManager(t)
	a := m.Open(boundDoc(7, "Doc"))

	require.NoError(t, m.Edit(a, "one"))
	require.NoError(t, m.Edit(a, "two"))

	assert.Equal(t, []string{"one", "two"}, docs.saved())
	w, _ := m.Window(a)
	assert.Equal(t, "two", w.Content)
	assert.False(t, w.Dirty())
}

func TestScratchEditsStayLocal(t *testing.T) {
	m, docs := newManager(t)
	a := m.Open(nil)

	require.NoError(t, m.Edit(a, "draft"))
	require.NoError(t, m.Flush(a))

	assert.Empty(t, docs.saved())
	w, _ := m.Window(a)
	assert.Equal(t, "draft", w.Content)
}

func TestSaveAsBindsScratchWindow(t *testing.T) {
	m, docs := newManager(t)
	a := m.Open(nil)
	require.NoError(t, m.Edit(a, "draft"))

	doc, err := m.SaveAs(a, "Plan")
	require.NoError(t, err)
	assert.Equal(t, "draft", doc.Content)

	w, _ := m.Window(a)
	require.True(t, w.Bound())
	assert.Equal(t, doc.ID, *w.DocumentID)
	assert.Equal(t, "Plan", w.Title)
	assert.Equal(t, "Plan", m.Taskbar()[0].Title)

	_, err = m.SaveAs(a, "Again")
	assert.ErrorIs(t, err, ErrAlreadyBound)

	require.NoError(t, m.Edit(a, "final"))
	assert.Equal(t, []string{"final"}, docs.saved())
}

func TestDebouncedEditsKeepLastWrite(t *testing.T) {
	m, docs := newManager(t, WithSaveDebounce(50*time.Millisecond))
	a := m.Open(boundDoc(1, "Doc"))

	for _, c := range []string{"a", "ab", "abc"} {
		require.NoError(t, m.Edit(a, c))
	}
	assert.Empty(t, docs.saved(), "nothing saved before the pause")

	require.Eventually(t, func() bool { return len(docs.saved()) > 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"abc"}, docs.saved())
}

func TestCloseFlushesPendingEdit(t *testing.T) {
	m, docs := newManager(t, WithSaveDebounce(time.Hour))
	a := m.Open(boundDoc(1, "Doc"))
	require.NoError(t, m.Edit(a, "pending"))

	require.NoError(t, m.Close(a))

	assert.Equal(t, []string{"pending"}, docs.saved())
}

func TestCloseDocumentDiscardsEdits(t *testing.T) {
	m, docs := newManager(t, WithSaveDebounce(time.Hour))
	a := m.Open(boundDoc(1, "Doc"))
	m.Open(boundDoc(1, "Doc"))
	keep := m.Open(boundDoc(2, "Other"))
	require.NoError(t, m.Edit(a, "lost"))

	assert.Equal(t, 2, m.CloseDocument(1))

	assert.Empty(t, docs.saved())
	require.Equal(t, 1, m.Len())
	assert.Equal(t, keep, m.Windows()[0].SessionID)
}

func TestSaveFailureReportsAndStaysDirty(t *testing.T) {
	m, docs := newManager(t)
	boom := errors.New("disk full")
	docs.fail = boom
	a := m.Open(boundDoc(1, "Doc"))

	var events []Event
	m.Subscribe(func(e Event) { events = append(events, e) })

	err := m.Edit(a, "x")
	require.ErrorIs(t, err, boom)

	w, _ := m.Window(a)
	assert.True(t, w.Dirty())
	require.Len(t, events, 1)
	assert.Equal(t, EventSaveFailed, events[0].Kind)
	assert.ErrorIs(t, events[0].Err, boom)

	docs.fail = nil
	require.NoError(t, m.Flush(a))
	assert.Equal(t, []string{"x"}, docs.saved())
}

func TestRetitle(t *testing.T) {
	m, _ := newManager(t)
	a := m.Open(boundDoc(1, "Old"))
	b := m.Open(boundDoc(2, "Other"))

	assert.Equal(t, 1, m.Retitle(1, "New"))

	wa, _ := m.Window(a)
	wb, _ := m.Window(b)
	assert.Equal(t, "New", wa.Title)
	assert.Equal(t, "Other", wb.Title)
	assert.Equal(t, "New", m.Taskbar()[0].Title)
}

func TestEventsDeliveredOutsideLock(t *testing.T) {
	m, _ := newManager(t)
	var kinds []EventKind
	var counts []int
	cancel := m.Subscribe(func(e Event) {
		kinds = append(kinds, e.Kind)
		counts = append(counts, m.Len())
	})

	a := m.Open(nil)
	require.NoError(t, m.Maximize(a))
	require.NoError(t, m.Close(a))
	cancel()
	m.Open(nil)

	assert.Equal(t, []EventKind{EventOpened, EventFocused, EventMaximized, EventClosed}, kinds)
	assert.Equal(t, []int{1, 1, 1, 0}, counts)
}

func TestSavesReachStorageEngine(t *testing.T) {
	db := docdb.New(docdb.NewKVRepository(store.NewMemory()))
	require.NoError(t, db.Init())
	doc, err := db.CreateDocument("Notes", "")
	require.NoError(t, err)

	m := New(db)
	a := m.Open(doc)
	require.NoError(t, m.Edit(a, "# hello"))

	stored, ok := db.GetDocument(doc.ID)
	require.True(t, ok)
	assert.Equal(t, "# hello", stored.Content)

	s := m.Open(nil)
	require.NoError(t, m.Edit(s, "scratch"))
	saved, err := m.SaveAs(s, "")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTitle, saved.Title)
	assert.Len(t, db.AllDocuments(), 2)

	_, err = db.DeleteDocument(doc.ID)
	require.NoError(t, err)
	err = m.Edit(a, "gone")
	assert.True(t, docdb.IsNotFound(err, docdb.KindDocument))
}
