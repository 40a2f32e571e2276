// ABOUTME: In-memory document/folder index with write-through persistence.
// ABOUTME: Owns id counters, insertion order, and change notification.

package docdb

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/mdesk/internal/logging"
	"github.com/harper/mdesk/internal/models"
)

// Op is the mutation reported to subscribers.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpLoad   Op = "load"
)

// Change describes one completed, persisted mutation.
type Change struct {
	Op   Op
	Kind Kind
	ID   int64
	// Cascade lists documents removed together with a deleted folder.
	Cascade []int64
}

// ordered keeps records by id along with their insertion order.
type ordered[T any] struct {
	byID  map[int64]T
	order []int64
}

func newOrdered[T any]() ordered[T] {
	return ordered[T]{byID: make(map[int64]T)}
}

func (o *ordered[T]) put(id int64, v T) {
	if _, ok := o.byID[id]; !ok {
		o.order = append(o.order, id)
	}
	o.byID[id] = v
}

func (o *ordered[T]) remove(id int64) bool {
	if _, ok := o.byID[id]; !ok {
		return false
	}
	delete(o.byID, id)
	for i, v := range o.order {
		if v == id {
			o.order = append(o.order[:i:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

func (o *ordered[T]) values() []T {
	out := make([]T, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.byID[id])
	}
	return out
}

func (o *ordered[T]) clone() ordered[T] {
	c := ordered[T]{byID: make(map[int64]T, len(o.byID)), order: append([]int64(nil), o.order...)}
	for k, v := range o.byID {
		c.byID[k] = v
	}
	return c
}

// DB is the storage engine. All operations are serialized by one mutex, so a
// mutation and its persistence form a single step for every other caller.
type DB struct {
	mu        sync.Mutex
	repo      Repository
	docs      ordered[*models.Document]
	folders   ordered[*models.Folder]
	nextDocID int64
	nextFolID int64
	ready     bool

	now    func() time.Time
	logger *log.Logger

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// Option configures a DB.
type Option func(*DB)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(db *DB) {
		db.now = now
	}
}

// WithLogger sets the logger used for recoverable problems.
func WithLogger(l *log.Logger) Option {
	return func(db *DB) {
		db.logger = l
	}
}

// New creates an engine over repo. Call Init before use.
func New(repo Repository, opts ...Option) *DB {
	db := &DB{
		repo:      repo,
		docs:      newOrdered[*models.Document](),
		folders:   newOrdered[*models.Folder](),
		nextDocID: 1,
		nextFolID: 1,
		now:       time.Now,
		logger:    logging.Discard(),
		subs:      make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Init loads both collections. A missing collection starts empty; a corrupt one
// is logged and reset to empty. Only a failing store is returned as an error.
func (db *DB) Init() error {
	docs, err := db.repo.LoadDocuments()
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return err
		}
		db.logger.Warn("discarding unreadable documents", "err", err)
		docs = nil
	}
	folders, err := db.repo.LoadFolders()
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return err
		}
		db.logger.Warn("discarding unreadable folders", "err", err)
		folders = nil
	}

	db.mu.Lock()
	db.docs = newOrdered[*models.Document]()
	db.folders = newOrdered[*models.Folder]()
	for _, d := range docs {
		db.docs.put(d.ID, d)
		if d.ID >= db.nextDocID {
			db.nextDocID = d.ID + 1
		}
	}
	for _, f := range folders {
		db.folders.put(f.ID, f)
		if f.ID >= db.nextFolID {
			db.nextFolID = f.ID + 1
		}
	}
	db.ready = true
	db.mu.Unlock()

	db.logger.Debug("store loaded", "documents", len(docs), "folders", len(folders))
	db.notify(Change{Op: OpLoad})
	return nil
}

// Save writes both collections to the store.
func (db *DB) Save() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if !db.ready {
		return ErrNotInitialized
	}
	return db.persist()
}

// persist must be called with mu held.
func (db *DB) persist() error {
	return db.repo.SaveAll(db.docs.values(), db.folders.values())
}

// commit persists a mutation already applied to the index, restoring the
// previous index if the store rejects it. Must be called with mu held.
func (db *DB) commit(prevDocs ordered[*models.Document], prevFolders ordered[*models.Folder]) error {
	if err := db.persist(); err != nil {
		db.docs = prevDocs
		db.folders = prevFolders
		db.logger.Error("persist failed, mutation rolled back", "err", err)
		return err
	}
	return nil
}

// Subscribe registers fn for every completed mutation. fn runs after the engine
// lock is released and may call back into the DB.
func (db *DB) Subscribe(fn func(Change)) (cancel func()) {
	db.subMu.Lock()
	id := db.nextSub
	db.nextSub++
	db.subs[id] = fn
	db.subMu.Unlock()

	return func() {
		db.subMu.Lock()
		delete(db.subs, id)
		db.subMu.Unlock()
	}
}

func (db *DB) notify(c Change) {
	db.subMu.Lock()
	fns := make([]func(Change), 0, len(db.subs))
	for i := 0; i < db.nextSub; i++ {
		if fn, ok := db.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	db.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// NextIDs reports the ids the next created document and folder will receive.
func (db *DB) NextIDs() (doc, folder int64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.nextDocID, db.nextFolID
}
