// ABOUTME: Badger-backed Store implementation.
// ABOUTME: Each SetMany is one badger update transaction.

package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
)

type Badger struct {
	db *badger.DB
}

// Option configures badger before opening.
type Option func(badger.Options) badger.Options

// WithLogger routes badger's internal logging. Passing nil silences it.
func WithLogger(l badger.Logger) Option {
	return func(o badger.Options) badger.Options {
		return o.WithLogger(l)
	}
}

// Open opens (or creates) a badger store in dir.
func Open(dir string, opts ...Option) (*Badger, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return open(badger.DefaultOptions(dir), opts)
}

// OpenInMemory opens a badger store that never touches disk.
func OpenInMemory(opts ...Option) (*Badger, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), opts)
}

func open(o badger.Options, opts []Option) (*Badger, error) {
	o = o.WithLogger(nil)
	for _, opt := range opts {
		o = opt(o)
	}
	db, err := badger.Open(o)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(key string) ([]byte, error) {
	if b.db.IsClosed() {
		return nil, ErrClosed
	}
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	return val, err
}

func (b *Badger) SetMany(entries map[string][]byte) error {
	if b.db.IsClosed() {
		return ErrClosed
	}
	return b.db.Update(func(txn *badger.Txn) error {
		for k, v := range entries {
			if err := txn.Set([]byte(k), v); err != nil {
				return fmt.Errorf("set %s: %w", k, err)
			}
		}
		return nil
	})
}

func (b *Badger) Close() error {
	return b.db.Close()
}
