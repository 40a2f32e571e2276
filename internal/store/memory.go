// ABOUTME: In-memory Store implementation with fault injection.
// ABOUTME: Tests use it to run the engine without disk and to inject store faults.

package store

import (
	"errors"
	"sync"
)

// ErrInjected is returned by Memory when a fault has been injected.
var ErrInjected = errors.New("injected storage fault")

type Memory struct {
	mu         sync.Mutex
	data       map[string][]byte
	closed     bool
	failReads  bool
	failWrites bool
	writes     int
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if m.failReads {
		return nil, ErrInjected
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) SetMany(entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.failWrites {
		return ErrInjected
	}
	for k, v := range entries {
		m.data[k] = append([]byte(nil), v...)
	}
	m.writes++
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// FailReads makes every Get fail with ErrInjected until reset.
func (m *Memory) FailReads(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failReads = fail
}

// FailWrites makes every SetMany fail with ErrInjected until reset.
func (m *Memory) FailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = fail
}

// Writes returns the number of successful SetMany calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
