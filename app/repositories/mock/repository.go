package mock

import (
	"errors"
	"sync"

	"commentbox/app/repositories"
)

// ErrUnavailable is returned by a Store that has been told to fail.
var ErrUnavailable = errors.New("store unavailable")

// Write is one recorded Set call.
type Write struct {
	Key   string
	Value string
}

// Store is an in-memory KeyValueStore that records every write.
type Store struct {
	values map[string]string
	writes []Write
	fail   bool
	mutex  sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		values: make(map[string]string),
	}
}

// Seed stores value under key without recording a write.
func (m *Store) Seed(key, value string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.values[key] = value
}

// Fail makes every subsequent Get and Set return ErrUnavailable.
func (m *Store) Fail(fail bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.fail = fail
}

// Writes returns the recorded writes in order.
func (m *Store) Writes() []Write {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]Write(nil), m.writes...)
}

// WritesTo returns the recorded writes for key in order.
func (m *Store) WritesTo(key string) []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var values []string
	for _, w := range m.writes {
		if w.Key == key {
			values = append(values, w.Value)
		}
	}
	return values
}

func (m *Store) Get(key string) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.fail {
		return "", ErrUnavailable
	}
	value, exists := m.values[key]
	if !exists {
		return "", repositories.ErrNotFound
	}
	return value, nil
}

func (m *Store) Set(key, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.fail {
		return ErrUnavailable
	}
	m.values[key] = value
	m.writes = append(m.writes, Write{Key: key, Value: value})
	return nil
}
