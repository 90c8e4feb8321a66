package repositories

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound = errors.New("record not found")
)

// BadgerStore implements KeyValueStore using BadgerDB
type BadgerStore struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	isTempDB bool
}

// NewBadgerStore opens a Badger database at path. An empty path opens a
// throw-away database in a temporary directory that is removed on Close.
func NewBadgerStore(path string) (*BadgerStore, error) {
	isTemp := false
	if path == "" {
		tempPath, err := os.MkdirTemp("", "commentbox_badger_")
		if err != nil {
			return nil, fmt.Errorf("error creating temp dir: %v", err)
		}
		path = tempPath
		isTemp = true
	}
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{
		db:       db,
		dbPath:   path,
		isTempDB: isTemp,
	}, nil
}

// NewInMemoryBadgerStore opens a Badger database that never touches disk.
func NewInMemoryBadgerStore() (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	err := s.db.Close()
	if err != nil {
		return err
	}

	if s.isTempDB {
		err = os.RemoveAll(s.dbPath)
		if err != nil {
			return fmt.Errorf("failed to cleanup temp database: %v", err)
		}
	}
	return nil
}

// Get returns the value stored under key
func (s *BadgerStore) Get(key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value
func (s *BadgerStore) Set(key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

// Backup writes a full backup of the database to w.
func (s *BadgerStore) Backup(w io.Writer) (uint64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.db.Backup(w, 0)
}

// Restore loads a backup produced by Backup.
func (s *BadgerStore) Restore(r io.Reader) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Load(r, 4)
}

// Clear drops every key in the database.
func (s *BadgerStore) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.DropAll()
}
