// Package store is the bbolt-backed implementation of the REPL history store.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"src.iok.sh/pkg/logutil"
	"src.iok.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

const bucketCmd = "cmd"

// How long to wait for the lock of a database held by another process.
const dbTimeout = time.Second

// DBStore is the permanent storage backend for the REPL.
type DBStore interface {
	storedefs.Store
	Close() error
}

var initDB = map[string](func(*bolt.Tx) error){}

type dbStore struct {
	db *bolt.DB
}

// NewStore opens the named database file, creating it if it doesn't exist.
func NewStore(dbname string) (DBStore, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: dbTimeout})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbname, err)
	}
	return newStoreFromBolt(db)
}

func newStoreFromBolt(db *bolt.DB) (DBStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Printf("initialized store at %s", db.Path())
	return &dbStore{db}, nil
}

// Close releases the database. Other processes may open it afterwards.
func (s *dbStore) Close() error {
	return s.db.Close()
}
