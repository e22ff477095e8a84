package boltdb

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/rs/zerolog/log"
)

// BoltDB wraps an embedded single-file bolt database.
type BoltDB struct {
	DB   *bolt.DB
	Path string
}

// Open opens (creating if needed) the database file at path. timeout bounds
// the wait for the file lock held by another process.
func Open(path string, timeout time.Duration) (*BoltDB, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt database path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create %q: %w", dir, err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("could not open bolt database %q: %w", path, err)
	}

	log.Info().Str("path", path).Msg("[BOLT] Database opened")
	return &BoltDB{DB: db, Path: path}, nil
}

// Close releases the file lock. Safe to call more than once.
func (b *BoltDB) Close() error {
	if b.DB == nil {
		return nil
	}
	err := b.DB.Close()
	b.DB = nil
	log.Info().Str("path", b.Path).Msg("[BOLT] Database closed")
	return err
}
