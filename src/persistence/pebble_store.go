package persistence

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

// PebbleStore persists the local cache in a PebbleDB directory so cached
// identifiers survive restarts.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(dataDir string) (*PebbleStore, error) {
	if dataDir == "" {
		dataDir = "./data/psychat"
	}

	db, err := pebble.Open(dataDir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble store at %s: %w", dataDir, err)
	}

	return &PebbleStore{db: db}, nil
}

func (ps *PebbleStore) Get(key string) (string, bool, error) {
	value, closer, err := ps.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	defer closer.Close()

	out := make([]byte, len(value))
	copy(out, value)
	return string(out), true, nil
}

func (ps *PebbleStore) Set(key, value string) error {
	if err := ps.db.Set([]byte(key), []byte(value), pebble.Sync); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (ps *PebbleStore) Remove(key string) error {
	if err := ps.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (ps *PebbleStore) Close() error {
	return ps.db.Close()
}
