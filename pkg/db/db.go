package db

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/ledgersync/collector/pkg/pipeline"
)

// DB wraps the embedded LevelDB instance shared by the per-entity stores and
// the kv checkpoints. The collector is the single writer, so no coordination
// beyond LevelDB's own write ordering is needed.
type DB struct {
	conn *leveldb.DB
}

// Open opens (or creates) the store at the given path.
func Open(path string) (*DB, error) {
	conn, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", path, err)
	}
	return &DB{conn: conn}, nil
}

// Close safely closes the store.
func (d *DB) Close() error {
	return d.conn.Close()
}

// get returns the value for key, with found=false when the key is absent.
// Any other failure surfaces as a store-unavailable error.
func (d *DB) get(key []byte) ([]byte, bool, error) {
	value, err := d.conn.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", pipeline.ErrStoreUnavailable, key, err)
	}
	return value, true, nil
}

// put inserts or overwrites a key-value pair.
func (d *DB) put(key, value []byte) error {
	if err := d.conn.Put(key, value, nil); err != nil {
		return fmt.Errorf("%w: put %s: %v", pipeline.ErrStoreUnavailable, key, err)
	}
	return nil
}

// delete removes a key; deleting an absent key is not an error.
func (d *DB) delete(key []byte) error {
	if err := d.conn.Delete(key, nil); err != nil && !errors.Is(err, leveldb.ErrNotFound) {
		return fmt.Errorf("%w: delete %s: %v", pipeline.ErrStoreUnavailable, key, err)
	}
	return nil
}
