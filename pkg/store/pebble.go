package store

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"stockdb/pkg/logger"
)

var (
	db     *pebble.DB
	dbPath string

	// maxValueSize caps a single stored value. The backing document store
	// rejects oversized payloads, so the adapter enforces the bound before
	// issuing the write. Zero means unbounded.
	maxValueSize int
)

var (
	// ErrNotOpen is returned when the store is used before Open.
	ErrNotOpen = errors.New("store: not opened; call store.Open first")
	// ErrNotFound is returned by Get for absent keys.
	ErrNotFound = errors.New("store: key not found")
	// ErrValueTooLarge is returned by Set when a value exceeds the
	// configured maximum size.
	ErrValueTooLarge = errors.New("store: value exceeds maximum size")
)

// Open opens (or creates) a Pebble database at the given path and keeps a
// global handle for simple usage in this package.
func Open(path string) error {
	var err error
	logger.Log.Info("opening_pebble_db", zap.String("path", path))
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Log.Error("pebble_open_failed", zap.String("path", path), zap.Error(err))
		return err
	}
	dbPath = path
	logger.Log.Info("pebble_opened", zap.String("path", path))
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	dbPath = ""
	logger.Log.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

// SetMaxValueSize configures the per-value size bound enforced by Set.
// A non-positive limit disables the check.
func SetMaxValueSize(n int) {
	maxValueSize = n
}

// Set stores a key/value pair.
func Set(key string, value []byte) error {
	if db == nil {
		return ErrNotOpen
	}
	if maxValueSize > 0 && len(value) > maxValueSize {
		opErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("%w: %d bytes (max %d) at %s", ErrValueTooLarge, len(value), maxValueSize, key)
	}
	if err := db.Set([]byte(key), value, pebble.Sync); err != nil {
		logger.Log.Error("set_key_failed", zap.String("key", key), zap.Error(err))
		opErrors.WithLabelValues("set").Inc()
		return err
	}
	opTotal.WithLabelValues("set").Inc()
	logger.Log.Debug("set_key_ok", zap.String("key", key), zap.Int("len", len(value)))
	return nil
}

// Get returns the value for the given key.
func Get(key string) ([]byte, error) {
	if db == nil {
		return nil, ErrNotOpen
	}
	v, closer, err := db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		logger.Log.Error("get_key_failed", zap.String("key", key), zap.Error(err))
		opErrors.WithLabelValues("get").Inc()
		return nil, err
	}
	out := append([]byte(nil), v...)
	if closer != nil {
		_ = closer.Close()
	}
	opTotal.WithLabelValues("get").Inc()
	return out, nil
}

// Delete removes a key. Deleting an absent key is not an error.
func Delete(key string) error {
	if db == nil {
		return ErrNotOpen
	}
	if err := db.Delete([]byte(key), pebble.Sync); err != nil {
		logger.Log.Error("delete_key_failed", zap.String("key", key), zap.Error(err))
		opErrors.WithLabelValues("delete").Inc()
		return err
	}
	opTotal.WithLabelValues("delete").Inc()
	return nil
}

// ListKeys returns all keys that start with the given prefix, in key order.
// An empty prefix returns every key in the DB.
func ListKeys(prefix string) ([]string, error) {
	if db == nil {
		return nil, ErrNotOpen
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	pfx := []byte(prefix)
	var out []string
	for iter.SeekGE(pfx); iter.Valid(); iter.Next() {
		if len(pfx) > 0 && !bytes.HasPrefix(iter.Key(), pfx) {
			break
		}
		k := append([]byte(nil), iter.Key()...)
		out = append(out, string(k))
	}
	opTotal.WithLabelValues("list").Inc()
	return out, iter.Error()
}

// ListValues returns all values stored under keys with the given prefix,
// in key order.
func ListValues(prefix string) ([][]byte, error) {
	if db == nil {
		return nil, ErrNotOpen
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	pfx := []byte(prefix)
	var out [][]byte
	for iter.SeekGE(pfx); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), pfx) {
			break
		}
		out = append(out, append([]byte(nil), iter.Value()...))
	}
	opTotal.WithLabelValues("list").Inc()
	return out, iter.Error()
}

// DeletePrefix enumerates and deletes every key under the prefix, one key
// at a time, and returns the number of keys removed. There is no
// transactional boundary: a failure mid-way leaves the prefix partially
// deleted.
func DeletePrefix(prefix string) (int, error) {
	if db == nil {
		return 0, ErrNotOpen
	}
	keys, err := ListKeys(prefix)
	if err != nil {
		return 0, err
	}
	for i, k := range keys {
		if err := db.Delete([]byte(k), pebble.Sync); err != nil {
			logger.Log.Error("delete_prefix_failed", zap.String("prefix", prefix), zap.String("key", k), zap.Error(err))
			opErrors.WithLabelValues("delete").Inc()
			return i, err
		}
	}
	opTotal.WithLabelValues("delete").Add(float64(len(keys)))
	return len(keys), nil
}
