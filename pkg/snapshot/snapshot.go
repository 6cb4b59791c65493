// Package snapshot persists one named table snapshot as an ordered set of
// size-bounded chunk documents in the backend store.
//
// Replace is deliberately not atomic: old chunks are deleted before new
// ones are written and there is no transactional boundary, so a crash or a
// concurrent reader between the two phases can observe an empty or
// mixed-generation snapshot. Callers that need stronger guarantees must
// layer mutual exclusion on top. A write-then-flip generation pointer
// would close the gap; the in-place replace is the baseline behavior here.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"stockdb/pkg/chunk"
	"stockdb/pkg/logger"
	"stockdb/pkg/store"
)

// ErrEmptySnapshot is returned by Read when no chunks exist under the key.
// It is the legitimate "nothing loaded yet" state, distinct from a backend
// fault; callers should branch on it with errors.Is.
var ErrEmptySnapshot = errors.New("snapshot: no chunks stored")

var (
	chunkCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stockdb_snapshot_chunks",
		Help: "Chunks written by the last successful replace, by snapshot key.",
	}, []string{"key"})
	snapshotBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stockdb_snapshot_bytes",
		Help: "Serialized table size written by the last successful replace.",
	}, []string{"key"})
)

// Store owns the persistence lifecycle of chunked snapshots. MaxChunkSize
// bounds a single chunk payload; the backing document store enforces its
// own per-document limit above it.
type Store struct {
	MaxChunkSize int
}

// New returns a snapshot store with the given chunk bound.
func New(maxChunkSize int) *Store {
	return &Store{MaxChunkSize: maxChunkSize}
}

func chunkKey(key string, part int) string {
	return fmt.Sprintf("snap:%s:chunk:%06d", key, part)
}

func chunkPrefix(key string) string {
	return "snap:" + key + ":chunk:"
}

// Replace deletes every existing chunk under key, splits data via the
// codec and writes the new chunks in part order. See the package comment
// for the atomicity caveat.
func (s *Store) Replace(key string, data []byte) error {
	chunks, err := chunk.Split(data, s.MaxChunkSize)
	if err != nil {
		return err
	}
	deleted, err := store.DeletePrefix(chunkPrefix(key))
	if err != nil {
		return fmt.Errorf("snapshot: delete old chunks for %s: %w", key, err)
	}
	for _, c := range chunks {
		doc, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("snapshot: encode chunk %d of %s: %w", c.Part, key, err)
		}
		if err := store.Set(chunkKey(key, c.Part), doc); err != nil {
			return fmt.Errorf("snapshot: write chunk %d of %s: %w", c.Part, key, err)
		}
	}
	chunkCount.WithLabelValues(key).Set(float64(len(chunks)))
	snapshotBytes.WithLabelValues(key).Set(float64(len(data)))
	logger.Log.Info("snapshot_replaced",
		zap.String("key", key),
		zap.Int("deleted", deleted),
		zap.Int("chunks", len(chunks)),
		zap.Int("bytes", len(data)))
	return nil
}

// Read lists all chunks under key, orders them by part index and
// reassembles the original byte stream. Returns ErrEmptySnapshot when zero
// chunks exist.
func (s *Store) Read(key string) ([]byte, error) {
	docs, err := store.ListValues(chunkPrefix(key))
	if err != nil {
		return nil, fmt.Errorf("snapshot: list chunks for %s: %w", key, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySnapshot, key)
	}
	chunks := make([]chunk.Chunk, 0, len(docs))
	for _, d := range docs {
		var c chunk.Chunk
		if err := json.Unmarshal(d, &c); err != nil {
			return nil, fmt.Errorf("snapshot: invalid chunk document under %s: %w", key, err)
		}
		chunks = append(chunks, c)
	}
	data, err := chunk.Reassemble(chunks)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %s: %w", key, err)
	}
	logger.Log.Debug("snapshot_read", zap.String("key", key), zap.Int("chunks", len(chunks)), zap.Int("bytes", len(data)))
	return data, nil
}

// Clear deletes all chunks under key. Used for explicit reset flows.
func (s *Store) Clear(key string) error {
	n, err := store.DeletePrefix(chunkPrefix(key))
	if err != nil {
		return fmt.Errorf("snapshot: clear %s: %w", key, err)
	}
	chunkCount.WithLabelValues(key).Set(0)
	snapshotBytes.WithLabelValues(key).Set(0)
	logger.Log.Info("snapshot_cleared", zap.String("key", key), zap.Int("deleted", n))
	return nil
}

// ChunkCount returns the number of chunks currently stored under key.
func (s *Store) ChunkCount(key string) (int, error) {
	keys, err := store.ListKeys(chunkPrefix(key))
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
