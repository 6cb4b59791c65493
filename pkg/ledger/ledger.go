// Package ledger is the append-only collection of movement events. Each
// append is an independent, immediately-visible record; there is no
// ordering guarantee relative to concurrent appends from other callers.
package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"stockdb/pkg/logger"
	"stockdb/pkg/models"
	"stockdb/pkg/store"
	"stockdb/pkg/utils"
)

const (
	keyPrefix     = "move:"
	archivePrefix = "archive:move:"
)

// Record appends one movement event and returns it with its generated id
// and timestamp filled in. Events are immutable once written.
func Record(ev models.MovementEvent) (models.MovementEvent, error) {
	if ev.ID == "" {
		ev.ID = utils.GenID()
	}
	if ev.RecordedAt == 0 {
		ev.RecordedAt = time.Now().UTC().UnixNano()
	}
	doc, err := json.Marshal(ev)
	if err != nil {
		return ev, fmt.Errorf("ledger: encode movement: %w", err)
	}
	if err := store.Set(keyPrefix+ev.ID, doc); err != nil {
		return ev, fmt.Errorf("ledger: write movement %s: %w", ev.ID, err)
	}
	logger.Log.Info("movement_recorded",
		zap.String("id", ev.ID),
		zap.String("kind", ev.Kind),
		zap.String("item", ev.Item),
		zap.String("site", ev.Site),
		zap.String("quantity", ev.Quantity))
	return ev, nil
}

// All returns every movement event in id (insertion) order. The engine
// consumes this fully once per reconciliation pass.
func All() ([]models.MovementEvent, error) {
	docs, err := store.ListValues(keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("ledger: list movements: %w", err)
	}
	out := make([]models.MovementEvent, 0, len(docs))
	for _, d := range docs {
		var ev models.MovementEvent
		if err := json.Unmarshal(d, &ev); err != nil {
			return nil, fmt.Errorf("ledger: invalid movement document: %w", err)
		}
		out = append(out, ev)
	}
	return out, nil
}

// Count returns the number of ledger entries.
func Count() (int, error) {
	keys, err := store.ListKeys(keyPrefix)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Clear deletes every ledger entry. Destructive reset flow for
// collaborators; archived entries are untouched.
func Clear() (int, error) {
	n, err := store.DeletePrefix(keyPrefix)
	if err != nil {
		return n, fmt.Errorf("ledger: clear: %w", err)
	}
	logger.Log.Info("ledger_cleared", zap.Int("deleted", n))
	return n, nil
}

// ArchiveBefore moves every event recorded strictly before cutoff (ns)
// into the archive namespace and returns the number moved. Each event is
// copied before its original is deleted, so a failure mid-way never loses
// records.
func ArchiveBefore(cutoff int64) (int, error) {
	keys, err := store.ListKeys(keyPrefix)
	if err != nil {
		return 0, fmt.Errorf("ledger: list for archive: %w", err)
	}
	moved := 0
	for _, k := range keys {
		doc, err := store.Get(k)
		if err != nil {
			return moved, fmt.Errorf("ledger: read %s for archive: %w", k, err)
		}
		var ev models.MovementEvent
		if err := json.Unmarshal(doc, &ev); err != nil {
			return moved, fmt.Errorf("ledger: invalid movement document %s: %w", k, err)
		}
		if ev.RecordedAt >= cutoff {
			continue
		}
		id := strings.TrimPrefix(k, keyPrefix)
		if err := store.Set(archivePrefix+id, doc); err != nil {
			return moved, fmt.Errorf("ledger: archive %s: %w", k, err)
		}
		if err := store.Delete(k); err != nil {
			return moved, fmt.Errorf("ledger: delete archived %s: %w", k, err)
		}
		moved++
	}
	if moved > 0 {
		logger.Log.Info("ledger_archived", zap.Int("moved", moved), zap.Int64("cutoff", cutoff))
	}
	return moved, nil
}
