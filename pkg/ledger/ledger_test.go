package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdb/pkg/models"
	"stockdb/pkg/store"
)

func openTemp(t *testing.T) {
	t.Helper()
	require.NoError(t, store.Open(t.TempDir()))
	t.Cleanup(func() { _ = store.Close() })
}

func TestRecordAndAll(t *testing.T) {
	openTemp(t)

	ev, err := Record(models.MovementEvent{
		Kind: models.MovementOutbound,
		Item: "MAT-1", Site: "SITE-A", CostElement: "PEP-1",
		Quantity: "2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.NotZero(t, ev.RecordedAt)

	_, err = Record(models.MovementEvent{
		Kind: models.MovementInbound,
		Item: "MAT-2", Site: "SITE-B", CostElement: "PEP-2",
		Quantity: "1",
	})
	require.NoError(t, err)

	all, err := All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	// insertion order
	assert.Equal(t, "MAT-1", all[0].Item)
	assert.Equal(t, "MAT-2", all[1].Item)

	n, err := Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAllEmpty(t *testing.T) {
	openTemp(t)
	all, err := All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClear(t *testing.T) {
	openTemp(t)
	_, err := Record(models.MovementEvent{Kind: models.MovementInbound, Item: "MAT-1", Site: "S", CostElement: "P", Quantity: "1"})
	require.NoError(t, err)

	n, err := Clear()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestArchiveBefore(t *testing.T) {
	openTemp(t)

	old, err := Record(models.MovementEvent{
		Kind: models.MovementInbound, Item: "MAT-1", Site: "S", CostElement: "P",
		Quantity:   "1",
		RecordedAt: time.Now().Add(-48 * time.Hour).UTC().UnixNano(),
	})
	require.NoError(t, err)
	_, err = Record(models.MovementEvent{
		Kind: models.MovementInbound, Item: "MAT-2", Site: "S", CostElement: "P",
		Quantity: "1",
	})
	require.NoError(t, err)

	cutoff := time.Now().Add(-time.Hour).UTC().UnixNano()
	moved, err := ArchiveBefore(cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	all, err := All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "MAT-2", all[0].Item)

	// archived copy survives under the archive namespace
	doc, err := store.Get("archive:move:" + old.ID)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "MAT-1")
}
