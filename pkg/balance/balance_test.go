package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdb/pkg/models"
)

func catalogOf3() []models.CatalogRow {
	row := models.CatalogRow{
		Item: "MAT-1", Site: "SITE-A", CostElement: "PEP-1",
		UnitWeight: 100, Description: "plate",
	}
	return []models.CatalogRow{row, row, row}
}

func move(kind, qty string) models.MovementEvent {
	return models.MovementEvent{
		Kind: kind, Item: "MAT-1", Site: "SITE-A", CostElement: "PEP-1",
		Quantity: qty,
	}
}

func TestBaselineOnly(t *testing.T) {
	out := Reconcile(catalogOf3(), nil)
	require.Len(t, out, 1)
	assert.Equal(t, 3, out[0].InitialQuantity)
	assert.Zero(t, out[0].NetMovement)
	assert.Equal(t, 3.0, out[0].CurrentQuantity)
	assert.Equal(t, 300.0, out[0].CurrentWeight)
}

func TestOutboundReducesBalance(t *testing.T) {
	out := Reconcile(catalogOf3(), []models.MovementEvent{move(models.MovementOutbound, "2")})
	require.Len(t, out, 1)
	assert.Equal(t, 1.0, out[0].CurrentQuantity)
	assert.Equal(t, -2.0, out[0].NetMovement)
	assert.Equal(t, 100.0, out[0].CurrentWeight)
}

func TestOverdrawnRowExcluded(t *testing.T) {
	out := Reconcile(catalogOf3(), []models.MovementEvent{move(models.MovementOutbound, "5")})
	assert.Empty(t, out)
}

func TestZeroBalanceExcluded(t *testing.T) {
	out := Reconcile(catalogOf3(), []models.MovementEvent{move(models.MovementOutbound, "3")})
	assert.Empty(t, out)
}

func TestMovementOnlyIdentity(t *testing.T) {
	in := models.MovementEvent{
		Kind: models.MovementInbound, Item: "MAT-9", Site: "SITE-B", CostElement: "PEP-2",
		Quantity: "4",
	}
	out := Reconcile(nil, []models.MovementEvent{in})
	require.Len(t, out, 1)
	assert.Zero(t, out[0].InitialQuantity)
	assert.Equal(t, 4.0, out[0].CurrentQuantity)
	assert.Zero(t, out[0].CurrentWeight) // no catalog baseline, no unit weight
}

func TestConservation(t *testing.T) {
	movements := []models.MovementEvent{
		move(models.MovementInbound, "5"),
		move(models.MovementOutbound, "2"),
		move(models.MovementInbound, "1"),
		move(models.MovementOutbound, "3"),
	}
	out := Reconcile(catalogOf3(), movements)
	require.Len(t, out, 1)
	// k + sum(in) - sum(out) = 3 + 6 - 5
	assert.Equal(t, 4.0, out[0].CurrentQuantity)
}

func TestTransfersSign(t *testing.T) {
	movements := []models.MovementEvent{
		move(models.MovementTransferOut, "2"),
		move(models.MovementTransferIn, "1"),
	}
	out := Reconcile(catalogOf3(), movements)
	require.Len(t, out, 1)
	assert.Equal(t, -1.0, out[0].NetMovement)
}

func TestNormalizationMergesIdentities(t *testing.T) {
	rows := []models.CatalogRow{
		{Item: "mat-1", Site: " site-a ", CostElement: "pep-1"},
		{Item: "MAT-1", Site: "SITE-A", CostElement: "PEP-1"},
	}
	mv := models.MovementEvent{
		Kind: models.MovementOutbound, Item: "Mat-1 ", Site: "Site-A", CostElement: "Pep-1",
		Quantity: "1",
	}
	out := Reconcile(rows, []models.MovementEvent{mv})
	require.Len(t, out, 1)
	assert.Equal(t, "MAT-1", out[0].Item)
	assert.Equal(t, 2, out[0].InitialQuantity)
	assert.Equal(t, 1.0, out[0].CurrentQuantity)
}

func TestLenientQuantity(t *testing.T) {
	assert.Equal(t, 2.5, ParseLenient("2.5"))
	assert.Equal(t, 2.5, ParseLenient("2,5"))
	assert.Equal(t, 0.0, ParseLenient("abc"))
	assert.Equal(t, 0.0, ParseLenient(""))
	assert.Equal(t, 0.0, ParseLenient("-3"))

	// an unparsable movement quantity contributes zero impact, not an error
	out := Reconcile(catalogOf3(), []models.MovementEvent{move(models.MovementOutbound, "garbage")})
	require.Len(t, out, 1)
	assert.Equal(t, 3.0, out[0].CurrentQuantity)
}

func TestIdempotentAndOrderStable(t *testing.T) {
	rows := []models.CatalogRow{
		{Item: "MAT-2", Site: "SITE-B", CostElement: "PEP-1"},
		{Item: "MAT-1", Site: "SITE-A", CostElement: "PEP-1"},
		{Item: "MAT-1", Site: "SITE-B", CostElement: "PEP-1"},
	}
	movements := []models.MovementEvent{
		{Kind: models.MovementInbound, Item: "MAT-3", Site: "SITE-A", CostElement: "PEP-2", Quantity: "1"},
	}
	a := Reconcile(rows, movements)
	b := Reconcile(rows, movements)
	assert.Equal(t, a, b)

	// sorted by (site, item, ...)
	require.Len(t, a, 4)
	assert.Equal(t, "SITE-A", a[0].Site)
	assert.Equal(t, "MAT-1", a[0].Item)
	assert.Equal(t, "SITE-A", a[1].Site)
	assert.Equal(t, "MAT-3", a[1].Item)
	assert.Equal(t, "SITE-B", a[2].Site)
	assert.Equal(t, "MAT-1", a[2].Item)
	assert.Equal(t, "SITE-B", a[3].Site)
	assert.Equal(t, "MAT-2", a[3].Item)
}

func TestNoNonPositiveRowsEver(t *testing.T) {
	rows := catalogOf3()
	movements := []models.MovementEvent{
		move(models.MovementOutbound, "1"),
		move(models.MovementOutbound, "2"),
		move(models.MovementOutbound, "99"),
		{Kind: models.MovementOutbound, Item: "GHOST", Site: "S", CostElement: "P", Quantity: "7"},
	}
	for _, r := range Reconcile(rows, movements) {
		assert.Greater(t, r.CurrentQuantity, 0.0)
	}
}

func TestFilters(t *testing.T) {
	rows := []models.CatalogRow{
		{Item: "MAT-1", Site: "SITE-A", CostElement: "PEP-1", UnitWeight: 10},
		{Item: "MAT-2", Site: "SITE-B", CostElement: "PEP-1", UnitWeight: 20},
	}
	all := Reconcile(rows, nil)
	require.Len(t, all, 2)

	got := Filters{Site: "site-b"}.Apply(all)
	require.Len(t, got, 1)
	assert.Equal(t, "MAT-2", got[0].Item)

	got = Filters{Site: "SITE-A", Item: "MAT-2"}.Apply(all)
	assert.Empty(t, got)

	// zero filter returns everything
	assert.Equal(t, all, Filters{}.Apply(all))
}

func TestSummarize(t *testing.T) {
	rows := []models.CatalogRow{
		{Item: "MAT-1", Site: "SITE-A", CostElement: "PEP-1", UnitWeight: 10},
		{Item: "MAT-1", Site: "SITE-A", CostElement: "PEP-1", UnitWeight: 10},
		{Item: "MAT-2", Site: "SITE-B", CostElement: "PEP-1", UnitWeight: 5},
	}
	s := Summarize(Reconcile(rows, nil))
	assert.Equal(t, 2, s.Rows)
	assert.Equal(t, 3.0, s.TotalPieces)
	assert.Equal(t, 25.0, s.TotalWeight)
}
