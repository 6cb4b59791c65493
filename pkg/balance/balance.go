// Package balance computes the current-balance view from the master
// catalog plus the movement ledger. Reconcile is a pure, stateless
// projection: same inputs, same output, no side effects.
package balance

import (
	"sort"
	"strconv"
	"strings"

	"stockdb/pkg/models"
)

// ParseLenient parses a movement quantity as a non-negative number.
// Anything unparsable, and any negative value, counts as 0. This is a
// deliberate availability-over-validation policy: one malformed ledger
// entry must not take down every balance read.
func ParseLenient(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != f || f < 0 {
		return 0
	}
	return f
}

// norm canonicalizes a grouping field. Matching is case- and
// whitespace-insensitive; unnormalized keys would silently fragment one
// physical identity into multiple balance rows.
func norm(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

type groupKey struct {
	Item        string
	Site        string
	CostElement string
	Lot         string
}

func normKey(id models.Identity) groupKey {
	return groupKey{Item: norm(id.Item), Site: norm(id.Site), CostElement: norm(id.CostElement), Lot: norm(id.Lot)}
}

// Reconcile merges the catalog baseline with the movement ledger and
// returns the materialized balance table.
//
// Catalog rows group by the normalized identity tuple; the group's count
// is its initial quantity and descriptive attributes come from the first
// observed row (groups are assumed descriptively homogeneous; divergent
// rows merge under the first row's attributes). Movements group by the
// same tuple and contribute +quantity for INBOUND/TRANSFER_IN, -quantity
// otherwise. The groupings outer-join: catalog-only groups get zero net
// movement, movement-only groups get a zero baseline. Only groups with a
// positive current quantity are returned, sorted by (site, item, cost
// element, lot).
func Reconcile(rows []models.CatalogRow, movements []models.MovementEvent) []models.BalanceRow {
	type group struct {
		first models.CatalogRow
		count int
		net   float64
	}
	groups := map[groupKey]*group{}
	order := make([]groupKey, 0, len(rows))

	for _, r := range rows {
		k := normKey(r.Identity())
		g, ok := groups[k]
		if !ok {
			g = &group{first: r}
			groups[k] = g
			order = append(order, k)
		}
		g.count++
	}

	for _, e := range movements {
		q := ParseLenient(e.Quantity)
		impact := -q
		if e.Inbound() {
			impact = q
		}
		k := normKey(e.Identity())
		g, ok := groups[k]
		if !ok {
			g = &group{}
			groups[k] = g
			order = append(order, k)
		}
		g.net += impact
	}

	out := make([]models.BalanceRow, 0, len(order))
	for _, k := range order {
		g := groups[k]
		current := float64(g.count) + g.net
		if current <= 0 {
			continue
		}
		out = append(out, models.BalanceRow{
			Item:            k.Item,
			Site:            k.Site,
			CostElement:     k.CostElement,
			Lot:             k.Lot,
			Grade:           norm(g.first.Grade),
			Thickness:       norm(g.first.Thickness),
			Width:           norm(g.first.Width),
			Length:          norm(g.first.Length),
			Description:     strings.TrimSpace(g.first.Description),
			UnitWeight:      g.first.UnitWeight,
			InitialQuantity: g.count,
			NetMovement:     g.net,
			CurrentQuantity: current,
			CurrentWeight:   current * g.first.UnitWeight,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Site != b.Site {
			return a.Site < b.Site
		}
		if a.Item != b.Item {
			return a.Item < b.Item
		}
		if a.CostElement != b.CostElement {
			return a.CostElement < b.CostElement
		}
		return a.Lot < b.Lot
	})
	return out
}

// Filters is an optional predicate set over identity fields. Empty fields
// match everything; set fields match exactly after normalization.
type Filters struct {
	Item        string
	Site        string
	CostElement string
	Lot         string
}

// Match reports whether a balance row passes the filter set.
func (f Filters) Match(r models.BalanceRow) bool {
	if f.Item != "" && norm(f.Item) != r.Item {
		return false
	}
	if f.Site != "" && norm(f.Site) != r.Site {
		return false
	}
	if f.CostElement != "" && norm(f.CostElement) != r.CostElement {
		return false
	}
	if f.Lot != "" && norm(f.Lot) != r.Lot {
		return false
	}
	return true
}

// Apply returns the rows passing the filter set, preserving order.
func (f Filters) Apply(rows []models.BalanceRow) []models.BalanceRow {
	if f == (Filters{}) {
		return rows
	}
	out := make([]models.BalanceRow, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Summarize aggregates a balance view into row, piece and weight totals.
func Summarize(rows []models.BalanceRow) models.BalanceSummary {
	var s models.BalanceSummary
	s.Rows = len(rows)
	for _, r := range rows {
		s.TotalPieces += r.CurrentQuantity
		s.TotalWeight += r.CurrentWeight
	}
	return s
}
