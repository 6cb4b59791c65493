// Package catalog encodes the master catalog as CSV, the serialized table
// format the snapshot store persists. The table is always replaced
// wholesale; no partial mutation exists.
package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"stockdb/pkg/models"
)

// Canonical column names. Uploads may carry extra columns; they round-trip
// through CatalogRow.Extra.
const (
	ColItem        = "Item"
	ColSite        = "Site"
	ColCostElement = "CostElement"
	ColLot         = "Lot"
	ColGrade       = "Grade"
	ColThickness   = "Thickness"
	ColWidth       = "Width"
	ColLength      = "Length"
	ColUnitWeight  = "UnitWeight"
	ColDescription = "Description"
)

var canonical = []string{
	ColItem, ColSite, ColCostElement, ColLot,
	ColGrade, ColThickness, ColWidth, ColLength,
	ColUnitWeight, ColDescription,
}

// ParseWeight parses a unit weight leniently: it accepts a comma decimal
// separator and returns 0 for anything unparsable. Uploads come from
// spreadsheets with locale-dependent formatting, and a bad weight must not
// reject a whole catalog.
func ParseWeight(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != f { // reject NaN
		return 0
	}
	return f
}

// Decode parses a CSV-serialized table into catalog rows. The first record
// is the header; header matching is case-insensitive. Columns outside the
// canonical set land in Extra.
func Decode(data []byte) ([]models.CatalogRow, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("catalog: parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	field := func(rec []string, col string) string {
		i, ok := colIdx[strings.ToLower(col)]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	known := make(map[string]bool, len(canonical))
	for _, c := range canonical {
		known[strings.ToLower(c)] = true
	}

	rows := make([]models.CatalogRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := models.CatalogRow{
			Item:        field(rec, ColItem),
			Site:        field(rec, ColSite),
			CostElement: field(rec, ColCostElement),
			Lot:         field(rec, ColLot),
			Grade:       field(rec, ColGrade),
			Thickness:   field(rec, ColThickness),
			Width:       field(rec, ColWidth),
			Length:      field(rec, ColLength),
			UnitWeight:  ParseWeight(field(rec, ColUnitWeight)),
			Description: field(rec, ColDescription),
		}
		for i, h := range header {
			name := strings.TrimSpace(h)
			if known[strings.ToLower(name)] || i >= len(rec) {
				continue
			}
			if v := strings.TrimSpace(rec[i]); v != "" {
				if row.Extra == nil {
					row.Extra = map[string]string{}
				}
				row.Extra[name] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Encode serializes catalog rows as CSV with the canonical header followed
// by the sorted union of extra columns.
func Encode(rows []models.CatalogRow) ([]byte, error) {
	extraSet := map[string]bool{}
	for _, r := range rows {
		for k := range r.Extra {
			extraSet[k] = true
		}
	}
	extras := make([]string, 0, len(extraSet))
	for k := range extraSet {
		extras = append(extras, k)
	}
	sort.Strings(extras)

	header := append(append([]string{}, canonical...), extras...)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("catalog: write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Item, r.Site, r.CostElement, r.Lot,
			r.Grade, r.Thickness, r.Width, r.Length,
			formatWeight(r.UnitWeight), r.Description,
		}
		for _, k := range extras {
			rec = append(rec, r.Extra[k])
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("catalog: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("catalog: flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatWeight(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
