package models

// CatalogRow is one master-data record. Each row represents exactly one
// physical unit at load time; row multiplicity within an identity tuple is
// meaningful (count = initial quantity for that identity).
type CatalogRow struct {
	// Identity tuple
	Item        string `json:"item"`
	Site        string `json:"site"`
	CostElement string `json:"cost_element"`
	Lot         string `json:"lot,omitempty"`

	// Descriptive attributes
	Grade       string  `json:"grade,omitempty"`
	Thickness   string  `json:"thickness,omitempty"`
	Width       string  `json:"width,omitempty"`
	Length      string  `json:"length,omitempty"`
	UnitWeight  float64 `json:"unit_weight,omitempty"`
	Description string  `json:"description,omitempty"`

	// Extra holds unrecognized catalog columns so uploads with additional
	// columns survive a store round-trip unchanged.
	Extra map[string]string `json:"extra,omitempty"`
}

// Identity returns the coarse identity tuple used to match movements
// against catalog rows.
func (r CatalogRow) Identity() Identity {
	return Identity{Item: r.Item, Site: r.Site, CostElement: r.CostElement, Lot: r.Lot}
}

// Identity is the composite key that groups physical inventory units for
// balance purposes.
type Identity struct {
	Item        string `json:"item"`
	Site        string `json:"site"`
	CostElement string `json:"cost_element"`
	Lot         string `json:"lot,omitempty"`
}
