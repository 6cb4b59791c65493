package models

// BalanceRow is the derived current-balance view for one identity group.
// It is ephemeral and recomputed on demand; nothing persists it.
type BalanceRow struct {
	Item        string `json:"item"`
	Site        string `json:"site"`
	CostElement string `json:"cost_element"`
	Lot         string `json:"lot,omitempty"`

	Grade       string  `json:"grade,omitempty"`
	Thickness   string  `json:"thickness,omitempty"`
	Width       string  `json:"width,omitempty"`
	Length      string  `json:"length,omitempty"`
	Description string  `json:"description,omitempty"`
	UnitWeight  float64 `json:"unit_weight"`

	InitialQuantity int     `json:"initial_quantity"`
	NetMovement     float64 `json:"net_movement"`
	CurrentQuantity float64 `json:"current_quantity"`
	CurrentWeight   float64 `json:"current_weight"`
}

// BalanceSummary aggregates a balance view: total pieces in stock and the
// summed current weight.
type BalanceSummary struct {
	Rows        int     `json:"rows"`
	TotalPieces float64 `json:"total_pieces"`
	TotalWeight float64 `json:"total_weight"`
}
