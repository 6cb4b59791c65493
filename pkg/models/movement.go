package models

// Movement kinds. Transfers between sites are recorded as an OUT event at
// the origin and an IN event at the destination.
const (
	MovementInbound     = "INBOUND"
	MovementOutbound    = "OUTBOUND"
	MovementTransferIn  = "TRANSFER_IN"
	MovementTransferOut = "TRANSFER_OUT"
)

// MovementKinds lists every accepted movement kind.
var MovementKinds = []string{
	MovementInbound,
	MovementOutbound,
	MovementTransferIn,
	MovementTransferOut,
}

// MovementEvent is one signed quantity event in the ledger. Events are
// immutable once written; the ledger is append-only.
type MovementEvent struct {
	ID   string `json:"id,omitempty"`
	Kind string `json:"kind"`

	// Identity tuple (coarse; descriptive attributes are not recorded on
	// movements, see the reconciliation grouping rules).
	Item        string `json:"item"`
	Site        string `json:"site"`
	CostElement string `json:"cost_element"`
	Lot         string `json:"lot,omitempty"`

	// Quantity is kept as the raw wire value and parsed leniently during
	// reconciliation (unparsable values count as zero impact).
	Quantity string `json:"quantity"`

	// RecordedAt is the append timestamp (ns).
	RecordedAt int64 `json:"recorded_at"`
}

// Identity returns the movement's identity tuple.
func (e MovementEvent) Identity() Identity {
	return Identity{Item: e.Item, Site: e.Site, CostElement: e.CostElement, Lot: e.Lot}
}

// Inbound reports whether the event adds stock.
func (e MovementEvent) Inbound() bool {
	return e.Kind == MovementInbound || e.Kind == MovementTransferIn
}
