package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockdb/pkg/models"
)

func valid() models.MovementEvent {
	return models.MovementEvent{
		Kind: models.MovementInbound,
		Item: "MAT-1", Site: "SITE-A", CostElement: "PEP-1",
		Quantity: "2",
	}
}

func TestValidMovement(t *testing.T) {
	assert.NoError(t, ValidateMovement(valid()))
}

func TestInvalidKind(t *testing.T) {
	ev := valid()
	ev.Kind = "SIDEWAYS"
	err := ValidateMovement(ev)
	assert.ErrorContains(t, err, "invalid kind")
}

func TestMissingRequiredField(t *testing.T) {
	ev := valid()
	ev.Site = "  "
	err := ValidateMovement(ev)
	assert.ErrorContains(t, err, "required field missing: site")
}

func TestStrictQuantity(t *testing.T) {
	SetRules(Rules{Required: []string{"item"}, StrictQuantity: true})
	defer SetRules(Rules{Required: []string{"item", "site", "cost_element"}})

	ev := valid()
	ev.Quantity = "abc"
	assert.ErrorContains(t, ValidateMovement(ev), "non-negative")

	ev.Quantity = "-1"
	assert.ErrorContains(t, ValidateMovement(ev), "non-negative")

	ev.Quantity = "2,5"
	assert.NoError(t, ValidateMovement(ev))
}

func TestLenientQuantityByDefault(t *testing.T) {
	ev := valid()
	ev.Quantity = "garbage"
	assert.NoError(t, ValidateMovement(ev))
}
