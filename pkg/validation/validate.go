package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"stockdb/pkg/models"
)

// Rules configures movement event validation. StrictQuantity rejects
// unparsable or negative quantities at the write boundary; when false the
// reconciliation engine's lenient zero-fallback applies instead. Required
// lists identity fields that must be non-empty (item/site/cost_element by
// default, lot optional).
type Rules struct {
	Required       []string
	StrictQuantity bool
}

var rules = Rules{Required: []string{"item", "site", "cost_element"}}

// SetRules replaces the active rule set.
func SetRules(r Rules) { rules = r }

// ValidateMovement checks a movement event against the active rules.
func ValidateMovement(ev models.MovementEvent) error {
	var errs []string

	if !contains(models.MovementKinds, ev.Kind) {
		errs = append(errs, fmt.Sprintf("invalid kind: %q", ev.Kind))
	}

	fields := map[string]string{
		"item":         ev.Item,
		"site":         ev.Site,
		"cost_element": ev.CostElement,
		"lot":          ev.Lot,
	}
	for _, p := range rules.Required {
		if strings.TrimSpace(fields[p]) == "" {
			errs = append(errs, fmt.Sprintf("required field missing: %s", p))
		}
	}

	if rules.StrictQuantity {
		q := strings.TrimSpace(strings.ReplaceAll(ev.Quantity, ",", "."))
		f, err := strconv.ParseFloat(q, 64)
		if err != nil || f < 0 {
			errs = append(errs, fmt.Sprintf("quantity is not a non-negative number: %q", ev.Quantity))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
