package utils

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenIDSortable(t *testing.T) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = GenID()
	}
	assert.True(t, sort.StringsAreSorted(ids))

	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
