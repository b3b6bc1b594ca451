package categories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var standardIDs = []string{
	"shoplifting", "robbery", "burglary", "property_damage", "vandalism",
	"trespassing", "assault", "fraud", "suspicious_activity", "other",
}

func TestBuiltin(t *testing.T) {
	all := Builtin()

	require.Len(t, all, 12)
	assert.Equal(t, standardIDs, ids(all[:10]))
	for i, c := range all {
		assert.Equal(t, i, c.DisplayOrder, c.ID)
		assert.NotEmpty(t, c.Label, c.ID)
	}
	for _, c := range all[10:] {
		assert.False(t, c.IsStandard)
		assert.Equal(t, []string{"2742091"}, c.RestrictedToStores)
	}
}

func TestFallback(t *testing.T) {
	assert.Equal(t, standardIDs, ids(Fallback("")))
	assert.Equal(t, standardIDs, ids(Fallback("9999999")))
	assert.Equal(t, append(append([]string{}, standardIDs...), "drive_thru_incident", "cash_office_discrepancy"), ids(Fallback("2742091")))
}

func TestFallbackReturnsCopies(t *testing.T) {
	list := Fallback("2742091")
	list[0].Label = "changed"
	list[len(list)-1].RestrictedToStores[0] = "changed"

	again := Fallback("2742091")
	assert.Equal(t, "Shoplifting", again[0].Label)
	assert.Equal(t, "2742091", again[len(again)-1].RestrictedToStores[0])
}

func TestLoadFallbackRejectsBadYAML(t *testing.T) {
	_, err := loadFallback([]byte("standard: [:"))
	assert.Error(t, err)
}
