package categories

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/linesmerrill/incident-reports-api/models"
)

//go:embed fallback.yaml
var fallbackYAML []byte

type fallbackTable struct {
	Standard []models.Category `yaml:"standard"`
	Special  []models.Category `yaml:"special"`
}

var builtin = mustLoadFallback(fallbackYAML)

func mustLoadFallback(b []byte) fallbackTable {
	t, err := loadFallback(b)
	if err != nil {
		panic(err)
	}
	return t
}

func loadFallback(b []byte) (fallbackTable, error) {
	var t fallbackTable
	if err := yaml.Unmarshal(b, &t); err != nil {
		return t, fmt.Errorf("parse fallback categories: %w", err)
	}
	order := 0
	for i := range t.Standard {
		t.Standard[i].IsStandard = true
		t.Standard[i].DisplayOrder = order
		order++
	}
	for i := range t.Special {
		t.Special[i].IsStandard = false
		t.Special[i].DisplayOrder = order
		order++
	}
	return t, nil
}

// Builtin returns every built-in category, standard ones first
func Builtin() []models.Category {
	out := make([]models.Category, 0, len(builtin.Standard)+len(builtin.Special))
	out = append(out, copyAll(builtin.Standard)...)
	return append(out, copyAll(builtin.Special)...)
}

// Fallback returns the built-in categories offered to storeNumber: every
// standard category plus the special ones restricted to that store. With no
// store only the standard categories are returned.
func Fallback(storeNumber string) []models.Category {
	out := copyAll(builtin.Standard)
	if storeNumber == "" {
		return out
	}
	for _, c := range builtin.Special {
		if c.AvailableTo(storeNumber) {
			out = append(out, copyCategory(c))
		}
	}
	return out
}

func copyAll(list []models.Category) []models.Category {
	out := make([]models.Category, 0, len(list))
	for _, c := range list {
		out = append(out, copyCategory(c))
	}
	return out
}

func copyCategory(c models.Category) models.Category {
	if c.RestrictedToStores != nil {
		c.RestrictedToStores = append([]string(nil), c.RestrictedToStores...)
	}
	return c
}
