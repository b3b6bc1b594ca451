package incidents

import (
	"strconv"
	"strings"

	"github.com/linesmerrill/incident-reports-api/models"
)

// BuildConstraints turns a filter into store level constraints, one per
// populated field. Asking for complete also matches the legacy resolved
// status. The date range applies only when both ends are set. SearchText is
// not pushed down; see MatchesSearch.
func BuildConstraints(f models.IncidentFilter) ([]models.Constraint, error) {
	var constraints []models.Constraint

	if s := strings.TrimSpace(f.StoreNumber); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, invalid("Invalid store number %q", f.StoreNumber)
		}
		constraints = append(constraints, models.Constraint{Field: "storeNumber", Operator: models.OpEqual, Value: n})
	}

	switch f.Status {
	case "":
	case models.StatusComplete:
		constraints = append(constraints, models.Constraint{
			Field:    "status",
			Operator: models.OpIn,
			Value:    []string{models.StatusComplete, models.StatusResolved},
		})
	default:
		constraints = append(constraints, models.Constraint{Field: "status", Operator: models.OpEqual, Value: f.Status})
	}

	if f.IncidentType != "" {
		constraints = append(constraints, models.Constraint{Field: "incidentTypes", Operator: models.OpArrayContains, Value: f.IncidentType})
	}

	if f.StartDate != nil && f.EndDate != nil {
		constraints = append(constraints,
			models.Constraint{Field: "timestamp", Operator: models.OpGreaterEqual, Value: *f.StartDate},
			models.Constraint{Field: "timestamp", Operator: models.OpLessEqual, Value: *f.EndDate},
		)
	}

	return constraints, nil
}

// MatchesSearch applies the free text filter: the record matches when its
// store number or its lower-cased details contain the trimmed, lower-cased
// search text. An empty search matches everything.
func MatchesSearch(inc models.Incident, search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	if strings.Contains(strconv.Itoa(inc.StoreNumber), q) {
		return true
	}
	return strings.Contains(strings.ToLower(inc.Details), q)
}
