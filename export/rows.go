// Package export flattens incidents into display rows for spreadsheets and
// printable reports.
package export

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/linesmerrill/incident-reports-api/models"
	"github.com/linesmerrill/incident-reports-api/timestamps"
)

// Mode picks how much of the details text a row keeps
type Mode int

const (
	// Document keeps the full details text
	Document Mode = iota
	// Compact truncates details for tabular output
	Compact
)

// CompactDetailsLength is the number of characters of details kept in Compact mode
const CompactDetailsLength = 50

// Columns are the headings of the incidents sheet, in Row order
var Columns = []string{
	"Date",
	"Case Number",
	"Store",
	"Incident Type",
	"Details",
	"Status",
	"Police Report",
}

// Row is one incident rendered as display strings
type Row struct {
	Date         string `json:"date"`
	CaseNumber   string `json:"caseNumber"`
	StoreNumber  string `json:"storeNumber"`
	IncidentType string `json:"incidentType"`
	Details      string `json:"details"`
	Status       string `json:"status"`
	PoliceReport string `json:"policeReport"`
}

// Values returns the row's cells in Columns order
func (r Row) Values() []interface{} {
	return []interface{}{r.Date, r.CaseNumber, r.StoreNumber, r.IncidentType, r.Details, r.Status, r.PoliceReport}
}

// LabelFunc returns the display label of a category id
type LabelFunc func(id string) string

// LabelsFrom looks ids up in labels and humanizes the ones it does not know
func LabelsFrom(labels map[string]string) LabelFunc {
	return func(id string) string {
		if l, ok := labels[id]; ok && l != "" {
			return l
		}
		return Humanize(id)
	}
}

// Humanize turns "property_damage" into "Property Damage"
func Humanize(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// StatusLabel is the display form of a stored status
func StatusLabel(status string) string {
	switch status {
	case models.StatusPending:
		return "Pending"
	case models.StatusComplete, models.StatusResolved:
		return "Complete"
	case "":
		return "Unknown"
	}
	return Humanize(status)
}

// Rows renders incidents in order. Dates are shown in loc.
func Rows(incidents []models.Incident, label LabelFunc, mode Mode, loc *time.Location) []Row {
	if label == nil {
		label = Humanize
	}
	rows := make([]Row, 0, len(incidents))
	for _, inc := range incidents {
		types := make([]string, 0, len(inc.IncidentTypes))
		for _, t := range inc.IncidentTypes {
			types = append(types, label(t))
		}

		details := inc.Details
		if mode == Compact {
			details = Truncate(details, CompactDetailsLength)
		}

		police := inc.PoliceReport
		if police == "" {
			police = "None"
		}

		rows = append(rows, Row{
			Date:         timestamps.Format(inc.Timestamp, timestamps.Style{}, loc, timestamps.DefaultFallback),
			CaseNumber:   inc.CaseNumber,
			StoreNumber:  strconv.Itoa(inc.StoreNumber),
			IncidentType: strings.Join(types, ", "),
			Details:      details,
			Status:       StatusLabel(inc.Status),
			PoliceReport: police,
		})
	}
	return rows
}

// Truncate cuts s to n characters followed by "..." when it is longer
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
