package export

import (
	"strings"
	"time"

	"github.com/linesmerrill/incident-reports-api/models"
	"github.com/linesmerrill/incident-reports-api/timestamps"
)

// Field is one line of the report header
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Header describes the filter a report was produced with
type Header struct {
	FilterSummary []Field   `json:"filterSummary"`
	GeneratedAt   time.Time `json:"generatedAt"`
	Generated     string    `json:"generated"`
}

var dateOnly = timestamps.Style{Date: timestamps.StyleMedium, Time: timestamps.StyleNone}

// Summarize renders the active filter as key/value pairs
func Summarize(f models.IncidentFilter, label LabelFunc, now time.Time, loc *time.Location) Header {
	if label == nil {
		label = Humanize
	}

	store := "All stores"
	if s := strings.TrimSpace(f.StoreNumber); s != "" {
		store = s
	}

	status := "All statuses"
	if f.Status != "" {
		status = StatusLabel(f.Status)
	}

	incidentType := "All types"
	if f.IncidentType != "" {
		incidentType = label(f.IncidentType)
	}

	dates := "All dates"
	if f.StartDate != nil && f.EndDate != nil {
		dates = timestamps.Format(*f.StartDate, dateOnly, loc, timestamps.DefaultFallback) +
			" - " + timestamps.Format(*f.EndDate, dateOnly, loc, timestamps.DefaultFallback)
	}

	search := "None"
	if s := strings.TrimSpace(f.SearchText); s != "" {
		search = s
	}

	return Header{
		FilterSummary: []Field{
			{Key: "Store", Value: store},
			{Key: "Status", Value: status},
			{Key: "Incident Type", Value: incidentType},
			{Key: "Date Range", Value: dates},
			{Key: "Search", Value: search},
		},
		GeneratedAt: now,
		Generated: timestamps.Format(now, timestamps.Style{Date: timestamps.StyleLong, Time: timestamps.StyleShort},
			loc, timestamps.DefaultFallback),
	}
}
