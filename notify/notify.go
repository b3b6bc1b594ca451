// Package notify delivers incident domain events to whoever needs to react
// to them: the log, connected dashboards and the incident mailbox.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Event types emitted by the incident service
const (
	IncidentCreated       = "incident.created"
	IncidentStatusUpdated = "incident.status_updated"
	PoliceReportUpdated   = "incident.police_report_updated"
	IncidentDeleted       = "incident.deleted"
	IncidentsBulkUpdated  = "incidents.bulk_status_updated"
	IncidentsBulkDeleted  = "incidents.bulk_deleted"
	CategoriesChanged     = "categories.changed"
)

// Event describes something that happened to one or more incidents
type Event struct {
	Type        string    `json:"type"`
	IncidentID  string    `json:"incidentId,omitempty"`
	CaseNumber  string    `json:"caseNumber,omitempty"`
	StoreNumber int       `json:"storeNumber,omitempty"`
	Status      string    `json:"status,omitempty"`
	IDs         []string  `json:"ids,omitempty"`
	At          time.Time `json:"at"`
}

// Notifier receives domain events. Implementations must not block the caller
// for long and report their own delivery failures.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Multi fans an event out to every notifier in order
type Multi []Notifier

// Notify implements Notifier
func (m Multi) Notify(ctx context.Context, ev Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, ev)
		}
	}
}

// Log writes events to the global zap logger
type Log struct{}

// Notify implements Notifier
func (Log) Notify(_ context.Context, ev Event) {
	zap.S().Infow("incident event",
		"type", ev.Type,
		"incidentId", ev.IncidentID,
		"caseNumber", ev.CaseNumber,
		"status", ev.Status,
		"count", len(ev.IDs))
}

// Nop discards events
type Nop struct{}

// Notify implements Notifier
func (Nop) Notify(context.Context, Event) {}
