package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Incident statuses. StatusResolved is the legacy spelling of StatusComplete
// and is still present on older records.
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
	StatusResolved = "resolved"
)

// IncidentDocument is the stored shape of an incident report. Timestamp and
// UpdatedAt are left as interface{} because older records carry dates in
// whatever shape the writing client used.
type IncidentDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CaseNumber    string             `bson:"caseNumber" json:"caseNumber"`
	StoreNumber   int                `bson:"storeNumber" json:"storeNumber"`
	IncidentTypes []string           `bson:"incidentTypes" json:"incidentTypes"`
	Details       string             `bson:"details,omitempty" json:"details,omitempty"`
	Status        string             `bson:"status" json:"status"`
	PoliceReport  string             `bson:"policeReport,omitempty" json:"policeReport,omitempty"`
	Timestamp     interface{}        `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
	UpdatedAt     interface{}        `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Incident is an incident report with every date field normalized
type Incident struct {
	ID            string     `json:"id"`
	CaseNumber    string     `json:"caseNumber"`
	StoreNumber   int        `json:"storeNumber"`
	IncidentTypes []string   `json:"incidentTypes"`
	Details       string     `json:"details,omitempty"`
	Status        string     `json:"status"`
	PoliceReport  string     `json:"policeReport,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// NewIncident is the payload submitted by an employee when reporting an incident.
// StoreNumber is accepted as a string so that numeric strings from forms coerce cleanly.
type NewIncident struct {
	StoreNumber   string   `json:"storeNumber"`
	IncidentTypes []string `json:"incidentTypes"`
	Details       string   `json:"details"`
}

// IncidentFilter narrows an incident listing. Empty fields place no constraint.
type IncidentFilter struct {
	StoreNumber  string     `json:"storeNumber,omitempty"`
	Status       string     `json:"status,omitempty"`
	IncidentType string     `json:"incidentType,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	SearchText   string     `json:"searchText,omitempty"`
}
