// Package incidents lists, filters and mutates incident reports.
package incidents

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/linesmerrill/incident-reports-api/casenumber"
	"github.com/linesmerrill/incident-reports-api/databases"
	"github.com/linesmerrill/incident-reports-api/models"
	"github.com/linesmerrill/incident-reports-api/notify"
	"github.com/linesmerrill/incident-reports-api/timestamps"
)

// Service is the incident engine used by the HTTP handlers and the CLI.
// Deleting is only gated by the caller; the service does not check roles.
type Service struct {
	DB       databases.IncidentDatabase
	Cases    *casenumber.Generator
	Notifier notify.Notifier
	Now      func() time.Time
}

// NewService wires a Service over db. The case number generator uses the same
// store and the wall clock in loc.
func NewService(db databases.IncidentDatabase, n notify.Notifier, loc *time.Location) *Service {
	if n == nil {
		n = notify.Nop{}
	}
	return &Service{
		DB:       db,
		Cases:    casenumber.NewGenerator(db, loc),
		Notifier: n,
		Now:      time.Now,
	}
}

// Created is returned after a successful Create
type Created struct {
	ID         string `json:"id"`
	CaseNumber string `json:"caseNumber"`
}

// List returns the incidents matching f, newest first. When the store cannot
// be read the result is an empty slice and a load failed error.
func (s *Service) List(ctx context.Context, f models.IncidentFilter) ([]models.Incident, error) {
	constraints, err := BuildConstraints(f)
	if err != nil {
		return []models.Incident{}, err
	}

	docs, err := s.DB.Query(ctx, models.Query{Constraints: constraints})
	if err != nil {
		zap.S().Errorw("failed to query incidents", "filter", f, "error", err)
		return []models.Incident{}, loadFailed(err)
	}

	list := make([]models.Incident, 0, len(docs))
	for _, d := range docs {
		inc := Normalize(d)
		if !MatchesSearch(inc, f.SearchText) {
			continue
		}
		list = append(list, inc)
	}
	SortNewestFirst(list)
	return list, nil
}

// SortNewestFirst orders incidents by timestamp descending. Unusable
// timestamps sort as the Unix epoch.
func SortNewestFirst(list []models.Incident) {
	sort.SliceStable(list, func(i, j int) bool {
		return timestamps.EpochOrZero(list[i].Timestamp).After(timestamps.EpochOrZero(list[j].Timestamp))
	})
}

// Normalize converts a stored document into an Incident with real dates
func Normalize(d models.IncidentDocument) models.Incident {
	inc := models.Incident{
		ID:            d.ID.Hex(),
		CaseNumber:    d.CaseNumber,
		StoreNumber:   d.StoreNumber,
		IncidentTypes: d.IncidentTypes,
		Details:       d.Details,
		Status:        d.Status,
		PoliceReport:  d.PoliceReport,
	}
	if inc.IncidentTypes == nil {
		inc.IncidentTypes = []string{}
	}
	if t, ok := timestamps.Normalize(d.Timestamp); ok {
		inc.Timestamp = t
	}
	if t, ok := timestamps.Normalize(d.UpdatedAt); ok {
		inc.UpdatedAt = &t
	}
	return inc
}

// Create validates and stores a new incident with status pending
func (s *Service) Create(ctx context.Context, in models.NewIncident) (Created, error) {
	types := make([]string, 0, len(in.IncidentTypes))
	for _, t := range in.IncidentTypes {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return Created{}, invalid("Select at least one incident type")
	}
	store, err := strconv.Atoi(strings.TrimSpace(in.StoreNumber))
	if err != nil {
		return Created{}, invalid("Invalid store number %q", in.StoreNumber)
	}

	caseNumber := s.Cases.Generate(ctx)
	doc := models.IncidentDocument{
		CaseNumber:    caseNumber,
		StoreNumber:   store,
		IncidentTypes: types,
		Details:       strings.TrimSpace(in.Details),
		Status:        models.StatusPending,
	}
	id, err := s.DB.Add(ctx, doc)
	if err != nil {
		zap.S().Errorw("failed to add incident", "caseNumber", caseNumber, "error", err)
		return Created{}, writeFailed(msgCreateFailed, err)
	}

	zap.S().Infow("incident created", "id", id, "caseNumber", caseNumber, "storeNumber", store)
	s.emit(ctx, notify.Event{Type: notify.IncidentCreated, IncidentID: id, CaseNumber: caseNumber, StoreNumber: store, Status: models.StatusPending})
	return Created{ID: id, CaseNumber: caseNumber}, nil
}

// Get returns one incident by id. An unknown id is ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*models.Incident, error) {
	doc, err := s.DB.Get(ctx, id)
	if err != nil {
		return nil, s.readError(err, "id", id)
	}
	inc := Normalize(*doc)
	return &inc, nil
}

// SearchByCaseNumber looks an incident up by its case number
func (s *Service) SearchByCaseNumber(ctx context.Context, caseNumber string) (*models.Incident, error) {
	caseNumber = strings.ToUpper(strings.TrimSpace(caseNumber))
	if caseNumber == "" {
		return nil, invalid("Enter a case number")
	}
	doc, err := s.DB.FindByCaseNumber(ctx, caseNumber)
	if err != nil {
		return nil, s.readError(err, "caseNumber", caseNumber)
	}
	inc := Normalize(*doc)
	return &inc, nil
}

// UpdateStatus sets the status of one incident
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return invalid("Invalid status %q", status)
	}
	if err := s.DB.Update(ctx, id, bson.M{"status": status}); err != nil {
		return s.writeError(err, msgStatusFailed, id)
	}
	zap.S().Infow("incident status updated", "id", id, "status", status)
	s.emit(ctx, notify.Event{Type: notify.IncidentStatusUpdated, IncidentID: id, Status: status})
	return nil
}

// UpdatePoliceReport sets or clears the police report number of one incident
func (s *Service) UpdatePoliceReport(ctx context.Context, id, number string) error {
	number = strings.TrimSpace(number)
	if err := s.DB.Update(ctx, id, bson.M{"policeReport": number}); err != nil {
		return s.writeError(err, msgPoliceReportFailed, id)
	}
	zap.S().Infow("incident police report updated", "id", id)
	s.emit(ctx, notify.Event{Type: notify.PoliceReportUpdated, IncidentID: id})
	return nil
}

// Delete removes one incident. The caller must have checked the super admin role.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.DB.Delete(ctx, id); err != nil {
		return s.writeError(err, msgDeleteFailed, id)
	}
	zap.S().Infow("incident deleted", "id", id)
	s.emit(ctx, notify.Event{Type: notify.IncidentDeleted, IncidentID: id})
	return nil
}

// ValidStatus reports whether status may be written to an incident
func ValidStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusComplete, models.StatusResolved:
		return true
	}
	return false
}

func (s *Service) readError(err error, key, value string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	zap.S().Errorw("failed to read incident", key, value, "error", err)
	return loadFailed(err)
}

func (s *Service) writeError(err error, message, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	zap.S().Errorw(message, "id", id, "error", err)
	return writeFailed(message, err)
}

func (s *Service) emit(ctx context.Context, ev notify.Event) {
	if s.Notifier == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = s.now()
	}
	s.Notifier.Notify(ctx, ev)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
