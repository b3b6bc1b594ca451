package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/incident-reports-api/categories"
	"github.com/linesmerrill/incident-reports-api/config"
	"github.com/linesmerrill/incident-reports-api/incidents"
	"github.com/linesmerrill/incident-reports-api/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

// writeMessage writes {"response": message} without any internal error text
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.MessageResponse{Response: message})
}

func incidentErrorStatus(err error) (int, string) {
	var e *incidents.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, "unexpected error"
	}
	switch e.Kind {
	case incidents.KindInvalidInput:
		return http.StatusBadRequest, e.Message
	case incidents.KindNotFound:
		return http.StatusNotFound, e.Message
	}
	return http.StatusInternalServerError, e.Message
}

func writeIncidentError(w http.ResponseWriter, err error) {
	status, message := incidentErrorStatus(err)
	if status >= http.StatusInternalServerError {
		zap.S().Errorw(message, "error", err)
	}
	writeMessage(w, status, message)
}

func writeCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, categories.ErrInvalidCategory):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, categories.ErrCategoryExists):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, categories.ErrCategoryNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		zap.S().Errorw("category operation failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "failed to update categories")
	}
}

// parseFilter reads the incident filter from the query string. Dates are
// YYYY-MM-DD in loc or RFC3339; a date-only endDate covers that whole day.
func parseFilter(r *http.Request, loc *time.Location) (models.IncidentFilter, error) {
	q := r.URL.Query()
	f := models.IncidentFilter{
		StoreNumber:  strings.TrimSpace(q.Get("storeNumber")),
		Status:       strings.TrimSpace(q.Get("status")),
		IncidentType: strings.TrimSpace(q.Get("incidentType")),
		SearchText:   q.Get("search"),
	}
	if f.Status == "all" {
		f.Status = ""
	}
	if f.IncidentType == "all" {
		f.IncidentType = ""
	}

	var err error
	if f.StartDate, err = parseDate(q.Get("startDate"), loc, false); err != nil {
		return f, fmt.Errorf("invalid startDate: %w", err)
	}
	if f.EndDate, err = parseDate(q.Get("endDate"), loc, true); err != nil {
		return f, fmt.Errorf("invalid endDate: %w", err)
	}
	return f, nil
}

func parseDate(s string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
