package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/incident-reports-api/api"
	"github.com/linesmerrill/incident-reports-api/config"
	"github.com/linesmerrill/incident-reports-api/incidents"
	"github.com/linesmerrill/incident-reports-api/models"
)

// Incident exported for testing purposes
type Incident struct {
	Service  *incidents.Service
	Location *time.Location
}

type createIncidentRequest struct {
	StoreNumber   json.RawMessage `json:"storeNumber"`
	IncidentTypes []string        `json:"incidentTypes"`
	Details       string          `json:"details"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type policeReportRequest struct {
	PoliceReport string `json:"policeReport"`
}

type bulkRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status,omitempty"`
}

// storeNumberString accepts the store number as a JSON string or number
func storeNumberString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

// CreateIncidentHandler files a new incident report. When the body has no
// store number the store from the caller's token is used.
func (i Incident) CreateIncidentHandler(w http.ResponseWriter, r *http.Request) {
	var req createIncidentRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	in := models.NewIncident{
		StoreNumber:   storeNumberString(req.StoreNumber),
		IncidentTypes: req.IncidentTypes,
		Details:       req.Details,
	}
	if in.StoreNumber == "" {
		if claims, ok := api.ClaimsFromContext(r.Context()); ok {
			in.StoreNumber = claims.StoreNumber
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	created, err := i.Service.Create(ctx, in)
	if err != nil {
		writeIncidentError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// IncidentsHandler lists incidents matching the query string filter, newest first
func (i Incident) IncidentsHandler(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r, i.Location)
	if err != nil {
		config.ErrorStatus("invalid filter", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	list, err := i.Service.List(ctx, f)
	if err != nil {
		writeIncidentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// IncidentByIDHandler returns an incident by ID
func (i Incident) IncidentByIDHandler(w http.ResponseWriter, r *http.Request) {
	incidentID := mux.Vars(r)["incident_id"]

	zap.S().Debugf("incident_id: %v", incidentID)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	inc, err := i.Service.Get(ctx, incidentID)
	if err != nil {
		writeIncidentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inc)
}

// IncidentByCaseNumberHandler looks an incident up by case number
func (i Incident) IncidentByCaseNumberHandler(w http.ResponseWriter, r *http.Request) {
	caseNumber := mux.Vars(r)["case_number"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	inc, err := i.Service.SearchByCaseNumber(ctx, caseNumber)
	if err != nil {
		writeIncidentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inc)
}

// UpdateIncidentStatusHandler sets the status of an incident
func (i Incident) UpdateIncidentStatusHandler(w http.ResponseWriter, r *http.Request) {
	incidentID := mux.Vars(r)["incident_id"]

	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := i.Service.UpdateStatus(ctx, incidentID, strings.TrimSpace(req.Status)); err != nil {
		writeIncidentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "incident status updated", "status": req.Status})
}

// UpdatePoliceReportHandler sets or clears the police report number of an incident
func (i Incident) UpdatePoliceReportHandler(w http.ResponseWriter, r *http.Request) {
	incidentID := mux.Vars(r)["incident_id"]

	var req policeReportRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := i.Service.UpdatePoliceReport(ctx, incidentID, req.PoliceReport); err != nil {
		writeIncidentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "police report number updated"})
}

// DeleteIncidentHandler deletes an incident. The route is limited to super admins.
func (i Incident) DeleteIncidentHandler(w http.ResponseWriter, r *http.Request) {
	incidentID := mux.Vars(r)["incident_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := i.Service.Delete(ctx, incidentID); err != nil {
		writeIncidentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "incident deleted"})
}

// BulkUpdateStatusHandler sets one status on many incidents
func (i Incident) BulkUpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	res, err := i.Service.BulkUpdateStatus(r.Context(), req.IDs, strings.TrimSpace(req.Status))
	writeBulkResult(w, res, err)
}

// BulkDeleteHandler deletes many incidents. The route is limited to super admins.
func (i Incident) BulkDeleteHandler(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	res, err := i.Service.BulkDelete(r.Context(), req.IDs)
	writeBulkResult(w, res, err)
}

func writeBulkResult(w http.ResponseWriter, res incidents.BulkResult, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": strconv.Itoa(len(res.Succeeded)) + " incidents processed",
			"result":  res,
		})
		return
	}
	status, message := incidentErrorStatus(err)
	if status >= http.StatusInternalServerError {
		zap.S().Errorw(message, "error", err)
	}
	writeJSON(w, status, map[string]interface{}{
		"response": message,
		"result":   res,
	})
}
