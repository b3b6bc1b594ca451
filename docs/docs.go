// Package docs Incident Reports API.
//
// Documentation of the Incident Reports API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - bearer
//
//    SecurityDefinitions:
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/incident-reports-api/categories"
	"github.com/linesmerrill/incident-reports-api/incidents"
	"github.com/linesmerrill/incident-reports-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body struct {
		Alive bool `json:"alive"`
	}
}

// swagger:route POST /api/v1/incidents incidents createIncident
// Files a new incident report with status pending.
// responses:
//   201: createdIncidentResponse
//   400: messageResponse
//   500: messageResponse

// The id and case number given to the new report
// swagger:response createdIncidentResponse
type createdIncidentResponseWrapper struct {
	// in:body
	Body incidents.Created
}

// swagger:parameters createIncident
type createIncidentParamsWrapper struct {
	// in:body
	Body models.NewIncident
}

// swagger:route GET /api/v1/incidents incidents listIncidents
// Lists incidents matching the filter, newest first.
// responses:
//   200: incidentsResponse
//   500: messageResponse

// swagger:response incidentsResponse
type incidentsResponseWrapper struct {
	// in:body
	Body []models.Incident
}

// swagger:route GET /api/v1/incidents/{incident_id} incidents incidentByID
// Gets a single incident by ID.
// responses:
//   200: incidentResponse
//   404: messageResponse

// swagger:route GET /api/v1/incidents/case/{case_number} incidents incidentByCaseNumber
// Gets a single incident by case number.
// responses:
//   200: incidentResponse
//   404: messageResponse

// swagger:response incidentResponse
type incidentResponseWrapper struct {
	// in:body
	Body models.Incident
}

// swagger:route POST /api/v1/incidents/bulk/status incidents bulkUpdateStatus
// Sets the status of several incidents. Nothing changes when an id is missing.
// responses:
//   200: bulkResponse
//   404: bulkResponse

// swagger:route POST /api/v1/incidents/bulk/delete incidents bulkDelete
// Deletes several incidents. Nothing changes when an id is missing.
// responses:
//   200: bulkResponse
//   404: bulkResponse

// swagger:response bulkResponse
type bulkResponseWrapper struct {
	// in:body
	Body struct {
		Message  string               `json:"message,omitempty"`
		Response string               `json:"response,omitempty"`
		Result   incidents.BulkResult `json:"result"`
	}
}

// swagger:route GET /api/v1/categories categories listCategories
// Lists the categories available to a store.
// responses:
//   200: categoriesResponse

// usingFallback is true when the built-in table is shown
// swagger:response categoriesResponse
type categoriesResponseWrapper struct {
	// in:body
	Body categories.Resolution
}

// A message describing the failure
// swagger:response messageResponse
type messageResponseWrapper struct {
	// in:body
	Body models.MessageResponse
}
