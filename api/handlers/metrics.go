package handlers

import (
	"net/http"

	"github.com/linesmerrill/incident-reports-api/api"
)

// Metrics exported for testing purposes
type Metrics struct {
	Metrics *api.Metrics
}

// routeSummary converts duration fields to milliseconds for JSON serialization
func routeSummary(routes []api.RouteMetrics) []map[string]interface{} {
	result := make([]map[string]interface{}, len(routes))
	for i, route := range routes {
		result[i] = map[string]interface{}{
			"method":      route.Method,
			"path":        route.Path,
			"count":       route.Count,
			"errorCount":  route.ErrorCount,
			"avgTime":     route.AvgTime.Milliseconds(),
			"minTime":     route.MinTime.Milliseconds(),
			"maxTime":     route.MaxTime.Milliseconds(),
			"lastRequest": route.LastRequest,
		}
	}
	return result
}

// MetricsHandler returns request counts and timings per route
func (m Metrics) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	s := m.Metrics.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"since":         s.Since,
		"totalRequests": s.TotalRequests,
		"totalErrors":   s.TotalErrors,
		"routes":        routeSummary(s.Routes),
	})
}
