package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/linesmerrill/incident-reports-api/api"
	"github.com/linesmerrill/incident-reports-api/categories"
	"github.com/linesmerrill/incident-reports-api/config"
	"github.com/linesmerrill/incident-reports-api/export"
	"github.com/linesmerrill/incident-reports-api/incidents"
	"github.com/linesmerrill/incident-reports-api/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export exported for testing purposes
type Export struct {
	Service    *incidents.Service
	Categories *categories.Resolver
	Location   *time.Location
	Now        func() time.Time
}

// ExportIncidentsHandler renders the filtered incident list as a workbook
// (format=xlsx, the default) or as JSON rows plus header (format=json).
// mode=compact truncates details; xlsx defaults to full details and json to compact.
func (e Export) ExportIncidentsHandler(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r, e.Location)
	if err != nil {
		config.ErrorStatus("invalid filter", http.StatusBadRequest, w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "json" {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", format))
		return
	}
	mode := export.Document
	switch r.URL.Query().Get("mode") {
	case "compact":
		mode = export.Compact
	case "document":
	case "":
		if format == "json" {
			mode = export.Compact
		}
	default:
		writeMessage(w, http.StatusBadRequest, "mode must be compact or document")
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var (
		list     []models.Incident
		labelMap map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = e.Service.List(gctx, f)
		return err
	})
	g.Go(func() error {
		labelMap = e.Categories.Labels(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		writeIncidentError(w, err)
		return
	}
	labels := export.LabelsFrom(labelMap)
	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}
	rows := export.Rows(list, labels, mode, e.Location)
	header := export.Summarize(f, labels, now, e.Location)

	if format == "json" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"header": header,
			"rows":   rows,
		})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, rows, header); err != nil {
		config.ErrorStatus("failed to build workbook", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="incidents-%s.xlsx"`, now.Format("20060102-1504")))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
