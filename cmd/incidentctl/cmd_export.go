package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/linesmerrill/incident-reports-api/categories"
	"github.com/linesmerrill/incident-reports-api/databases"
	"github.com/linesmerrill/incident-reports-api/export"
	"github.com/linesmerrill/incident-reports-api/incidents"
	"github.com/linesmerrill/incident-reports-api/models"
)

var exportFlags struct {
	out          string
	compact      bool
	storeNumber  string
	status       string
	incidentType string
	search       string
	startDate    string
	endDate      string
	timeout      time.Duration
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write filtered incidents to an xlsx workbook or JSON file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.out, "out", "", "Output file; .json writes rows and header as JSON (required)")
	f.BoolVar(&exportFlags.compact, "compact", false, "Truncate details")
	f.StringVar(&exportFlags.storeNumber, "store", "", "Store number")
	f.StringVar(&exportFlags.status, "status", "", "pending, complete or resolved")
	f.StringVar(&exportFlags.incidentType, "type", "", "Incident category id")
	f.StringVar(&exportFlags.search, "search", "", "Free text search")
	f.StringVar(&exportFlags.startDate, "from", "", "Start date, YYYY-MM-DD")
	f.StringVar(&exportFlags.endDate, "to", "", "End date, YYYY-MM-DD (inclusive)")
	f.DurationVar(&exportFlags.timeout, "timeout", 2*time.Minute, "Deadline for the export")

	_ = exportCmd.MarkFlagRequired("out")
}

// exportFilter builds the incident filter from the flags. Dates are read in
// loc and the end date covers the whole day.
func exportFilter(loc *time.Location) (models.IncidentFilter, error) {
	f := models.IncidentFilter{
		StoreNumber:  exportFlags.storeNumber,
		Status:       exportFlags.status,
		IncidentType: exportFlags.incidentType,
		SearchText:   exportFlags.search,
	}
	if exportFlags.startDate != "" {
		t, err := time.ParseInLocation("2006-01-02", exportFlags.startDate, loc)
		if err != nil {
			return f, fmt.Errorf("invalid --from: %w", err)
		}
		f.StartDate = &t
	}
	if exportFlags.endDate != "" {
		t, err := time.ParseInLocation("2006-01-02", exportFlags.endDate, loc)
		if err != nil {
			return f, fmt.Errorf("invalid --to: %w", err)
		}
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.EndDate = &t
	}
	return f, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), exportFlags.timeout)
	defer cancel()

	s, err := connect(ctx)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	loc := s.conf.Location()
	f, err := exportFilter(loc)
	if err != nil {
		return err
	}

	svc := incidents.NewService(databases.NewIncidentDatabase(s.db), nil, loc)
	resolver := categories.NewResolver(databases.NewCategoryDatabase(s.db), nil, nil)

	list, err := svc.List(ctx, f)
	if err != nil {
		return err
	}

	mode := export.Document
	if exportFlags.compact {
		mode = export.Compact
	}
	labels := export.LabelsFrom(resolver.Labels(ctx))
	rows := export.Rows(list, labels, mode, loc)
	header := export.Summarize(f, labels, time.Now(), loc)

	if err := writeExport(exportFlags.out, rows, header); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d incidents to %s\n", len(rows), exportFlags.out)
	return nil
}

func writeExport(path string, rows []export.Row, header export.Header) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if isJSON(path) {
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		err = enc.Encode(map[string]interface{}{"header": header, "rows": rows})
	} else {
		err = export.WriteXLSX(file, rows, header)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
