package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook written by WriteXLSX
const (
	IncidentsSheet = "Incidents"
	InfoSheet      = "Report Info"
)

var columnWidths = []float64{
	22, // Date
	16, // Case Number
	10, // Store
	24, // Incident Type
	60, // Details
	12, // Status
	16, // Police Report
}

// WriteXLSX writes a workbook with the rows on one sheet and the header on another
func WriteXLSX(w io.Writer, rows []Row, header Header) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", IncidentsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(InfoSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("failed to create details style: %w", err)
	}

	headings := make([]interface{}, len(Columns))
	for i, c := range Columns {
		headings[i] = c
	}
	if err := f.SetSheetRow(IncidentsSheet, "A1", &headings); err != nil {
		return fmt.Errorf("failed to write headings: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := f.SetCellStyle(IncidentsSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style headings: %w", err)
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := r.Values()
		if err := f.SetSheetRow(IncidentsSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if len(rows) > 0 {
		if err := f.SetCellStyle(IncidentsSheet, "E2", "E"+strconv.Itoa(len(rows)+1), wrapStyle); err != nil {
			return fmt.Errorf("failed to style details: %w", err)
		}
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(IncidentsSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := f.SetPanes(IncidentsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze heading row: %w", err)
	}

	info := [][]interface{}{
		{"Field", "Value"},
	}
	for _, field := range header.FilterSummary {
		info = append(info, []interface{}{field.Key, field.Value})
	}
	info = append(info,
		[]interface{}{"Total Incidents", len(rows)},
		[]interface{}{"Generated", header.Generated},
	)
	for i, line := range info {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		line := line
		if err := f.SetSheetRow(InfoSheet, cell, &line); err != nil {
			return fmt.Errorf("failed to write report info: %w", err)
		}
	}
	if err := f.SetCellStyle(InfoSheet, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("failed to style report info: %w", err)
	}
	if err := f.SetColWidth(InfoSheet, "A", "A", 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(InfoSheet, "B", "B", 40); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
