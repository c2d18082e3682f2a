package course

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// BuildGrid projects a course into the export grid: a header row, one row per
// student with P/A per tracked date plus their tallies, and a trailing summary
// row with per-date and overall percentages. Pure projection, no write-back.
func BuildGrid(crs Course) [][]string {
	header := []string{"Student ID", "Student Name"}
	header = append(header, crs.Dates...)
	header = append(header, "Present", "Absent", "Attendance %")

	rows := make([][]string, 0, len(crs.Students)+2)
	rows = append(rows, header)

	for _, std := range crs.Students {
		row := []string{std.ID, std.Name}
		for _, d := range crs.Dates {
			if crs.Status(d, std.ID) == StatusPresent {
				row = append(row, "P")
			} else {
				row = append(row, "A")
			}
		}
		t := crs.StudentTally(std.ID)
		pct := 0.0
		if len(crs.Dates) > 0 {
			pct = float64(t.Present) / float64(len(crs.Dates)) * 100
		}
		row = append(row,
			fmt.Sprintf("%d", t.Present),
			fmt.Sprintf("%d", t.Absent),
			fmt.Sprintf("%.2f%%", pct),
		)
		rows = append(rows, row)
	}

	summary := []string{"SUMMARY", ""}
	for _, d := range crs.Dates {
		pct := 0.0
		if len(crs.Students) > 0 {
			pct = float64(crs.PresentOn(d)) / float64(len(crs.Students)) * 100
		}
		summary = append(summary, fmt.Sprintf("%.2f%%", pct))
	}
	summary = append(summary, "", "", fmt.Sprintf("Overall: %.2f%%", crs.OverallPercentage()))
	rows = append(rows, summary)

	return rows
}

// WriteCSV writes the export grid as CSV.
func WriteCSV(crs Course, w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, row := range BuildGrid(crs) {
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

// WriteXLSX writes the export grid as a single-sheet spreadsheet.
func WriteXLSX(crs Course, w io.Writer) error {
	f := excelize.NewFile()
	sheet := "Attendance"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, row := range BuildGrid(crs) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "computing cell name")
		}
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return errors.Wrap(err, "writing sheet row")
		}
	}

	// widen the id and name columns
	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 26)

	return errors.Wrap(f.Write(w), "writing workbook")
}

// ExportFilename names a downloaded sheet after the course and the current day.
func ExportFilename(crs Course, ext string) string {
	return fmt.Sprintf("%s_%s.%s", crs.ID, NowFunc().UTC().Format(DateFormat), ext)
}
