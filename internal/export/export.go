// Package export writes extracted profiles as CSV or XLSX files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"postreach/internal/domain"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	sheetName = "Engagement"
)

// ErrNoProfiles is returned when there is nothing to export.
var ErrNoProfiles = errors.New("export: no profiles to export")

// utf8BOM lets Excel detect the CSV encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns is the header row shared by every format.
var Columns = []string{"Profile URL", "Name", "Headline", "Engagement Type", "Reaction Type", "Comment"}

func row(p domain.Profile) []string {
	return []string{p.ProfileURL, p.Name, p.Headline, string(p.EngagementType), p.ReactionType, p.CommentText}
}

// Filename builds the download name for an export, e.g.
// linkedin_engagement_20261017_120000.csv.
func Filename(format string, t time.Time) string {
	return fmt.Sprintf("linkedin_engagement_%s.%s", t.Format("20060102_150405"), format)
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write dispatches to the writer for format.
func Write(w io.Writer, format string, profiles []domain.Profile) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, profiles)
	case FormatXLSX:
		return WriteXLSX(w, profiles)
	default:
		return fmt.Errorf("export: unsupported format %q", format)
	}
}

// WriteCSV writes profiles as UTF-8 CSV with a byte order mark.
func WriteCSV(w io.Writer, profiles []domain.Profile) error {
	if len(profiles) == 0 {
		return ErrNoProfiles
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range profiles {
		if err := cw.Write(row(p)); err != nil {
			return fmt.Errorf("write csv row for %s: %w", p.ProfileURL, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX writes profiles to a single-sheet workbook with a bold, frozen
// header row.
func WriteXLSX(w io.Writer, profiles []domain.Profile) error {
	if len(profiles) == 0 {
		return ErrNoProfiles
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, Columns); err != nil {
		return err
	}
	for i, p := range profiles {
		if err := setRow(f, i+2, row(p)); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", "A", 45); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "C", 30); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
