package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/sudais-khan12/LMS-sub002/core"
)

const exportSheet = "Reports"

var exportHeader = []string{"Enrollment No", "Student", "Semester", "GPA", "Credits", "Remarks", "Created At"}

// Export writes every report matching filter to an xlsx workbook.
func (svc *Service) Export(ctx context.Context, filter QueryFilter) ([]byte, error) {
	reports, err := svc.all(ctx, filter, []core.DBOrdering{
		{Field: "enrollment_no", Ascending: true},
		{Field: "semester", Ascending: true},
	})
	if err != nil {
		return nil, errors.Wrap(err, "finding reports")
	}

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			r.EnrollmentNo,
			r.StudentName,
			strconv.Itoa(r.Semester),
			strconv.FormatFloat(r.GPA, 'f', 2, 64),
			strconv.Itoa(r.Credits),
			r.Remarks,
			r.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return buildWorkbook(exportSheet, exportHeader, rows)
}

func buildWorkbook(sheet string, header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, errors.Wrap(err, "naming sheet")
	}

	write := func(rowIdx int, values []string) error {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err != nil {
				return err
			}
			if err = f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write(1, header); err != nil {
		return nil, errors.Wrap(err, "writing header")
	}
	for i, row := range rows {
		if err := write(i+2, row); err != nil {
			return nil, errors.Wrap(err, "writing row")
		}
	}
	formatSheet(f, sheet, header, rows)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buf.Bytes(), nil
}

// formatSheet makes the header bold and filterable and sizes columns to their content.
func formatSheet(f *excelize.File, sheet string, header []string, rows [][]string) {
	last := colName(len(header))
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheet, "A1", last+"1", style)
	}
	_ = f.AutoFilter(sheet, fmt.Sprintf("A1:%s1", last), nil)

	for c := range header {
		width := float64(len([]rune(header[c]))) + 2
		for _, row := range rows {
			if w := float64(len([]rune(row[c]))) * 1.1; w > width {
				width = w
			}
		}
		if width < 10 {
			width = 10
		} else if width > 60 {
			width = 60
		}
		col := colName(c + 1)
		_ = f.SetColWidth(sheet, col, col, width)
	}
}

// colName converts a 1-based column index to its letters: 1 -> A, 27 -> AA.
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}
	return s
}
