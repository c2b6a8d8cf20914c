// Package export serializes assembled profile rows for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/mkaran/cvsift/internal/document"
)

var headers = []string{"No.", "Field", "Value", "Comment"}

// RowsCSV renders rows as UTF-8 CSV with a header line.
func RowsCSV(rows []document.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.SequenceNumber),
			r.Key,
			r.Value,
			r.Comment,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv write: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

// RowsXLSX renders rows as an XLSX workbook with a single Profile sheet.
func RowsXLSX(rows []document.Row) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Profile"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	for i, h := range headers {
		write(i+1, 1, h)
	}
	for i, r := range rows {
		rowIdx := i + 2
		write(1, rowIdx, r.SequenceNumber)
		write(2, rowIdx, r.Key)
		write(3, rowIdx, r.Value)
		write(4, rowIdx, r.Comment)
	}

	_ = f.SetColWidth(sheet, "A", "A", 6)
	_ = f.SetColWidth(sheet, "B", "B", 22)
	_ = f.SetColWidth(sheet, "C", "C", 40)
	_ = f.SetColWidth(sheet, "D", "D", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
