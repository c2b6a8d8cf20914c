package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mkaran/cvsift/internal/document"
)

func sampleRows() []document.Row {
	return []document.Row{
		{SequenceNumber: 1, Key: "First Name", Value: "Jane"},
		{SequenceNumber: 2, Key: "Email", Value: "jane@example.com"},
		{SequenceNumber: 3, Key: "Current Role", Value: "Staff Engineer", Comment: "Works as a Staff Engineer, remote."},
		{SequenceNumber: 4, Key: "Expected Salary"},
	}
}

func TestRowsCSV(t *testing.T) {
	out, err := RowsCSV(sampleRows())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output not parseable CSV: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want header plus 4 rows", len(records))
	}
	wantHeader := []string{"No.", "Field", "Value", "Comment"}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}
	if records[1][0] != "1" || records[1][1] != "First Name" || records[1][2] != "Jane" {
		t.Errorf("row 1 = %v", records[1])
	}
	// The comma inside the comment survives quoting.
	if records[3][3] != "Works as a Staff Engineer, remote." {
		t.Errorf("comment = %q", records[3][3])
	}
	if records[4][2] != "" || records[4][3] != "" {
		t.Errorf("empty field row = %v", records[4])
	}
}

func TestRowsCSV_Empty(t *testing.T) {
	out, err := RowsCSV(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output not parseable CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want header only", len(records))
	}
}

func TestRowsXLSX(t *testing.T) {
	out, err := RowsXLSX(sampleRows())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output not a readable workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Profile" {
		t.Fatalf("sheets = %v, want only Profile", sheets)
	}

	cell := func(ref string) string {
		v, err := f.GetCellValue("Profile", ref)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", ref, err)
		}
		return v
	}
	if cell("A1") != "No." || cell("B1") != "Field" || cell("C1") != "Value" || cell("D1") != "Comment" {
		t.Errorf("header row: %q %q %q %q", cell("A1"), cell("B1"), cell("C1"), cell("D1"))
	}
	if cell("A2") != "1" || cell("B2") != "First Name" || cell("C2") != "Jane" {
		t.Errorf("data row: %q %q %q", cell("A2"), cell("B2"), cell("C2"))
	}
	if cell("C4") != "Staff Engineer" || cell("D4") != "Works as a Staff Engineer, remote." {
		t.Errorf("row 4: %q %q", cell("C4"), cell("D4"))
	}
}
