package engine

import (
	"testing"

	"github.com/mkaran/cvsift/internal/document"
	"github.com/mkaran/cvsift/internal/schema"
)

func TestAssemble(t *testing.T) {
	sch := schema.MustNew([]schema.FieldSpec{
		{Key: "email", Label: "Email", Strategy: schema.StrategyPattern, Pattern: schema.PatternEmail},
		{Key: "phone", Label: "Phone", Strategy: schema.StrategyPattern, Pattern: schema.PatternPhone},
		{Key: "role", Label: "Role", Strategy: schema.StrategyQA, Question: "role?"},
	})

	// Results arrive out of order and with a gap; assembly is keyed, not
	// positional.
	results := []document.ExtractionResult{
		{FieldKey: "role", Value: "Engineer", Evidence: "Works as an Engineer."},
		{FieldKey: "email", Value: "a@b.com"},
	}

	rows := Assemble(sch, results)
	if len(rows) != sch.Len() {
		t.Fatalf("got %d rows, want %d", len(rows), sch.Len())
	}
	for i, row := range rows {
		if row.SequenceNumber != i+1 {
			t.Errorf("row %d sequence = %d, want %d", i, row.SequenceNumber, i+1)
		}
	}

	if rows[0].Key != "Email" || rows[0].Value != "a@b.com" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Key != "Phone" || rows[1].Value != "" || rows[1].Comment != "" {
		t.Errorf("missing result should yield an empty row, got %+v", rows[1])
	}
	if rows[2].Value != "Engineer" || rows[2].Comment != "Works as an Engineer." {
		t.Errorf("row 2 = %+v", rows[2])
	}
}

func TestAssemble_NoResults(t *testing.T) {
	sch := schema.Resume()
	rows := Assemble(sch, nil)
	if len(rows) != sch.Len() {
		t.Fatalf("got %d rows, want %d", len(rows), sch.Len())
	}
	for i, row := range rows {
		if row.SequenceNumber != i+1 {
			t.Fatalf("row %d sequence = %d", i, row.SequenceNumber)
		}
		if row.Value != "" || row.Comment != "" {
			t.Errorf("row %d not empty: %+v", i, row)
		}
	}
}
