package engine

import (
	"github.com/mkaran/cvsift/internal/document"
	"github.com/mkaran/cvsift/internal/schema"
)

// Assemble merges resolved fields into the ordered row sequence. The
// output always has exactly one row per schema field, in declaration
// order, with 1-based contiguous sequence numbers. Fields missing from
// results surface as empty rows, so downstream tabular export never
// sees a ragged record.
func Assemble(sch *schema.Schema, results []document.ExtractionResult) []document.Row {
	byKey := make(map[string]document.ExtractionResult, len(results))
	for _, res := range results {
		byKey[res.FieldKey] = res
	}

	fields := sch.Fields()
	rows := make([]document.Row, 0, len(fields))
	for i, f := range fields {
		res := byKey[f.Key]
		rows = append(rows, document.Row{
			SequenceNumber: i + 1,
			Key:            f.Label,
			Value:          res.Value,
			Comment:        res.Evidence,
		})
	}
	return rows
}
