// Package schema defines the field registry the resolution engine
// iterates over. Adding a profile field is a data change here, not new
// control flow in the engine.
package schema

import (
	"fmt"
)

// Strategy selects how a field's value is resolved.
type Strategy string

const (
	// StrategyPattern runs a deterministic extractor; no confidence score.
	StrategyPattern Strategy = "PATTERN"
	// StrategyQA asks the question-answering capability, gated by threshold.
	StrategyQA Strategy = "QA"
	// StrategyPatternWithQAFallback tries the pattern first, then QA.
	StrategyPatternWithQAFallback Strategy = "PATTERN_WITH_QA_FALLBACK"
	// StrategyEntityFiltered runs entity recognition over keyword-matched
	// sentences and filters spans by label.
	StrategyEntityFiltered Strategy = "ENTITY_FILTERED"
)

// Pattern extractor identifiers for PATTERN-based fields.
type PatternKind string

const (
	PatternEmail       PatternKind = "email"
	PatternPhone       PatternKind = "phone"
	PatternISODate     PatternKind = "iso_date"
	PatternCurrency    PatternKind = "currency"
	PatternHeaderFirst PatternKind = "header_first"
	PatternHeaderLast  PatternKind = "header_last"
	PatternHeaderFull  PatternKind = "header_full"
)

// EntityRule selects among qualifying entity spans.
type EntityRule string

const (
	EntityFirst        EntityRule = "first"
	EntityMostFrequent EntityRule = "most_frequent"
)

// FieldSpec declares one field of the output record.
type FieldSpec struct {
	Key      string
	Label    string
	Strategy Strategy

	// Pattern names the extractor for PATTERN and the pattern half of
	// PATTERN_WITH_QA_FALLBACK.
	Pattern PatternKind

	// Question is the natural-language prompt for QA-based strategies.
	Question string

	// Keywords trigger sentence selection for ENTITY_FILTERED fields and
	// scope the currency pattern.
	Keywords []string

	// EntityLabel and EntityRule drive ENTITY_FILTERED selection.
	EntityLabel string
	EntityRule  EntityRule

	// Denylist excludes known false-positive spans (case-insensitive).
	Denylist []string

	// ConfidenceThreshold is the floor a capability score must exceed.
	ConfidenceThreshold float64

	// EvidenceRequired attaches the supporting sentence as the row comment.
	EvidenceRequired bool
}

// Schema is an ordered, read-only field list. It defines both the
// engine's iteration order and the output row order.
type Schema struct {
	fields []FieldSpec
}

// New validates the field list and builds a Schema. Configuration faults
// are rejected here, never at extraction time.
func New(fields []FieldSpec) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema: no fields declared")
	}
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.Key == "" {
			return nil, fmt.Errorf("schema: field %d has empty key", i)
		}
		if seen[f.Key] {
			return nil, fmt.Errorf("schema: duplicate key %q", f.Key)
		}
		seen[f.Key] = true

		switch f.Strategy {
		case StrategyPattern:
			if f.Pattern == "" {
				return nil, fmt.Errorf("schema: field %q: PATTERN strategy requires a pattern", f.Key)
			}
		case StrategyQA:
			if f.Question == "" {
				return nil, fmt.Errorf("schema: field %q: QA strategy requires a question", f.Key)
			}
		case StrategyPatternWithQAFallback:
			if f.Pattern == "" {
				return nil, fmt.Errorf("schema: field %q: fallback strategy requires a pattern", f.Key)
			}
			if f.Question == "" {
				return nil, fmt.Errorf("schema: field %q: fallback strategy requires a question", f.Key)
			}
		case StrategyEntityFiltered:
			if f.EntityLabel == "" {
				return nil, fmt.Errorf("schema: field %q: entity strategy requires an entity label", f.Key)
			}
			if len(f.Keywords) == 0 {
				return nil, fmt.Errorf("schema: field %q: entity strategy requires trigger keywords", f.Key)
			}
		default:
			return nil, fmt.Errorf("schema: field %q: unknown strategy %q", f.Key, f.Strategy)
		}

		if f.ConfidenceThreshold < 0 || f.ConfidenceThreshold > 1 {
			return nil, fmt.Errorf("schema: field %q: threshold %v outside [0,1]", f.Key, f.ConfidenceThreshold)
		}
	}
	cp := make([]FieldSpec, len(fields))
	copy(cp, fields)
	return &Schema{fields: cp}, nil
}

// MustNew is New for statically declared schemas.
func MustNew(fields []FieldSpec) *Schema {
	s, err := New(fields)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the declaration-ordered field list.
func (s *Schema) Fields() []FieldSpec {
	return s.fields
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	return len(s.fields)
}
