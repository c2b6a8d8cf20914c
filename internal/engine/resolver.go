// Package engine resolves schema fields against a normalized document,
// combining pattern extractors with the entity and question-answering
// capabilities, and assembles the resolved fields into export rows.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mkaran/cvsift/internal/capability"
	"github.com/mkaran/cvsift/internal/document"
	"github.com/mkaran/cvsift/internal/pattern"
	"github.com/mkaran/cvsift/internal/schema"
)

// ErrEmptyDocument signals that normalization produced no usable text.
// It is the only extraction-time fault that reaches the caller.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// DefaultContextChars bounds the QA context window. The underlying model
// has a limited input length, so only a document prefix is visible to it.
const DefaultContextChars = 4000

// Resolver runs the per-field resolution state machine. Fields resolve
// strictly in schema order; per-field faults are contained and never
// abort the run.
type Resolver struct {
	qa           capability.AnswerExtractor
	ner          capability.EntityRecognizer
	log          *slog.Logger
	contextChars int
	progress     func(done, total int)
}

func NewResolver(qa capability.AnswerExtractor, ner capability.EntityRecognizer, log *slog.Logger, contextChars int) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	if contextChars <= 0 {
		contextChars = DefaultContextChars
	}
	return &Resolver{
		qa:           qa,
		ner:          ner,
		log:          log,
		contextChars: contextChars,
	}
}

// OnProgress registers a callback invoked after each field resolves.
// done equals total exactly once, after the final field.
func (r *Resolver) OnProgress(fn func(done, total int)) {
	r.progress = fn
}

// Resolve produces one ExtractionResult per schema field, in order.
func (r *Resolver) Resolve(ctx context.Context, doc *document.Document, sch *schema.Schema) ([]document.ExtractionResult, error) {
	if doc.Empty() {
		return nil, ErrEmptyDocument
	}

	fields := sch.Fields()
	results := make([]document.ExtractionResult, 0, len(fields))
	for i, f := range fields {
		res := r.resolveField(ctx, doc, f)
		results = append(results, res)
		if res.Value == "" {
			r.log.Debug("field unresolved", "key", f.Key, "reason", res.Reason)
		}
		if r.progress != nil {
			r.progress(i+1, len(fields))
		}
	}
	return results, nil
}

func (r *Resolver) resolveField(ctx context.Context, doc *document.Document, f schema.FieldSpec) document.ExtractionResult {
	res := document.ExtractionResult{FieldKey: f.Key, Reason: document.ReasonNoCandidate}

	switch f.Strategy {
	case schema.StrategyPattern:
		res.Value = r.runPattern(doc, f)
		if res.Value != "" {
			res.Reason = document.ReasonResolved
		}

	case schema.StrategyQA:
		r.runQA(ctx, doc, f, &res)

	case schema.StrategyPatternWithQAFallback:
		res.Value = r.runPattern(doc, f)
		if res.Value != "" {
			res.Reason = document.ReasonResolved
		} else {
			r.runQA(ctx, doc, f, &res)
		}

	case schema.StrategyEntityFiltered:
		r.runEntityFiltered(ctx, doc, f, &res)
	}

	r.attachEvidence(doc, f, &res)
	return res
}

// runPattern dispatches to the deterministic extractors. It touches no
// capability adapter, so its output is independent of them.
func (r *Resolver) runPattern(doc *document.Document, f schema.FieldSpec) string {
	switch f.Pattern {
	case schema.PatternEmail:
		return pattern.Email(doc.Raw)
	case schema.PatternPhone:
		return pattern.Phone(doc.Raw)
	case schema.PatternISODate:
		return pattern.ISODate(doc.Raw)
	case schema.PatternCurrency:
		return pattern.CurrencyAmount(doc.Sentences, f.Keywords)
	case schema.PatternHeaderFirst:
		if name, ok := pattern.CandidateName(doc.Lines); ok {
			return name.First
		}
	case schema.PatternHeaderLast:
		if name, ok := pattern.CandidateName(doc.Lines); ok {
			return name.Last
		}
	case schema.PatternHeaderFull:
		if name, ok := pattern.CandidateName(doc.Lines); ok {
			return name.Full
		}
	}
	return ""
}

// runQA queries the answer extractor over the bounded context window and
// gates the result by the field's threshold. Any capability fault
// resolves the field to empty; it never propagates.
func (r *Resolver) runQA(ctx context.Context, doc *document.Document, f schema.FieldSpec, res *document.ExtractionResult) {
	window := ContextWindow(doc.Raw, r.contextChars)
	ans, err := r.qa.Answer(ctx, f.Question, window)
	if err != nil {
		r.log.Warn("qa capability failed", "key", f.Key, "error", err)
		res.Reason = document.ReasonCapabilityError
		return
	}
	if ans.Text == "" {
		res.Reason = document.ReasonNoCandidate
		return
	}
	if ans.Score <= f.ConfidenceThreshold {
		res.Reason = document.ReasonLowConfidence
		return
	}
	res.Value = ans.Text
	res.Confidence = ans.Score
	res.Reason = document.ReasonResolved
}

// runEntityFiltered recognizes entities over keyword-triggered sentences
// only, filters by label and denylist, and selects per the field rule.
func (r *Resolver) runEntityFiltered(ctx context.Context, doc *document.Document, f schema.FieldSpec, res *document.ExtractionResult) {
	candidates := pattern.AnyKeywordSentences(doc.Sentences, f.Keywords)
	if len(candidates) == 0 {
		res.Reason = document.ReasonNoCandidate
		return
	}

	deny := make(map[string]bool, len(f.Denylist))
	for _, d := range f.Denylist {
		deny[strings.ToLower(d)] = true
	}

	type span struct {
		text     string
		sentence string
	}
	var ordered []span // first occurrence of each distinct normalized span
	counts := make(map[string]int)
	sawFault := false

	for _, sent := range candidates {
		entities, err := r.ner.Recognize(ctx, sent)
		if err != nil {
			r.log.Warn("ner capability failed", "key", f.Key, "error", err)
			sawFault = true
			continue
		}
		for _, e := range entities {
			if e.Label != f.EntityLabel {
				continue
			}
			norm := strings.ToLower(strings.TrimSpace(e.Text))
			if norm == "" || deny[norm] {
				continue
			}
			if counts[norm] == 0 {
				ordered = append(ordered, span{text: strings.TrimSpace(e.Text), sentence: sent})
			}
			counts[norm]++
		}
		// First-match rule needs no further capability calls.
		if f.EntityRule == schema.EntityFirst && len(ordered) > 0 {
			break
		}
	}

	if len(ordered) == 0 {
		if sawFault {
			res.Reason = document.ReasonCapabilityError
		} else {
			res.Reason = document.ReasonNoCandidate
		}
		return
	}

	chosen := ordered[0]
	if f.EntityRule == schema.EntityMostFrequent {
		best := counts[strings.ToLower(chosen.text)]
		for _, s := range ordered {
			if c := counts[strings.ToLower(s.text)]; c > best {
				chosen, best = s, c
			}
		}
	}
	res.Value = chosen.text
	res.Evidence = chosen.sentence
	res.Reason = document.ReasonResolved
}

// attachEvidence populates the supporting sentence independently of
// value resolution: a resolved value without a locatable sentence keeps
// an empty comment, and an unresolved field may still carry the keyword
// sentence it was searched in.
func (r *Resolver) attachEvidence(doc *document.Document, f schema.FieldSpec, res *document.ExtractionResult) {
	if !f.EvidenceRequired || res.Evidence != "" {
		return
	}
	if res.Value != "" {
		res.Evidence = containingSentence(doc.Sentences, res.Value)
		return
	}
	if len(f.Keywords) > 0 {
		res.Evidence = pattern.KeywordSentence(doc.Sentences, f.Keywords[:1])
	}
}

// containingSentence finds the first sentence containing the value,
// case-insensitively. Multi-sentence answers fall back to their first
// fragment so partial matches still locate support.
func containingSentence(sentences []string, value string) string {
	needle := strings.ToLower(strings.TrimSpace(value))
	if needle == "" {
		return ""
	}
	for _, sent := range sentences {
		if strings.Contains(strings.ToLower(sent), needle) {
			return sent
		}
	}
	if i := strings.IndexAny(needle, ".,;"); i > 0 {
		return containingSentence(sentences, needle[:i])
	}
	return ""
}

// ContextWindow returns at most n leading runes of text, the slice of
// the document the QA capability is allowed to see.
func ContextWindow(text string, n int) string {
	if n <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
