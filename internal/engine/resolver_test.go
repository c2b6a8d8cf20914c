package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mkaran/cvsift/internal/capability"
	"github.com/mkaran/cvsift/internal/document"
	"github.com/mkaran/cvsift/internal/schema"
	"github.com/mkaran/cvsift/internal/textnorm"
)

// fakeQA answers from a fixed question map and counts calls.
type fakeQA struct {
	answers map[string]capability.Answer
	err     error
	calls   int
}

func (f *fakeQA) Answer(ctx context.Context, question, window string) (capability.Answer, error) {
	f.calls++
	if f.err != nil {
		return capability.Answer{}, f.err
	}
	return f.answers[question], nil
}

// fakeNER recognizes from a fixed sentence map and counts calls.
type fakeNER struct {
	entities map[string][]capability.Entity
	err      error
	calls    int
}

func (f *fakeNER) Recognize(ctx context.Context, text string) ([]capability.Entity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entities[text], nil
}

const sampleResume = `Jane Public
jane@example.com
+1 (415) 555-2671.

Currently working as a Staff Engineer at Initech. Previously worked at Globex.
Returned to Initech to lead the platform team.
Graduated from Stanford University with a GPA of dean's list standing.
Expected salary is 85,000 USD. Available from 2024-09-01.`

func sampleDoc(t *testing.T) *document.Document {
	t.Helper()
	doc := textnorm.Normalize(sampleResume)
	if doc.Empty() {
		t.Fatal("sample document normalized to empty")
	}
	return doc
}

func TestResolve_EmptyDocument(t *testing.T) {
	r := NewResolver(&fakeQA{}, &fakeNER{}, nil, 0)
	_, err := r.Resolve(context.Background(), textnorm.Normalize("   "), schema.Resume())
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestResolve_PatternFields(t *testing.T) {
	sch := schema.MustNew([]schema.FieldSpec{
		{Key: "email", Label: "Email", Strategy: schema.StrategyPattern, Pattern: schema.PatternEmail},
		{Key: "phone", Label: "Phone", Strategy: schema.StrategyPattern, Pattern: schema.PatternPhone},
		{Key: "available_from", Label: "Available From", Strategy: schema.StrategyPattern, Pattern: schema.PatternISODate},
		{Key: "first_name", Label: "First Name", Strategy: schema.StrategyPattern, Pattern: schema.PatternHeaderFirst},
	})
	// Broken adapters must not affect pattern-only fields.
	qa := &fakeQA{err: errors.New("down")}
	ner := &fakeNER{err: errors.New("down")}
	r := NewResolver(qa, ner, nil, 0)

	results, err := r.Resolve(context.Background(), sampleDoc(t), sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{
		"email":          "jane@example.com",
		"phone":          "+1 (415) 555-2671",
		"available_from": "2024-09-01",
		"first_name":     "Jane",
	}
	for _, res := range results {
		if res.Value != want[res.FieldKey] {
			t.Errorf("%s = %q, want %q", res.FieldKey, res.Value, want[res.FieldKey])
		}
		if res.Reason != document.ReasonResolved {
			t.Errorf("%s reason = %q, want resolved", res.FieldKey, res.Reason)
		}
	}
	if qa.calls != 0 || ner.calls != 0 {
		t.Errorf("pattern fields touched capabilities: qa=%d ner=%d", qa.calls, ner.calls)
	}
}

func TestResolve_QAConfidenceGate(t *testing.T) {
	sch := schema.MustNew([]schema.FieldSpec{
		{Key: "role", Label: "Role", Strategy: schema.StrategyQA, Question: "role?", ConfidenceThreshold: 0.5},
		{Key: "degree", Label: "Degree", Strategy: schema.StrategyQA, Question: "degree?", ConfidenceThreshold: 0.5},
		{Key: "skills", Label: "Skills", Strategy: schema.StrategyQA, Question: "skills?", ConfidenceThreshold: 0.5},
	})
	qa := &fakeQA{answers: map[string]capability.Answer{
		"role?":   {Text: "Staff Engineer", Score: 0.9},
		"degree?": {Text: "weak guess", Score: 0.5}, // at threshold, not above
		"skills?": {},                               // no answer at all
	}}
	r := NewResolver(qa, &fakeNER{}, nil, 0)

	results, err := r.Resolve(context.Background(), sampleDoc(t), sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if results[0].Value != "Staff Engineer" || results[0].Confidence != 0.9 {
		t.Errorf("role = %+v", results[0])
	}
	if results[1].Value != "" || results[1].Reason != document.ReasonLowConfidence {
		t.Errorf("at-threshold answer not gated: %+v", results[1])
	}
	if results[2].Value != "" || results[2].Reason != document.ReasonNoCandidate {
		t.Errorf("empty answer: %+v", results[2])
	}
}

func TestResolve_PatternWithQAFallback(t *testing.T) {
	sch := schema.MustNew([]schema.FieldSpec{
		{
			Key: "full_name", Label: "Full Name",
			Strategy: schema.StrategyPatternWithQAFallback,
			Pattern:  schema.PatternHeaderFull,
			Question: "name?", ConfidenceThreshold: 0.02,
		},
	})
	qa := &fakeQA{answers: map[string]capability.Answer{"name?": {Text: "Someone Else", Score: 0.9}}}
	r := NewResolver(qa, &fakeNER{}, nil, 0)

	// Header hit: the pattern wins and QA is never consulted.
	results, err := r.Resolve(context.Background(), sampleDoc(t), sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Value != "Jane Public" {
		t.Errorf("value = %q, want %q", results[0].Value, "Jane Public")
	}
	if qa.calls != 0 {
		t.Errorf("QA consulted despite pattern hit: %d calls", qa.calls)
	}

	// No plausible header line: control falls back to QA.
	doc := textnorm.Normalize("Senior Backend Engineer with ten years of experience.\nSomeone Else is the candidate.")
	results, err = r.Resolve(context.Background(), doc, sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Value != "Someone Else" {
		t.Errorf("fallback value = %q, want %q", results[0].Value, "Someone Else")
	}
	if qa.calls != 1 {
		t.Errorf("expected exactly one QA call, got %d", qa.calls)
	}
}

func TestResolve_CapabilityFaultContained(t *testing.T) {
	sch := schema.Resume()
	qa := &fakeQA{err: errors.New("inference backend unreachable")}
	ner := &fakeNER{err: errors.New("inference backend unreachable")}
	r := NewResolver(qa, ner, nil, 0)

	results, err := r.Resolve(context.Background(), sampleDoc(t), sch)
	if err != nil {
		t.Fatalf("faults must not abort the run: %v", err)
	}
	if len(results) != sch.Len() {
		t.Fatalf("got %d results, want %d", len(results), sch.Len())
	}

	byKey := make(map[string]document.ExtractionResult)
	for _, res := range results {
		byKey[res.FieldKey] = res
	}
	if byKey["email"].Value != "jane@example.com" {
		t.Errorf("pattern field lost to capability fault: %+v", byKey["email"])
	}
	if res := byKey["current_role"].Value; res != "" {
		t.Errorf("QA field resolved despite fault: %q", res)
	}
	if reason := byKey["current_role"].Reason; reason != document.ReasonCapabilityError {
		t.Errorf("current_role reason = %q, want capability_error", reason)
	}
	if reason := byKey["current_company"].Reason; reason != document.ReasonCapabilityError {
		t.Errorf("current_company reason = %q, want capability_error", reason)
	}
}

func TestResolve_EntityFiltered(t *testing.T) {
	doc := sampleDoc(t)
	companyField := schema.FieldSpec{
		Key: "current_company", Label: "Current Company",
		Strategy:    schema.StrategyEntityFiltered,
		EntityLabel: capability.LabelOrganization,
		EntityRule:  schema.EntityMostFrequent,
		Keywords:    []string{"work", "lead the platform"},
		Denylist:    []string{"GPA"},
	}

	ner := &fakeNER{entities: map[string][]capability.Entity{
		"Currently working as a Staff Engineer at Initech.": {
			{Text: "Initech", Label: capability.LabelOrganization, Score: 0.98},
		},
		"Previously worked at Globex.": {
			{Text: "Globex", Label: capability.LabelOrganization, Score: 0.97},
		},
		"Returned to Initech to lead the platform team.": {
			{Text: "Initech", Label: capability.LabelOrganization, Score: 0.96},
		},
	}}
	r := NewResolver(&fakeQA{}, ner, nil, 0)

	sch := schema.MustNew([]schema.FieldSpec{companyField})
	results, err := r.Resolve(context.Background(), doc, sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Value != "Initech" {
		t.Errorf("most frequent = %q, want Initech", results[0].Value)
	}
	if results[0].Evidence == "" {
		t.Error("entity field missing evidence sentence")
	}

	// First-match rule takes the earliest qualifying span instead.
	first := companyField
	first.Key = "first_org"
	first.EntityRule = schema.EntityFirst
	sch = schema.MustNew([]schema.FieldSpec{first})
	results, err = r.Resolve(context.Background(), doc, sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Value != "Initech" {
		t.Errorf("first = %q, want Initech", results[0].Value)
	}
}

func TestResolve_EntityDenylistAndLabel(t *testing.T) {
	doc := textnorm.Normalize("Worked on SQL and AWS at Initech. Jane was employed there.")
	ner := &fakeNER{entities: map[string][]capability.Entity{
		"Worked on SQL and AWS at Initech.": {
			{Text: "SQL", Label: capability.LabelOrganization, Score: 0.9},
			{Text: "AWS", Label: capability.LabelOrganization, Score: 0.9},
			{Text: "Initech", Label: capability.LabelOrganization, Score: 0.9},
		},
		"Jane was employed there.": {
			{Text: "Jane", Label: capability.LabelPerson, Score: 0.99},
		},
	}}
	sch := schema.MustNew([]schema.FieldSpec{{
		Key: "company", Label: "Company",
		Strategy:    schema.StrategyEntityFiltered,
		EntityLabel: capability.LabelOrganization,
		EntityRule:  schema.EntityFirst,
		Keywords:    []string{"work", "employ"},
		Denylist:    []string{"SQL", "AWS"},
	}})
	r := NewResolver(&fakeQA{}, ner, nil, 0)

	results, err := r.Resolve(context.Background(), doc, sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Value != "Initech" {
		t.Errorf("value = %q, want Initech (denylist and label filter)", results[0].Value)
	}
}

func TestResolve_EntityNoKeywordSentence(t *testing.T) {
	doc := textnorm.Normalize("Jane Public. Skilled in Go.")
	ner := &fakeNER{}
	sch := schema.MustNew([]schema.FieldSpec{{
		Key: "company", Label: "Company",
		Strategy:    schema.StrategyEntityFiltered,
		EntityLabel: capability.LabelOrganization,
		EntityRule:  schema.EntityFirst,
		Keywords:    []string{"employ"},
	}})
	r := NewResolver(&fakeQA{}, ner, nil, 0)

	results, err := r.Resolve(context.Background(), doc, sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Reason != document.ReasonNoCandidate {
		t.Errorf("reason = %q, want no_candidate", results[0].Reason)
	}
	if ner.calls != 0 {
		t.Errorf("recognizer called with no trigger sentences: %d", ner.calls)
	}
}

func TestResolve_EvidenceAttachment(t *testing.T) {
	sch := schema.MustNew([]schema.FieldSpec{
		{
			Key: "role", Label: "Role", Strategy: schema.StrategyQA,
			Question: "role?", ConfidenceThreshold: 0.02, EvidenceRequired: true,
		},
		{
			Key: "degree", Label: "Degree", Strategy: schema.StrategyQA,
			Question: "degree?", ConfidenceThreshold: 0.02,
		},
	})
	qa := &fakeQA{answers: map[string]capability.Answer{
		"role?":   {Text: "Staff Engineer", Score: 0.9},
		"degree?": {Text: "Staff Engineer", Score: 0.9},
	}}
	r := NewResolver(qa, &fakeNER{}, nil, 0)

	results, err := r.Resolve(context.Background(), sampleDoc(t), sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "Currently working as a Staff Engineer at Initech."; results[0].Evidence != want {
		t.Errorf("evidence = %q, want %q", results[0].Evidence, want)
	}
	if results[1].Evidence != "" {
		t.Errorf("evidence attached without EvidenceRequired: %q", results[1].Evidence)
	}
}

func TestResolve_ProgressCallback(t *testing.T) {
	sch := schema.Resume()
	r := NewResolver(&fakeQA{}, &fakeNER{}, nil, 0)

	var seen [][2]int
	r.OnProgress(func(done, total int) {
		seen = append(seen, [2]int{done, total})
	})
	if _, err := r.Resolve(context.Background(), sampleDoc(t), sch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != sch.Len() {
		t.Fatalf("got %d progress calls, want %d", len(seen), sch.Len())
	}
	for i, p := range seen {
		if p[0] != i+1 || p[1] != sch.Len() {
			t.Errorf("call %d = (%d,%d), want (%d,%d)", i, p[0], p[1], i+1, sch.Len())
		}
	}
	final := seen[len(seen)-1]
	if final[0] != final[1] {
		t.Errorf("final progress %v never reached total", final)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	sch := schema.Resume()
	mk := func() *Resolver {
		qa := &fakeQA{answers: map[string]capability.Answer{
			"What is their current or most recent job title?": {Text: "Staff Engineer", Score: 0.8},
		}}
		return NewResolver(qa, &fakeNER{}, nil, 0)
	}
	doc := sampleDoc(t)

	a, err := mk().Resolve(context.Background(), doc, sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := mk().Resolve(context.Background(), doc, sch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different results")
	}
}

func TestContextWindow(t *testing.T) {
	if got := ContextWindow("hello", 10); got != "hello" {
		t.Errorf("short text truncated: %q", got)
	}
	if got := ContextWindow("hello world", 5); got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
	// Rune boundary, not byte boundary.
	if got := ContextWindow("héllo", 2); got != "hé" {
		t.Errorf("got %q, want %q", got, "hé")
	}
	if got := ContextWindow("hello", 0); got != "hello" {
		t.Errorf("zero limit should pass text through, got %q", got)
	}
}
