package pattern

import "testing"

func TestCandidateName(t *testing.T) {
	lines := []string{
		"RESUME",
		"Jane Q. Public",
		"jane@example.com",
		"(415) 555-2671",
	}
	name, ok := CandidateName(lines)
	if !ok {
		t.Fatal("expected a candidate name")
	}
	if name.Full != "Jane Q. Public" {
		t.Errorf("Full = %q, want %q", name.Full, "Jane Q. Public")
	}
	if name.First != "Jane" {
		t.Errorf("First = %q, want %q", name.First, "Jane")
	}
	if name.Last != "Public" {
		t.Errorf("Last = %q, want %q", name.Last, "Public")
	}
}

func TestCandidateName_SingleToken(t *testing.T) {
	name, ok := CandidateName([]string{"Madonna"})
	if !ok {
		t.Fatal("expected a candidate name")
	}
	if name.First != "Madonna" || name.Last != "" {
		t.Errorf("got First=%q Last=%q, want First=Madonna Last empty", name.First, name.Last)
	}
}

func TestCandidateName_SkipsNoise(t *testing.T) {
	lines := []string{
		"CURRICULUM VITAE",
		"Updated 2024-01-15",
		"Senior Backend Engineer with a decade of distributed systems work",
		"John Smith",
	}
	name, ok := CandidateName(lines)
	if !ok {
		t.Fatal("expected a candidate name")
	}
	if name.Full != "John Smith" {
		t.Errorf("Full = %q, want %q", name.Full, "John Smith")
	}
}

func TestCandidateName_BeyondScanWindow(t *testing.T) {
	lines := []string{
		"CV",
		"PROFILE",
		"CONTACT",
		"RESUME",
		"2024 edition",
		"Jane Public", // sixth line, outside the scan window
	}
	if name, ok := CandidateName(lines); ok {
		t.Errorf("expected no candidate beyond scan window, got %q", name.Full)
	}
}

func TestCandidateName_Empty(t *testing.T) {
	if _, ok := CandidateName(nil); ok {
		t.Error("expected no candidate for empty input")
	}
}
