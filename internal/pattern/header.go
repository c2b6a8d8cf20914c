package pattern

import (
	"strings"
	"unicode"
)

// headerScanLines bounds how deep the name heuristic looks into the
// document. Resumes put the candidate name at the very top.
const headerScanLines = 5

// maxHeaderWords caps the word count of a plausible name line.
const maxHeaderWords = 4

// Section labels that look like header lines but are never names.
var headerBlocklist = map[string]bool{
	"RESUME":           true,
	"CV":               true,
	"PROFILE":          true,
	"CONTACT":          true,
	"CURRICULUM VITAE": true,
}

// HeaderName holds the candidate name derived from the document header.
type HeaderName struct {
	Full  string
	First string // first token of the accepted line
	Last  string // last token; empty for a single-token line
}

// CandidateName scans the first lines for the first plausible name line:
// a short line with no digits that is not a section label. The accepted
// line splits on whitespace, first token to First and last token to Last.
func CandidateName(lines []string) (HeaderName, bool) {
	limit := headerScanLines
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		words := strings.Fields(line)
		if len(words) == 0 || len(words) > maxHeaderWords {
			continue
		}
		if containsDigit(line) {
			continue
		}
		if headerBlocklist[strings.ToUpper(strings.TrimSpace(line))] {
			continue
		}
		name := HeaderName{
			Full:  strings.Join(words, " "),
			First: words[0],
		}
		if len(words) > 1 {
			name.Last = words[len(words)-1]
		}
		return name, true
	}
	return HeaderName{}, false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
