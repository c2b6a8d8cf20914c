// Package textnorm turns raw extracted document text into the canonical
// line and sentence views the extraction engine works over.
package textnorm

import (
	"regexp"
	"strings"

	"github.com/mkaran/cvsift/internal/document"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Normalize builds a Document from raw extracted text. It joins
// hyphen-broken line wraps, keeps a line-oriented view for positional
// heuristics, and segments a whitespace-collapsed view into sentences.
// Empty input yields empty views, never an error.
func Normalize(raw string) *document.Document {
	doc := &document.Document{Raw: raw}
	if strings.TrimSpace(raw) == "" {
		return doc
	}

	s := reCRLF.ReplaceAllString(raw, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "\f", "\n")

	doc.Lines = canonicalLines(s)
	doc.Sentences = SplitSentences(strings.Join(doc.Lines, " "))
	return doc
}

// canonicalLines trims and collapses spaces per line, drops blank lines,
// and merges a line ending in a hyphen with its continuation.
func canonicalLines(s string) []string {
	rawLines := strings.Split(s, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		line = strings.TrimSpace(reMultiSpace.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		if n := len(lines); n > 0 && strings.HasSuffix(lines[n-1], "-") {
			lines[n-1] = strings.TrimSuffix(lines[n-1], "-") + line
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Abbreviations that end in a period but do not end a sentence.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"jr": true, "sr": true, "st": true, "vs": true, "etc": true,
	"inc": true, "ltd": true, "co": true, "corp": true, "dept": true,
	"univ": true, "approx": true, "no": true,
}

// SplitSentences segments collapsed text into sentences. A terminator
// splits only when followed by whitespace and it does not close an
// abbreviation, a single-letter initial, or a dotted token like "B.Sc".
// Decimal numbers never split because the period has no trailing space.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 >= len(runes) {
			break // trailing terminator, flushed below
		}
		if runes[i+1] != ' ' {
			continue
		}
		if c == '.' && !splitsAfterPeriod(runes[start:i]) {
			continue
		}
		sent := strings.TrimSpace(string(runes[start : i+1]))
		if sent != "" {
			sentences = append(sentences, sent)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// splitsAfterPeriod decides whether the period ending the given prefix is
// a sentence boundary, judging by the word directly before it.
func splitsAfterPeriod(prefix []rune) bool {
	word := lastWord(prefix)
	if word == "" {
		return false
	}
	if len([]rune(word)) == 1 {
		return false // initial, e.g. "Jane Q. Public"
	}
	if strings.Contains(word, ".") {
		return false // dotted token, e.g. "B.Sc" or "e.g"
	}
	return !abbreviations[strings.ToLower(word)]
}

func lastWord(runes []rune) string {
	end := len(runes)
	for end > 0 && runes[end-1] == ' ' {
		end--
	}
	start := end
	for start > 0 && runes[start-1] != ' ' {
		start--
	}
	return string(runes[start:end])
}
