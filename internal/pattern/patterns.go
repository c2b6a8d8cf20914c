// Package pattern holds the deterministic extractors: fixed-format regex
// rules and positional heuristics. Every extractor is a pure function over
// already-normalized text; a miss is an empty string, never an error.
package pattern

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Phone candidates: optional +country code, separators (space, dot,
	// dash), optional parentheses around the area code. Candidates are
	// filtered by digit count afterwards, so year ranges never qualify.
	rePhone = regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	reISODate = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)

	// Amount followed by a three-letter currency code, e.g. "85000 USD"
	// or "85,000.50 EUR".
	reCurrency = regexp.MustCompile(`\b\d{1,3}(?:,?\d{3})*(?:\.\d+)?\s?[A-Z]{3}\b`)

	reNonDigit = regexp.MustCompile(`\D`)
)

// minPhoneDigits is the floor that separates phone numbers from years,
// zip codes and other short digit runs.
const minPhoneDigits = 10

// Email returns the first email address in the text, or "".
func Email(text string) string {
	return reEmail.FindString(text)
}

// Phone returns the first qualifying phone number in the text, or "".
func Phone(text string) string {
	if all := Phones(text); len(all) > 0 {
		return all[0]
	}
	return ""
}

// Phones enumerates candidates in document order, keeps those with at
// least ten digits once separators are stripped, and counts identical
// normalized numbers once.
func Phones(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, cand := range rePhone.FindAllString(text, -1) {
		digits := reNonDigit.ReplaceAllString(cand, "")
		if len(digits) < minPhoneDigits || seen[digits] {
			continue
		}
		seen[digits] = true
		out = append(out, strings.TrimSpace(cand))
	}
	return out
}

// ISODate returns the first YYYY-MM-DD occurrence, or "".
func ISODate(text string) string {
	return reISODate.FindString(text)
}

// CurrencyAmount returns the first amount-plus-ISO-code match found in a
// sentence containing any trigger keyword, scanning sentences in document
// order. Scoping to trigger sentences keeps arbitrary "2021 USD revenue"
// style noise out.
func CurrencyAmount(sentences []string, triggers []string) string {
	for _, sent := range sentences {
		lower := strings.ToLower(sent)
		for _, kw := range triggers {
			if strings.Contains(lower, strings.ToLower(kw)) {
				if m := reCurrency.FindString(sent); m != "" {
					return m
				}
				break
			}
		}
	}
	return ""
}

// KeywordSentence returns the first sentence containing every keyword
// (case-insensitive substring match), or "".
func KeywordSentence(sentences []string, keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	for _, sent := range sentences {
		lower := strings.ToLower(sent)
		all := true
		for _, kw := range keywords {
			if !strings.Contains(lower, strings.ToLower(kw)) {
				all = false
				break
			}
		}
		if all {
			return sent
		}
	}
	return ""
}

// AnyKeywordSentences returns every sentence containing at least one of
// the keywords, in document order.
func AnyKeywordSentences(sentences []string, keywords []string) []string {
	var out []string
	for _, sent := range sentences {
		lower := strings.ToLower(sent)
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				out = append(out, sent)
				break
			}
		}
	}
	return out
}
