// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize produces canonical forms of bibliographic identifying
// fields so that exact and near-exact comparisons are robust to formatting
// noise (resolver URLs, punctuation, stop words, author-list delimiters).
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// doiPattern matches a DOI anywhere in a string: the "10." prefix, a
// registrant code of at least four digits, and a suffix.
var doiPattern = regexp.MustCompile(`10\.\d{4,}[/.\-\w]+`)

// resolverHosts are the known DOI resolver prefixes, checked longest first
// so "dx.doi.org/" wins over "doi.org/".
var resolverHosts = []string{"dx.doi.org/", "doi.org/"}

// DOI returns the canonical lowercase form of a DOI. It accepts bare DOIs,
// resolver URLs, and prefixed strings like "DOI: 10.1234/x", and returns ""
// when the input contains nothing DOI-like. The function is idempotent.
func DOI(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	for _, host := range resolverHosts {
		if i := strings.Index(s, host); i >= 0 {
			s = s[i+len(host):]
			break
		}
	}

	return doiPattern.FindString(s)
}

// titleStopWords are removed from normalized titles.
var titleStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true,
}

// Title returns a lowercased title with punctuation replaced by spaces,
// whitespace collapsed, and common stop words removed. Empty input yields "".
func Title(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if !titleStopWords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// FirstAuthorSurname extracts the surname of the first author from a
// delimited author-list string. It splits on ";" when present, on "," when
// multiple commas suggest multiple names, and on whitespace otherwise, then
// takes the last whitespace-delimited token of the first segment. Missing
// input yields "".
func FirstAuthorSurname(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	var first string
	switch {
	case strings.Contains(s, ";"):
		first = strings.SplitN(s, ";", 2)[0]
	case strings.Count(s, ",") > 1:
		first = strings.SplitN(s, ",", 2)[0]
	default:
		first = strings.Fields(s)[0]
	}

	parts := strings.Fields(first)
	if len(parts) == 0 {
		return ""
	}
	return strings.Trim(parts[len(parts)-1], ".,")
}

// YearKey returns a canonical year string for exact-key comparison. Values
// that parse as a number (including float forms like "2021.0") are formatted
// as a plain integer; anything else is returned trimmed as-is, so malformed
// years still compare consistently with themselves.
func YearKey(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.Itoa(int(f))
	}
	return s
}

// YearInt parses a year leniently, accepting integer and float forms.
// The second return value reports whether the year was parseable.
func YearInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
