package pdfoutline

import (
	"regexp"
	"strings"
)

// Scheme identifies a numbering grammar.
type Scheme int

const (
	SchemeNone    Scheme = iota
	SchemeDecimal        // 1. / 2.1 / 2.1.3
	SchemeRoman          // IV. / II.3
	SchemeLetter         // A. / B.2
	SchemeOrdinal        // Chapter 3 / Section 2.1
)

// String returns a string representation of the scheme.
func (s Scheme) String() string {
	switch s {
	case SchemeDecimal:
		return "decimal"
	case SchemeRoman:
		return "roman"
	case SchemeLetter:
		return "letter"
	case SchemeOrdinal:
		return "ordinal"
	default:
		return "none"
	}
}

// PatternMatch is an explicit numbering found at the start of a line.
type PatternMatch struct {
	Scheme    Scheme
	Label     string // Numbering as written, e.g. "2.1.3" or "Chapter 4"
	Depth     int    // Nesting depth implied by the numbering
	Remainder string // Line text after the numbering
	Priority  int    // Position of the matching grammar, 0 = most authoritative
}

// Weight scales the pattern bonus: the first grammar weighs 1, the last 1/n.
func (m *PatternMatch) Weight() float64 {
	if m == nil {
		return 0
	}
	n := len(patternMatchers)
	return float64(n-m.Priority) / float64(n)
}

// separator is what must follow a numbering token.
const separator = `(?:\s*[:\-–—]\s+|\s+|$)`

var (
	decimalPattern = regexp.MustCompile(`^(\d+(?:\.\d+)*)(\.?)` + separator)
	romanPattern   = regexp.MustCompile(`^([IVXLCDM]+)((?:\.\d+)*)(\.?)` + separator)
	letterPattern  = regexp.MustCompile(`^([A-Z])((?:\.\d+)*)(\.?)` + separator)
	ordinalPattern = regexp.MustCompile(`^((?i:chapter|section|part|appendix))\s+(\d+|[IVXLCDM]+|[A-Z])((?:\.\d+)*)\.?` + separator)

	validRoman = regexp.MustCompile(`^M{0,3}(CM|CD|D?C{0,3})(XC|XL|L?X{0,3})(IX|IV|V?I{0,3})$`)
)

// patternMatcher tries one numbering grammar. It returns the label, depth and the
// number of bytes consumed from the start of the text.
type patternMatcher struct {
	scheme Scheme
	match  func(text string) (label string, depth int, consumed int, ok bool)
}

// patternMatchers are tried in order; the first success wins.
var patternMatchers = []patternMatcher{
	{scheme: SchemeDecimal, match: matchDecimal},
	{scheme: SchemeRoman, match: matchRoman},
	{scheme: SchemeLetter, match: matchLetter},
	{scheme: SchemeOrdinal, match: matchOrdinal},
}

// MatchPattern detects a numbering scheme at the start of text. It returns nil when no
// grammar matches or when the numbering is all there is (a bare number is not a heading).
func MatchPattern(text string) *PatternMatch {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	for priority, m := range patternMatchers {
		label, depth, consumed, ok := m.match(text)
		if !ok {
			continue
		}

		remainder := strings.TrimSpace(strings.TrimLeft(text[consumed:], " :-–—."))
		if remainder == "" {
			return nil
		}

		return &PatternMatch{
			Scheme:    m.scheme,
			Label:     label,
			Depth:     depth,
			Remainder: remainder,
			Priority:  priority,
		}
	}

	return nil
}

func matchDecimal(text string) (string, int, int, bool) {
	m := decimalPattern.FindStringSubmatch(text)
	if m == nil {
		return "", 0, 0, false
	}

	number, dot := m[1], m[2]
	segments := strings.Split(number, ".")

	// A lone number without a trailing dot is usually a quantity or a year
	if len(segments) == 1 && dot == "" && len(number) > 2 {
		return "", 0, 0, false
	}

	return number, len(segments), len(m[0]), true
}

func matchRoman(text string) (string, int, int, bool) {
	m := romanPattern.FindStringSubmatch(text)
	if m == nil || !validRoman.MatchString(m[1]) {
		return "", 0, 0, false
	}
	return suffixedMatch(m[0], m[1], m[2], m[3])
}

func matchLetter(text string) (string, int, int, bool) {
	m := letterPattern.FindStringSubmatch(text)
	if m == nil {
		return "", 0, 0, false
	}
	return suffixedMatch(m[0], m[1], m[2], m[3])
}

// suffixedMatch handles roman and letter labels, which need a trailing dot or a
// decimal suffix ("II.3") to count as numbering.
func suffixedMatch(full, head, suffix, dot string) (string, int, int, bool) {
	if suffix == "" && dot == "" {
		return "", 0, 0, false
	}
	return head + suffix, 1 + strings.Count(suffix, "."), len(full), true
}

func matchOrdinal(text string) (string, int, int, bool) {
	m := ordinalPattern.FindStringSubmatch(text)
	if m == nil {
		return "", 0, 0, false
	}

	keyword, number, suffix := m[1], m[2], m[3]
	return keyword + " " + number + suffix, 1 + strings.Count(suffix, "."), len(m[0]), true
}
