package pdfoutline

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// roundSize rounds a font size to 0.1pt so sizes reported with float noise
// (11.9999 vs 12.0) fall into the same histogram bucket.
func roundSize(size float64) float64 {
	return math.Round(size*10) / 10
}

// clamp restricts a value to a range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// normalizeText applies NFKC (expanding ligatures such as "ﬁ") and collapses whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// hasLetter reports whether s contains at least one letter.
func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// isBoldFontName checks the font name for weight indicators.
func isBoldFontName(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range []string{"bold", "black", "heavy", "semibold", "demibold"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
