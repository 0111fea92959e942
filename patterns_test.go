package pdfoutline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		text      string
		scheme    Scheme
		label     string
		depth     int
		remainder string
		priority  int
	}{
		{text: "1. Introduction", scheme: SchemeDecimal, label: "1", depth: 1, remainder: "Introduction", priority: 0},
		{text: "2.1.3 Sampling Method", scheme: SchemeDecimal, label: "2.1.3", depth: 3, remainder: "Sampling Method", priority: 0},
		{text: "2.1. Background", scheme: SchemeDecimal, label: "2.1", depth: 2, remainder: "Background", priority: 0},
		{text: "3: Overview", scheme: SchemeDecimal, label: "3", depth: 1, remainder: "Overview", priority: 0},
		{text: "4 - Results", scheme: SchemeDecimal, label: "4", depth: 1, remainder: "Results", priority: 0},
		{text: "IV. Results", scheme: SchemeRoman, label: "IV", depth: 1, remainder: "Results", priority: 1},
		{text: "II.3 Scope", scheme: SchemeRoman, label: "II.3", depth: 2, remainder: "Scope", priority: 1},
		{text: "B. Appendix Tables", scheme: SchemeLetter, label: "B", depth: 1, remainder: "Appendix Tables", priority: 2},
		{text: "A.2.1 Raw Data", scheme: SchemeLetter, label: "A.2.1", depth: 3, remainder: "Raw Data", priority: 2},
		{text: "Chapter 3 Results", scheme: SchemeOrdinal, label: "Chapter 3", depth: 1, remainder: "Results", priority: 3},
		{text: "Section 2.1: Scope", scheme: SchemeOrdinal, label: "Section 2.1", depth: 2, remainder: "Scope", priority: 3},
		{text: "CHAPTER IV The End", scheme: SchemeOrdinal, label: "CHAPTER IV", depth: 1, remainder: "The End", priority: 3},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			m := MatchPattern(tt.text)
			require.NotNil(t, m)
			assert.Equal(t, tt.scheme, m.Scheme)
			assert.Equal(t, tt.label, m.Label)
			assert.Equal(t, tt.depth, m.Depth)
			assert.Equal(t, tt.remainder, m.Remainder)
			assert.Equal(t, tt.priority, m.Priority)
		})
	}
}

func TestMatchPattern_NoMatch(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "plain text", text: "Introduction"},
		{name: "empty", text: "   "},
		{name: "bare number", text: "1."},
		{name: "bare dotted number", text: "2.1.3"},
		{name: "year", text: "2024 Annual Report"},
		{name: "article", text: "A Study of Rivers"},
		{name: "pronoun", text: "I think so"},
		{name: "invalid roman", text: "IIII. Bad Numbering"},
		{name: "number glued to word", text: "3rd Quarter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, MatchPattern(tt.text))
		})
	}
}

func TestPatternMatch_Weight(t *testing.T) {
	assert.InDelta(t, 1.0, MatchPattern("1. Scope").Weight(), 1e-9)
	assert.InDelta(t, 0.75, MatchPattern("II. Scope").Weight(), 1e-9)
	assert.InDelta(t, 0.5, MatchPattern("B.1 Scope").Weight(), 1e-9)
	assert.InDelta(t, 0.25, MatchPattern("Part 2 Scope").Weight(), 1e-9)

	var none *PatternMatch
	assert.Equal(t, 0.0, none.Weight())
}

func TestScheme_String(t *testing.T) {
	assert.Equal(t, "decimal", SchemeDecimal.String())
	assert.Equal(t, "roman", SchemeRoman.String())
	assert.Equal(t, "letter", SchemeLetter.String())
	assert.Equal(t, "ordinal", SchemeOrdinal.String())
	assert.Equal(t, "none", SchemeNone.String())
}
