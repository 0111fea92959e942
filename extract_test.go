package pdfoutline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chars lays out one pdfChar per rune from x, 0.5em wide, on a line with top edge y.
func chars(s string, size float64, weight int, font string, x, y float64) []pdfChar {
	var out []pdfChar
	for _, r := range s {
		out = append(out, pdfChar{
			Text:       r,
			Box:        Rect{X0: x, Y0: y, X1: x + size*0.5, Y1: y + size},
			FontSize:   size,
			FontWeight: weight,
			FontName:   font,
		})
		x += size * 0.5
	}
	return out
}

func TestGroupCharsIntoWords(t *testing.T) {
	var input []pdfChar
	input = append(input, chars("Chapter", 16, 700, "Arial", 72, 100)...)
	input = append(input, chars(" ", 16, 700, "Arial", 128, 100)...)
	input = append(input, chars("One", 16, 700, "Arial", 136, 100)...)
	// Next line without an explicit line break character
	input = append(input, chars("Body", 12, 400, "Arial", 72, 130)...)

	words := groupCharsIntoWords(input)

	require.Len(t, words, 3)
	assert.Equal(t, "Chapter", words[0].Text)
	assert.True(t, words[0].Bold)
	assert.Equal(t, 16.0, words[0].FontSize)
	assert.InDelta(t, 72.0, words[0].Box.X0, 1e-9)
	assert.InDelta(t, 128.0, words[0].Box.X1, 1e-9)

	assert.Equal(t, "One", words[1].Text)
	assert.Equal(t, "Body", words[2].Text)
	assert.False(t, words[2].Bold)
	assert.Equal(t, "Arial", words[2].FontName)
}

func TestGroupCharsIntoWords_BoldFromFontName(t *testing.T) {
	words := groupCharsIntoWords(chars("Summary", 14, 400, "Calibri-Semibold", 72, 100))

	require.Len(t, words, 1)
	assert.True(t, words[0].Bold)
	assert.Equal(t, "Calibri-Semibold", words[0].FontName)
}

func TestGroupCharsIntoWords_ForceBoldFlag(t *testing.T) {
	input := chars("Scope", 12, 400, "Arial", 72, 100)
	for i := range input {
		input[i].FontFlags = forceBoldFlag
	}

	words := groupCharsIntoWords(input)
	require.Len(t, words, 1)
	assert.True(t, words[0].Bold)
}

func TestAggregateWord_DominantFontIsDeterministic(t *testing.T) {
	input := chars("ab", 12, 400, "First", 72, 100)
	input[1].FontName = "Second"

	for range 10 {
		assert.Equal(t, "First", aggregateWord(input).FontName)
	}
}

func TestClipToPage(t *testing.T) {
	tests := []struct {
		name   string
		box    Rect
		want   Rect
		onPage bool
	}{
		{
			name:   "inside",
			box:    Rect{X0: 10, Y0: 10, X1: 20, Y1: 20},
			want:   Rect{X0: 10, Y0: 10, X1: 20, Y1: 20},
			onPage: true,
		},
		{
			name:   "straddles the top edge",
			box:    Rect{X0: 10, Y0: -2, X1: 20, Y1: 8},
			want:   Rect{X0: 10, Y0: 0, X1: 20, Y1: 8},
			onPage: true,
		},
		{
			name:   "inverted box is normalised",
			box:    Rect{X0: 20, Y0: 20, X1: 10, Y1: 10},
			want:   Rect{X0: 10, Y0: 10, X1: 20, Y1: 20},
			onPage: true,
		},
		{
			name:   "entirely left of the page",
			box:    Rect{X0: -30, Y0: 10, X1: -20, Y1: 20},
			onPage: false,
		},
		{
			name:   "entirely below the page",
			box:    Rect{X0: 10, Y0: 900, X1: 20, Y1: 910},
			onPage: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, onPage := clipToPage(tt.box, 612, 792)
			assert.Equal(t, tt.onPage, onPage)
			if tt.onPage {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClipToPage_UnknownSize(t *testing.T) {
	got, onPage := clipToPage(Rect{X0: 10, Y0: 1000, X1: 20, Y1: 1010}, 0, 0)
	assert.True(t, onPage)
	assert.Equal(t, Rect{X0: 10, Y0: 1000, X1: 20, Y1: 1010}, got)
}

func TestIsUpright(t *testing.T) {
	assert.True(t, isUpright(0))
	assert.True(t, isUpright(float32(2*math.Pi)))
	assert.True(t, isUpright(float32(-5*math.Pi/180)))
	assert.False(t, isUpright(float32(math.Pi/2)))
	assert.False(t, isUpright(float32(math.Pi)))
	assert.False(t, isUpright(float32(3*math.Pi/2)))
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 270.0, normalizeAngle(-90), 1e-9)
	assert.InDelta(t, 0.0, normalizeAngle(360), 1e-9)
	assert.InDelta(t, 45.0, normalizeAngle(405), 1e-9)
}
