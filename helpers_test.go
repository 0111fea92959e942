package pdfoutline

import "unicode/utf8"

// textSpan builds a single-span line of text at the given top edge, with a width
// proportional to its length.
func textSpan(text string, size float64, bold bool, x, y float64) Span {
	width := float64(utf8.RuneCountInString(text)) * size * 0.5
	return Span{
		Text:     text,
		FontName: fontName(bold),
		FontSize: size,
		Bold:     bold,
		Box:      Rect{X0: x, Y0: y, X1: x + width, Y1: y + size},
	}
}

func fontName(bold bool) string {
	if bold {
		return "Helvetica-Bold"
	}
	return "Helvetica"
}

// lineDef describes one line of a synthetic page.
type lineDef struct {
	text string
	size float64
	bold bool
	y    float64
}

// makePage lays out one span per line at a fixed left margin.
func makePage(number int, defs ...lineDef) Page {
	page := Page{Number: number}
	for _, s := range defs {
		page.Spans = append(page.Spans, textSpan(s.text, s.size, s.bold, 72, s.y))
	}
	return page
}

// bodyParagraph returns lines of 12pt body text starting at y, one every 16pt.
func bodyParagraph(y float64, lines int) []lineDef {
	defs := make([]lineDef, 0, lines)
	for i := range lines {
		defs = append(defs, lineDef{
			text: "Body text that runs across most of the column width here",
			size: 12,
			y:    y + float64(i)*16,
		})
	}
	return defs
}
