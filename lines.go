package pdfoutline

import (
	"math"
	"sort"
	"strings"
)

// wordGapRatio is the horizontal gap, as a fraction of the font size, above which
// two adjacent spans are separated by a space.
const wordGapRatio = 0.15

// GroupLines merges the spans of every page into lines. Lines come back ordered by
// (page, top, left). tolerance is the fraction of the smallest font size on a page
// that two vertical bands must overlap by to share a line.
func GroupLines(pages []Page, tolerance float64) []Line {
	var lines []Line
	for _, page := range pages {
		lines = append(lines, groupPageSpans(page, tolerance)...)
	}
	return lines
}

// band is a line under construction.
type band struct {
	box   Rect
	spans []Span
}

// groupPageSpans groups the spans of a single page into lines.
func groupPageSpans(page Page, tolerance float64) []Line {
	spans := make([]Span, 0, len(page.Spans))
	minFontSize := math.MaxFloat64
	for _, span := range page.Spans {
		if strings.TrimSpace(span.Text) == "" {
			continue
		}
		span.Page = page.Number
		spans = append(spans, span)
		minFontSize = math.Min(minFontSize, span.FontSize)
	}

	if len(spans) == 0 {
		return nil
	}

	threshold := tolerance * minFontSize

	// Sort by top edge, then left edge; stable so provider order breaks exact ties
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Box.Y0 != spans[j].Box.Y0 {
			return spans[i].Box.Y0 < spans[j].Box.Y0
		}
		return spans[i].Box.X0 < spans[j].Box.X0
	})

	var bands []*band
	for _, span := range spans {
		if b := closestBand(bands, span, threshold); b != nil {
			b.spans = append(b.spans, span)
			b.box = mergeRects(b.box, span.Box)
			continue
		}
		bands = append(bands, &band{box: span.Box, spans: []Span{span}})
	}

	lines := make([]Line, 0, len(bands))
	for _, b := range bands {
		lines = append(lines, buildLine(page.Number, b.spans))
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Box.Y0 != lines[j].Box.Y0 {
			return lines[i].Box.Y0 < lines[j].Box.Y0
		}
		return lines[i].Box.X0 < lines[j].Box.X0
	})

	for i := range lines {
		if i == 0 {
			lines[i].GapBefore = lines[i].Box.Y0
			continue
		}
		lines[i].GapBefore = math.Max(0, lines[i].Box.Y0-lines[i-1].Box.Y1)
	}

	return lines
}

// closestBand returns the band the span belongs to, or nil when it starts a new one.
// When the span overlaps several bands the one with the closer vertical center wins;
// ties go to the earlier band.
func closestBand(bands []*band, span Span, threshold float64) *band {
	var best *band
	bestDistance := math.MaxFloat64

	for _, b := range bands {
		overlap := math.Min(b.box.Y1, span.Box.Y1) - math.Max(b.box.Y0, span.Box.Y0)
		required := math.Min(threshold, 0.5*math.Min(b.box.Height(), span.Box.Height()))
		if overlap <= required {
			continue
		}

		distance := math.Abs(b.box.CenterY() - span.Box.CenterY())
		if distance < bestDistance {
			best = b
			bestDistance = distance
		}
	}

	return best
}

// buildLine derives the line attributes from its spans.
func buildLine(pageNumber int, spans []Span) Line {
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Box.X0 < spans[j].Box.X0
	})

	box := spans[0].Box
	sizeWeights := make(map[float64]int)
	var totalChars, boldChars int

	for i, span := range spans {
		if i > 0 {
			box = mergeRects(box, span.Box)
		}
		chars := len([]rune(strings.TrimSpace(span.Text)))
		sizeWeights[roundSize(span.FontSize)] += chars
		totalChars += chars
		if span.Bold {
			boldChars += chars
		}
	}

	line := Line{
		Spans:    spans,
		Box:      box,
		Page:     pageNumber,
		Text:     joinSpanText(spans),
		FontSize: dominantSize(sizeWeights),
		Indent:   box.X0,
	}
	if totalChars > 0 {
		line.BoldRatio = float64(boldChars) / float64(totalChars)
	}

	return line
}

// dominantSize returns the size with the highest character weight; ties go to the larger size.
func dominantSize(weights map[float64]int) float64 {
	sizes := make([]float64, 0, len(weights))
	for size := range weights {
		sizes = append(sizes, size)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	var best float64
	bestWeight := -1
	for _, size := range sizes {
		if weights[size] > bestWeight {
			best = size
			bestWeight = weights[size]
		}
	}
	return best
}

// joinSpanText concatenates span text, inserting a space where spans are visibly apart.
func joinSpanText(spans []Span) string {
	var sb strings.Builder
	for i, span := range spans {
		if i > 0 {
			prev := spans[i-1]
			gap := span.Box.X0 - prev.Box.X1
			if gap > wordGapRatio*math.Min(prev.FontSize, span.FontSize) {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(span.Text)
	}
	return normalizeText(sb.String())
}

// mergeRects merges two rectangles into their bounding box
func mergeRects(r1, r2 Rect) Rect {
	return Rect{
		X0: math.Min(r1.X0, r2.X0),
		Y0: math.Min(r1.Y0, r2.Y0),
		X1: math.Max(r1.X1, r2.X1),
		Y1: math.Max(r1.Y1, r2.Y1),
	}
}
