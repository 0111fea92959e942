package pdfoutline

import (
	"io"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// Glyph box extents relative to the baseline, as fractions of the font size.
const (
	ascentRatio  = 0.8
	descentRatio = 0.2
)

// ReadPagesFile extracts spans from a PDF file with the pure Go reader. It needs no
// pdfium runtime but recovers less font metadata: boldness comes from font names only.
func ReadPagesFile(path string) ([]Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF")
	}
	defer f.Close()

	return readPages(reader)
}

// ReadPages extracts spans from PDF data with the pure Go reader.
func ReadPages(r io.ReaderAt, size int64) ([]Page, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF")
	}
	return readPages(reader)
}

func readPages(reader *pdf.Reader) ([]Page, error) {
	numPages := reader.NumPage()
	pages := make([]Page, 0, numPages)

	for i := 1; i <= numPages; i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			pages = append(pages, Page{Number: i})
			continue
		}

		page, err := readPage(p, i)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read page %d", i)
		}
		pages = append(pages, page)
	}

	return pages, nil
}

// readPage converts one page. The reader panics on some malformed content streams,
// which is reported as an error instead.
func readPage(p pdf.Page, number int) (page Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("malformed content stream: %v", r)
		}
	}()

	page = Page{Number: number}
	width, height := mediaBoxSize(p.V)
	page.Width, page.Height = width, height

	texts := p.Content().Text
	if len(texts) == 0 {
		return page, nil
	}

	if height <= 0 {
		// No usable MediaBox: flip against the highest glyph instead
		for _, t := range texts {
			height = max(height, t.Y+t.FontSize)
		}
	}

	for _, span := range groupTextRuns(texts, height) {
		box, onPage := clipToPage(span.Box, page.Width, page.Height)
		if !onPage {
			continue
		}
		span.Box = box
		span.Page = number
		page.Spans = append(page.Spans, span)
	}

	return page, nil
}

// mediaBoxSize returns the page size from the MediaBox, following the Parent chain
// for inherited boxes. It returns zeros when no box is found.
func mediaBoxSize(v pdf.Value) (float64, float64) {
	for depth := 0; !v.IsNull() && depth < 32; depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() >= 4 {
			width := box.Index(2).Float64() - box.Index(0).Float64()
			height := box.Index(3).Float64() - box.Index(1).Float64()
			if width < 0 {
				width = -width
			}
			if height < 0 {
				height = -height
			}
			return width, height
		}
		v = v.Key("Parent")
	}
	return 0, 0
}

// textRun accumulates consecutive glyphs of one word.
type textRun struct {
	text     strings.Builder
	font     string
	size     float64
	baseline float64
	x0, x1   float64
}

func (r *textRun) span(pageHeight float64) Span {
	return Span{
		Text:     r.text.String(),
		FontName: r.font,
		FontSize: r.size,
		Bold:     isBoldFontName(r.font),
		Box: Rect{
			X0: r.x0,
			Y0: pageHeight - (r.baseline + ascentRatio*r.size),
			X1: r.x1,
			Y1: pageHeight - (r.baseline - descentRatio*r.size),
		},
	}
}

// continues reports whether t extends the run on the same baseline in the same font
// without a word gap.
func (r *textRun) continues(t pdf.Text) bool {
	if t.Font != r.font || t.FontSize != r.size {
		return false
	}
	if diff := t.Y - r.baseline; diff > 0.5*r.size || diff < -0.5*r.size {
		return false
	}
	gap := t.X - r.x1
	return gap >= -wordGapRatio*r.size && gap <= wordGapRatio*r.size
}

// groupTextRuns merges glyphs into word spans with top-left origin boxes.
func groupTextRuns(texts []pdf.Text, pageHeight float64) []Span {
	var spans []Span
	var current *textRun

	flush := func() {
		if current != nil && current.text.Len() > 0 {
			spans = append(spans, current.span(pageHeight))
		}
		current = nil
	}

	for _, t := range texts {
		if strings.TrimFunc(t.S, unicode.IsSpace) == "" {
			flush()
			continue
		}
		if t.FontSize <= 0 {
			continue
		}

		if current == nil || !current.continues(t) {
			flush()
			current = &textRun{
				font:     t.Font,
				size:     t.FontSize,
				baseline: t.Y,
				x0:       t.X,
				x1:       t.X,
			}
		}
		current.text.WriteString(t.S)
		current.x1 = max(current.x1, t.X+t.W)
	}
	flush()

	return spans
}

