package pdfoutline

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrTooManyPages is returned when a document exceeds Config.MaxPages.
var ErrTooManyPages = errors.New("document exceeds page limit")

// InputError reports a malformed span sequence. A document that fails validation
// is rejected as a whole; no partial outline is produced.
type InputError struct {
	Page   int // Page number, 0 when the error is not tied to a page
	Span   int // Span index within the page, -1 when not tied to a span
	Reason string
}

func (e *InputError) Error() string {
	switch {
	case e.Page == 0:
		return "invalid input: " + e.Reason
	case e.Span < 0:
		return fmt.Sprintf("invalid input on page %d: %s", e.Page, e.Reason)
	default:
		return fmt.Sprintf("invalid input on page %d, span %d: %s", e.Page, e.Span, e.Reason)
	}
}

// IsInputError reports whether err (or anything it wraps) is an *InputError.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}

func inputErrorf(page, span int, format string, args ...any) error {
	return errors.WithStack(&InputError{
		Page:   page,
		Span:   span,
		Reason: fmt.Sprintf(format, args...),
	})
}

// WarningKind classifies non-fatal conditions found while building an outline.
type WarningKind int

const (
	WarningNoLines WarningKind = iota + 1
	WarningSingleFontSize
	WarningNoHeadings
)

// String returns a string representation of the warning kind.
func (k WarningKind) String() string {
	switch k {
	case WarningNoLines:
		return "no_lines"
	case WarningSingleFontSize:
		return "single_font_size"
	case WarningNoHeadings:
		return "no_headings"
	default:
		return "unknown"
	}
}

// Warning describes a degenerate document. Warnings never fail a run.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return w.Kind.String() + ": " + w.Message
}

// validatePages checks page ordering and every span. A span page of 0 means
// "the enclosing page".
func validatePages(pages []Page) error {
	prev := 0
	for pi := range pages {
		page := pages[pi]
		if page.Number < 1 {
			return inputErrorf(0, -1, "page number %d at position %d", page.Number, pi)
		}
		if page.Number <= prev {
			return inputErrorf(page.Number, -1, "pages out of order (after page %d)", prev)
		}
		prev = page.Number

		if !finite(page.Width) || !finite(page.Height) || page.Width < 0 || page.Height < 0 {
			return inputErrorf(page.Number, -1, "invalid page size %.2fx%.2f", page.Width, page.Height)
		}

		for si, span := range page.Spans {
			if err := validateSpan(span, page.Number, si); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateSpan(span Span, pageNumber, index int) error {
	if span.Page != 0 && span.Page != pageNumber {
		return inputErrorf(pageNumber, index, "span claims page %d", span.Page)
	}
	if !finite(span.FontSize) || span.FontSize <= 0 {
		return inputErrorf(pageNumber, index, "font size %v", span.FontSize)
	}

	b := span.Box
	if !finite(b.X0) || !finite(b.Y0) || !finite(b.X1) || !finite(b.Y1) {
		return inputErrorf(pageNumber, index, "non-finite coordinates")
	}
	if b.X0 < 0 || b.Y0 < 0 || b.X1 < 0 || b.Y1 < 0 {
		return inputErrorf(pageNumber, index, "negative coordinates (%.2f,%.2f,%.2f,%.2f)", b.X0, b.Y0, b.X1, b.Y1)
	}
	if b.X1 < b.X0 || b.Y1 < b.Y0 {
		return inputErrorf(pageNumber, index, "inverted bounding box")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
