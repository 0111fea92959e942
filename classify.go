package pdfoutline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Analysis is the full result of classifying one document.
type Analysis struct {
	Lines      []Line
	Profile    *FontProfile
	Candidates []HeadingCandidate // Level-assigned, document order
	Rejected   []Rejection        // Document order
	Warnings   []Warning
	Root       *OutlineNode
}

// Ranked returns the candidates strongest first.
func (a *Analysis) Ranked() []HeadingCandidate {
	ranked := slices.Clone(a.Candidates)
	slices.SortStableFunc(ranked, CompareStrength)
	return ranked
}

// Classifier runs the outline pipeline. It holds no per-document state, so one
// Classifier may serve many documents concurrently.
type Classifier struct {
	config Config
}

// NewClassifier creates a classifier with default configuration.
func NewClassifier() *Classifier {
	return &Classifier{config: DefaultConfig()}
}

// NewClassifierWithConfig creates a classifier with custom configuration.
func NewClassifierWithConfig(config Config) *Classifier {
	return &Classifier{config: config}
}

// Config returns the classifier configuration.
func (c *Classifier) Config() Config {
	return c.config
}

// BuildOutline classifies a document with the default configuration and returns the
// outline root. A document without headings yields a root with no children.
func BuildOutline(pages []Page) (*OutlineNode, error) {
	return NewClassifier().Outline(pages)
}

// Outline classifies a document and returns the outline root.
func (c *Classifier) Outline(pages []Page) (*OutlineNode, error) {
	analysis, err := c.Analyze(pages)
	if err != nil {
		return nil, err
	}
	return analysis.Root, nil
}

// Analyze runs every stage over the document and keeps the intermediate results.
// Malformed input is rejected with an *InputError and no partial outline.
func (c *Classifier) Analyze(pages []Page) (*Analysis, error) {
	if err := validatePages(pages); err != nil {
		return nil, err
	}
	if c.config.MaxPages > 0 && len(pages) > c.config.MaxPages {
		return nil, errors.Wrapf(ErrTooManyPages, "%d pages, limit %d", len(pages), c.config.MaxPages)
	}

	analysis := &Analysis{}

	lines := GroupLines(pages, c.config.LineTolerance)
	lines, analysis.Rejected = filterMargins(lines, pages, c.config.MarginRatio)
	analysis.Lines = lines

	analysis.Profile = BuildFontProfile(lines, c.config.MaxLevel)

	candidates, rejected := ScoreLines(lines, analysis.Profile, c.config.Scoring)
	analysis.Rejected = mergeRejections(analysis.Rejected, rejected)

	analysis.Candidates = AssignLevels(candidates, analysis.Profile)
	analysis.Root = BuildHierarchy(analysis.Candidates)
	analysis.Warnings = degenerateWarnings(analysis)

	return analysis, nil
}

// filterMargins rejects lines that sit entirely within the top or bottom margin band
// of a page whose height is known.
func filterMargins(lines []Line, pages []Page, ratio float64) ([]Line, []Rejection) {
	if ratio <= 0 {
		return lines, nil
	}

	heights := make(map[int]float64, len(pages))
	for _, page := range pages {
		heights[page.Number] = page.Height
	}

	kept := lines[:0:0]
	var rejected []Rejection
	for _, line := range lines {
		height := heights[line.Page]
		if height > 0 && (line.Box.Y1 < height*ratio || line.Box.Y0 > height*(1-ratio)) {
			rejected = append(rejected, Rejection{Line: line, Reason: ReasonPageMargin})
			continue
		}
		kept = append(kept, line)
	}

	return kept, rejected
}

// mergeRejections merges two document-ordered rejection lists.
func mergeRejections(a, b []Rejection) []Rejection {
	merged := make([]Rejection, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	slices.SortStableFunc(merged, func(x, y Rejection) int {
		return compareLines(x.Line, y.Line)
	})
	return merged
}

// compareLines orders lines by (page, top, left).
func compareLines(a, b Line) int {
	switch {
	case a.Page != b.Page:
		return a.Page - b.Page
	case a.Box.Y0 < b.Box.Y0:
		return -1
	case a.Box.Y0 > b.Box.Y0:
		return 1
	case a.Box.X0 < b.Box.X0:
		return -1
	case a.Box.X0 > b.Box.X0:
		return 1
	}
	return 0
}

func degenerateWarnings(a *Analysis) []Warning {
	var warnings []Warning
	if len(a.Lines) == 0 {
		warnings = append(warnings, Warning{Kind: WarningNoLines, Message: "document has no text lines"})
		return warnings
	}
	if a.Profile.Degenerate() {
		warnings = append(warnings, Warning{
			Kind:    WarningSingleFontSize,
			Message: fmt.Sprintf("all lines share font size %.1f", a.Profile.BodySize),
		})
	}
	if len(a.Candidates) == 0 {
		warnings = append(warnings, Warning{Kind: WarningNoHeadings, Message: "no line cleared the body-text threshold"})
	}
	return warnings
}

// maxTitleRunes bounds the extracted title length.
const maxTitleRunes = 100

// ExtractTitle derives a title from the first page: the first run of consecutive lines
// set within 90% of the largest size on that page. It returns "" when the first page
// has no text.
func ExtractTitle(lines []Line) string {
	if len(lines) == 0 {
		return ""
	}

	firstPage := lines[0].Page
	var maxSize float64
	for _, line := range lines {
		if line.Page != firstPage {
			break
		}
		maxSize = max(maxSize, line.FontSize)
	}

	var parts []string
	for _, line := range lines {
		if line.Page != firstPage {
			break
		}
		if line.FontSize >= maxSize*0.9 {
			parts = append(parts, line.Text)
		} else if len(parts) > 0 {
			break
		}
	}

	title := []rune(strings.Join(parts, " "))
	if len(title) > maxTitleRunes {
		title = title[:maxTitleRunes]
	}
	return strings.TrimSpace(string(title))
}
