package pdfoutline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// untitled is used when neither the first page nor the metadata yields a title.
const untitled = "Untitled Document"

// Document is the serializable outline of one PDF.
type Document struct {
	Title    string         `json:"title"`
	Outline  []*OutlineNode `json:"outline"`
	Rejected []RejectedLine `json:"rejected,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// RejectedLine is the debug view of a line that did not become a heading.
type RejectedLine struct {
	Page    int      `json:"page"`
	Text    string   `json:"text"`
	Reasons []string `json:"reasons"`
}

// FlatEntry is one outline entry in the flat output format.
type FlatEntry struct {
	Level string `json:"level"` // "H1", "H2", ...
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// FlatDocument is the flat output format: a title and a reading-order heading list.
type FlatDocument struct {
	Title    string         `json:"title"`
	Outline  []FlatEntry    `json:"outline"`
	Rejected []RejectedLine `json:"rejected,omitempty"`
}

// NewDocument builds a Document from an analysis. fallbackTitle is used when the first
// page yields no title. debug includes rejected lines.
func NewDocument(analysis *Analysis, fallbackTitle string, debug bool) *Document {
	title := ExtractTitle(analysis.Lines)
	if title == "" {
		title = fallbackTitle
	}
	if title == "" {
		title = untitled
	}

	doc := &Document{
		Title:   title,
		Outline: analysis.Root.Children,
	}

	for _, w := range analysis.Warnings {
		doc.Warnings = append(doc.Warnings, w.String())
	}

	if debug {
		for _, r := range analysis.Rejected {
			reason := r.Reason
			if r.Reason == ReasonLowScore {
				reason = fmt.Sprintf("%s (%.1f)", r.Reason, r.Score)
			}
			doc.Rejected = append(doc.Rejected, RejectedLine{
				Page:    r.Line.Page,
				Text:    r.Line.Text,
				Reasons: []string{reason},
			})
		}
	}

	return doc
}

// Document classifies pages and builds the output document in one step.
func (c *Classifier) Document(pages []Page, fallbackTitle string) (*Document, error) {
	analysis, err := c.Analyze(pages)
	if err != nil {
		return nil, err
	}
	return NewDocument(analysis, fallbackTitle, c.config.IncludeRejected), nil
}

// Root returns the outline as a tree under a synthetic level 0 root.
func (d *Document) Root() *OutlineNode {
	return &OutlineNode{Level: 0, Children: d.Outline}
}

// Flat converts the document to the flat output format.
func (d *Document) Flat() *FlatDocument {
	flat := &FlatDocument{
		Title:    d.Title,
		Outline:  []FlatEntry{},
		Rejected: d.Rejected,
	}
	for _, e := range d.Root().Flatten() {
		flat.Outline = append(flat.Outline, FlatEntry{
			Level: fmt.Sprintf("H%d", e.Level),
			Text:  e.Text,
			Page:  e.Page,
		})
	}
	return flat
}

// WriteJSON writes v as indented JSON, keeping non-ASCII characters unescaped.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}
