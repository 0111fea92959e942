package pdfoutline

import (
	"fmt"
	"strings"
)

// Rect represents a bounding box in page coordinates.
type Rect struct {
	X0 float64 // Left
	Y0 float64 // Top (origin at the top-left corner of the page)
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 {
	return (r.Y0 + r.Y1) / 2
}

// Span is the smallest positioned piece of text produced by a page-layout provider.
type Span struct {
	Text     string
	FontName string
	FontSize float64
	Bold     bool
	Page     int // 1-based page number
	Box      Rect
}

// Page holds the spans of a single document page in provider order.
type Page struct {
	Number int     // 1-based page number
	Width  float64 // Optional, 0 when unknown
	Height float64 // Optional, 0 when unknown
	Spans  []Span
}

// Line is a visual line of text: spans sharing a page and a vertical band.
type Line struct {
	Spans     []Span
	Box       Rect
	Page      int
	Text      string
	FontSize  float64 // Dominant (character-weighted) font size, rounded to 0.1pt
	BoldRatio float64 // Fraction of characters set in a bold face
	Indent    float64 // Left edge of the line
	GapBefore float64 // Vertical distance to the previous line (or page top)
}

// RuneCount returns the number of characters in the line text.
func (l Line) RuneCount() int {
	return len([]rune(l.Text))
}

// String returns a short debug representation of the line.
func (l Line) String() string {
	return fmt.Sprintf("p%d y=%.1f size=%.1f bold=%.2f %q", l.Page, l.Box.Y0, l.FontSize, l.BoldRatio, l.Text)
}

// HeadingCandidate is a line that cleared the body-text threshold.
type HeadingCandidate struct {
	Line  Line
	Match *PatternMatch // nil when the line carries no numbering
	Score float64
	Tier  int // Font-size tier, 0 = body size or smaller
	Level int // Assigned outline level, 1 = top
}

// Text returns the heading text without its numbering label.
func (c HeadingCandidate) Text() string {
	if c.Match != nil {
		return c.Match.Remainder
	}
	return c.Line.Text
}

// Depth returns the numbering depth, or 0 when the candidate is unnumbered.
func (c HeadingCandidate) Depth() int {
	if c.Match == nil {
		return 0
	}
	return c.Match.Depth
}

// OutlineNode is a node of the final heading tree. The root is a synthetic level 0 node.
type OutlineNode struct {
	Level    int            `json:"level"`
	Text     string         `json:"text"`
	Page     int            `json:"page"`
	Label    string         `json:"label,omitempty"`
	Children []*OutlineNode `json:"children"`
}

// OutlineEntry is one node of a flattened outline.
type OutlineEntry struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
	Label string `json:"label,omitempty"`
}

// Flatten returns the descendants of n in depth-first (reading) order.
func (n *OutlineNode) Flatten() []OutlineEntry {
	if n == nil {
		return nil
	}

	var entries []OutlineEntry
	var walk func(node *OutlineNode)
	walk = func(node *OutlineNode) {
		for _, child := range node.Children {
			entries = append(entries, OutlineEntry{
				Level: child.Level,
				Text:  child.Text,
				Page:  child.Page,
				Label: child.Label,
			})
			walk(child)
		}
	}
	walk(n)

	return entries
}

// Count returns the number of descendants of n.
func (n *OutlineNode) Count() int {
	if n == nil {
		return 0
	}
	count := 0
	for _, child := range n.Children {
		count += 1 + child.Count()
	}
	return count
}

// Depth returns the deepest level below n.
func (n *OutlineNode) Depth() int {
	if n == nil {
		return 0
	}
	depth := n.Level
	for _, child := range n.Children {
		if d := child.Depth(); d > depth {
			depth = d
		}
	}
	return depth
}

// String renders the subtree as an indented list, mainly for test failure output.
func (n *OutlineNode) String() string {
	var sb strings.Builder
	for _, e := range n.Flatten() {
		sb.WriteString(strings.Repeat("  ", max(e.Level-1, 0)))
		fmt.Fprintf(&sb, "%s (p%d)\n", e.Text, e.Page)
	}
	return sb.String()
}
