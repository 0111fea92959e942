package pdfoutline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_ToMarkdown(t *testing.T) {
	doc := &Document{
		Title: "Field Report",
		Outline: BuildTree([]OutlineEntry{
			{Level: 1, Text: "Introduction", Page: 1, Label: "1"},
			{Level: 2, Text: "Scope", Page: 2, Label: "1.1"},
			{Level: 1, Text: "Findings", Page: 4},
		}).Children,
	}

	markdown, err := doc.ToMarkdown(false)
	require.NoError(t, err)

	assert.Contains(t, markdown, "# Field Report")
	assert.Contains(t, markdown, "## 1 Introduction")
	assert.Contains(t, markdown, "### 1.1 Scope")
	assert.Contains(t, markdown, "## Findings")
	assert.NotContains(t, markdown, "p. 1")

	// Headings keep reading order
	assert.Less(t, strings.Index(markdown, "Introduction"), strings.Index(markdown, "Scope"))
	assert.Less(t, strings.Index(markdown, "Scope"), strings.Index(markdown, "Findings"))
}

func TestDocument_ToMarkdown_PageNumbers(t *testing.T) {
	doc := &Document{
		Title:   "Field Report",
		Outline: BuildTree([]OutlineEntry{{Level: 1, Text: "Findings", Page: 4}}).Children,
	}

	markdown, err := doc.ToMarkdown(true)
	require.NoError(t, err)
	assert.Contains(t, markdown, "## Findings")
	assert.Contains(t, markdown, "(p. 4)")
}

func TestDocument_ToMarkdown_CapsHeadingDepth(t *testing.T) {
	doc := &Document{
		Title: "Deep",
		Outline: BuildTree([]OutlineEntry{
			{Level: 1, Text: "L1", Page: 1},
			{Level: 2, Text: "L2", Page: 1},
			{Level: 3, Text: "L3", Page: 1},
			{Level: 4, Text: "L4", Page: 1},
			{Level: 5, Text: "L5", Page: 1},
			{Level: 6, Text: "L6", Page: 1},
		}).Children,
	}

	markdown, err := doc.ToMarkdown(false)
	require.NoError(t, err)
	assert.Contains(t, markdown, "###### L5")
	assert.Contains(t, markdown, "###### L6")
	assert.NotContains(t, markdown, "####### ")
}
