package pdfoutline

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportPages() []Page {
	defs := []lineDef{
		{text: "Coastal Survey", size: 24, bold: true, y: 60},
		{text: "1. Introduction", size: 18, bold: true, y: 120},
	}
	defs = append(defs, bodyParagraph(150, 4)...)
	defs = append(defs, lineDef{text: "1.1 Scope & Limits", size: 14, bold: true, y: 240})
	defs = append(defs, bodyParagraph(270, 4)...)
	return []Page{makePage(1, defs...)}
}

func TestNewDocument(t *testing.T) {
	analysis, err := NewClassifier().Analyze(reportPages())
	require.NoError(t, err)

	doc := NewDocument(analysis, "Metadata Title", false)

	assert.Equal(t, "Coastal Survey", doc.Title)
	assert.Empty(t, doc.Rejected)

	flat := doc.Root().Flatten()
	require.Len(t, flat, 3)
	assert.Equal(t, "Coastal Survey", flat[0].Text)
	assert.Equal(t, "Introduction", flat[1].Text)
	assert.Equal(t, "1", flat[1].Label)
	assert.Equal(t, "Scope & Limits", flat[2].Text)
}

func TestNewDocument_TitleFallback(t *testing.T) {
	empty, err := NewClassifier().Analyze(nil)
	require.NoError(t, err)

	assert.Equal(t, "From Metadata", NewDocument(empty, "From Metadata", false).Title)
	assert.Equal(t, "Untitled Document", NewDocument(empty, "", false).Title)

	doc := NewDocument(empty, "", false)
	assert.NotNil(t, doc.Outline)
	assert.Empty(t, doc.Outline)
	assert.Equal(t, []string{"no_lines: document has no text lines"}, doc.Warnings)
}

func TestNewDocument_Rejected(t *testing.T) {
	analysis, err := NewClassifier().Analyze(reportPages())
	require.NoError(t, err)

	doc := NewDocument(analysis, "", true)

	require.Len(t, doc.Rejected, 8)
	first := doc.Rejected[0]
	assert.Equal(t, 1, first.Page)
	require.Len(t, first.Reasons, 1)
	assert.True(t, strings.HasPrefix(first.Reasons[0], ReasonLowScore+" ("), first.Reasons[0])
}

func TestDocument_Flat(t *testing.T) {
	doc := &Document{
		Title: "Report",
		Outline: BuildTree([]OutlineEntry{
			{Level: 1, Text: "Introduction", Page: 1, Label: "1"},
			{Level: 2, Text: "Scope", Page: 2},
			{Level: 1, Text: "Results", Page: 3},
		}).Children,
	}

	flat := doc.Flat()

	assert.Equal(t, "Report", flat.Title)
	assert.Equal(t, []FlatEntry{
		{Level: "H1", Text: "Introduction", Page: 1},
		{Level: "H2", Text: "Scope", Page: 2},
		{Level: "H1", Text: "Results", Page: 3},
	}, flat.Outline)
}

func TestWriteJSON(t *testing.T) {
	doc := &Document{
		Title:   "Überblick & Ziele",
		Outline: BuildTree([]OutlineEntry{{Level: 1, Text: "<Intro>", Page: 1}}).Children,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))

	out := buf.String()
	assert.Contains(t, out, `"title": "Überblick & Ziele"`)
	assert.Contains(t, out, `"text": "<Intro>"`)
	assert.Contains(t, out, "\n    \"outline\": [")
	assert.NotContains(t, out, "rejected")

	var decoded Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Outline, 1)
	assert.Equal(t, 1, decoded.Outline[0].Level)
}

func TestWriteJSON_EmptyOutline(t *testing.T) {
	analysis, err := NewClassifier().Analyze(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewDocument(analysis, "", false).Flat()))
	assert.Contains(t, buf.String(), `"outline": []`)
}

func TestClassifier_Document(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeRejected = true

	doc, err := NewClassifierWithConfig(cfg).Document(reportPages(), "")
	require.NoError(t, err)
	assert.Equal(t, "Coastal Survey", doc.Title)
	assert.NotEmpty(t, doc.Rejected)

	_, err = NewClassifier().Document([]Page{{Number: 0}}, "")
	assert.True(t, IsInputError(err))
}
