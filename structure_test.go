package pdfoutline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(levels ...int) []OutlineEntry {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	out := make([]OutlineEntry, len(levels))
	for i, level := range levels {
		out[i] = OutlineEntry{Level: level, Text: names[i], Page: i + 1}
	}
	return out
}

func TestOutlineBuilder_States(t *testing.T) {
	b := NewOutlineBuilder()
	assert.Equal(t, StateStackEmpty, b.State())
	assert.Equal(t, "stack-empty", b.State().String())
	assert.Empty(t, b.OpenLevels())

	b.Push(OutlineEntry{Level: 1, Text: "Introduction", Page: 1})
	assert.Equal(t, StateStackOpen, b.State())
	assert.Equal(t, []int{1}, b.OpenLevels())

	b.Push(OutlineEntry{Level: 2, Text: "Background", Page: 1})
	b.Push(OutlineEntry{Level: 3, Text: "History", Page: 2})
	assert.Equal(t, []int{1, 2, 3}, b.OpenLevels())

	// A sibling at level 2 closes levels 2 and 3
	b.Push(OutlineEntry{Level: 2, Text: "Motivation", Page: 2})
	assert.Equal(t, []int{1, 2}, b.OpenLevels())

	b.Reset()
	assert.Equal(t, StateStackEmpty, b.State())
	assert.Empty(t, b.Root().Children)
}

func TestBuildTree(t *testing.T) {
	root := BuildTree(entries(1, 2, 2, 1, 2, 3))

	require.Len(t, root.Children, 2)
	a, d := root.Children[0], root.Children[1]

	assert.Equal(t, "a", a.Text)
	require.Len(t, a.Children, 2)
	assert.Equal(t, "b", a.Children[0].Text)
	assert.Equal(t, "c", a.Children[1].Text)
	assert.Empty(t, a.Children[0].Children)

	assert.Equal(t, "d", d.Text)
	require.Len(t, d.Children, 1)
	e := d.Children[0]
	assert.Equal(t, "e", e.Text)
	require.Len(t, e.Children, 1)
	assert.Equal(t, "f", e.Children[0].Text)
	assert.Equal(t, 6, e.Children[0].Page)

	assert.Equal(t, 6, root.Count())
	assert.Equal(t, 3, root.Depth())
	assert.Equal(t, 0, root.Level)
}

func TestBuildTree_Empty(t *testing.T) {
	root := BuildTree(nil)
	require.NotNil(t, root)
	assert.Equal(t, 0, root.Level)
	assert.NotNil(t, root.Children)
	assert.Empty(t, root.Children)
	assert.Equal(t, 0, root.Count())
}

func TestBuildTree_FlattenRoundTrip(t *testing.T) {
	root := BuildTree(entries(1, 2, 3, 3, 2, 1, 2))

	flat := root.Flatten()
	assert.Equal(t, entries(1, 2, 3, 3, 2, 1, 2), flat)

	rebuilt := BuildTree(flat)
	assert.Equal(t, root, rebuilt)
	assert.Equal(t, flat, rebuilt.Flatten())
}

func TestBuildHierarchy(t *testing.T) {
	candidates := []HeadingCandidate{
		{Line: Line{Text: "1. Introduction", Page: 1}, Match: MatchPattern("1. Introduction"), Level: 1},
		{Line: Line{Text: "Background", Page: 2}, Level: 2},
		{Line: Line{Text: "2. Methods", Page: 3}, Match: MatchPattern("2. Methods"), Level: 1},
	}

	root := BuildHierarchy(candidates)

	require.Len(t, root.Children, 2)
	intro := root.Children[0]
	assert.Equal(t, "Introduction", intro.Text)
	assert.Equal(t, "1", intro.Label)
	assert.Equal(t, 1, intro.Page)

	require.Len(t, intro.Children, 1)
	assert.Equal(t, "Background", intro.Children[0].Text)
	assert.Empty(t, intro.Children[0].Label)
	assert.Equal(t, 2, intro.Children[0].Page)

	assert.Equal(t, "Methods", root.Children[1].Text)
	assert.Equal(t, "Introduction (p1)\n  Background (p2)\nMethods (p3)\n", root.String())
}
