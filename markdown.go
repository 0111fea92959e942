package pdfoutline

import (
	"bytes"
	"fmt"

	"github.com/ivanvanderbyl/markdown"
	"github.com/pkg/errors"
)

// ToMarkdown renders the outline as markdown. The title becomes the H1 and every
// outline level is shifted one heading level down (capped at H6).
// includePages appends the page number to each heading.
func (d *Document) ToMarkdown(includePages bool) (string, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1(d.Title)

	for _, entry := range d.Root().Flatten() {
		text := entry.Text
		if entry.Label != "" {
			text = entry.Label + " " + text
		}
		if includePages {
			text += " " + markdown.Italic(fmt.Sprintf("(p. %d)", entry.Page))
		}
		writeHeading(md, entry.Level+1, text)
	}

	if err := md.Build(); err != nil {
		return "", errors.Wrap(err, "failed to build markdown")
	}

	return buf.String(), nil
}

// writeHeading writes text as a markdown heading of the given level.
func writeHeading(md *markdown.Markdown, level int, text string) {
	switch level {
	case 1:
		md.H1(text)
	case 2:
		md.H2(text)
	case 3:
		md.H3(text)
	case 4:
		md.H4(text)
	case 5:
		md.H5(text)
	default:
		md.H6(text)
	}
}
