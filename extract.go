package pdfoutline

import (
	"math"
	"strings"
	"unicode"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// pdfChar is a single character with the metadata pdfium reports for it.
type pdfChar struct {
	Text       rune
	Box        Rect
	FontSize   float64
	FontWeight int
	FontName   string
	FontFlags  int
}

// forceBoldFlag is the ForceBold bit of the PDF font descriptor flags.
const forceBoldFlag = 1 << 18

// bold reports whether the character is set in a bold face.
func (c pdfChar) bold() bool {
	return c.FontWeight >= 700 || c.FontFlags&forceBoldFlag != 0 || isBoldFontName(c.FontName)
}

// ExtractSpans extracts the words of a PDF page as positioned spans.
func ExtractSpans(instance pdfium.Pdfium, page references.FPDF_PAGE, pageNumber int) (*Page, error) {
	pageWidth, err := instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page width")
	}

	pageHeight, err := instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page height")
	}

	result := &Page{
		Number: pageNumber,
		Width:  float64(pageWidth.PageWidth),
		Height: float64(pageHeight.PageHeight),
	}

	textPage, err := instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{
			ByReference: &page,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count characters")
	}

	if charCount.Count == 0 {
		return result, nil
	}

	chars := extractChars(instance, textPage.TextPage, charCount.Count, result.Width, result.Height)

	for _, word := range groupCharsIntoWords(chars) {
		word.Page = pageNumber
		result.Spans = append(result.Spans, word)
	}

	return result, nil
}

// extractChars reads every character with its font metadata. Rotated characters and
// characters lying entirely off the page are skipped.
func extractChars(instance pdfium.Pdfium, textPage references.FPDF_TEXTPAGE, count int, pageWidth, pageHeight float64) []pdfChar {
	chars := make([]pdfChar, 0, count)

	for i := range count {
		unicodeRes, err := instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}

		angle, err := instance.FPDFText_GetCharAngle(&requests.FPDFText_GetCharAngle{
			TextPage: textPage,
			Index:    i,
		})
		if err == nil && !isUpright(angle.CharAngle) {
			continue
		}

		charBox, err := instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		// Convert PDF coordinates (origin bottom-left) to standard (origin top-left)
		box := Rect{
			X0: charBox.Left,
			Y0: pageHeight - charBox.Top,
			X1: charBox.Right,
			Y1: pageHeight - charBox.Bottom,
		}
		box, onPage := clipToPage(box, pageWidth, pageHeight)
		if !onPage {
			continue
		}

		fontSizeVal := 12.0 // Default
		fontSize, err := instance.FPDFText_GetFontSize(&requests.FPDFText_GetFontSize{
			TextPage: textPage,
			Index:    i,
		})
		if err == nil && fontSize.FontSize > 0 {
			fontSizeVal = fontSize.FontSize
		}

		fontWeightVal := 400 // Default normal weight
		fontWeight, err := instance.FPDFText_GetFontWeight(&requests.FPDFText_GetFontWeight{
			TextPage: textPage,
			Index:    i,
		})
		if err == nil {
			fontWeightVal = fontWeight.FontWeight
		}

		fontNameVal := ""
		fontFlagsVal := 0
		fontInfo, err := instance.FPDFText_GetFontInfo(&requests.FPDFText_GetFontInfo{
			TextPage: textPage,
			Index:    i,
		})
		if err == nil {
			fontNameVal = fontInfo.FontName
			fontFlagsVal = fontInfo.Flags
		}

		chars = append(chars, pdfChar{
			Text:       rune(unicodeRes.Unicode),
			Box:        box,
			FontSize:   fontSizeVal,
			FontWeight: fontWeightVal,
			FontName:   fontNameVal,
			FontFlags:  fontFlagsVal,
		})
	}

	return chars
}

// clipToPage clamps a box to the page. It reports false when the box lies entirely
// outside the page.
func clipToPage(box Rect, pageWidth, pageHeight float64) (Rect, bool) {
	if box.X1 < box.X0 {
		box.X0, box.X1 = box.X1, box.X0
	}
	if box.Y1 < box.Y0 {
		box.Y0, box.Y1 = box.Y1, box.Y0
	}
	if box.X1 < 0 || box.Y1 < 0 || (pageWidth > 0 && box.X0 > pageWidth) || (pageHeight > 0 && box.Y0 > pageHeight) {
		return box, false
	}

	maxX, maxY := math.MaxFloat64, math.MaxFloat64
	if pageWidth > 0 {
		maxX = pageWidth
	}
	if pageHeight > 0 {
		maxY = pageHeight
	}

	return Rect{
		X0: clamp(box.X0, 0, maxX),
		Y0: clamp(box.Y0, 0, maxY),
		X1: clamp(box.X1, 0, maxX),
		Y1: clamp(box.Y1, 0, maxY),
	}, true
}

// startsNewWord reports whether curr cannot continue the word ending in prev: the
// font changed, or the text jumped to another line or backwards.
func startsNewWord(prev, curr pdfChar) bool {
	if prev.FontSize != curr.FontSize || prev.bold() != curr.bold() {
		return true
	}
	if math.Abs(prev.Box.Y1-curr.Box.Y1) > 0.5*math.Max(prev.FontSize, curr.FontSize) {
		return true
	}
	return curr.Box.X0 < prev.Box.X0
}

// groupCharsIntoWords groups characters into word spans, splitting on whitespace
// and on font or position changes.
func groupCharsIntoWords(chars []pdfChar) []Span {
	var words []Span
	var current []pdfChar

	flush := func() {
		if len(current) > 0 {
			words = append(words, aggregateWord(current))
			current = nil
		}
	}

	for _, char := range chars {
		if unicode.IsSpace(char.Text) {
			flush()
			continue
		}
		if len(current) > 0 && startsNewWord(current[len(current)-1], char) {
			flush()
		}
		current = append(current, char)
	}
	flush()

	return words
}

// aggregateWord creates a Span from a run of characters.
func aggregateWord(chars []pdfChar) Span {
	var text strings.Builder
	box := chars[0].Box
	var totalFontSize float64
	var boldCount int

	fontCounts := make(map[string]int)
	var dominantFont string

	for i, char := range chars {
		text.WriteRune(char.Text)
		if i > 0 {
			box = mergeRects(box, char.Box)
		}
		totalFontSize += char.FontSize

		if char.bold() {
			boldCount++
		}

		// First font to reach the highest count wins, so the result does not
		// depend on map iteration order
		fontCounts[char.FontName]++
		if fontCounts[char.FontName] > fontCounts[dominantFont] {
			dominantFont = char.FontName
		}
	}

	return Span{
		Text:     text.String(),
		FontName: dominantFont,
		FontSize: totalFontSize / float64(len(chars)),
		Bold:     boldCount*2 > len(chars),
		Box:      box,
	}
}
