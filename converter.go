package pdfoutline

import (
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ProcessingMetrics contains timing and statistics for outline extraction
type ProcessingMetrics struct {
	TotalTime       time.Duration
	DocumentOpen    time.Duration
	PageExtractions []PageMetrics
	Classification  time.Duration
	Statistics      DocumentStatistics
}

// PageMetrics contains timing for a single page
type PageMetrics struct {
	PageNumber int
	Duration   time.Duration
	Spans      int
}

// DocumentStatistics contains document-level statistics
type DocumentStatistics struct {
	TotalPages      int
	TotalSpans      int
	TotalLines      int
	TotalCandidates int
	TotalHeadings   int
	TotalRejected   int
	TotalCharacters int
	BodyFontSize    float64
}

// Converter extracts document outlines using pdfium text extraction.
type Converter struct {
	instance   pdfium.Pdfium
	config     Config
	classifier *Classifier
	logger     logrus.FieldLogger
}

// NewConverter creates a new outline converter with default configuration.
func NewConverter(instance pdfium.Pdfium) *Converter {
	return NewConverterWithConfig(instance, DefaultConfig())
}

// NewConverterWithConfig creates a new outline converter with custom configuration.
func NewConverterWithConfig(instance pdfium.Pdfium, config Config) *Converter {
	return &Converter{
		instance:   instance,
		config:     config,
		classifier: NewClassifierWithConfig(config),
		logger:     logrus.StandardLogger(),
	}
}

// SetLogger replaces the logger used for warnings and metrics.
func (c *Converter) SetLogger(logger logrus.FieldLogger) {
	c.logger = logger
}

// ConvertFile extracts the outline of a PDF file.
func (c *Converter) ConvertFile(filePath string) (*Document, error) {
	doc, err := c.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	document, _, err := c.convertDocument(doc.Document, 0, -1)
	return document, err
}

// ConvertBytes extracts the outline of PDF bytes.
func (c *Converter) ConvertBytes(pdfBytes []byte) (*Document, error) {
	doc, err := c.instance.OpenDocument(&requests.OpenDocument{
		File: &pdfBytes,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	document, _, err := c.convertDocument(doc.Document, 0, -1)
	return document, err
}

// ConvertReader extracts the outline of a PDF read from an io.ReadSeeker.
func (c *Converter) ConvertReader(reader io.ReadSeeker) (*Document, error) {
	doc, err := c.instance.OpenDocument(&requests.OpenDocument{
		FileReader: reader,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	document, _, err := c.convertDocument(doc.Document, 0, -1)
	return document, err
}

// ConvertPageRange extracts the outline of a range of pages (0-indexed, inclusive).
// Page numbers in the outline stay those of the full document.
func (c *Converter) ConvertPageRange(filePath string, startPage, endPage int) (*Document, error) {
	doc, err := c.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	document, _, err := c.convertDocument(doc.Document, startPage, endPage)
	return document, err
}

// ConvertFileWithMetrics extracts the outline of a PDF file and returns the metrics
// alongside it.
func (c *Converter) ConvertFileWithMetrics(filePath string) (*Document, ProcessingMetrics, error) {
	openStart := time.Now()

	doc, err := c.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, ProcessingMetrics{}, errors.Wrap(err, "failed to open PDF document")
	}
	defer c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	documentOpenTime := time.Since(openStart)

	document, metrics, err := c.convertDocument(doc.Document, 0, -1)
	if err != nil {
		return nil, ProcessingMetrics{}, err
	}

	metrics.DocumentOpen = documentOpenTime
	metrics.TotalTime += documentOpenTime

	return document, metrics, nil
}

// convertDocument extracts pages startPage..endPage and classifies them. A negative
// endPage means the last page.
func (c *Converter) convertDocument(docRef references.FPDF_DOCUMENT, startPage, endPage int) (*Document, ProcessingMetrics, error) {
	startTime := time.Now()

	pageCount, err := c.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: docRef,
	})
	if err != nil {
		return nil, ProcessingMetrics{}, errors.Wrap(err, "failed to get page count")
	}

	// Validate range
	if startPage < 0 {
		startPage = 0
	}
	if endPage < 0 || endPage >= pageCount.PageCount {
		endPage = pageCount.PageCount - 1
	}
	if startPage > endPage && pageCount.PageCount > 0 {
		return nil, ProcessingMetrics{}, errors.New("invalid page range: start page must be <= end page")
	}

	if limit := c.config.MaxPages; limit > 0 && endPage-startPage+1 > limit {
		return nil, ProcessingMetrics{}, errors.Wrapf(ErrTooManyPages, "%d pages, limit %d", endPage-startPage+1, limit)
	}

	pages := make([]Page, 0, max(endPage-startPage+1, 0))

	var pageMetrics []PageMetrics
	for i := startPage; i <= endPage; i++ {
		pageStart := time.Now()
		page, err := c.extractPage(docRef, i)
		pageDuration := time.Since(pageStart)

		if err != nil {
			return nil, ProcessingMetrics{}, errors.Wrapf(err, "failed to extract page %d", i+1)
		}
		pages = append(pages, *page)

		pageMetrics = append(pageMetrics, PageMetrics{
			PageNumber: i + 1,
			Duration:   pageDuration,
			Spans:      len(page.Spans),
		})

		if c.config.EnableMetricsLogging {
			c.logger.WithFields(logrus.Fields{
				"page":     i + 1,
				"pages":    pageCount.PageCount,
				"spans":    len(page.Spans),
				"duration": pageDuration,
			}).Info("page extracted")
		}
	}

	classifyStart := time.Now()
	analysis, err := c.classifier.Analyze(pages)
	if err != nil {
		return nil, ProcessingMetrics{}, errors.Wrap(err, "failed to classify document")
	}
	classifyTime := time.Since(classifyStart)

	for _, w := range analysis.Warnings {
		c.logger.WithField("warning", w.Kind.String()).Warn(w.Message)
	}

	document := NewDocument(analysis, c.metadataTitle(docRef), c.config.IncludeRejected)

	metrics := ProcessingMetrics{
		TotalTime:       time.Since(startTime),
		PageExtractions: pageMetrics,
		Classification:  classifyTime,
		Statistics:      calculateDocumentStatistics(pages, analysis),
	}

	if c.config.EnableMetricsLogging {
		logProcessingMetrics(c.logger, metrics)
	}

	return document, metrics, nil
}

// extractPage extracts the spans of a single page.
func (c *Converter) extractPage(docRef references.FPDF_DOCUMENT, pageIndex int) (*Page, error) {
	pageResp, err := c.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: docRef,
		Index:    pageIndex,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load page")
	}
	defer c.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	page, err := ExtractSpans(c.instance, pageResp.Page, pageIndex+1)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract page content")
	}

	return page, nil
}

// metadataTitle returns the Title entry of the document information dictionary, or ""
// when it is missing or unreadable.
func (c *Converter) metadataTitle(docRef references.FPDF_DOCUMENT) string {
	meta, err := c.instance.FPDF_GetMetaText(&requests.FPDF_GetMetaText{
		Document: docRef,
		Tag:      "Title",
	})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(meta.Value)
}

// calculateDocumentStatistics calculates statistics for the document
func calculateDocumentStatistics(pages []Page, analysis *Analysis) DocumentStatistics {
	stats := DocumentStatistics{
		TotalPages:      len(pages),
		TotalLines:      len(analysis.Lines),
		TotalCandidates: len(analysis.Candidates),
		TotalHeadings:   analysis.Root.Count(),
		TotalRejected:   len(analysis.Rejected),
		BodyFontSize:    analysis.Profile.BodySize,
	}

	for _, page := range pages {
		stats.TotalSpans += len(page.Spans)
		for _, span := range page.Spans {
			stats.TotalCharacters += utf8.RuneCountInString(span.Text)
		}
	}

	return stats
}

// logProcessingMetrics logs the processing metrics as structured fields
func logProcessingMetrics(logger logrus.FieldLogger, metrics ProcessingMetrics) {
	fields := logrus.Fields{
		"total_time":     metrics.TotalTime.Round(time.Millisecond),
		"classification": metrics.Classification.Round(time.Microsecond),
		"pages":          metrics.Statistics.TotalPages,
		"spans":          metrics.Statistics.TotalSpans,
		"lines":          metrics.Statistics.TotalLines,
		"headings":       metrics.Statistics.TotalHeadings,
		"rejected":       metrics.Statistics.TotalRejected,
		"characters":     metrics.Statistics.TotalCharacters,
		"body_font_size": metrics.Statistics.BodyFontSize,
	}

	// Show average time per page
	if len(metrics.PageExtractions) > 0 {
		fields["avg_page_time"] = (metrics.TotalTime / time.Duration(len(metrics.PageExtractions))).Round(time.Millisecond)
	}

	logger.WithFields(fields).Info("pdf processing metrics")
}

// GetDocumentInfo returns basic information about a PDF without classifying it.
func (c *Converter) GetDocumentInfo(filePath string) (*DocumentInfo, error) {
	doc, err := c.instance.OpenDocument(&requests.OpenDocument{
		FilePath: &filePath,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer c.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCount, err := c.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get page count")
	}

	return &DocumentInfo{
		PageCount: pageCount.PageCount,
		Title:     c.metadataTitle(doc.Document),
	}, nil
}

// DocumentInfo contains basic information about a PDF document.
type DocumentInfo struct {
	PageCount int
	Title     string
}
