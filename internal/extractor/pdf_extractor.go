package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// ErrInvalidPDF is returned when the input cannot be parsed as a PDF.
var ErrInvalidPDF = errors.New("invalid or unreadable PDF")

// DefaultPageSeparator is inserted between page texts when none is configured.
const DefaultPageSeparator = "\n\n"

// Document is an uploaded file held in memory
type Document struct {
	Name    string
	Content []byte
}

// Stats describes one extraction
type Stats struct {
	Pages          int
	ExtractedPages int
	SkippedPages   int
	Words          int
}

// PDFExtractor extracts the text layer of PDF documents using github.com/ledongthuc/pdf
type PDFExtractor struct {
	logger    *zap.Logger
	separator string
}

// NewPDFExtractor creates a new PDFExtractor instance
func NewPDFExtractor(logger *zap.Logger, separator string) *PDFExtractor {
	if separator == "" {
		separator = DefaultPageSeparator
	}
	return &PDFExtractor{
		logger:    logger.Named("pdf"),
		separator: separator,
	}
}

// ExtractText returns all extractable text of the document, pages in order.
// A document without a text layer yields an empty string and no error.
func (e *PDFExtractor) ExtractText(ctx context.Context, doc Document) (string, error) {
	text, stats, err := e.Extract(ctx, doc)
	if err != nil {
		return "", err
	}

	e.logger.Info("Extracted text from PDF",
		zap.String("file", doc.Name),
		zap.Int("pages", stats.Pages),
		zap.Int("extracted_pages", stats.ExtractedPages),
		zap.Int("skipped_pages", stats.SkippedPages),
		zap.Int("words", stats.Words),
	)
	return text, nil
}

// Extract is ExtractText with per-document statistics.
func (e *PDFExtractor) Extract(ctx context.Context, doc Document) (text string, stats Stats, err error) {
	// the parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text, stats = "", Stats{}
			err = fmt.Errorf("%w: %v", ErrInvalidPDF, r)
		}
	}()

	if len(doc.Content) == 0 {
		return "", stats, fmt.Errorf("%w: file is empty", ErrInvalidPDF)
	}

	reader, err := pdf.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return "", stats, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	stats.Pages = reader.NumPage()
	pages := make([]string, 0, stats.Pages)
	var failures int

	for i := 1; i <= stats.Pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", stats, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			stats.SkippedPages++
			continue
		}

		// blank pages have no content stream
		if page.V.Key("Contents").IsNull() {
			stats.SkippedPages++
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// image-only pages land here
			e.logger.Debug("Skipping page without extractable text",
				zap.String("file", doc.Name), zap.Int("page", i), zap.Error(err))
			stats.SkippedPages++
			failures++
			continue
		}

		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			stats.SkippedPages++
			continue
		}

		stats.ExtractedPages++
		pages = append(pages, pageText)
	}

	if stats.Pages > 0 && failures == stats.Pages {
		return "", stats, fmt.Errorf("%w: no page could be read", ErrInvalidPDF)
	}

	text = strings.Join(pages, e.separator)
	stats.Words = len(strings.Fields(text))
	return text, stats, nil
}

// ReadDocument loads a file from disk into a Document
func ReadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read file: %w", err)
	}
	return Document{Name: filepath.Base(path), Content: data}, nil
}
