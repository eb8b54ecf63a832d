// Package extractor turns stored source documents into plain text.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/core/ports"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

// Extract reads the stored document and returns its text content.
// PDF documents are parsed page by page; everything else must be
// valid UTF-8 plain text.
func (e *Extractor) Extract(ctx context.Context, doc *domain.KnowledgeDocument) (string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	if isPDF(doc) {
		return extractPDF(reader, doc.Filename)
	}
	return extractPlainText(reader, doc.Filename)
}

func isPDF(doc *domain.KnowledgeDocument) bool {
	if doc.MimeType == "application/pdf" {
		return true
	}
	return strings.EqualFold(filepath.Ext(doc.Filename), ".pdf")
}

func extractPlainText(reader io.Reader, filename string) (string, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}

	if !utf8.Valid(raw) {
		return "", fmt.Errorf("unsupported binary format: %s", filename)
	}

	return strings.TrimSpace(string(raw)), nil
}

// extractPDF copies the document to a temp file first: the pdf
// library only opens named files.
func extractPDF(reader io.Reader, filename string) (string, error) {
	tmp, err := os.CreateTemp("", "droitbot-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, reader); err != nil {
		return "", fmt.Errorf("copy pdf to temp file: %w", err)
	}

	f, rdr, err := pdf.Open(tmp.Name())
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", filename, err)
	}
	defer f.Close()

	textReader, err := rdr.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text %s: %w", filename, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, textReader); err != nil {
		return "", fmt.Errorf("buffer pdf text %s: %w", filename, err)
	}

	return strings.TrimSpace(buf.String()), nil
}
