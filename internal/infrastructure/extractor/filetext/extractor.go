// Package filetext pulls plain text out of uploaded documents so extraction
// can run on file content the same way it runs on typed prompts.
package filetext

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
)

// Extractor dispatches on the file extension. Supported document types are
// pdf, docx, doc, and txt; everything else is the caller's problem.
type Extractor struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{log: log}
}

func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "filetext.extract", fmt.Errorf("empty file %q", filename))
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "pdf":
		return e.extractPDF(data)
	case "docx", "doc":
		return e.extractDOCX(data, filename)
	case "txt":
		return extractPlain(data), nil
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFileType, "filetext.extract",
			fmt.Errorf("extension %q of %q", ext, filename))
	}
}

// PDFExtractionError reports that both text extraction strategies failed.
type PDFExtractionError struct {
	WholeErr error
	PagesErr error
}

func (e *PDFExtractionError) Error() string {
	return fmt.Sprintf("pdf text extraction failed: whole-document: %v, per-page: %v", e.WholeErr, e.PagesErr)
}

func (e *PDFExtractionError) Unwrap() []error {
	return []error{e.WholeErr, e.PagesErr}
}

// extractPDF tries the whole-document reader first and falls back to walking
// pages one by one, which survives documents with a few broken pages.
func (e *Extractor) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	text, wholeErr := pdfWholeText(reader)
	if wholeErr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}

	text, pagesErr := pdfPageText(reader)
	if pagesErr == nil && strings.TrimSpace(text) != "" {
		if wholeErr != nil {
			e.log.Warn("pdf_whole_text_failed", "error", wholeErr)
		}
		return text, nil
	}

	if wholeErr == nil {
		wholeErr = fmt.Errorf("no extractable text")
	}
	if pagesErr == nil {
		pagesErr = fmt.Errorf("no extractable text")
	}
	return "", &PDFExtractionError{WholeErr: wholeErr, PagesErr: pagesErr}
}

func pdfWholeText(reader *pdf.Reader) (string, error) {
	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if _, err := io.Copy(&out, content); err != nil {
		return "", err
	}
	return out.String(), nil
}

func pdfPageText(reader *pdf.Reader) (string, error) {
	var out strings.Builder
	var lastErr error
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			lastErr = fmt.Errorf("page %d: %w", i, err)
			continue
		}
		out.WriteString(text)
		out.WriteString("\n")
	}
	if out.Len() == 0 && lastErr != nil {
		return "", lastErr
	}
	return out.String(), nil
}

// extractDOCX reads word/document.xml out of the OOXML zip and collects the
// character data of every text run. Paragraph boundaries become newlines.
func (e *Extractor) extractDOCX(data []byte, filename string) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrUnsupportedFileType, "filetext.extract",
			fmt.Errorf("%q is not a valid docx archive: %w", filename, err))
	}

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", domain.WrapError(domain.ErrUnsupportedFileType, "filetext.extract",
			fmt.Errorf("%q has no word/document.xml", filename))
	}

	rc, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	return docxText(rc)
}

func docxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var out strings.Builder
	var inTextRun bool
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch tok := token.(type) {
		case xml.StartElement:
			if tok.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			switch tok.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				out.WriteString("\n")
			}
		case xml.CharData:
			if inTextRun {
				out.Write(tok)
			}
		}
	}
	return strings.TrimSpace(out.String()), nil
}

// extractPlain tolerates stray invalid bytes rather than rejecting the file;
// scanned exports often carry a little binary garbage.
func extractPlain(data []byte) string {
	if utf8.Valid(data) {
		return strings.TrimSpace(string(data))
	}
	return strings.TrimSpace(strings.ToValidUTF8(string(data), ""))
}
