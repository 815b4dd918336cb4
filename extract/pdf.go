// Package extract pulls the text layer out of uploaded bank
// statement PDFs for UTR matching.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/shreshta-sdc/shreshta-server/constants"
	apperrors "github.com/shreshta-sdc/shreshta-server/errors"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

var pdfMagic = []byte("%PDF-")

// PDFExtractor extracts text from digital (searchable) PDFs. Image
// scans have no text layer and are rejected rather than silently
// producing zero matches.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF statement extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText returns the statement's text in page order.
func (e *PDFExtractor) ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.NewExtractionError("STATEMENT_NOT_PDF",
			"empty statement upload", constants.MsgNotAPDF, nil)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", apperrors.NewExtractionError("STATEMENT_NOT_PDF",
			"statement upload is not a PDF", constants.MsgNotAPDF, nil)
	}
	if len(data) > constants.MaxStatementBytes {
		return "", apperrors.NewValidationError("STATEMENT_TOO_LARGE",
			fmt.Sprintf("statement is %d bytes, limit %d", len(data), constants.MaxStatementBytes),
			"Statement file is too large.")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.NewExtractionError("STATEMENT_CORRUPT",
			"failed to parse statement PDF", constants.MsgExtractionFailed, err)
	}

	var b strings.Builder
	totalPages := reader.NumPage()
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not discard the rest of
			// the statement.
			utils.Warn("Failed to extract text from statement page %d/%d: %v", pageNum, totalPages, err)
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	extracted := b.String()
	if strings.TrimSpace(extracted) == "" {
		return "", apperrors.NewExtractionError("STATEMENT_NO_TEXT_LAYER",
			fmt.Sprintf("no text layer in %d-page statement", totalPages),
			constants.MsgExtractionFailed, nil)
	}

	utils.Debug("Extracted %d characters from %d statement pages", len(extracted), totalPages)
	return extracted, nil
}
