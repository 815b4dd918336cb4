package extract

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/shreshta-sdc/shreshta-server/errors"
)

func extractionCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error %v is not an AppError", err)
	}
	return appErr.Code
}

func TestExtractTextRejectsNonPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"plain text", []byte("this is a csv,not,a,pdf")},
		{"png header", []byte("\x89PNG\r\n\x1a\n")},
		{"magic mid-file", []byte("junk%PDF-1.7")},
	}

	e := NewPDFExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ExtractText(tt.data)
			if err == nil {
				t.Fatal("ExtractText succeeded, want rejection")
			}
			if code := extractionCode(t, err); code != "STATEMENT_NOT_PDF" {
				t.Errorf("error code = %q, want STATEMENT_NOT_PDF", code)
			}
		})
	}
}

func TestExtractTextRejectsCorruptPDF(t *testing.T) {
	// Valid magic bytes, garbage body.
	data := []byte("%PDF-1.4\nnot a real xref table")

	_, err := NewPDFExtractor().ExtractText(data)
	if err == nil {
		t.Fatal("ExtractText succeeded on corrupt input, want error")
	}
	code := extractionCode(t, err)
	if code != "STATEMENT_CORRUPT" && code != "STATEMENT_NO_TEXT_LAYER" {
		t.Errorf("error code = %q, want corrupt or no-text-layer", code)
	}
}

func TestExtractionErrorsCarryUserMessage(t *testing.T) {
	_, err := NewPDFExtractor().ExtractText([]byte("nope"))
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error %v is not an AppError", err)
	}
	if appErr.GetUserMessage() == "" {
		t.Error("extraction error has no user message")
	}
	if strings.Contains(appErr.GetUserMessage(), "xref") {
		t.Error("user message leaks parser internals")
	}
}
