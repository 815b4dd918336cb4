package interfaces

// StatementExtractor produces the page-ordered text of an uploaded
// bank statement. Implementations must fail loudly for non-PDF input
// and for PDFs with no extractable text layer; callers surface those
// failures distinctly from "zero matches".
type StatementExtractor interface {
	ExtractText(data []byte) (string, error)
}
