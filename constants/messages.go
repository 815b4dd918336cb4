package constants

// Operator and registrant facing messages
const (
	// Registration flow
	MsgRegistrationSuccess = "Team #%d registered for %s. Payment verification is pending."
	MsgScreenshotRequired  = "Please upload the payment screenshot"
	MsgScreenshotTooLarge  = "File size must be less than 5MB"
	MsgUTRRequired         = "Please enter the UTR Number"

	// Reconciliation flow
	MsgNotAPDF             = "Please select a PDF file"
	MsgExtractionFailed    = "Failed to process PDF. Make sure it's a searchable PDF (not an image scan)."
	MsgNoMatches           = "0 matches found"
	MsgPartialCommit       = "%d registrations verified, %d failed to update and need manual handling"
	MsgReviewBeforeApprove = "Matches are candidates only; review before approving."

	// Authorization
	MsgIncorrectPIN = "Incorrect PIN"

	// Generic
	MsgInternalError = "Something went wrong. Please try again."
	MsgNotFound      = "Record not found"
)

// ErrorMessages maps error codes to the user-facing message returned
// by the API when the error itself carries none.
var ErrorMessages = map[string]string{
	"STATEMENT_NOT_PDF":       MsgNotAPDF,
	"STATEMENT_NO_TEXT_LAYER": MsgExtractionFailed,
	"STATEMENT_CORRUPT":       MsgExtractionFailed,
	"ADMIN_PIN_MISMATCH":      MsgIncorrectPIN,
	"REGISTRATION_NOT_FOUND":  MsgNotFound,
}
