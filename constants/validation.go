package constants

// Form field limits
const (
	MinNameLength        = 2
	MaxNameLength        = 60
	MaxCollegeNameLength = 120
	MinPhoneDigits       = 10
	MaxPhoneDigits       = 13
	MaxTeamMembers       = 10

	// UTR numbers issued by Indian banks are 12 digits for IMPS/NEFT
	// and up to 22 for RTGS. The matcher itself does not enforce a
	// format; these bounds only gate the registration form.
	MinUTRLength = 10
	MaxUTRLength = 22

	// Upload limits
	MaxScreenshotBytes = 5 * 1024 * 1024  // 5 MB, same cap the form enforced
	MaxStatementBytes  = 20 * 1024 * 1024 // bank statement PDF upload

	// Control character boundaries used by input sanitization
	ControlCharMin = 32
	ControlCharTab = '\t'
	ControlCharLF  = '\n'
	ControlCharCR  = '\r'

	MaxCharacterRepeats = 10
)

// SecurityMaliciousPatterns are substrings rejected in free-text form
// input before it reaches the store or the sheet mirror.
var SecurityMaliciousPatterns = []string{
	"<script",
	"javascript:",
	"onerror=",
	"onload=",
	"drop table",
	"union select",
	"--;",
}
