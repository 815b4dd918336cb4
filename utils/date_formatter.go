package utils

import (
	"time"

	"github.com/shreshta-sdc/shreshta-server/constants"
)

// IST offset, fixed. India has no daylight saving.
const istOffsetSeconds = 5*3600 + 30*60

// GetCurrentTimeIST returns the current time in IST regardless of the
// host timezone (container hosts usually run UTC).
func GetCurrentTimeIST() time.Time {
	ist := time.FixedZone("IST", istOffsetSeconds)
	return time.Now().In(ist)
}

// FormatDate formats a date for exports and the sheet mirror.
func FormatDate(date time.Time) string {
	return date.Format(constants.DateFormat)
}

// FormatDateTime formats a timestamp for logs and summary rows.
func FormatDateTime(dateTime time.Time) string {
	return dateTime.Format(constants.DateTimeFormat)
}

// FormatRegisteredAt renders a registration timestamp the way the
// dashboard shows it, in IST.
func FormatRegisteredAt(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	ist := time.FixedZone("IST", istOffsetSeconds)
	return t.In(ist).Format("02 Jan 2006, 03:04 PM")
}
