package models

import (
	"regexp"
	"strings"
)

// Event categories
const (
	CategoryIT         = "it"
	CategoryManagement = "management"
	CategoryCultural   = "cultural"
	CategorySports     = "sports"
)

// Prizes holds prize descriptions for an event.
type Prizes struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

// Event is one catalog entry. The catalog is static for a fest
// edition; registrations denormalise the title and fee at submit time.
type Event struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	LongDescription  string   `json:"longDescription"`
	Coordinator      string   `json:"coordinator"`
	CoordinatorPhone string   `json:"coordinatorPhone"`
	Category         string   `json:"category"`
	Date             string   `json:"date"`
	Time             string   `json:"time"`
	Venue            string   `json:"venue"`
	Rules            []string `json:"rules"`
	Prizes           *Prizes  `json:"prizes,omitempty"`
	TeamSize         string   `json:"teamSize"`
	RegistrationFee  string   `json:"registrationFee"`
}

var feeAmountPattern = regexp.MustCompile(`₹?(\d+)`)

// FeeAmount extracts the numeric amount from a display fee string
// like "₹300/Team". Returns "0" when no amount is present.
func (e *Event) FeeAmount() string {
	m := feeAmountPattern.FindStringSubmatch(e.RegistrationFee)
	if m == nil {
		return "0"
	}
	return m[1]
}

// RequiredMembers derives the team-details form size from the display
// team-size string, the same way the registration form did.
func (e *Event) RequiredMembers() int {
	ts := e.TeamSize
	switch {
	case strings.Contains(ts, "8 + 2"), strings.Contains(ts, "8+2"):
		return 10
	case strings.Contains(ts, "4"):
		return 4
	case strings.Contains(ts, "2"):
		return 2
	case strings.Contains(ts, "Solo"), strings.Contains(ts, "1"), strings.Contains(ts, "Individual"):
		return 1
	}
	return 2
}

// ValidCategory reports whether c is one of the catalog categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryIT, CategoryManagement, CategoryCultural, CategorySports:
		return true
	}
	return false
}
