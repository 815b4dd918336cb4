package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shreshta-sdc/shreshta-server/constants"
)

// Member is one person on a registered team.
type Member struct {
	Name  string `firestore:"name" json:"name"`
	Phone string `firestore:"phone" json:"phone"`
}

// Registration is one team's registration document. The Firestore
// field names match the documents written by earlier versions of the
// registration site, so existing collections keep working.
type Registration struct {
	ID              string    `firestore:"-" json:"id"` // Firestore document ID
	TeamNumber      int       `firestore:"teamNumber" json:"teamNumber"`
	EventID         string    `firestore:"eventId" json:"eventId"`
	EventName       string    `firestore:"eventName" json:"eventName"`
	Category        string    `firestore:"category" json:"category"`
	Email           string    `firestore:"email" json:"email"`
	CollegeName     string    `firestore:"collegeName" json:"collegeName"`
	Members         []Member  `firestore:"members" json:"members"`
	RegistrationFee string    `firestore:"registrationFee" json:"registrationFee"`
	UTRNumber       string    `firestore:"utrNumber" json:"utrNumber"`
	ScreenshotURL   string    `firestore:"screenshotUrl" json:"screenshotUrl,omitempty"`
	PaymentStatus   string    `firestore:"paymentStatus" json:"paymentStatus"`
	RegisteredAt    time.Time `firestore:"registeredAt" json:"registeredAt"`
	UserID          string    `firestore:"userId" json:"userId,omitempty"`
}

// IsVerified reports whether the payment has been confirmed.
func (r *Registration) IsVerified() bool {
	return r.PaymentStatus == constants.PaymentStatusCompleted
}

// IsPending reports whether the registration still awaits payment
// verification. Anything other than "completed" counts as pending,
// matching how the dashboard has always bucketed records.
func (r *Registration) IsPending() bool {
	return r.PaymentStatus != constants.PaymentStatusCompleted
}

// CheckComplete validates that a record read back from the store
// carries everything downstream consumers rely on. Records failing
// this check are quarantined at the storage boundary instead of
// flowing into the matcher or the dashboard with zero values.
func (r *Registration) CheckComplete() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("registration missing document ID")
	case r.EventID == "":
		return fmt.Errorf("registration %s missing eventId", r.ID)
	case r.EventName == "":
		return fmt.Errorf("registration %s missing eventName", r.ID)
	case r.TeamNumber <= 0:
		return fmt.Errorf("registration %s has invalid teamNumber %d", r.ID, r.TeamNumber)
	case r.PaymentStatus == "":
		return fmt.Errorf("registration %s missing paymentStatus", r.ID)
	}
	return nil
}

// TeamLabel returns the display label used in admin views and the
// sheet mirror, e.g. "VYOMA - Team #4".
func (r *Registration) TeamLabel() string {
	return fmt.Sprintf("%s - Team #%d", r.EventName, r.TeamNumber)
}

// TrimmedUTR returns the claimed UTR with surrounding whitespace
// removed. An empty result means the registration can never match a
// bank statement.
func (r *Registration) TrimmedUTR() string {
	return strings.TrimSpace(r.UTRNumber)
}

// Stats summarises the registration collections for the dashboard.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Verified int `json:"verified"`
}

// CountStats buckets registrations into dashboard counters.
func CountStats(regs []Registration) Stats {
	s := Stats{Total: len(regs)}
	for i := range regs {
		if regs[i].IsVerified() {
			s.Verified++
		} else {
			s.Pending++
		}
	}
	return s
}
