// Package recon implements bulk payment verification: matching
// claimed UTR numbers against the text of an uploaded bank statement,
// and committing operator-approved matches back to the store.
package recon

import (
	"strings"
	"unicode"

	"github.com/shreshta-sdc/shreshta-server/models"
)

// Match is one pending registration whose claimed UTR appears in the
// scanned statement. It carries what the review list displays and what
// a later commit needs.
type Match struct {
	ID         string `json:"id"`
	EventID    string `json:"eventId"`
	TeamNumber int    `json:"teamNumber"`
	EventName  string `json:"eventName"`
	UTR        string `json:"utr"`
}

// ScanReport summarises one matching pass for operator review.
// MatchedCount and StillPending are serialized alongside the match
// list so the review screen renders its counters without recomputing
// them client-side.
type ScanReport struct {
	TotalPending int     `json:"totalPending"`
	MatchedCount int     `json:"matchedCount"`
	StillPending int     `json:"stillPending"`
	Matches      []Match `json:"matches"`
}

// NormalizeStatementText removes every whitespace character. Statement
// PDFs render reference numbers in columns, so extraction frequently
// splits one number across spaces or line wraps; collapsing whitespace
// lets a contiguous UTR match regardless.
func NormalizeStatementText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Scan matches each pending registration's UTR against the statement
// text. Pure function: it never mutates its inputs and has no side
// effects. Output preserves input order and is always a subset of the
// input.
//
// Matching is plain substring containment against the normalized
// text. A UTR embedded in a longer unrelated digit run will false
// positive, and two registrations claiming the same UTR both match on
// one statement line; matches are candidates for human review, never
// an authoritative verification.
func Scan(pending []models.Registration, statementText string) ScanReport {
	normalized := NormalizeStatementText(statementText)

	report := ScanReport{
		TotalPending: len(pending),
		Matches:      []Match{},
	}
	for i := range pending {
		reg := &pending[i]

		// An empty pattern would trivially match any statement.
		utr := reg.TrimmedUTR()
		if utr == "" {
			continue
		}

		if strings.Contains(normalized, utr) {
			report.Matches = append(report.Matches, Match{
				ID:         reg.ID,
				EventID:    reg.EventID,
				TeamNumber: reg.TeamNumber,
				EventName:  reg.EventName,
				UTR:        utr,
			})
		}
	}
	report.MatchedCount = len(report.Matches)
	report.StillPending = report.TotalPending - report.MatchedCount
	return report
}
