package recon

import (
	"context"
	"sync"
	"time"

	"github.com/shreshta-sdc/shreshta-server/constants"
	"github.com/shreshta-sdc/shreshta-server/interfaces"
	"github.com/shreshta-sdc/shreshta-server/performance"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

// Approval identifies one registration the operator approved for
// verification.
type Approval struct {
	ID      string `json:"id"`
	EventID string `json:"eventId"`
}

// CommitFailure attributes a failed status update to its registration.
type CommitFailure struct {
	Approval
	Reason string `json:"reason"`
}

// CommitResult reports the outcome of one commit batch. Failures are
// per-record so the operator knows exactly which registrations still
// need manual handling.
type CommitResult struct {
	Updated []Approval      `json:"updated"`
	Failed  []CommitFailure `json:"failed"`
}

// AllSucceeded reports whether every approved update went through.
func (r *CommitResult) AllSucceeded() bool {
	return len(r.Failed) == 0
}

// Committer applies operator-approved matches as status transitions on
// the registration store.
type Committer struct {
	storage     interfaces.RegistrationRepository
	concurrency *performance.AdaptiveConcurrencyManager
}

// NewCommitter creates a Committer over the given store.
func NewCommitter(storage interfaces.RegistrationRepository) *Committer {
	return &Committer{
		storage:     storage,
		concurrency: performance.NewAdaptiveConcurrencyManager(),
	}
}

// ConcurrencyStats exposes the adaptive limiter's current state for
// operational reporting.
func (c *Committer) ConcurrencyStats() performance.ConcurrencyStats {
	return c.concurrency.GetStats()
}

// Commit marks each approved registration's payment completed. Updates
// are independent: they run concurrently (bounded by the adaptive
// limit), complete in any order, and one failure never rolls back the
// others. The result attributes every failure to its registration.
func (c *Committer) Commit(ctx context.Context, approved []Approval) CommitResult {
	result := CommitResult{}
	if len(approved) == 0 {
		return result
	}

	limit := c.concurrency.GetCurrentLimit()
	sem := make(chan struct{}, limit)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, a := range approved {
		a := a
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			start := time.Now()
			err := c.storage.UpdatePaymentStatus(ctx, a.EventID, a.ID, constants.PaymentStatusCompleted)
			c.concurrency.RecordResponseTime(time.Since(start))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				utils.Error("Bulk verify: failed to update %s/%s: %v", a.EventID, a.ID, err)
				result.Failed = append(result.Failed, CommitFailure{Approval: a, Reason: err.Error()})
			} else {
				result.Updated = append(result.Updated, a)
			}
		}()
	}

	wg.Wait()

	utils.Info("Bulk verify committed %d/%d registrations (%d failed)",
		len(result.Updated), len(approved), len(result.Failed))
	return result
}
