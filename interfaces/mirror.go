package interfaces

import (
	"context"

	"github.com/shreshta-sdc/shreshta-server/models"
)

// RegistrationMirror receives a duplicate copy of each registration as
// a backup outside the primary store. Mirror failures are logged and
// never fail the registration itself.
type RegistrationMirror interface {
	AppendRegistration(ctx context.Context, reg models.Registration) error
	AppendDailySummary(ctx context.Context, stats models.Stats) error
}
