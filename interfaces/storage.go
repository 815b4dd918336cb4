package interfaces

import (
	"context"

	"github.com/shreshta-sdc/shreshta-server/models"
)

// RegistrationRepository is the contract against the registration
// store. The Firestore implementation lives in the storage package; an
// in-memory implementation backs tests.
type RegistrationRepository interface {
	// CreateRegistration assigns the next team number for the event
	// and persists the record, returning it with ID and TeamNumber set.
	CreateRegistration(ctx context.Context, reg models.Registration) (*models.Registration, error)

	// GetRegistrations returns every registration for one event.
	GetRegistrations(ctx context.Context, eventID string) ([]models.Registration, error)

	// GetAllRegistrations walks every event's teams subcollection.
	GetAllRegistrations(ctx context.Context) ([]models.Registration, error)

	// GetPendingRegistrations returns records whose payment is not
	// completed, across all events, in stable event/team order.
	GetPendingRegistrations(ctx context.Context) ([]models.Registration, error)

	// UpdatePaymentStatus transitions a single record's status.
	UpdatePaymentStatus(ctx context.Context, eventID, id, status string) error

	// UpdateRegistration rewrites an existing record. When the event
	// changed, the record moves to the new event's subcollection and
	// the returned registration carries its new ID.
	UpdateRegistration(ctx context.Context, originalEventID string, reg models.Registration) (*models.Registration, error)

	// DeleteRegistration removes a record.
	DeleteRegistration(ctx context.Context, eventID, id string) error

	Close() error
}
