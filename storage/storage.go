package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/shreshta-sdc/shreshta-server/config"
	"github.com/shreshta-sdc/shreshta-server/constants"
	apperrors "github.com/shreshta-sdc/shreshta-server/errors"
	"github.com/shreshta-sdc/shreshta-server/interfaces"
	"github.com/shreshta-sdc/shreshta-server/models"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

// FirebaseStorage persists registrations in Firestore, one teams
// subcollection per event: registrations/{eventId}/teams/{docId}.
type FirebaseStorage struct {
	client         *firestore.Client
	app            *firebase.App
	eventIDs       []string
	reconnectMutex sync.Mutex
}

const reconnectDelay = 2 * time.Second

// NewStorage connects to Firestore using the configured service
// account. eventIDs lists every event whose teams subcollection the
// cross-event reads walk.
func NewStorage(cfg *config.Config, eventIDs []string) (*FirebaseStorage, error) {
	utils.Info("Initializing Firebase storage system")
	ctx := context.Background()

	if cfg.Firebase.CredentialsJSON == "" {
		return nil, fmt.Errorf("firebase credentials not configured")
	}

	opt := option.WithCredentialsJSON([]byte(cfg.Firebase.CredentialsJSON))

	var fbConfig *firebase.Config
	if cfg.Firebase.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.Firebase.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing app: %v", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firestore client: %v", err)
	}

	s := &FirebaseStorage{
		client:   client,
		app:      app,
		eventIDs: eventIDs,
	}

	utils.Info("Firebase storage system initialized successfully")
	return s, nil
}

// GetClient returns the Firestore client for health checks.
func (s *FirebaseStorage) GetClient() *firestore.Client {
	return s.client
}

// reconnectFirestore replaces the client after a connection failure.
func (s *FirebaseStorage) reconnectFirestore(ctx context.Context) error {
	s.reconnectMutex.Lock()
	defer s.reconnectMutex.Unlock()

	utils.Warn("Attempting to reconnect to Firestore")

	for attempt := 1; attempt <= constants.MaxStoreRetries; attempt++ {
		if s.client != nil {
			s.client.Close()
		}

		newClient, err := s.app.Firestore(ctx)
		if err != nil {
			utils.Warn("Firestore reconnection attempt %d/%d failed: %v", attempt, constants.MaxStoreRetries, err)
			if attempt < constants.MaxStoreRetries {
				time.Sleep(reconnectDelay * time.Duration(attempt))
			}
			continue
		}

		s.client = newClient
		utils.Info("Successfully reconnected to Firestore on attempt %d", attempt)
		return nil
	}

	return fmt.Errorf("failed to reconnect to Firestore after %d attempts", constants.MaxStoreRetries)
}

// executeWithRetry runs a Firestore operation, reconnecting and
// retrying once when the failure looks like a dropped connection.
func (s *FirebaseStorage) executeWithRetry(ctx context.Context, operation func() error) error {
	err := operation()
	if err != nil && isFirestoreConnectionError(err) {
		utils.Warn("Detected Firestore connection error, attempting reconnection: %v", err)
		if reconnectErr := s.reconnectFirestore(ctx); reconnectErr != nil {
			return fmt.Errorf("operation failed and reconnection failed: %v (original: %v)", reconnectErr, err)
		}
		return operation()
	}
	return err
}

func isFirestoreConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "unavailable") ||
		strings.Contains(errStr, "deadline exceeded")
}

func (s *FirebaseStorage) teams(eventID string) *firestore.CollectionRef {
	return s.client.Collection(constants.RegistrationsCollection).Doc(eventID).Collection(constants.TeamsSubcollection)
}

// nextTeamNumber counts the event's existing teams and returns count+1.
// The count and the write are not transactional; two simultaneous
// registrations can receive the same number. Team numbers are display
// labels, the document ID is the identity, so a rare duplicate label
// is accepted over serializing every registration.
func (s *FirebaseStorage) nextTeamNumber(ctx context.Context, eventID string) (int, error) {
	count := 0
	iter := s.teams(eventID).Select().Documents(ctx)
	defer iter.Stop()
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to count teams for %s: %w", eventID, err)
		}
		count++
	}
	return count + 1, nil
}

// CreateRegistration assigns the next team number and writes the
// record to the event's teams subcollection.
func (s *FirebaseStorage) CreateRegistration(ctx context.Context, reg models.Registration) (*models.Registration, error) {
	var created *models.Registration
	err := s.executeWithRetry(ctx, func() error {
		teamNumber, err := s.nextTeamNumber(ctx, reg.EventID)
		if err != nil {
			return err
		}
		reg.TeamNumber = teamNumber
		if reg.PaymentStatus == "" {
			reg.PaymentStatus = constants.PaymentStatusPending
		}
		if reg.RegisteredAt.IsZero() {
			reg.RegisteredAt = time.Now()
		}

		docRef, _, err := s.teams(reg.EventID).Add(ctx, reg)
		if err != nil {
			return fmt.Errorf("failed to add registration: %w", err)
		}

		reg.ID = docRef.ID
		created = &reg
		utils.Info("Added registration to Firestore: %s team #%d (%s)", reg.EventID, reg.TeamNumber, reg.ID)
		return nil
	})
	if err != nil {
		return nil, apperrors.NewStorageError("CREATE_FAILED", err.Error(), err)
	}
	return created, nil
}

// eventRegistrations reads one event's teams in team order. Records
// that come back incomplete are quarantined with a warning instead of
// flowing downstream with zero values.
func (s *FirebaseStorage) eventRegistrations(ctx context.Context, eventID string) ([]models.Registration, error) {
	var regs []models.Registration
	iter := s.teams(eventID).OrderBy("teamNumber", firestore.Asc).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate registrations for %s: %w", eventID, err)
		}

		var r models.Registration
		doc.DataTo(&r)
		r.ID = doc.Ref.ID
		if checkErr := r.CheckComplete(); checkErr != nil {
			utils.Warn("Quarantined incomplete registration %s/%s: %v", eventID, doc.Ref.ID, checkErr)
			continue
		}
		regs = append(regs, r)
	}
	return regs, nil
}

// GetRegistrations returns every registration for one event.
func (s *FirebaseStorage) GetRegistrations(ctx context.Context, eventID string) ([]models.Registration, error) {
	var regs []models.Registration
	err := s.executeWithRetry(ctx, func() error {
		var opErr error
		regs, opErr = s.eventRegistrations(ctx, eventID)
		return opErr
	})
	if err != nil {
		return nil, apperrors.NewStorageError("READ_FAILED", err.Error(), err)
	}
	return regs, nil
}

// GetAllRegistrations walks every event's teams subcollection in
// catalog order.
func (s *FirebaseStorage) GetAllRegistrations(ctx context.Context) ([]models.Registration, error) {
	var all []models.Registration
	err := s.executeWithRetry(ctx, func() error {
		all = all[:0]
		for _, eventID := range s.eventIDs {
			regs, opErr := s.eventRegistrations(ctx, eventID)
			if opErr != nil {
				return opErr
			}
			all = append(all, regs...)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewStorageError("READ_FAILED", err.Error(), err)
	}
	return all, nil
}

// GetPendingRegistrations returns every record whose payment is not
// completed, in the same stable order as GetAllRegistrations.
func (s *FirebaseStorage) GetPendingRegistrations(ctx context.Context) ([]models.Registration, error) {
	all, err := s.GetAllRegistrations(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]models.Registration, 0, len(all))
	for _, r := range all {
		if r.IsPending() {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// UpdatePaymentStatus transitions one record's payment status.
func (s *FirebaseStorage) UpdatePaymentStatus(ctx context.Context, eventID, id, status string) error {
	err := s.executeWithRetry(ctx, func() error {
		ref := s.teams(eventID).Doc(id)
		doc, err := ref.Get(ctx)
		if err != nil || !doc.Exists() {
			return apperrors.NewNotFoundError("REGISTRATION_NOT_FOUND",
				fmt.Sprintf("registration %s not found under event %s", id, eventID),
				"Registration not found.")
		}

		_, err = ref.Update(ctx, []firestore.Update{{Path: "paymentStatus", Value: status}})
		if err != nil {
			return fmt.Errorf("failed to update payment status for %s/%s: %w", eventID, id, err)
		}
		utils.Info("Updated payment status for %s/%s to %s", eventID, id, status)
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return appErr
		}
		return apperrors.NewStorageError("UPDATE_FAILED", err.Error(), err)
	}
	return nil
}

// UpdateRegistration rewrites an existing record. A changed event
// moves the document: delete from the old subcollection, add to the
// new one with a fresh ID, keeping the submitted team number.
func (s *FirebaseStorage) UpdateRegistration(ctx context.Context, originalEventID string, reg models.Registration) (*models.Registration, error) {
	var updated *models.Registration
	err := s.executeWithRetry(ctx, func() error {
		origRef := s.teams(originalEventID).Doc(reg.ID)
		doc, err := origRef.Get(ctx)
		if err != nil || !doc.Exists() {
			return apperrors.NewNotFoundError("REGISTRATION_NOT_FOUND",
				fmt.Sprintf("registration %s not found under event %s", reg.ID, originalEventID),
				"Registration not found.")
		}

		if reg.EventID == originalEventID {
			_, err = origRef.Set(ctx, reg)
			if err != nil {
				return fmt.Errorf("failed to update registration %s/%s: %w", originalEventID, reg.ID, err)
			}
			updated = &reg
			return nil
		}

		newRef, _, err := s.teams(reg.EventID).Add(ctx, reg)
		if err != nil {
			return fmt.Errorf("failed to move registration to %s: %w", reg.EventID, err)
		}
		if _, err = origRef.Delete(ctx); err != nil {
			return fmt.Errorf("failed to remove registration %s/%s after move: %w", originalEventID, reg.ID, err)
		}

		reg.ID = newRef.ID
		updated = &reg
		utils.Info("Moved registration from %s to %s as %s", originalEventID, reg.EventID, reg.ID)
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return nil, appErr
		}
		return nil, apperrors.NewStorageError("UPDATE_FAILED", err.Error(), err)
	}
	return updated, nil
}

// DeleteRegistration removes a record.
func (s *FirebaseStorage) DeleteRegistration(ctx context.Context, eventID, id string) error {
	err := s.executeWithRetry(ctx, func() error {
		ref := s.teams(eventID).Doc(id)
		doc, err := ref.Get(ctx)
		if err != nil || !doc.Exists() {
			return apperrors.NewNotFoundError("REGISTRATION_NOT_FOUND",
				fmt.Sprintf("registration %s not found under event %s", id, eventID),
				"Registration not found.")
		}

		if _, err = ref.Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete registration %s/%s: %w", eventID, id, err)
		}
		utils.Info("Removed registration from Firestore: %s/%s", eventID, id)
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			return appErr
		}
		return apperrors.NewStorageError("DELETE_FAILED", err.Error(), err)
	}
	return nil
}

// Close releases the Firestore client.
func (s *FirebaseStorage) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

var _ interfaces.RegistrationRepository = (*FirebaseStorage)(nil)
