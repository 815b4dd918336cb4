package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/shreshta-sdc/shreshta-server/constants"
	"github.com/shreshta-sdc/shreshta-server/models"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

// InMemoryStorage is a non-persistent store implementation for tests
// and local development.
type InMemoryStorage struct {
	mu     sync.RWMutex
	events map[string]map[string]models.Registration // eventID -> docID -> registration

	// failStatusUpdates injects an error for specific eventID/docID
	// pairs, letting tests exercise partial commit failure.
	failStatusUpdates map[string]error
}

// NewInMemoryStorage creates an empty in-memory store.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		events:            make(map[string]map[string]models.Registration),
		failStatusUpdates: make(map[string]error),
	}
}

// FailStatusUpdate makes UpdatePaymentStatus fail for one record.
func (s *InMemoryStorage) FailStatusUpdate(eventID, id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatusUpdates[eventID+"/"+id] = err
}

// CreateRegistration assigns the next team number and stores the record.
func (s *InMemoryStorage) CreateRegistration(ctx context.Context, reg models.Registration) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams := s.events[reg.EventID]
	if teams == nil {
		teams = make(map[string]models.Registration)
		s.events[reg.EventID] = teams
	}

	reg.ID = uuid.NewString()
	reg.TeamNumber = len(teams) + 1
	if reg.PaymentStatus == "" {
		reg.PaymentStatus = constants.PaymentStatusPending
	}
	teams[reg.ID] = reg

	return &reg, nil
}

// GetRegistrations returns an event's registrations in team order.
func (s *InMemoryStorage) GetRegistrations(ctx context.Context, eventID string) ([]models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eventRegistrationsLocked(eventID), nil
}

func (s *InMemoryStorage) eventRegistrationsLocked(eventID string) []models.Registration {
	teams := s.events[eventID]
	regs := make([]models.Registration, 0, len(teams))
	for _, r := range teams {
		regs = append(regs, r)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].TeamNumber < regs[j].TeamNumber })
	return regs
}

// GetAllRegistrations returns every registration in stable event/team
// order.
func (s *InMemoryStorage) GetAllRegistrations(ctx context.Context) ([]models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	eventIDs := make([]string, 0, len(s.events))
	for id := range s.events {
		eventIDs = append(eventIDs, id)
	}
	sort.Strings(eventIDs)

	var all []models.Registration
	for _, id := range eventIDs {
		all = append(all, s.eventRegistrationsLocked(id)...)
	}
	return all, nil
}

// GetPendingRegistrations filters out completed payments.
func (s *InMemoryStorage) GetPendingRegistrations(ctx context.Context) ([]models.Registration, error) {
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

// UpdatePaymentStatus transitions one record's status.
func (s *InMemoryStorage) UpdatePaymentStatus(ctx context.Context, eventID, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failStatusUpdates[eventID+"/"+id]; ok {
		return err
	}

	teams := s.events[eventID]
	reg, ok := teams[id]
	if !ok {
		return fmt.Errorf("registration %s not found under event %s", id, eventID)
	}

	reg.PaymentStatus = status
	teams[id] = reg
	return nil
}

// UpdateRegistration rewrites a record, moving it between events when
// the event changed.
func (s *InMemoryStorage) UpdateRegistration(ctx context.Context, originalEventID string, reg models.Registration) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	origTeams := s.events[originalEventID]
	if _, ok := origTeams[reg.ID]; !ok {
		return nil, fmt.Errorf("registration %s not found under event %s", reg.ID, originalEventID)
	}

	if reg.EventID == originalEventID {
		origTeams[reg.ID] = reg
		return &reg, nil
	}

	// Cross-event move: delete from the old subcollection, add to the
	// new one with a fresh ID, same as the Firestore implementation.
	delete(origTeams, reg.ID)
	newTeams := s.events[reg.EventID]
	if newTeams == nil {
		newTeams = make(map[string]models.Registration)
		s.events[reg.EventID] = newTeams
	}
	reg.ID = uuid.NewString()
	newTeams[reg.ID] = reg

	utils.Info("Moved registration to event %s as %s", reg.EventID, reg.ID)
	return &reg, nil
}

// DeleteRegistration removes a record.
func (s *InMemoryStorage) DeleteRegistration(ctx context.Context, eventID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams := s.events[eventID]
	if _, ok := teams[id]; !ok {
		return fmt.Errorf("registration %s not found under event %s", id, eventID)
	}
	delete(teams, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStorage) Close() error {
	return nil
}
