package storage

import (
	"context"
	"testing"

	"github.com/shreshta-sdc/shreshta-server/constants"
	"github.com/shreshta-sdc/shreshta-server/models"
)

func newTestRegistration(eventID string) models.Registration {
	return models.Registration{
		EventID:   eventID,
		EventName: "Event " + eventID,
		Email:     "team@example.com",
		Members:   []models.Member{{Name: "Asha", Phone: "9876543210"}},
		UTRNumber: "123456789012",
	}
}

func TestInMemoryCreateAssignsSequentialTeamNumbers(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		created, err := store.CreateRegistration(ctx, newTestRegistration("e-sports"))
		if err != nil {
			t.Fatalf("CreateRegistration failed: %v", err)
		}
		if created.TeamNumber != want {
			t.Errorf("TeamNumber = %d, want %d", created.TeamNumber, want)
		}
		if created.ID == "" {
			t.Error("created registration has empty ID")
		}
		if created.PaymentStatus != constants.PaymentStatusPending {
			t.Errorf("PaymentStatus = %q, want pending default", created.PaymentStatus)
		}
	}

	// A second event numbers independently.
	created, err := store.CreateRegistration(ctx, newTestRegistration("pratyaya"))
	if err != nil {
		t.Fatalf("CreateRegistration failed: %v", err)
	}
	if created.TeamNumber != 1 {
		t.Errorf("TeamNumber = %d for new event, want 1", created.TeamNumber)
	}
}

func TestInMemoryPendingFilter(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	a, _ := store.CreateRegistration(ctx, newTestRegistration("e-sports"))
	b, _ := store.CreateRegistration(ctx, newTestRegistration("e-sports"))

	if err := store.UpdatePaymentStatus(ctx, "e-sports", a.ID, constants.PaymentStatusCompleted); err != nil {
		t.Fatalf("UpdatePaymentStatus failed: %v", err)
	}

	pending, err := store.GetPendingRegistrations(ctx)
	if err != nil {
		t.Fatalf("GetPendingRegistrations failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("len(pending) = %d, want 1", len(pending))
	}
	if pending[0].ID != b.ID {
		t.Errorf("pending ID = %q, want %q", pending[0].ID, b.ID)
	}
}

func TestInMemoryUpdateRegistrationSameEvent(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	created, _ := store.CreateRegistration(ctx, newTestRegistration("vikraya"))
	created.CollegeName = "New College"

	updated, err := store.UpdateRegistration(ctx, "vikraya", *created)
	if err != nil {
		t.Fatalf("UpdateRegistration failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("ID changed on in-place update: %q -> %q", created.ID, updated.ID)
	}

	regs, _ := store.GetRegistrations(ctx, "vikraya")
	if len(regs) != 1 || regs[0].CollegeName != "New College" {
		t.Errorf("stored registration = %+v, want updated college name", regs)
	}
}

func TestInMemoryUpdateRegistrationCrossEventMove(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	created, _ := store.CreateRegistration(ctx, newTestRegistration("vikraya"))
	moved := *created
	moved.EventID = "samanvaya"
	moved.EventName = "Event samanvaya"

	updated, err := store.UpdateRegistration(ctx, "vikraya", moved)
	if err != nil {
		t.Fatalf("UpdateRegistration failed: %v", err)
	}
	if updated.ID == created.ID {
		t.Error("cross-event move kept the old document ID")
	}

	old, _ := store.GetRegistrations(ctx, "vikraya")
	if len(old) != 0 {
		t.Errorf("old event still has %d registrations, want 0", len(old))
	}
	dst, _ := store.GetRegistrations(ctx, "samanvaya")
	if len(dst) != 1 {
		t.Fatalf("destination event has %d registrations, want 1", len(dst))
	}
}

func TestInMemoryDeleteRegistration(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	created, _ := store.CreateRegistration(ctx, newTestRegistration("lasyagathi"))
	if err := store.DeleteRegistration(ctx, "lasyagathi", created.ID); err != nil {
		t.Fatalf("DeleteRegistration failed: %v", err)
	}
	if err := store.DeleteRegistration(ctx, "lasyagathi", created.ID); err == nil {
		t.Error("second delete succeeded, want not-found error")
	}
}

func TestInMemoryGetAllStableOrder(t *testing.T) {
	store := NewInMemoryStorage()
	ctx := context.Background()

	store.CreateRegistration(ctx, newTestRegistration("pratyaya"))
	store.CreateRegistration(ctx, newTestRegistration("e-sports"))
	store.CreateRegistration(ctx, newTestRegistration("e-sports"))

	all, err := store.GetAllRegistrations(ctx)
	if err != nil {
		t.Fatalf("GetAllRegistrations failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	// Events sort lexically, teams by number within an event.
	wantEvents := []string{"e-sports", "e-sports", "pratyaya"}
	for i, want := range wantEvents {
		if all[i].EventID != want {
			t.Errorf("all[%d].EventID = %q, want %q", i, all[i].EventID, want)
		}
	}
	if all[0].TeamNumber != 1 || all[1].TeamNumber != 2 {
		t.Errorf("team order within event = %d,%d, want 1,2", all[0].TeamNumber, all[1].TeamNumber)
	}
}
