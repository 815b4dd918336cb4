package catalog

import (
	"testing"

	"github.com/shreshta-sdc/shreshta-server/models"
)

func TestByID(t *testing.T) {
	e, ok := ByID("logic-overload")
	if !ok {
		t.Fatal("logic-overload not found")
	}
	if e.Title != "LOGIC OVERLOAD" || e.Category != models.CategoryIT {
		t.Errorf("unexpected event %+v", e)
	}

	if _, ok := ByID("no-such-event"); ok {
		t.Error("unknown ID should not resolve")
	}
}

func TestCatalogIsConsistent(t *testing.T) {
	events := All()
	if len(events) == 0 {
		t.Fatal("catalog is empty")
	}

	seen := map[string]bool{}
	for _, e := range events {
		if e.ID == "" || e.Title == "" {
			t.Errorf("event with empty ID or title: %+v", e)
		}
		if seen[e.ID] {
			t.Errorf("duplicate event ID %q", e.ID)
		}
		seen[e.ID] = true
		if !models.ValidCategory(e.Category) {
			t.Errorf("event %s has invalid category %q", e.ID, e.Category)
		}
		if e.RegistrationFee == "" {
			t.Errorf("event %s has no registration fee", e.ID)
		}
	}

	if len(IDs()) != len(events) {
		t.Errorf("IDs() length %d != All() length %d", len(IDs()), len(events))
	}
}

func TestByCategory(t *testing.T) {
	total := 0
	for _, c := range []string{"it", "management", "cultural", "sports"} {
		group := ByCategory(c)
		if len(group) == 0 {
			t.Errorf("category %q has no events", c)
		}
		for _, e := range group {
			if e.Category != c {
				t.Errorf("event %s leaked into category %q", e.ID, c)
			}
		}
		total += len(group)
	}
	if total != len(All()) {
		t.Errorf("categories cover %d events, catalog has %d", total, len(All()))
	}
}
