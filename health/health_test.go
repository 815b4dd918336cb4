package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shreshta-sdc/shreshta-server/constants"
)

type stubChecker struct {
	name string
	err  error
}

func (c stubChecker) Name() string                    { return c.name }
func (c stubChecker) Check(ctx context.Context) error { return c.err }

func TestHandlerHealthy(t *testing.T) {
	h := NewHandler(stubChecker{name: "firestore"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if status.Status != constants.HealthStatusHealthy {
		t.Errorf("Status = %q, want healthy", status.Status)
	}
	if status.Checks["firestore"] != constants.HealthStatusHealthy {
		t.Errorf("firestore check = %q, want healthy", status.Checks["firestore"])
	}
}

func TestHandlerUnhealthyDependency(t *testing.T) {
	h := NewHandler(
		stubChecker{name: "firestore", err: errors.New("deadline exceeded")},
		stubChecker{name: "sheets"},
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if status.Status != constants.HealthStatusUnhealthy {
		t.Errorf("Status = %q, want unhealthy", status.Status)
	}
	if status.Checks["firestore"] != "deadline exceeded" {
		t.Errorf("firestore check = %q, want failure reason", status.Checks["firestore"])
	}
	if status.Checks["sheets"] != constants.HealthStatusHealthy {
		t.Errorf("sheets check = %q, want healthy", status.Checks["sheets"])
	}
}

func TestHandlerInfoEntries(t *testing.T) {
	h := NewHandler(stubChecker{name: "firestore"})
	h.AddInfo("write_concurrency", func() string { return "limit 10" })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: info entries never degrade health", rec.Code)
	}

	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if status.Checks["write_concurrency"] != "limit 10" {
		t.Errorf("write_concurrency = %q, want reported limit", status.Checks["write_concurrency"])
	}
	if status.Status != constants.HealthStatusHealthy {
		t.Errorf("Status = %q, want healthy", status.Status)
	}
}
