package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/shreshta-sdc/shreshta-server/constants"
)

// Status is the health endpoint response.
type Status struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Memory    string            `json:"memory_usage"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

var startTime = time.Now()

// Handler serves the health endpoint, running every registered
// checker per request.
type Handler struct {
	checkers []Checker
	infos    map[string]func() string
}

// NewHandler creates a health handler.
func NewHandler(checkers ...Checker) *Handler {
	return &Handler{
		checkers: checkers,
		infos:    make(map[string]func() string),
	}
}

// AddInfo registers an informational entry for the checks map. Unlike
// a Checker it can never fail the endpoint; it reports runtime state
// such as the current write concurrency. Not safe to call once the
// handler is serving.
func (h *Handler) AddInfo(name string, fn func() string) {
	h.infos[name] = fn
}

// ServeHTTP reports overall health. Any failing checker makes the
// endpoint return 503 so the platform restarts or routes around us.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	status := Status{
		Status:    constants.HealthStatusHealthy,
		Timestamp: time.Now(),
		Uptime:    time.Since(startTime).String(),
		Version:   constants.ServerVersion,
		GoVersion: runtime.Version(),
		Memory:    fmt.Sprintf("%.2f MB", float64(memStats.Alloc)/constants.BytesToMB),
		Checks:    make(map[string]string),
	}

	code := http.StatusOK
	for _, c := range h.checkers {
		if err := c.Check(r.Context()); err != nil {
			status.Status = constants.HealthStatusUnhealthy
			status.Checks[c.Name()] = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			status.Checks[c.Name()] = constants.HealthStatusHealthy
		}
	}
	for name, fn := range h.infos {
		status.Checks[name] = fn()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

// FirestoreChecker verifies the store answers a read.
type FirestoreChecker struct {
	client *firestore.Client
}

// NewFirestoreChecker creates a Firestore probe.
func NewFirestoreChecker(client *firestore.Client) *FirestoreChecker {
	return &FirestoreChecker{client: client}
}

func (c *FirestoreChecker) Name() string { return "firestore" }

// Check issues a bounded single-document read.
func (c *FirestoreChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.FirestoreHealthCheckTimeout)
	defer cancel()

	iter := c.client.Collection(constants.HealthCheckCollectionName).Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err != nil && err != iterator.Done {
		return fmt.Errorf("firestore read failed: %w", err)
	}
	return nil
}
