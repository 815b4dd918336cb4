package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shreshta-sdc/shreshta-server/cache"
	"github.com/shreshta-sdc/shreshta-server/config"
	"github.com/shreshta-sdc/shreshta-server/constants"
	apperrors "github.com/shreshta-sdc/shreshta-server/errors"
	"github.com/shreshta-sdc/shreshta-server/models"
	"github.com/shreshta-sdc/shreshta-server/recon"
	"github.com/shreshta-sdc/shreshta-server/storage"
	"github.com/shreshta-sdc/shreshta-server/telemetry"
)

const testPIN = "6565"

type fakeScreenshots struct {
	saved map[string][]byte
	err   error
}

func (f *fakeScreenshots) SaveScreenshot(ctx context.Context, eventID, teamID string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	key := eventID + "/" + teamID
	f.saved[key] = data
	return "https://example.invalid/" + key, nil
}

type fakeMirror struct {
	appended []models.Registration
}

func (f *fakeMirror) AppendRegistration(ctx context.Context, reg models.Registration) error {
	f.appended = append(f.appended, reg)
	return nil
}

func (f *fakeMirror) AppendDailySummary(ctx context.Context, stats models.Stats) error {
	return nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func newTestServer(store *storage.InMemoryStorage, extractor *fakeExtractor) (*Server, *fakeScreenshots) {
	screenshots := &fakeScreenshots{}
	if extractor == nil {
		extractor = &fakeExtractor{}
	}
	cfg := &config.Config{
		Server: config.ServerConfig{Port: constants.DefaultHTTPPort},
		Admin:  config.AdminConfig{PIN: testPIN},
		UPI:    config.UPIConfig{ID: constants.DefaultUPIID, Name: constants.DefaultUPIName},
	}
	s := New(Options{
		Config:      cfg,
		Storage:     store,
		Screenshots: screenshots,
		Extractor:   extractor,
		Cache:       cache.NewDashboardCache(),
		Metrics:     telemetry.NewMetricsClient(""),
	})
	return s, screenshots
}

func adminRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(AdminPinHeader, testPIN)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func seedPending(t *testing.T, store *storage.InMemoryStorage, eventID, utr string) *models.Registration {
	t.Helper()
	created, err := store.CreateRegistration(context.Background(), models.Registration{
		EventID:       eventID,
		EventName:     "Event " + eventID,
		Email:         "team@example.com",
		CollegeName:   "Test College",
		Members:       []models.Member{{Name: "Asha", Phone: "9876543210"}},
		UTRNumber:     utr,
		PaymentStatus: constants.PaymentStatusPending,
	})
	if err != nil {
		t.Fatalf("seed registration failed: %v", err)
	}
	return created
}

func TestListEvents(t *testing.T) {
	s, _ := newTestServer(storage.NewInMemoryStorage(), nil)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var events []models.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("catalog is empty")
	}
}

func TestGetEventNotFound(t *testing.T) {
	s, _ := newTestServer(storage.NewInMemoryStorage(), nil)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/no-such-event", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUPIQRServesPNG(t *testing.T) {
	s, _ := newTestServer(storage.NewInMemoryStorage(), nil)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/e-sports/qr", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}

func registrationBody(t *testing.T, members string, screenshot []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"collegeName": "Test College",
		"email":       "team@example.com",
		"utrNumber":   "123456789012",
		"userId":      "firebase-uid-1",
		"members":     members,
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s) failed: %v", k, err)
		}
	}

	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="screenshot"; filename="screenshot.png"`}
	hdr["Content-Type"] = []string{"image/png"}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("CreatePart failed: %v", err)
	}
	part.Write(screenshot)
	mw.Close()

	return &buf, mw.FormDataContentType()
}

func TestRegisterHappyPath(t *testing.T) {
	store := storage.NewInMemoryStorage()
	s, screenshots := newTestServer(store, nil)
	s.mirror = &fakeMirror{}

	// e-sports is a squad event needing 4 members.
	members := `[{"name":"Asha","phone":"9876543210"},{"name":"Kiran","phone":"9876543211"},{"name":"Ravi","phone":"9876543212"},{"name":"Devi","phone":"9876543213"}]`
	body, contentType := registrationBody(t, members, []byte("fake png bytes"))

	req := httptest.NewRequest(http.MethodPost, "/api/events/e-sports/registrations", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Registration models.Registration `json:"registration"`
		Message      string              `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Registration.TeamNumber != 1 {
		t.Errorf("TeamNumber = %d, want 1", resp.Registration.TeamNumber)
	}
	if resp.Registration.PaymentStatus != constants.PaymentStatusPending {
		t.Errorf("PaymentStatus = %q, want pending", resp.Registration.PaymentStatus)
	}
	if len(screenshots.saved) != 1 {
		t.Errorf("len(saved screenshots) = %d, want 1", len(screenshots.saved))
	}

	stored, _ := store.GetRegistrations(context.Background(), "e-sports")
	if len(stored) != 1 {
		t.Fatalf("store has %d registrations, want 1", len(stored))
	}
	if stored[0].ScreenshotURL == "" {
		t.Error("stored registration has no screenshot URL")
	}
}

func TestRegisterWrongMemberCount(t *testing.T) {
	store := storage.NewInMemoryStorage()
	s, _ := newTestServer(store, nil)

	members := `[{"name":"Asha","phone":"9876543210"}]`
	body, contentType := registrationBody(t, members, []byte("png"))

	req := httptest.NewRequest(http.MethodPost, "/api/events/e-sports/registrations", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	all, _ := store.GetAllRegistrations(context.Background())
	if len(all) != 0 {
		t.Errorf("rejected registration was stored")
	}
}

func TestRegisterScreenshotFailureRollsBack(t *testing.T) {
	store := storage.NewInMemoryStorage()
	s, screenshots := newTestServer(store, nil)
	screenshots.err = errors.New("bucket unavailable")

	members := `[{"name":"Asha","phone":"9876543210"},{"name":"Kiran","phone":"9876543211"},{"name":"Ravi","phone":"9876543212"},{"name":"Devi","phone":"9876543213"}]`
	body, contentType := registrationBody(t, members, []byte("png"))

	req := httptest.NewRequest(http.MethodPost, "/api/events/e-sports/registrations", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code == http.StatusCreated {
		t.Fatal("registration succeeded despite screenshot failure")
	}
	all, _ := store.GetAllRegistrations(context.Background())
	if len(all) != 0 {
		t.Errorf("store has %d registrations after rollback, want 0", len(all))
	}
}

func TestAdminRequiresPIN(t *testing.T) {
	s, _ := newTestServer(storage.NewInMemoryStorage(), nil)

	tests := []struct {
		name string
		pin  string
		want int
	}{
		{"missing", "", http.StatusForbidden},
		{"wrong", "0000", http.StatusForbidden},
		{"correct", testPIN, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			if tt.pin != "" {
				req.Header.Set(AdminPinHeader, tt.pin)
			}
			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAdminStats(t *testing.T) {
	store := storage.NewInMemoryStorage()
	s, _ := newTestServer(store, nil)

	a := seedPending(t, store, "e-sports", "111122223333")
	seedPending(t, store, "pratyaya", "444455556666")
	store.UpdatePaymentStatus(context.Background(), "e-sports", a.ID, constants.PaymentStatusCompleted)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, adminRequest(http.MethodGet, "/api/admin/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats models.Stats
	json.Unmarshal(rec.Body.Bytes(), &stats)
	if stats.Total != 2 || stats.Verified != 1 || stats.Pending != 1 {
		t.Errorf("stats = %+v, want total 2 / verified 1 / pending 1", stats)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	store := storage.NewInMemoryStorage()
	s, _ := newTestServer(store, nil)
	reg := seedPending(t, store, "e-sports", "111122223333")

	target := fmt.Sprintf("/api/admin/registrations/e-sports/%s/status", reg.ID)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, adminRequest(http.MethodPatch, target,
		bytes.NewBufferString(`{"paymentStatus":"refunded"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status accepted: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, adminRequest(http.MethodPatch, target,
		bytes.NewBufferString(`{"paymentStatus":"completed"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	stored, _ := store.GetRegistrations(context.Background(), "e-sports")
	if stored[0].PaymentStatus != constants.PaymentStatusCompleted {
		t.Errorf("stored status = %q, want completed", stored[0].PaymentStatus)
	}
}

func TestReconciliationScan(t *testing.T) {
	store := storage.NewInMemoryStorage()
	matched := seedPending(t, store, "e-sports", "111122223333")
	seedPending(t, store, "pratyaya", "999988887777")

	s, _ := newTestServer(store, &fakeExtractor{text: "UPI/CR/1111 2222 3333/AXIS"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("statement", "statement.pdf")
	part.Write([]byte("%PDF-1.4 irrelevant, extractor is faked"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reconciliation/scan", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(AdminPinHeader, testPIN)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var report recon.ScanReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.TotalPending != 2 {
		t.Errorf("TotalPending = %d, want 2", report.TotalPending)
	}
	if len(report.Matches) != 1 || report.Matches[0].ID != matched.ID {
		t.Errorf("Matches = %+v, want single match for %s", report.Matches, matched.ID)
	}
	if report.MatchedCount != 1 || report.StillPending != 1 {
		t.Errorf("counts = %d matched / %d pending, want 1/1",
			report.MatchedCount, report.StillPending)
	}
}

func TestReconciliationScanServesCachedPending(t *testing.T) {
	store := storage.NewInMemoryStorage()
	seedPending(t, store, "e-sports", "111122223333")

	s, _ := newTestServer(store, &fakeExtractor{text: "no references here"})

	scan := func() recon.ScanReport {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, _ := mw.CreateFormFile("statement", "statement.pdf")
		part.Write([]byte("%PDF-1.4 irrelevant, extractor is faked"))
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/admin/reconciliation/scan", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set(AdminPinHeader, testPIN)

		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		var report recon.ScanReport
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		return report
	}

	if got := scan().TotalPending; got != 1 {
		t.Fatalf("first scan TotalPending = %d, want 1", got)
	}

	// A write that sidesteps the handlers (and their cache
	// invalidation) must not surface until the pending entry expires.
	seedPending(t, store, "pratyaya", "999988887777")
	if got := scan().TotalPending; got != 1 {
		t.Errorf("second scan TotalPending = %d, want 1 from cache", got)
	}
}

func TestReconciliationScanExtractionFailure(t *testing.T) {
	store := storage.NewInMemoryStorage()
	seedPending(t, store, "e-sports", "111122223333")

	s, _ := newTestServer(store, nil)
	s.extractor = &fakeExtractor{err: apperrors.NewExtractionError("STATEMENT_NOT_PDF",
		"statement upload is not a PDF", constants.MsgNotAPDF, nil)}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("statement", "statement.txt")
	part.Write([]byte("not a pdf"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reconciliation/scan", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(AdminPinHeader, testPIN)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	// Extraction failure must never read as a successful zero-match
	// scan.
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	var resp ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != "STATEMENT_NOT_PDF" {
		t.Errorf("error code = %q, want STATEMENT_NOT_PDF", resp.Code)
	}
}

func TestReconciliationCommitPartialFailure(t *testing.T) {
	store := storage.NewInMemoryStorage()
	good := seedPending(t, store, "e-sports", "111122223333")
	bad := seedPending(t, store, "e-sports", "444455556666")
	store.FailStatusUpdate("e-sports", bad.ID, errors.New("simulated outage"))

	s, _ := newTestServer(store, nil)

	payload := fmt.Sprintf(`{"approved":[{"id":%q,"eventId":"e-sports"},{"id":%q,"eventId":"e-sports"}]}`,
		good.ID, bad.ID)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/reconciliation/commit",
		bytes.NewBufferString(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Updated []recon.Approval      `json:"updated"`
		Failed  []recon.CommitFailure `json:"failed"`
		Message string                `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Updated) != 1 || resp.Updated[0].ID != good.ID {
		t.Errorf("Updated = %+v, want just %s", resp.Updated, good.ID)
	}
	if len(resp.Failed) != 1 || resp.Failed[0].ID != bad.ID {
		t.Errorf("Failed = %+v, want just %s", resp.Failed, bad.ID)
	}
	if resp.Message == "" {
		t.Error("partial failure carries no operator message")
	}
}

func TestReconciliationCommitEmptyRejected(t *testing.T) {
	s, _ := newTestServer(storage.NewInMemoryStorage(), nil)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, adminRequest(http.MethodPost, "/api/admin/reconciliation/commit",
		bytes.NewBufferString(`{"approved":[]}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteRegistration(t *testing.T) {
	store := storage.NewInMemoryStorage()
	s, _ := newTestServer(store, nil)
	reg := seedPending(t, store, "e-sports", "111122223333")

	target := fmt.Sprintf("/api/admin/registrations/e-sports/%s", reg.ID)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, adminRequest(http.MethodDelete, target, nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	all, _ := store.GetAllRegistrations(context.Background())
	if len(all) != 0 {
		t.Errorf("store has %d registrations after delete, want 0", len(all))
	}
}

func TestExportXLSX(t *testing.T) {
	store := storage.NewInMemoryStorage()
	s, _ := newTestServer(store, nil)
	seedPending(t, store, "e-sports", "111122223333")

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, adminRequest(http.MethodGet, "/api/admin/export?format=xlsx&event=e-sports", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	// XLSX files are ZIP archives.
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("export body is not an XLSX archive")
	}
}

func TestConcurrencySummary(t *testing.T) {
	s, _ := newTestServer(storage.NewInMemoryStorage(), nil)

	summary := s.ConcurrencySummary()
	want := fmt.Sprintf("limit %d", constants.MaxConcurrentUpdates)
	if !strings.Contains(summary, want) {
		t.Errorf("summary %q missing %q", summary, want)
	}
	if !strings.Contains(summary, "0 samples") {
		t.Errorf("summary %q should report zero samples before any commit", summary)
	}
}
