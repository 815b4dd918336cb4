package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shreshta-sdc/shreshta-server/constants"
	apperrors "github.com/shreshta-sdc/shreshta-server/errors"
	"github.com/shreshta-sdc/shreshta-server/models"
	"github.com/shreshta-sdc/shreshta-server/performance"
	"github.com/shreshta-sdc/shreshta-server/recon"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

// handleStats serves the dashboard counters, cached briefly so the
// dashboard's polling does not fan out into Firestore reads.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if stats, ok := s.cache.GetStats(); ok {
		writeJSON(w, http.StatusOK, stats)
		return
	}

	all, err := s.storage.GetAllRegistrations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	stats := models.CountStats(all)
	s.cache.SetStats(stats)
	s.metrics.SendStatsMetric(stats.Total, stats.Pending, stats.Verified)
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("event")

	var regs []models.Registration
	var err error
	if eventID == "" {
		regs, err = s.storage.GetAllRegistrations(r.Context())
	} else {
		regs, err = s.storage.GetRegistrations(r.Context(), eventID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if regs == nil {
		regs = []models.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}

type statusUpdateRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	id := chi.URLParam(r, "id")

	var req statusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperrors.NewValidationError("BAD_BODY",
			fmt.Sprintf("invalid status body: %v", err), "Invalid request body."))
		return
	}
	if req.PaymentStatus != constants.PaymentStatusPending && req.PaymentStatus != constants.PaymentStatusCompleted {
		writeError(w, apperrors.NewValidationError("BAD_STATUS",
			fmt.Sprintf("unknown payment status %q", req.PaymentStatus),
			"Payment status must be pending or completed."))
		return
	}

	if err := s.storage.UpdatePaymentStatus(r.Context(), eventID, id, req.PaymentStatus); err != nil {
		writeError(w, err)
		return
	}

	s.cache.Invalidate()
	writeJSON(w, http.StatusOK, map[string]string{"paymentStatus": req.PaymentStatus})
}

// handleUpdateRegistration edits a record. A changed eventId moves it
// to the new event's subcollection.
func (s *Server) handleUpdateRegistration(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	id := chi.URLParam(r, "id")

	var reg models.Registration
	if err := decodeJSON(r, &reg); err != nil {
		writeError(w, apperrors.NewValidationError("BAD_BODY",
			fmt.Sprintf("invalid registration body: %v", err), "Invalid request body."))
		return
	}
	reg.ID = id
	if reg.EventID == "" {
		reg.EventID = eventID
	}

	updated, err := s.storage.UpdateRegistration(r.Context(), eventID, reg)
	if err != nil {
		writeError(w, err)
		return
	}

	s.cache.Invalidate()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRegistration(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	id := chi.URLParam(r, "id")

	if err := s.storage.DeleteRegistration(r.Context(), eventID, id); err != nil {
		writeError(w, err)
		return
	}

	s.cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// handleReconciliationScan extracts the uploaded bank statement and
// matches it against every pending registration. Read only: nothing
// is committed here, the operator reviews the matches first.
func (s *Server) handleReconciliationScan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(int64(constants.MaxStatementBytes) + (1 << 20)); err != nil {
		writeError(w, apperrors.NewValidationError("BAD_MULTIPART",
			fmt.Sprintf("failed to parse multipart form: %v", err), "Invalid statement upload."))
		return
	}

	file, _, err := r.FormFile("statement")
	if err != nil {
		writeError(w, apperrors.NewValidationError("STATEMENT_REQUIRED",
			"statement file missing", constants.MsgNotAPDF))
		return
	}
	defer file.Close()

	buf := performance.GetBuffer()
	defer performance.PutBuffer(buf)
	if _, err := io.Copy(buf, io.LimitReader(file, int64(constants.MaxStatementBytes)+1)); err != nil {
		writeError(w, apperrors.NewSystemError("STATEMENT_READ_FAILED", "failed to read statement", err))
		return
	}

	extractStart := time.Now()
	text, err := s.extractor.ExtractText(buf.Bytes())
	s.metrics.SendPerformanceMetric("statement_extract", time.Since(extractStart), err == nil)
	if err != nil {
		// Extraction failure is fatal to the run and must never look
		// like "0 matches".
		writeError(w, err)
		return
	}

	pending, ok := s.cache.GetPending()
	if !ok {
		pending, err = s.storage.GetPendingRegistrations(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		s.cache.SetPending(pending)
	}

	report := recon.Scan(pending, text)
	utils.Info("Reconciliation scan: %d/%d pending registrations matched",
		report.MatchedCount, report.TotalPending)
	s.metrics.SendReconciliationMetric(report.TotalPending, report.MatchedCount, 0, 0)

	writeJSON(w, http.StatusOK, report)
}

type commitRequest struct {
	Approved []recon.Approval `json:"approved"`
}

// handleReconciliationCommit marks operator-approved matches as
// completed. Partial failure is reported per record, never swallowed.
func (s *Server) handleReconciliationCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, apperrors.NewValidationError("BAD_BODY",
			fmt.Sprintf("invalid commit body: %v", err), "Invalid request body."))
		return
	}
	if len(req.Approved) == 0 {
		writeError(w, apperrors.NewValidationError("NOTHING_APPROVED",
			"empty approved list", "Approve at least one match before committing."))
		return
	}
	for i, a := range req.Approved {
		if a.ID == "" || a.EventID == "" {
			writeError(w, apperrors.NewValidationError("BAD_APPROVAL",
				fmt.Sprintf("approval %d missing id or eventId", i), "Invalid approval entry."))
			return
		}
	}

	commitStart := time.Now()
	result := s.committer.Commit(r.Context(), req.Approved)
	s.metrics.SendPerformanceMetric("bulk_verify", time.Since(commitStart), result.AllSucceeded())
	s.cache.Invalidate()
	s.metrics.SendReconciliationMetric(0, 0, len(result.Updated), len(result.Failed))

	response := map[string]interface{}{
		"updated": result.Updated,
		"failed":  result.Failed,
	}
	if !result.AllSucceeded() {
		response["message"] = fmt.Sprintf(constants.MsgPartialCommit, len(result.Updated), len(result.Failed))
		// Partial success still returns 200: the response body carries
		// the per-record attribution the operator acts on.
	}
	writeJSON(w, http.StatusOK, response)
}
