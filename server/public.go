package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/shreshta-sdc/shreshta-server/catalog"
	"github.com/shreshta-sdc/shreshta-server/constants"
	apperrors "github.com/shreshta-sdc/shreshta-server/errors"
	"github.com/shreshta-sdc/shreshta-server/models"
	"github.com/shreshta-sdc/shreshta-server/performance"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

// handleListEvents serves the full catalog, optionally filtered by
// category.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		writeJSON(w, http.StatusOK, catalog.All())
		return
	}
	if !models.ValidCategory(category) {
		writeError(w, apperrors.NewValidationError("UNKNOWN_CATEGORY",
			fmt.Sprintf("unknown category %q", category), "Unknown event category."))
		return
	}
	writeJSON(w, http.StatusOK, catalog.ByCategory(category))
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	event, ok := catalog.ByID(eventID)
	if !ok {
		writeError(w, apperrors.NewNotFoundError("EVENT_NOT_FOUND",
			fmt.Sprintf("no event %q in catalog", eventID), "Event not found."))
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// teamSummary is the registered-teams widget payload. It exposes team
// labels only, never contact details.
type teamSummary struct {
	TeamNumber  int    `json:"teamNumber"`
	CollegeName string `json:"collegeName"`
	Verified    bool   `json:"verified"`
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if _, ok := catalog.ByID(eventID); !ok {
		writeError(w, apperrors.NewNotFoundError("EVENT_NOT_FOUND",
			fmt.Sprintf("no event %q in catalog", eventID), "Event not found."))
		return
	}

	regs, ok := s.cache.GetRegistrations(eventID)
	if !ok {
		var err error
		regs, err = s.storage.GetRegistrations(r.Context(), eventID)
		if err != nil {
			writeError(w, err)
			return
		}
		s.cache.SetRegistrations(eventID, regs)
	}

	teams := make([]teamSummary, 0, len(regs))
	for i := range regs {
		teams = append(teams, teamSummary{
			TeamNumber:  regs[i].TeamNumber,
			CollegeName: regs[i].CollegeName,
			Verified:    regs[i].IsVerified(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(teams),
		"teams": teams,
	})
}

// handleUPIQR renders the event's UPI payment link as a QR PNG.
func (s *Server) handleUPIQR(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	event, ok := catalog.ByID(eventID)
	if !ok {
		writeError(w, apperrors.NewNotFoundError("EVENT_NOT_FOUND",
			fmt.Sprintf("no event %q in catalog", eventID), "Event not found."))
		return
	}

	params := url.Values{}
	params.Set("pa", s.cfg.UPI.ID)
	params.Set("pn", s.cfg.UPI.Name)
	params.Set("am", event.FeeAmount())
	params.Set("cu", constants.UPICurrency)
	params.Set("tn", fmt.Sprintf("%s %s", constants.FestName, event.Title))
	upiLink := "upi://pay?" + params.Encode()

	png, err := qrcode.Encode(upiLink, qrcode.Medium, 256)
	if err != nil {
		writeError(w, apperrors.NewSystemError("QR_ENCODE_FAILED", "failed to encode UPI QR", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// registrationForm is the multipart registration submission.
type registrationForm struct {
	CollegeName string
	Email       string
	UTRNumber   string
	UserID      string
	Members     []models.Member
}

func parseRegistrationForm(r *http.Request) (*registrationForm, []byte, string, error) {
	if err := r.ParseMultipartForm(int64(constants.MaxScreenshotBytes) + (1 << 20)); err != nil {
		return nil, nil, "", apperrors.NewValidationError("BAD_MULTIPART",
			fmt.Sprintf("failed to parse multipart form: %v", err), "Invalid registration submission.")
	}

	form := &registrationForm{
		CollegeName: r.FormValue("collegeName"),
		Email:       r.FormValue("email"),
		UTRNumber:   r.FormValue("utrNumber"),
		UserID:      r.FormValue("userId"),
	}

	membersJSON := r.FormValue("members")
	if membersJSON == "" {
		return nil, nil, "", apperrors.NewValidationError("MEMBERS_REQUIRED",
			"members field missing", "Please fill in the team details.")
	}
	if err := json.Unmarshal([]byte(membersJSON), &form.Members); err != nil {
		return nil, nil, "", apperrors.NewValidationError("MEMBERS_INVALID",
			fmt.Sprintf("failed to decode members: %v", err), "Please fill in the team details.")
	}

	file, header, err := r.FormFile("screenshot")
	if err != nil {
		return nil, nil, "", apperrors.NewValidationError("SCREENSHOT_REQUIRED",
			"screenshot file missing", constants.MsgScreenshotRequired)
	}
	defer file.Close()

	if header.Size > int64(constants.MaxScreenshotBytes) {
		return nil, nil, "", apperrors.NewValidationError("SCREENSHOT_TOO_LARGE",
			fmt.Sprintf("screenshot is %d bytes", header.Size), constants.MsgScreenshotTooLarge)
	}

	buf := performance.GetBuffer()
	defer performance.PutBuffer(buf)
	if _, err := io.Copy(buf, io.LimitReader(file, int64(constants.MaxScreenshotBytes)+1)); err != nil {
		return nil, nil, "", apperrors.NewSystemError("SCREENSHOT_READ_FAILED", "failed to read screenshot", err)
	}
	if buf.Len() > constants.MaxScreenshotBytes {
		return nil, nil, "", apperrors.NewValidationError("SCREENSHOT_TOO_LARGE",
			fmt.Sprintf("screenshot exceeds %d bytes", constants.MaxScreenshotBytes), constants.MsgScreenshotTooLarge)
	}

	screenshot := make([]byte, buf.Len())
	copy(screenshot, buf.Bytes())

	return form, screenshot, header.Header.Get("Content-Type"), nil
}

func validateRegistrationForm(form *registrationForm, event *models.Event) error {
	if !utils.IsValidCollegeName(form.CollegeName) {
		return apperrors.NewValidationError("COLLEGE_INVALID",
			fmt.Sprintf("invalid college name %q", form.CollegeName), "Please enter a valid college name.")
	}
	if !utils.IsValidEmail(form.Email) {
		return apperrors.NewValidationError("EMAIL_INVALID",
			fmt.Sprintf("invalid email %q", form.Email), "Please enter a valid email address.")
	}
	if !utils.IsValidUTR(form.UTRNumber) {
		return apperrors.NewValidationError("UTR_INVALID",
			fmt.Sprintf("invalid UTR %q", form.UTRNumber), constants.MsgUTRRequired)
	}

	required := event.RequiredMembers()
	if len(form.Members) != required {
		return apperrors.NewValidationError("MEMBER_COUNT",
			fmt.Sprintf("got %d members, event needs %d", len(form.Members), required),
			fmt.Sprintf("This event needs exactly %d member(s).", required))
	}
	for i, m := range form.Members {
		if !utils.IsValidMemberName(m.Name) {
			return apperrors.NewValidationError("MEMBER_NAME_INVALID",
				fmt.Sprintf("invalid member %d name %q", i+1, m.Name),
				fmt.Sprintf("Member %d has an invalid name.", i+1))
		}
		if !utils.IsValidPhone(m.Phone) {
			return apperrors.NewValidationError("MEMBER_PHONE_INVALID",
				fmt.Sprintf("invalid member %d phone %q", i+1, m.Phone),
				fmt.Sprintf("Member %d has an invalid phone number.", i+1))
		}
	}

	for _, input := range []string{form.CollegeName, form.Email} {
		if utils.ContainsMaliciousPattern(input) {
			return apperrors.NewValidationError("INPUT_REJECTED",
				"malicious pattern in form input", "Submission contains disallowed content.")
		}
	}
	return nil
}

// handleRegister accepts a team registration, stores the screenshot
// and mirrors the record to the sheet.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	event, ok := catalog.ByID(eventID)
	if !ok {
		writeError(w, apperrors.NewNotFoundError("EVENT_NOT_FOUND",
			fmt.Sprintf("no event %q in catalog", eventID), "Event not found."))
		return
	}

	form, screenshot, contentType, err := parseRegistrationForm(r)
	if err != nil {
		s.metrics.SendRegistrationMetric(eventID, false)
		writeError(w, err)
		return
	}
	if err := validateRegistrationForm(form, event); err != nil {
		s.metrics.SendRegistrationMetric(eventID, false)
		writeError(w, err)
		return
	}

	reg := models.Registration{
		EventID:         event.ID,
		EventName:       event.Title,
		Category:        event.Category,
		Email:           utils.SanitizeString(form.Email),
		CollegeName:     utils.SanitizeString(form.CollegeName),
		RegistrationFee: event.RegistrationFee,
		UTRNumber:       form.UTRNumber,
		PaymentStatus:   constants.PaymentStatusPending,
		RegisteredAt:    time.Now(),
		UserID:          form.UserID,
	}
	for _, m := range form.Members {
		reg.Members = append(reg.Members, models.Member{
			Name:  utils.SanitizeString(m.Name),
			Phone: m.Phone,
		})
	}

	created, err := s.storage.CreateRegistration(r.Context(), reg)
	if err != nil {
		s.metrics.SendRegistrationMetric(eventID, false)
		writeError(w, err)
		return
	}

	teamID := fmt.Sprintf("%s-%d", created.EventID, created.TeamNumber)
	screenshotURL, err := s.screenshots.SaveScreenshot(r.Context(), created.EventID, teamID, screenshot, contentType)
	if err != nil {
		// Screenshot is mandatory: roll the record back rather than
		// keeping a registration the admins cannot verify.
		if delErr := s.storage.DeleteRegistration(r.Context(), created.EventID, created.ID); delErr != nil {
			utils.Error("Failed to roll back registration %s/%s: %v", created.EventID, created.ID, delErr)
		}
		s.metrics.SendRegistrationMetric(eventID, false)
		writeError(w, err)
		return
	}

	created.ScreenshotURL = screenshotURL
	if _, err := s.storage.UpdateRegistration(r.Context(), created.EventID, *created); err != nil {
		utils.Warn("Failed to attach screenshot URL to %s/%s: %v", created.EventID, created.ID, err)
	}

	s.cache.Invalidate()
	s.mirrorRegistration(*created)
	s.metrics.SendRegistrationMetric(eventID, true)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"registration": created,
		"message":      fmt.Sprintf(constants.MsgRegistrationSuccess, created.TeamNumber, created.EventName),
	})
}

// mirrorRegistration appends the record to the sheet mirror. Best
// effort: failures are logged and never fail the registration.
func (s *Server) mirrorRegistration(reg models.Registration) {
	if s.mirror == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mirror.AppendRegistration(ctx, reg); err != nil {
			utils.Warn("Sheet mirror append failed for %s: %v", reg.TeamLabel(), err)
		}
	}()
}
