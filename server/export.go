package server

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/shreshta-sdc/shreshta-server/catalog"
	apperrors "github.com/shreshta-sdc/shreshta-server/errors"
	"github.com/shreshta-sdc/shreshta-server/models"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

// exportMemberColumns caps the per-member columns, matching the sheet
// the committee has always exported.
const exportMemberColumns = 5

var exportHeader = []string{
	"Team", "College", "Email",
	"M1", "M2", "M3", "M4", "M5",
	"Fee", "UTR", "Status", "Registered",
}

// maxSheetNameLen is the XLSX format's sheet name limit.
const maxSheetNameLen = 31

// handleExport streams an XLSX workbook with one sheet per event.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "xlsx" {
		writeError(w, apperrors.NewValidationError("BAD_FORMAT",
			fmt.Sprintf("unsupported export format %q", format), "Only xlsx export is supported."))
		return
	}

	eventFilter := r.URL.Query().Get("event")
	var events []models.Event
	if eventFilter == "" || eventFilter == "all" {
		events = catalog.All()
	} else {
		event, ok := catalog.ByID(eventFilter)
		if !ok {
			writeError(w, apperrors.NewNotFoundError("EVENT_NOT_FOUND",
				fmt.Sprintf("no event %q in catalog", eventFilter), "Event not found."))
			return
		}
		events = []models.Event{*event}
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, event := range events {
		regs, err := s.storage.GetRegistrations(r.Context(), event.ID)
		if err != nil {
			writeError(w, err)
			return
		}

		sheet := utils.TruncateString(event.Title, maxSheetNameLen)
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				writeError(w, apperrors.NewSystemError("EXPORT_FAILED", "failed to add sheet", err))
				return
			}
		}

		if err := writeEventSheet(f, sheet, regs); err != nil {
			writeError(w, apperrors.NewSystemError("EXPORT_FAILED", "failed to fill sheet", err))
			return
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.xlsx"`)
	if err := f.Write(w); err != nil {
		utils.Error("Failed to stream export workbook: %v", err)
	}
}

func writeEventSheet(f *excelize.File, sheet string, regs []models.Registration) error {
	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}

	for rowIdx, reg := range regs {
		row := []interface{}{
			fmt.Sprintf("Team #%d", reg.TeamNumber),
			reg.CollegeName,
			reg.Email,
		}
		for i := 0; i < exportMemberColumns; i++ {
			if i < len(reg.Members) {
				m := reg.Members[i]
				row = append(row, fmt.Sprintf("%s (%s)", m.Name, m.Phone))
			} else {
				row = append(row, "")
			}
		}
		row = append(row,
			reg.RegistrationFee,
			reg.UTRNumber,
			reg.PaymentStatus,
			utils.FormatRegisteredAt(reg.RegisteredAt),
		)

		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
