// Package sheets mirrors registrations to a Google Sheet as a backup
// readable outside the Firestore console.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shreshta-sdc/shreshta-server/config"
	"github.com/shreshta-sdc/shreshta-server/models"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

// Client appends rows to the configured spreadsheet. The service
// account behind the Firebase credentials must have edit access to
// the sheet.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	appendRange   string
	summaryRange  string
}

// NewClient creates a Sheets client from the Firebase service account.
func NewClient(cfg *config.Config) (*Client, error) {
	ctx := context.Background()

	if cfg.Firebase.CredentialsJSON == "" {
		return nil, fmt.Errorf("Google credentials not available")
	}
	if cfg.Sheets.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID not configured")
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON([]byte(cfg.Firebase.CredentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	utils.Info("Google Sheets client initialized successfully")
	return &Client{
		service:       service,
		spreadsheetID: cfg.Sheets.SpreadsheetID,
		appendRange:   cfg.Sheets.AppendRange,
		summaryRange:  cfg.Sheets.SummaryRange,
	}, nil
}

// AppendRegistration appends one registration as a row. Column layout
// matches the sheet the organizing committee already uses:
// timestamp, team, event, category, email, college, members, phones,
// fee, UTR, status, screenshot URL.
func (c *Client) AppendRegistration(ctx context.Context, reg models.Registration) error {
	names := make([]string, 0, len(reg.Members))
	phones := make([]string, 0, len(reg.Members))
	for _, m := range reg.Members {
		names = append(names, m.Name)
		phones = append(phones, m.Phone)
	}

	row := []interface{}{
		utils.FormatRegisteredAt(reg.RegisteredAt),
		reg.TeamLabel(),
		reg.EventID,
		reg.Category,
		reg.Email,
		reg.CollegeName,
		strings.Join(names, ", "),
		strings.Join(phones, ", "),
		reg.RegistrationFee,
		reg.UTRNumber,
		reg.PaymentStatus,
		reg.ScreenshotURL,
	}

	return c.appendRow(ctx, c.appendRange, row)
}

// AppendDailySummary appends one row of fest-wide counters.
func (c *Client) AppendDailySummary(ctx context.Context, stats models.Stats) error {
	row := []interface{}{
		utils.FormatDateTime(utils.GetCurrentTimeIST()),
		stats.Total,
		stats.Verified,
		stats.Pending,
	}
	return c.appendRow(ctx, c.summaryRange, row)
}

func (c *Client) appendRow(ctx context.Context, appendRange string, row []interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}

	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, appendRange, valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to spreadsheet: %w", err)
	}

	utils.Debug("Appended row to %s", appendRange)
	return nil
}
