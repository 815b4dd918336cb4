package interfaces

import "context"

// ScreenshotStore persists payment screenshots and returns a URL the
// admin dashboard can display.
type ScreenshotStore interface {
	SaveScreenshot(ctx context.Context, eventID, teamID string, data []byte, contentType string) (string, error)
}
