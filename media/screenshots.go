// Package media stores payment screenshots in Cloud Storage.
package media

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/shreshta-sdc/shreshta-server/config"
	"github.com/shreshta-sdc/shreshta-server/constants"
	apperrors "github.com/shreshta-sdc/shreshta-server/errors"
	"github.com/shreshta-sdc/shreshta-server/interfaces"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ScreenshotStore uploads payment screenshots to a Cloud Storage
// bucket under registrations/{eventId}/{teamId}/screenshot.
type ScreenshotStore struct {
	client *gcs.Client
	bucket string
}

// NewScreenshotStore connects to the configured bucket.
func NewScreenshotStore(cfg *config.Config) (*ScreenshotStore, error) {
	if cfg.Firebase.StorageBucket == "" {
		return nil, fmt.Errorf("storage bucket not configured")
	}

	ctx := context.Background()
	client, err := gcs.NewClient(ctx, option.WithCredentialsJSON([]byte(cfg.Firebase.CredentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	utils.Info("Screenshot store initialized for bucket %s", cfg.Firebase.StorageBucket)
	return &ScreenshotStore{
		client: client,
		bucket: cfg.Firebase.StorageBucket,
	}, nil
}

// SaveScreenshot validates and uploads one screenshot, returning its
// public URL.
func (s *ScreenshotStore) SaveScreenshot(ctx context.Context, eventID, teamID string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", apperrors.NewValidationError("SCREENSHOT_REQUIRED",
			"empty screenshot upload", constants.MsgScreenshotRequired)
	}
	if len(data) > constants.MaxScreenshotBytes {
		return "", apperrors.NewValidationError("SCREENSHOT_TOO_LARGE",
			fmt.Sprintf("screenshot is %d bytes, limit %d", len(data), constants.MaxScreenshotBytes),
			constants.MsgScreenshotTooLarge)
	}
	if !allowedContentTypes[contentType] {
		return "", apperrors.NewValidationError("SCREENSHOT_BAD_TYPE",
			fmt.Sprintf("unsupported screenshot content type %q", contentType),
			"Screenshot must be a JPEG, PNG or WebP image.")
	}

	objectPath := fmt.Sprintf("%s/%s/%s/screenshot", constants.RegistrationsCollection, eventID, teamID)

	w := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", apperrors.NewStorageError("SCREENSHOT_UPLOAD_FAILED",
			fmt.Sprintf("failed to write screenshot for %s/%s", eventID, teamID), err)
	}
	if err := w.Close(); err != nil {
		return "", apperrors.NewStorageError("SCREENSHOT_UPLOAD_FAILED",
			fmt.Sprintf("failed to finalize screenshot for %s/%s", eventID, teamID), err)
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectPath)
	utils.Info("Saved screenshot for %s/%s (%d bytes)", eventID, teamID, len(data))
	return url, nil
}

// Close releases the storage client.
func (s *ScreenshotStore) Close() error {
	return s.client.Close()
}

var _ interfaces.ScreenshotStore = (*ScreenshotStore)(nil)
