// Package screenshot owns the upload-validate-store-compress-record pipeline
// for desktop monitoring screenshots.
package screenshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"time-tracker/internal/blob"
	"time-tracker/internal/storage"
)

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrTimeEntryNotFound  = errors.New("time entry not found or doesn't belong to employee")
	ErrNotAnImage         = errors.New("file must be an image")
	ErrFormatNotAllowed   = errors.New("file format not allowed")
	ErrTooLarge           = errors.New("file size exceeds maximum allowed size")
	ErrScreenshotNotFound = errors.New("screenshot not found")
	ErrFileMissing        = errors.New("screenshot file not found on disk")
	ErrProcessing         = errors.New("error processing screenshot")
)

// Config bounds the pipeline. Passed in explicitly so tests can run with
// their own limits.
type Config struct {
	// MaxSize is the upload byte limit.
	MaxSize int64
	// JPEGQuality is the re-encode quality applied to JPEG uploads.
	JPEGQuality int
	// AllowedFormats lists accepted filename extensions without the dot.
	AllowedFormats []string
}

// UploadRequest is a fully buffered upload. Content is in hand before any
// validation runs, bounding worst-case blocking to MaxSize.
type UploadRequest struct {
	EmployeeID        int64
	TimeEntryID       *int64
	Filename          string
	ContentType       string
	Content           []byte
	PermissionGranted bool
	DeviceInfo        *string
}

type Ingestor struct {
	store storage.Provider
	blobs blob.Store
	cfg   Config

	// now is swappable for tests.
	now func() time.Time

	logger *slog.Logger
}

func NewIngestor(store storage.Provider, blobs blob.Store, cfg Config) *Ingestor {
	return &Ingestor{
		store:  store,
		blobs:  blobs,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
		logger: slog.With("component", "screenshots"),
	}
}

// Upload validates and persists one screenshot. Validation short-circuits on
// the first failure; nothing is written before all checks pass. If anything
// fails after the blob write, the blob is deleted before the error surfaces,
// so a failed ingest never leaves an orphaned file.
func (i *Ingestor) Upload(ctx context.Context, req UploadRequest) (*storage.Screenshot, error) {
	if _, err := i.store.GetEmployee(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	if req.TimeEntryID != nil {
		if _, err := i.store.GetEmployeeTimeEntry(ctx, *req.TimeEntryID, req.EmployeeID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, ErrTimeEntryNotFound
			}
			return nil, err
		}
	}

	if !strings.HasPrefix(req.ContentType, "image/") {
		return nil, ErrNotAnImage
	}

	if int64(len(req.Content)) > i.cfg.MaxSize {
		return nil, fmt.Errorf("%w of %d bytes", ErrTooLarge, i.cfg.MaxSize)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.Filename), "."))
	if !slices.Contains(i.cfg.AllowedFormats, ext) {
		return nil, fmt.Errorf("%w, allowed formats: %v", ErrFormatNotAllowed, i.cfg.AllowedFormats)
	}

	// Storage name is unrelated to the database primary key.
	name := fmt.Sprintf("%s.%s", uuid.New().String(), ext)

	if err := i.blobs.Write(name, req.Content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	screenshot, err := i.finishUpload(ctx, req, name)
	if err != nil {
		// Compensating action: no orphaned blobs survive a failed ingest.
		if cleanupErr := i.blobs.Delete(name); cleanupErr != nil {
			i.logger.Error("Failed to clean up blob after failed ingest", "name", name, "error", cleanupErr)
		}
		i.logger.Error("Error uploading screenshot", "name", name, "error", err)
		return nil, err
	}

	i.logger.Info("Screenshot uploaded", "employee_id", req.EmployeeID, "file", name, "size", screenshot.FileSize)

	return screenshot, nil
}

// finishUpload runs the post-write stages: metadata extraction, JPEG
// re-encode and the metadata row insert.
func (i *Ingestor) finishUpload(ctx context.Context, req UploadRequest, name string) (*storage.Screenshot, error) {
	img, format, err := image.Decode(bytes.NewReader(req.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	finalSize := int64(len(req.Content))

	if format == "jpeg" {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: i.cfg.JPEGQuality}); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
		}
		if err := i.blobs.Write(name, buf.Bytes()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
		}
		finalSize = int64(buf.Len())
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	imgFormat := strings.ToUpper(format)

	screenshot := &storage.Screenshot{
		EmployeeID:        req.EmployeeID,
		TimeEntryID:       req.TimeEntryID,
		Filename:          name,
		FilePath:          i.blobs.Path(name),
		FileSize:          finalSize,
		Timestamp:         i.now(),
		PermissionGranted: req.PermissionGranted,
		Width:             &width,
		Height:            &height,
		Format:            &imgFormat,
		DeviceInfo:        req.DeviceInfo,
	}

	if err := i.store.CreateScreenshot(ctx, screenshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	return screenshot, nil
}

func (i *Ingestor) Get(ctx context.Context, id int64) (*storage.Screenshot, error) {
	screenshot, err := i.store.GetScreenshot(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrScreenshotNotFound
	}
	return screenshot, err
}

func (i *Ingestor) List(ctx context.Context, filter storage.ScreenshotFilter) ([]storage.Screenshot, error) {
	return i.store.ListScreenshots(ctx, filter)
}

// Bytes returns the metadata row, the stored image and its media type. A row
// whose blob is gone is reported as ErrFileMissing, distinct from a missing row.
func (i *Ingestor) Bytes(ctx context.Context, id int64) (*storage.Screenshot, []byte, string, error) {
	screenshot, err := i.Get(ctx, id)
	if err != nil {
		return nil, nil, "", err
	}

	content, err := i.blobs.Read(screenshot.Filename)
	if errors.Is(err, blob.ErrBlobNotFound) {
		return nil, nil, "", ErrFileMissing
	} else if err != nil {
		return nil, nil, "", err
	}

	mediaType := "application/octet-stream"
	if screenshot.Format != nil {
		mediaType = "image/" + strings.ToLower(*screenshot.Format)
	}

	return screenshot, content, mediaType, nil
}

// Delete removes the blob best-effort and the metadata row unconditionally.
// A filesystem error must not block the metadata removal.
func (i *Ingestor) Delete(ctx context.Context, id int64) error {
	screenshot, err := i.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := i.blobs.Delete(screenshot.Filename); err != nil {
		i.logger.Error("Error deleting screenshot file", "file", screenshot.Filename, "error", err)
	}

	if err := i.store.DeleteScreenshot(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrScreenshotNotFound
		}
		return err
	}

	i.logger.Info("Deleted screenshot", "id", id, "file", screenshot.Filename)

	return nil
}
