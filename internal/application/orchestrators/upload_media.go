package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"emerald/internal/adapters/objectstore"
	domainevent "emerald/internal/domain/event"
	"emerald/internal/domain/media"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MediaStoreForUpload defines the store interface needed by UploadMedia.
type MediaStoreForUpload interface {
	Save(ctx context.Context, m media.Media) error
}

// EventStoreForUpload defines the event lookup needed by UploadMedia.
type EventStoreForUpload interface {
	GetByID(ctx context.Context, id string) (domainevent.Event, error)
}

// UploadFile is one file from the admin upload form.
type UploadFile struct {
	Filename string
	Data     []byte
	Caption  string
}

// UploadMediaInput carries input for the upload orchestrator.
type UploadMediaInput struct {
	EventID string
	Files   []UploadFile
}

// UploadMediaDeps holds dependencies for UploadMedia.
type UploadMediaDeps struct {
	EventStore  EventStoreForUpload
	MediaStore  MediaStoreForUpload
	ObjectStore objectstore.Store
}

// FileResult reports the outcome for one file in the batch.
type FileResult struct {
	Filename string
	MediaID  string // empty on failure
	Err      error  // nil on success
}

// UploadMediaResult carries per-file outcomes in submission order.
type UploadMediaResult struct {
	Results  []FileResult
	Uploaded int
	Failed   int
}

var (
	ErrUnknownEvent    = errors.New("event does not exist")
	ErrNoFiles         = errors.New("no files selected")
	ErrUnsupportedFile = errors.New("file is not an image or video")
)

// ExecuteUploadMedia stores each file in object storage and writes a media
// row referencing its public URL. Files are processed independently in
// submission order: a failure on one file never blocks the rest of the
// batch, and a storage success paired with a row-insert failure is
// reported per file rather than rolled back.
// PRE: EventID names an existing event; Files is non-empty
// POST: one media row per successful file; Results has one entry per file
func ExecuteUploadMedia(ctx context.Context, input UploadMediaInput, deps UploadMediaDeps) (UploadMediaResult, error) {
	if len(input.Files) == 0 {
		return UploadMediaResult{}, ErrNoFiles
	}
	if _, err := deps.EventStore.GetByID(ctx, input.EventID); err != nil {
		return UploadMediaResult{}, ErrUnknownEvent
	}

	var result UploadMediaResult
	for _, file := range input.Files {
		id, err := uploadOne(ctx, input.EventID, file, deps)
		fr := FileResult{Filename: file.Filename, MediaID: id, Err: err}
		if err != nil {
			result.Failed++
			slog.Error("media_upload_failed", "event_id", input.EventID, "filename", file.Filename, "error", err)
		} else {
			result.Uploaded++
			slog.Info("media_uploaded", "event_id", input.EventID, "filename", file.Filename, "media_id", id)
		}
		result.Results = append(result.Results, fr)
	}
	return result, nil
}

// uploadOne runs the storage-upload-then-row-insert sequence for one file.
func uploadOne(ctx context.Context, eventID string, file UploadFile, deps UploadMediaDeps) (string, error) {
	kind, err := detectKind(file.Data)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := fmt.Sprintf("%s/%s%s", eventID, id, ext)

	url, err := deps.ObjectStore.Upload(ctx, key, file.Data)
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %w", err)
	}

	m := media.Media{
		ID:          id,
		EventID:     eventID,
		Name:        filepath.Base(file.Filename),
		URL:         url,
		StoragePath: key,
		Kind:        kind,
		Caption:     strings.TrimSpace(file.Caption),
		Visible:     true,
		CreatedAt:   time.Now(),
	}
	if err := m.Validate(); err != nil {
		return "", err
	}
	if err := deps.MediaStore.Save(ctx, m); err != nil {
		// The stored object is now orphaned; the row insert failed after
		// the upload succeeded. Reported, not rolled back.
		return "", fmt.Errorf("media row insert failed after upload (orphaned object %s): %w", key, err)
	}
	return id, nil
}

// detectKind sniffs the file bytes and maps them to a media kind.
func detectKind(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	switch {
	case strings.HasPrefix(mt.String(), "image/"):
		return media.KindImage, nil
	case strings.HasPrefix(mt.String(), "video/"):
		return media.KindVideo, nil
	default:
		return "", fmt.Errorf("%w: detected %s", ErrUnsupportedFile, mt.String())
	}
}
