package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"

	"cloud.google.com/go/storage"
	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
	"google.golang.org/api/googleapi"
)

// RecordsRepository keeps one JSON object per (pipe, card) in a bucket. Objects
// become visible only once the writer is closed, so a failed upload never replaces
// the previous record.
type RecordsRepository struct {
	bucket *storage.BucketHandle
	prefix string
}

func NewRecordsRepository(client *storage.Client, bucket, prefix string) *RecordsRepository {
	return &RecordsRepository{
		bucket: client.Bucket(bucket),
		prefix: prefix,
	}
}

func ObjectName(prefix string, pipeID, cardID domain.ID) string {
	if pipeID == "" {
		pipeID = domain.UnassignedPipe
	}

	return path.Join(prefix, pipeID.String(), cardID.String()+".json")
}

func (r *RecordsRepository) SaveRecord(ctx context.Context, record *domain.Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return storageError(fmt.Errorf("failed to marshal record: %w", err))
	}

	pipeID, cardID := record.Key()
	name := ObjectName(r.prefix, pipeID, cardID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := r.bucket.Object(name).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		// cancelling before Close aborts the upload
		cancel()
		_ = w.Close()
		return storageError(fmt.Errorf("failed to write object %s: %w", name, err))
	}

	if err := w.Close(); err != nil {
		return storageError(fmt.Errorf("failed to finalize object %s: %w", name, describe(err)))
	}

	return nil
}

func describe(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusForbidden, http.StatusUnauthorized:
			return fmt.Errorf("permission denied: %w", err)
		case http.StatusNotFound:
			return fmt.Errorf("bucket not found: %w", err)
		}
	}

	return err
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}
