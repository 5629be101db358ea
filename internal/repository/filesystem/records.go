package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// RecordsRepository keeps one JSON record per (pipe, card) under root.
type RecordsRepository struct {
	root string
}

func NewRecordsRepository(root string) *RecordsRepository {
	return &RecordsRepository{root: root}
}

func (r *RecordsRepository) Path(pipeID, cardID domain.ID) string {
	if pipeID == "" {
		pipeID = domain.UnassignedPipe
	}

	return filepath.Join(r.root, pipeID.String(), cardID.String()+".json")
}

// SaveRecord writes the record next to its final path and renames it into place,
// so readers see either the previous record or the new one in full.
func (r *RecordsRepository) SaveRecord(ctx context.Context, record *domain.Record) error {
	if err := ctx.Err(); err != nil {
		return storageError(err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return storageError(fmt.Errorf("failed to marshal record: %w", err))
	}

	pipeID, cardID := record.Key()
	final := r.Path(pipeID, cardID)

	if err := os.MkdirAll(filepath.Dir(final), dirPerm); err != nil {
		return storageError(fmt.Errorf("failed to create record dir: %w", err))
	}

	staging := filepath.Join(filepath.Dir(final), fmt.Sprintf(".%s.%s.tmp", cardID, uuid.NewString()))

	if err := writeFileSync(staging, data); err != nil {
		_ = os.Remove(staging)
		return storageError(err)
	}

	if err := os.Rename(staging, final); err != nil {
		_ = os.Remove(staging)
		return storageError(fmt.Errorf("failed to move record into place: %w", err))
	}

	return nil
}

func writeFileSync(name string, data []byte) (err error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write staging file: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync staging file: %w", err)
	}

	return nil
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}
