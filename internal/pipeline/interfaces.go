package pipeline

import (
	"context"

	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
)

type AttachmentFetcher interface {
	Fetch(ctx context.Context, job *domain.Job) (*domain.Attachment, error)
}

type DocumentInspector interface {
	Inspect(ctx context.Context, attachment *domain.Attachment) error
}

type DocumentAnalyzer interface {
	Analyze(ctx context.Context, attachment *domain.Attachment) (*domain.AnalysisResult, error)
}

type RecordSaver interface {
	SaveRecord(ctx context.Context, record *domain.Record) error
}

type JobTracker interface {
	TrackJob(ctx context.Context, job *domain.Job) error
}

// NopTracker is used when no job journal is configured.
type NopTracker struct{}

func (NopTracker) TrackJob(context.Context, *domain.Job) error {
	return nil
}
