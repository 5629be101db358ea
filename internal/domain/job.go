package domain

import (
	"fmt"
	"time"
)

// Job is the unit of work derived from one accepted webhook event. It lives for the
// duration of a single request.
type Job struct {
	ID         string
	CardID     ID
	CardTitle  string
	PipeID     ID
	URL        string
	State      State
	Attachment *Attachment
	Result     *AnalysisResult
	FailKind   Kind
	FailReason string
	StartedAt  time.Time
	FinishedAt *time.Time
}

func NewJob(event *WebhookEvent, now time.Time) *Job {
	card := event.Data.Card

	return &Job{
		ID:        fmt.Sprintf("%s-%d", card.ID, now.UnixNano()),
		CardID:    card.ID,
		CardTitle: card.Title,
		PipeID:    card.PipeID,
		URL:       card.AttachmentURL,
		State:     StateValidated,
		StartedAt: now,
	}
}

// Attachment is a downloaded file owned exclusively by one job.
type Attachment struct {
	Path      string
	Name      string
	MediaType string
	Size      int64
	PageCount int
}

// JobEntry is the journal view of a past job. It never carries the full failure
// text, only its kind.
type JobEntry struct {
	JobID      string     `json:"job_id"`
	CardID     ID         `json:"card_id"`
	PipeID     ID         `json:"pipe_id,omitempty"`
	State      State      `json:"state"`
	ErrorKind  Kind       `json:"error_kind,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
