package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/kurochkinivan/attachment_analyzer/internal/pipeline"

// journalTimeout bounds a journal write once it is detached from the request.
const journalTimeout = 5 * time.Second

// Request is one inbound webhook call as seen by the orchestrator.
type Request struct {
	Authorization string
	Body          io.Reader
}

// Outcome describes where a request ended up. Reason is only set for skipped events.
type Outcome struct {
	State  domain.State
	Kind   domain.Kind
	JobID  string
	CardID domain.ID
	Reason string
}

type Orchestrator struct {
	log       *slog.Logger
	tracer    trace.Tracer
	version   string
	guard     *AuthGuard
	validator *Validator
	fetcher   AttachmentFetcher
	inspector DocumentInspector
	analyzer  DocumentAnalyzer
	records   RecordSaver
	jobs      JobTracker
	now       func() time.Time
}

func NewOrchestrator(
	log *slog.Logger,
	version string,
	guard *AuthGuard,
	validator *Validator,
	fetcher AttachmentFetcher,
	inspector DocumentInspector,
	analyzer DocumentAnalyzer,
	records RecordSaver,
	jobs JobTracker,
) *Orchestrator {
	return &Orchestrator{
		log:       log,
		tracer:    otel.Tracer(tracerName),
		version:   version,
		guard:     guard,
		validator: validator,
		fetcher:   fetcher,
		inspector: inspector,
		analyzer:  analyzer,
		records:   records,
		jobs:      jobs,
		now:       time.Now,
	}
}

// Process runs one webhook request through the pipeline. A non-nil error always comes
// with an outcome in the failed state; the error wraps one of the domain sentinels.
func (o *Orchestrator) Process(ctx context.Context, req Request) (*Outcome, error) {
	ctx, span := o.tracer.Start(ctx, "webhook.process")
	defer span.End()

	log := o.log
	state := domain.StateReceived

	if err := o.guard.Admit(req.Authorization); err != nil {
		return o.reject(ctx, span, log, state, "authenticate", err)
	}
	state = changeState(ctx, log, state, domain.StateAuthenticated)

	verdict, err := o.validator.Validate(req.Body)
	if err != nil {
		return o.reject(ctx, span, log, state, "validate", err)
	}

	event := verdict.Event
	log = log.With(slog.String("card_id", event.Data.Card.ID.String()))
	span.SetAttributes(attribute.String("card.id", event.Data.Card.ID.String()))
	state = changeState(ctx, log, state, domain.StateValidated)

	if !verdict.Applicable {
		changeState(ctx, log, state, domain.StateSkipped)
		log.InfoContext(ctx, "event skipped", slog.String("reason", verdict.Reason))

		return &Outcome{
			State:  domain.StateSkipped,
			CardID: event.Data.Card.ID,
			Reason: verdict.Reason,
		}, nil
	}

	job := domain.NewJob(event, o.now())
	log = log.With(slog.String("job_id", job.ID))
	span.SetAttributes(attribute.String("job.id", job.ID))

	log.InfoContext(ctx, "event accepted",
		slog.String("pipe_id", job.PipeID.String()),
		slog.String("card_title", job.CardTitle),
	)

	err = o.run(ctx, log, job)
	o.finish(ctx, log, job, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(job.FailKind))

		return &Outcome{State: domain.StateFailed, Kind: job.FailKind, JobID: job.ID, CardID: job.CardID}, err
	}

	return &Outcome{State: domain.StateCompleted, JobID: job.ID, CardID: job.CardID}, nil
}

func (o *Orchestrator) run(ctx context.Context, log *slog.Logger, job *domain.Job) error {
	o.transition(ctx, log, job, domain.StateFetching)
	o.track(ctx, log, job)

	attachment, err := stage(ctx, o.tracer, log, "fetch", domain.ErrDownload, func(ctx context.Context) (*domain.Attachment, error) {
		return o.fetcher.Fetch(ctx, job)
	})
	if err != nil {
		return err
	}
	defer releaseAttachment(ctx, log, attachment)

	job.Attachment = attachment
	log.InfoContext(ctx, "attachment downloaded",
		slog.String("path", attachment.Path),
		slog.String("media_type", attachment.MediaType),
		slog.Int64("size", attachment.Size),
	)

	o.transition(ctx, log, job, domain.StateAnalyzing)

	result, err := stage(ctx, o.tracer, log, "analyze", domain.ErrAnalysis, func(ctx context.Context) (*domain.AnalysisResult, error) {
		if err := o.inspector.Inspect(ctx, attachment); err != nil {
			return nil, err
		}

		return o.analyzer.Analyze(ctx, attachment)
	})
	if err != nil {
		return err
	}

	job.Result = result
	log.InfoContext(ctx, "document analyzed",
		slog.Int("markdown_len", len(result.Markdown)),
		slog.Int("chunks", len(result.Chunks)),
	)

	o.transition(ctx, log, job, domain.StatePersisting)

	_, err = stage(ctx, o.tracer, log, "persist", domain.ErrStorage, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, o.records.SaveRecord(ctx, o.record(job))
	})

	return err
}

func (o *Orchestrator) record(job *domain.Job) *domain.Record {
	return &domain.Record{
		CardID:          job.CardID,
		PipeID:          job.PipeID,
		CardTitle:       job.CardTitle,
		JobID:           job.ID,
		ProcessedAt:     o.now().UTC(),
		PipelineVersion: o.version,
		Source: domain.Source{
			FileName:  job.Attachment.Name,
			MediaType: job.Attachment.MediaType,
			Size:      job.Attachment.Size,
			PageCount: job.Attachment.PageCount,
		},
		Result: job.Result,
	}
}

func (o *Orchestrator) finish(ctx context.Context, log *slog.Logger, job *domain.Job, err error) {
	now := o.now()
	job.FinishedAt = &now

	if err != nil {
		job.FailKind = domain.KindOf(err)
		job.FailReason = err.Error()
		o.transition(ctx, log, job, domain.StateFailed)

		log.ErrorContext(ctx, "job failed",
			slog.String("error_kind", string(job.FailKind)),
			slog.String("err", err.Error()),
		)
	} else {
		o.transition(ctx, log, job, domain.StateCompleted)
		log.InfoContext(ctx, "job completed", slog.Duration("elapsed", now.Sub(job.StartedAt)))
	}

	o.track(ctx, log, job)
}

func (o *Orchestrator) transition(ctx context.Context, log *slog.Logger, job *domain.Job, to domain.State) {
	job.State = changeState(ctx, log, job.State, to)
}

// changeState returns the state a request moves to. A terminal state is never left.
func changeState(ctx context.Context, log *slog.Logger, from, to domain.State) domain.State {
	if from.Terminal() {
		log.ErrorContext(ctx, "transition from terminal state refused",
			slog.String("from", string(from)),
			slog.String("to", string(to)),
		)
		return from
	}

	log.DebugContext(ctx, "job state changed",
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)

	return to
}

// track records the job state in the journal. The journal is for operators only,
// so its failures never fail the job. The write ignores cancellation of ctx so a
// job whose caller went away still reaches its final state in the journal.
func (o *Orchestrator) track(ctx context.Context, log *slog.Logger, job *domain.Job) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	if err := o.jobs.TrackJob(ctx, job); err != nil {
		log.WarnContext(ctx, "failed to track job", slog.String("err", err.Error()))
	}
}

func (o *Orchestrator) reject(
	ctx context.Context,
	span trace.Span,
	log *slog.Logger,
	state domain.State,
	stageName string,
	err error,
) (*Outcome, error) {
	kind := domain.KindOf(err)
	changeState(ctx, log, state, domain.StateFailed)

	log.WarnContext(ctx, "request rejected",
		slog.String("stage", stageName),
		slog.String("error_kind", string(kind)),
		slog.String("err", err.Error()),
	)

	span.RecordError(err)
	span.SetStatus(codes.Error, string(kind))

	return &Outcome{State: domain.StateFailed, Kind: kind}, err
}

// stage runs fn inside its own span. Failures are tagged with the stage name and
// classified as sentinel unless fn already did so.
func stage[T any](
	ctx context.Context,
	tracer trace.Tracer,
	log *slog.Logger,
	name string,
	sentinel error,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	ctx, span := tracer.Start(ctx, "webhook."+name)
	defer span.End()

	start := time.Now()
	v, err := fn(ctx)

	log.DebugContext(ctx, "stage finished",
		slog.String("stage", name),
		slog.Duration("duration", time.Since(start)),
		slog.Bool("ok", err == nil),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		if !errors.Is(err, sentinel) {
			err = fmt.Errorf("%w: %w", sentinel, err)
		}

		return v, fmt.Errorf("%s stage: %w", name, err)
	}

	return v, nil
}
