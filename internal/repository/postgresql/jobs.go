package postgresql

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
)

const TableJobs = "jobs"

// JobRow is the journal view of a job.
type JobRow struct {
	JobID        string     `db:"job_id"`
	CardID       string     `db:"card_id"`
	PipeID       string     `db:"pipe_id"`
	State        string     `db:"state"`
	ErrorKind    string     `db:"error_kind"`
	ErrorMessage string     `db:"error_message"`
	StartedAt    time.Time  `db:"started_at"`
	FinishedAt   *time.Time `db:"finished_at"`
}

type JobsRepository struct {
	pool       *pgxpool.Pool
	qb         sq.StatementBuilderType
	instanceID string
}

// NewJobsRepository returns a journal whose rows are owned by instanceID.
func NewJobsRepository(pool *pgxpool.Pool, instanceID string) *JobsRepository {
	return &JobsRepository{
		pool:       pool,
		qb:         sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		instanceID: instanceID,
	}
}

func (r *JobsRepository) TrackJob(ctx context.Context, job *domain.Job) error {
	sql, args, err := r.trackJobQuery(job)
	if err != nil {
		return createQueryError(err)
	}

	_, err = r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return executeQueryError(err)
	}

	return nil
}

func (r *JobsRepository) trackJobQuery(job *domain.Job) (string, []any, error) {
	return r.qb.
		Insert(TableJobs).
		Columns(
			"job_id",
			"instance_id",
			"card_id",
			"pipe_id",
			"state",
			"error_kind",
			"error_message",
			"started_at",
			"finished_at",
		).
		Values(
			job.ID,
			r.instanceID,
			job.CardID.String(),
			job.PipeID.String(),
			string(job.State),
			string(job.FailKind),
			job.FailReason,
			job.StartedAt,
			job.FinishedAt,
		).
		Suffix(`ON CONFLICT (job_id) DO UPDATE SET
			state = EXCLUDED.state,
			error_kind = EXCLUDED.error_kind,
			error_message = EXCLUDED.error_message,
			finished_at = EXCLUDED.finished_at
		`).
		ToSql()
}

// JobsByCard returns the journal entries of a card, newest first.
func (r *JobsRepository) JobsByCard(ctx context.Context, cardID domain.ID) ([]*domain.JobEntry, error) {
	sql, args, err := r.qb.
		Select(
			"job_id",
			"card_id",
			"pipe_id",
			"state",
			"error_kind",
			"error_message",
			"started_at",
			"finished_at",
		).
		From(TableJobs).
		Where(sq.Eq{"card_id": cardID.String()}).
		OrderBy("started_at DESC").
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	jobRows, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[JobRow])
	if err != nil {
		return nil, collectRowsError(err)
	}

	entries := make([]*domain.JobEntry, 0, len(jobRows))
	for _, row := range jobRows {
		entries = append(entries, row.entry())
	}

	return entries, nil
}

func (row *JobRow) entry() *domain.JobEntry {
	return &domain.JobEntry{
		JobID:      row.JobID,
		CardID:     domain.ID(row.CardID),
		PipeID:     domain.ID(row.PipeID),
		State:      domain.State(row.State),
		ErrorKind:  domain.Kind(row.ErrorKind),
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
	}
}

// FailInterruptedJobs marks jobs this instance left in a running state before a
// restart as failed. Rows of other instances are not touched. It returns how many
// rows were updated.
func (r *JobsRepository) FailInterruptedJobs(ctx context.Context) (int64, error) {
	sql, args, err := r.failInterruptedQuery()
	if err != nil {
		return 0, createQueryError(err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, executeQueryError(err)
	}

	return tag.RowsAffected(), nil
}

func (r *JobsRepository) failInterruptedQuery() (string, []any, error) {
	return r.qb.
		Update(TableJobs).
		Set("state", string(domain.StateFailed)).
		Set("error_kind", string(domain.KindInternal)).
		Set("error_message", "interrupted by restart").
		Set("finished_at", sq.Expr("now()")).
		Where(sq.Eq{
			"instance_id": r.instanceID,
			"state": []string{
				string(domain.StateFetching),
				string(domain.StateAnalyzing),
				string(domain.StatePersisting),
			},
		}).
		ToSql()
}
