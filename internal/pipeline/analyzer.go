package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
)

// RetryingAnalyzer runs a backend analyzer with a per-attempt timeout and retries
// transient failures with exponential backoff.
type RetryingAnalyzer struct {
	log     *slog.Logger
	backend DocumentAnalyzer
	timeout time.Duration
	retries int
	backoff time.Duration
}

func NewRetryingAnalyzer(
	log *slog.Logger,
	backend DocumentAnalyzer,
	timeout time.Duration,
	retries int,
	backoff time.Duration,
) *RetryingAnalyzer {
	return &RetryingAnalyzer{
		log:     log,
		backend: backend,
		timeout: timeout,
		retries: retries,
		backoff: backoff,
	}
}

func (a *RetryingAnalyzer) Analyze(ctx context.Context, attachment *domain.Attachment) (*domain.AnalysisResult, error) {
	delay := a.backoff

	for attempt := 0; ; attempt++ {
		result, err := a.attempt(ctx, attachment)
		if err == nil {
			return result, nil
		}

		if !transient(ctx, err) || attempt >= a.retries {
			return nil, fmt.Errorf("%w after %d attempt(s): %w", domain.ErrAnalysis, attempt+1, err)
		}

		a.log.WarnContext(ctx, "analysis attempt failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.Int("max_retries", a.retries),
			slog.Duration("delay", delay),
			slog.String("err", err.Error()),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", domain.ErrAnalysis, ctx.Err())
		}

		delay *= 2
	}
}

func (a *RetryingAnalyzer) attempt(ctx context.Context, attachment *domain.Attachment) (*domain.AnalysisResult, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	result, err := a.backend.Analyze(ctx, attachment)
	if err != nil {
		return nil, err
	}

	if result == nil || (result.Markdown == "" && len(result.Chunks) == 0) {
		return nil, errors.New("analysis returned no content")
	}

	return result, nil
}

// transient reports whether err is worth another attempt. Expiry of the caller's
// own context is never retried.
func transient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	if errors.Is(err, domain.ErrTransient) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
