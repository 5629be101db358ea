package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
)

// releaseAttachment removes the job's temporary file. Failures are only logged:
// the response does not depend on them.
func releaseAttachment(ctx context.Context, log *slog.Logger, attachment *domain.Attachment) {
	if attachment == nil || attachment.Path == "" {
		return
	}

	err := os.Remove(attachment.Path)
	switch {
	case err == nil:
		log.DebugContext(ctx, "temporary attachment removed", slog.String("path", attachment.Path))
	case errors.Is(err, os.ErrNotExist):
		log.DebugContext(ctx, "temporary attachment already gone", slog.String("path", attachment.Path))
	default:
		log.WarnContext(ctx, "failed to remove temporary attachment",
			slog.String("path", attachment.Path),
			slog.String("err", err.Error()),
		)
	}
}
