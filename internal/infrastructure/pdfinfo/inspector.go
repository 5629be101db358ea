package pdfinfo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const MediaTypePDF = "application/pdf"

var supportedMediaTypes = map[string]struct{}{
	MediaTypePDF: {},
	"image/png":  {},
	"image/jpeg": {},
	"image/tiff": {},
	"image/webp": {},
}

// Inspector rejects attachments the analysis service cannot read and counts PDF
// pages before any analysis call is made.
type Inspector struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Inspector {
	// pdfcpu would otherwise create a config dir under the user's home
	api.DisableConfigDir()

	return &Inspector{log: log}
}

func Supported(mediaType string) bool {
	_, ok := supportedMediaTypes[mediaType]
	return ok
}

func (i *Inspector) Inspect(ctx context.Context, attachment *domain.Attachment) error {
	if !Supported(attachment.MediaType) {
		return fmt.Errorf("%w: %w %q", domain.ErrAnalysis, domain.ErrUnsupportedMedia, attachment.MediaType)
	}

	if attachment.MediaType != MediaTypePDF {
		attachment.PageCount = 1
		return nil
	}

	pages, err := api.PageCountFile(attachment.Path)
	if err != nil {
		return fmt.Errorf("%w: %w: unreadable pdf: %w", domain.ErrAnalysis, domain.ErrUnsupportedMedia, err)
	}

	if pages == 0 {
		return fmt.Errorf("%w: %w: pdf has no pages", domain.ErrAnalysis, domain.ErrUnsupportedMedia)
	}

	attachment.PageCount = pages

	i.log.DebugContext(ctx, "pdf inspected", slog.String("path", attachment.Path), slog.Int("pages", pages))

	return nil
}
