package vertex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/kurochkinivan/attachment_analyzer/internal/config"
	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const systemPrompt = "You are a document parser. Convert the provided document into markdown. " +
	"Preserve all text, lists and tables; describe images in words. Ignore page headers, footers and page numbers."

const userPrompt = "Return only the markdown content of this document, without preamble or code fences."

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client analyzes documents with a Gemini model on Vertex AI.
type Client struct {
	log    *slog.Logger
	model  contentGenerator
	closer func() error
}

func New(ctx context.Context, log *slog.Logger, cfg config.Vertex) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, errors.New("vertex project and region cannot be empty")
	}

	base, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	model := base.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0),
	}

	return &Client{
		log:    log,
		model:  model,
		closer: base.Close,
	}, nil
}

func (c *Client) Close() error {
	if c.closer != nil {
		return c.closer()
	}
	return nil
}

func (c *Client) Analyze(ctx context.Context, attachment *domain.Attachment) (*domain.AnalysisResult, error) {
	data, err := os.ReadFile(attachment.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	resp, err := c.model.GenerateContent(ctx,
		genai.Blob{MIMEType: attachment.MediaType, Data: data},
		genai.Text(userPrompt),
	)
	if err != nil {
		return nil, classify(err)
	}

	markdown := extractMarkdown(ctx, c.log, resp)
	if markdown == "" {
		return nil, errors.New("vertex response contained no text")
	}

	return &domain.AnalysisResult{Markdown: markdown}, nil
}

func classify(err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Internal, codes.Aborted:
		return fmt.Errorf("%w: vertex generate content: %w", domain.ErrTransient, err)
	default:
		return fmt.Errorf("vertex generate content: %w", err)
	}
}

func extractMarkdown(ctx context.Context, log *slog.Logger, resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	var parts int
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
			parts++
		}
	}

	if parts > 1 {
		log.WarnContext(ctx, "vertex response had several text parts, concatenated", slog.Int("parts", parts))
	}

	s := strings.TrimSpace(sb.String())
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}
