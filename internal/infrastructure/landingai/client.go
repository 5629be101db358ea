package landingai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/kurochkinivan/attachment_analyzer/internal/config"
	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
)

const maxErrorBody = 4 << 10

// Client calls the LandingAI agentic document analysis endpoint.
type Client struct {
	log      *slog.Logger
	endpoint string
	apiKey   string
	http     *http.Client
}

func New(log *slog.Logger, cfg config.LandingAI, transport http.RoundTripper) *Client {
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		log:      log,
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Transport: transport},
	}
}

type response struct {
	Data struct {
		Markdown string  `json:"markdown"`
		Chunks   []chunk `json:"chunks"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type chunk struct {
	ID        string `json:"chunk_id"`
	Type      string `json:"chunk_type"`
	Text      string `json:"text"`
	Grounding []struct {
		Page int `json:"page"`
	} `json:"grounding"`
}

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("landingai returned status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == domain.ErrTransient && retryableStatus(e.StatusCode)
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

func (c *Client) Analyze(ctx context.Context, attachment *domain.Attachment) (*domain.AnalysisResult, error) {
	field := "image"
	if attachment.MediaType == "application/pdf" {
		field = "pdf"
	}

	body, contentType := c.multipartBody(attachment, field)
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Basic "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("landingai request: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: landingai request: %w", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode landingai response: %w", err)
	}

	if len(out.Errors) > 0 && out.Data.Markdown == "" {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("landingai reported errors: %s", strings.Join(msgs, "; "))
	}

	for _, e := range out.Errors {
		c.log.WarnContext(ctx, "landingai partial error", slog.String("message", e.Message))
	}

	return toResult(&out), nil
}

// multipartBody streams the attachment so large files are never held in memory.
func (c *Client) multipartBody(attachment *domain.Attachment, field string) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeFile(mw, attachment, field))
	}()

	return pr, mw.FormDataContentType()
}

func writeFile(mw *multipart.Writer, attachment *domain.Attachment, field string) (err error) {
	f, err := os.Open(attachment.Path)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	name := attachment.Name
	if name == "" || name == "/" || name == "." {
		name = filepath.Base(attachment.Path)
	}

	part, err := mw.CreateFormFile(field, name)
	if err != nil {
		return err
	}

	if _, err := io.Copy(part, f); err != nil {
		return err
	}

	return mw.Close()
}

func toResult(out *response) *domain.AnalysisResult {
	result := &domain.AnalysisResult{
		Markdown: out.Data.Markdown,
		Chunks:   make([]domain.Chunk, 0, len(out.Data.Chunks)),
	}

	for _, ch := range out.Data.Chunks {
		var pages []int
		seen := make(map[int]struct{}, len(ch.Grounding))
		for _, g := range ch.Grounding {
			if _, ok := seen[g.Page]; ok {
				continue
			}
			seen[g.Page] = struct{}{}
			pages = append(pages, g.Page+1)
		}

		result.Chunks = append(result.Chunks, domain.Chunk{
			ID:    ch.ID,
			Type:  ch.Type,
			Text:  ch.Text,
			Pages: pages,
		})
	}

	return result
}
