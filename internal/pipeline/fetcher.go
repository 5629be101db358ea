package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kurochkinivan/attachment_analyzer/internal/config"
	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
)

const sniffLen = 512

var errTooManyRedirects = errors.New("attachment URL redirected more than once")

// Fetcher downloads card attachments into job-owned temporary files.
type Fetcher struct {
	log    *slog.Logger
	cfg    config.Download
	client *http.Client
}

// NewFetcher builds a fetcher on top of transport; nil means http.DefaultTransport.
func NewFetcher(log *slog.Logger, cfg config.Download, transport http.RoundTripper) *Fetcher {
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Fetcher{
		log: log,
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) > 1 {
					return errTooManyRedirects
				}
				return nil
			},
		},
	}
}

// Fetch streams the job's attachment into a new temp file. On error no file is
// left behind.
func (f *Fetcher) Fetch(ctx context.Context, job *domain.Job) (*domain.Attachment, error) {
	attachment, err := f.fetch(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDownload, err)
	}

	return attachment, nil
}

func (f *Fetcher) fetch(ctx context.Context, job *domain.Job) (_ *domain.Attachment, err error) {
	u, err := url.Parse(job.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if f.cfg.UpstreamToken != "" && f.upstreamHost(u.Hostname()) {
		req.Header.Set("Authorization", "Bearer "+f.cfg.UpstreamToken)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	ext := extension(u)
	file, err := os.CreateTemp(f.cfg.TempDirectory, job.CardID.String()+"_*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	defer func() {
		err = errors.Join(err, file.Close())
		if err != nil {
			if rmErr := os.Remove(file.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				f.log.WarnContext(ctx, "failed to remove partial download",
					slog.String("path", file.Name()),
					slog.String("err", rmErr.Error()),
				)
			}
		}
	}()

	body := io.Reader(resp.Body)
	if f.cfg.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.cfg.MaxBytes+1)
	}

	sniff := &sniffWriter{}
	size, err := io.Copy(io.MultiWriter(file, sniff), body)
	if err != nil {
		return nil, fmt.Errorf("failed to write attachment: %w", err)
	}

	switch {
	case size == 0:
		return nil, errors.New("attachment body is empty")
	case f.cfg.MaxBytes > 0 && size > f.cfg.MaxBytes:
		return nil, fmt.Errorf("attachment exceeds %d bytes", f.cfg.MaxBytes)
	}

	return &domain.Attachment{
		Path:      file.Name(),
		Name:      path.Base(u.Path),
		MediaType: mediaType(sniff.head, resp.Header.Get("Content-Type")),
		Size:      size,
	}, nil
}

func (f *Fetcher) upstreamHost(host string) bool {
	suffix := strings.ToLower(f.cfg.UpstreamDomain)
	host = strings.ToLower(host)

	return suffix != "" && (host == suffix || strings.HasSuffix(host, "."+suffix))
}

func extension(u *url.URL) string {
	ext := filepath.Ext(path.Base(u.Path))
	if ext == "" || len(ext) > 10 || strings.ContainsAny(ext, `*/\`) {
		return ".tmp"
	}

	return strings.ToLower(ext)
}

// mediaType prefers sniffed content; generic octet-stream falls back to the
// header the server sent.
func mediaType(head []byte, header string) string {
	sniffed := http.DetectContentType(head)
	if sniffed != "application/octet-stream" || header == "" {
		return stripParams(sniffed)
	}

	return stripParams(header)
}

func stripParams(mediaType string) string {
	mt, _, _ := strings.Cut(mediaType, ";")
	return strings.TrimSpace(strings.ToLower(mt))
}

type sniffWriter struct {
	head []byte
}

func (w *sniffWriter) Write(p []byte) (int, error) {
	if n := sniffLen - len(w.head); n > 0 {
		w.head = append(w.head, p[:min(n, len(p))]...)
	}

	return len(p), nil
}
