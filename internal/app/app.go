package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/kurochkinivan/attachment_analyzer/internal/config"
	v1 "github.com/kurochkinivan/attachment_analyzer/internal/controller/http/v1"
	"github.com/kurochkinivan/attachment_analyzer/internal/infrastructure/landingai"
	"github.com/kurochkinivan/attachment_analyzer/internal/infrastructure/pdfinfo"
	"github.com/kurochkinivan/attachment_analyzer/internal/infrastructure/tracing"
	"github.com/kurochkinivan/attachment_analyzer/internal/infrastructure/vertex"
	"github.com/kurochkinivan/attachment_analyzer/internal/pipeline"
	"github.com/kurochkinivan/attachment_analyzer/internal/repository/filesystem"
	"github.com/kurochkinivan/attachment_analyzer/internal/repository/gcs"
	"github.com/kurochkinivan/attachment_analyzer/internal/repository/postgresql"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName     = "attachment_analyzer"
	shutdownTimeout = 5 * time.Second
)

type App struct {
	log *slog.Logger
	cfg *config.Config

	closers []func(context.Context) error
}

func New(log *slog.Logger, cfg *config.Config) *App {
	return &App{
		log: log,
		cfg: cfg,
	}
}

func (a *App) Run(ctx context.Context) (err error) {
	defer func() { err = errors.Join(err, a.close()) }()

	a.log.InfoContext(ctx, "starting app",
		slog.String("version", a.cfg.App.Version),
		slog.String("webhook_path", "/webhook/"+a.cfg.Webhook.Path),
		slog.String("trigger_phase", a.cfg.Webhook.TriggerPhase),
		slog.String("analyzer_backend", a.cfg.Analysis.Backend),
		slog.String("store_backend", a.cfg.Store.Backend),
	)

	if a.cfg.Webhook.Secret == "" {
		a.log.WarnContext(ctx, "webhook secret is not configured, webhook is not protected")
	}

	var transport http.RoundTripper = http.DefaultTransport
	if a.cfg.App.Tracing {
		shutdown, err := tracing.Setup(a.log, serviceName, a.cfg.App.Version, os.Stdout)
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}
		a.closers = append(a.closers, shutdown)

		transport = otelhttp.NewTransport(transport)
	}

	analyzer, err := a.analyzer(ctx, transport)
	if err != nil {
		return err
	}

	records, err := a.recordStore(ctx)
	if err != nil {
		return err
	}

	journal, err := a.journal(ctx)
	if err != nil {
		return err
	}

	guard := pipeline.NewAuthGuard(a.cfg.Webhook.Secret)
	routes := v1.Routes{WebhookPath: a.cfg.Webhook.Path, Guard: guard}

	var jobs pipeline.JobTracker = pipeline.NopTracker{}
	if journal != nil {
		jobs = journal
		routes.History = journal
	}

	routes.Processor = pipeline.NewOrchestrator(
		a.log,
		a.cfg.App.Version,
		guard,
		pipeline.NewValidator(a.cfg.Webhook.TriggerPhase, a.cfg.Webhook.OriginPhase, a.cfg.Webhook.MaxBodyBytes),
		pipeline.NewFetcher(a.log, a.cfg.Download, transport),
		pdfinfo.New(a.log),
		pipeline.NewRetryingAnalyzer(
			a.log,
			analyzer,
			a.cfg.Analysis.Timeout,
			a.cfg.Analysis.Retries,
			a.cfg.Analysis.RetryBackoff,
		),
		records,
		jobs,
	)

	server := v1.NewServer(a.log, a.cfg.HTTP, a.cfg.App.Tracing, routes)

	return a.serve(ctx, server)
}

func (a *App) serve(ctx context.Context, server *v1.Server) error {
	erg, ctx := errgroup.WithContext(ctx)

	erg.Go(func() error {
		a.log.InfoContext(ctx, "starting http server", slog.String("addr", server.Addr()))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}

		return nil
	})

	erg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := erg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		a.log.ErrorContext(ctx, "server stopped with error", slog.String("err", err.Error()))

		return err
	}

	a.log.InfoContext(ctx, "server stopped gracefully")

	return nil
}

func (a *App) analyzer(ctx context.Context, transport http.RoundTripper) (pipeline.DocumentAnalyzer, error) {
	switch a.cfg.Analysis.Backend {
	case config.AnalyzerVertex:
		client, err := vertex.New(ctx, a.log, a.cfg.Analysis.Vertex)
		if err != nil {
			return nil, fmt.Errorf("failed to create vertex analyzer: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })

		return client, nil

	default:
		if a.cfg.Analysis.LandingAI.APIKey == "" {
			a.log.WarnContext(ctx, "landingai api key is not configured, analysis calls will likely be rejected")
		}

		return landingai.New(a.log, a.cfg.Analysis.LandingAI, transport), nil
	}
}

func (a *App) recordStore(ctx context.Context) (pipeline.RecordSaver, error) {
	switch a.cfg.Store.Backend {
	case config.StoreGCS:
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })

		a.log.InfoContext(ctx, "persisting records to gcs",
			slog.String("bucket", a.cfg.Store.GCSBucket),
			slog.String("prefix", a.cfg.Store.GCSPrefix),
		)

		return gcs.NewRecordsRepository(client, a.cfg.Store.GCSBucket, a.cfg.Store.GCSPrefix), nil

	default:
		if err := os.MkdirAll(a.cfg.Store.RecordsDirectory, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create records dir: %w", err)
		}

		a.log.InfoContext(ctx, "persisting records to filesystem", slog.String("dir", a.cfg.Store.RecordsDirectory))

		return filesystem.NewRecordsRepository(a.cfg.Store.RecordsDirectory), nil
	}
}

// journal connects the job journal. It returns nil when no database is configured.
func (a *App) journal(ctx context.Context) (*postgresql.JobsRepository, error) {
	if !a.cfg.PostgreSQL.Enabled() {
		a.log.InfoContext(ctx, "job journal disabled")
		return nil, nil
	}

	a.log.InfoContext(ctx, "establishing postgresql connection",
		slog.String("postgresql_host", a.cfg.PostgreSQL.Host),
		slog.String("postgresql_port", a.cfg.PostgreSQL.Port),
		slog.String("postgresql_dbname", a.cfg.PostgreSQL.DBName),
	)

	pool, err := postgresql.Connect(ctx, a.log, a.cfg.PostgreSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })

	jobs := postgresql.NewJobsRepository(pool, a.cfg.PostgreSQL.InstanceID)

	n, err := jobs.FailInterruptedJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reset interrupted jobs: %w", err)
	}

	if n > 0 {
		a.log.WarnContext(ctx, "marked interrupted jobs as failed", slog.Int64("count", n))
	}

	return jobs, nil
}

func (a *App) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}

	return errors.Join(errs...)
}
