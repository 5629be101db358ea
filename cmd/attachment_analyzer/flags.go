package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kurochkinivan/attachment_analyzer/internal/app"
	"github.com/kurochkinivan/attachment_analyzer/internal/config"
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

var version = "dev"

func cmd() *cli.Command {
	return &cli.Command{
		Name:    "attachment_analyzer",
		Usage:   "Pipefy card attachment analysis webhook",
		Version: version,
		Flags:   flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, ok := ctx.Value(loggerKey{}).(*slog.Logger)
			if !ok {
				return errors.New("failed to get logger from context")
			}

			cfg := config.Load(cmd, version)

			if err := validateConfig(cfg); err != nil {
				return err
			}

			return app.New(log, cfg).Run(ctx)
		},
	}
}

func flags() []cli.Flag {
	var configFile string

	src := func(env, key string) cli.ValueSourceChain {
		return cli.NewValueSourceChain(
			cli.EnvVar(env),
			yaml.YAML(key, altsrc.NewStringPtrSourcer(&configFile)),
		)
	}

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Validator:   validateConfigFile,
			Usage:       "Load configuration from `FILE`",
			Destination: &configFile,
		},
		&cli.BoolFlag{
			Name:    "tracing",
			Usage:   "Export OpenTelemetry spans to stdout",
			Sources: src("TRACING", "app.tracing"),
		},

		&cli.StringFlag{
			Name:    "webhook-path",
			Usage:   "Set webhook route suffix, served as /webhook/<path>",
			Value:   "pipefy",
			Sources: src("WEBHOOK_PATH", "webhook.path"),
		},
		&cli.StringFlag{
			Name:  "webhook-secret",
			Usage: "Set shared bearer secret; empty leaves the webhook open",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("PIPEFY_WEBHOOK_SECRET"),
				cli.EnvVar("RENDER_SERVICE_SECRET"),
				yaml.YAML("webhook.secret", altsrc.NewStringPtrSourcer(&configFile)),
			),
		},
		&cli.StringFlag{
			Name:     "trigger-phase",
			Usage:    "Set destination phase id that triggers processing",
			Sources:  src("PIPEFY_TRIGGER_PHASE_ID", "webhook.trigger_phase"),
			Required: true,
		},
		&cli.StringFlag{
			Name:    "origin-phase",
			Usage:   "Set origin phase id cards must leave from; empty accepts any",
			Sources: src("PIPEFY_ORIGIN_PHASE_ID", "webhook.origin_phase"),
		},
		&cli.Int64Flag{
			Name:    "webhook-max-body",
			Usage:   "Set maximum webhook body size in bytes",
			Value:   1 << 20,
			Sources: src("WEBHOOK_MAX_BODY", "webhook.max_body"),
		},

		&cli.StringFlag{
			Name:      "temp-dir",
			Usage:     "Set directory for downloaded attachments",
			Value:     os.TempDir(),
			Sources:   src("TEMP_DIR", "download.temp_dir"),
			Validator: validateDirectory,
		},
		&cli.DurationFlag{
			Name:    "download-timeout",
			Usage:   "Set attachment download timeout",
			Value:   60 * time.Second,
			Sources: src("DOWNLOAD_TIMEOUT", "download.timeout"),
		},
		&cli.Int64Flag{
			Name:    "download-max-size",
			Usage:   "Set maximum attachment size in bytes",
			Value:   50 << 20,
			Sources: src("DOWNLOAD_MAX_SIZE", "download.max_size"),
		},
		&cli.StringFlag{
			Name:    "upstream-token",
			Usage:   "Set Pipefy API token sent when downloading from the upstream domain",
			Sources: src("PIPEFY_TOKEN", "download.upstream_token"),
		},
		&cli.StringFlag{
			Name:    "upstream-domain",
			Usage:   "Set domain whose hosts receive the upstream token",
			Value:   "pipefy.com",
			Sources: src("PIPEFY_DOMAIN", "download.upstream_domain"),
		},

		&cli.StringFlag{
			Name:      "analyzer-backend",
			Usage:     "Set document analysis backend (landingai, vertex)",
			Value:     config.AnalyzerLandingAI,
			Sources:   src("ANALYZER_BACKEND", "analysis.backend"),
			Validator: oneOf(config.AnalyzerLandingAI, config.AnalyzerVertex),
		},
		&cli.DurationFlag{
			Name:    "analysis-timeout",
			Usage:   "Set timeout of a single analysis attempt",
			Value:   5 * time.Minute,
			Sources: src("ANALYSIS_TIMEOUT", "analysis.timeout"),
		},
		&cli.IntFlag{
			Name:    "analysis-retries",
			Usage:   "Set number of additional attempts after a transient analysis failure",
			Value:   2,
			Sources: src("ANALYSIS_RETRIES", "analysis.retries"),
		},
		&cli.DurationFlag{
			Name:    "analysis-retry-backoff",
			Usage:   "Set initial delay between analysis attempts, doubled on each retry",
			Value:   2 * time.Second,
			Sources: src("ANALYSIS_RETRY_BACKOFF", "analysis.retry_backoff"),
		},
		&cli.StringFlag{
			Name:    "landingai-api-key",
			Usage:   "Set LandingAI vision agent API key",
			Sources: src("VISION_AGENT_API_KEY", "analysis.landingai.api_key"),
		},
		&cli.StringFlag{
			Name:    "landingai-endpoint",
			Usage:   "Set LandingAI agentic document analysis endpoint",
			Value:   "https://api.va.landing.ai/v1/tools/agentic-document-analysis",
			Sources: src("LANDINGAI_ENDPOINT", "analysis.landingai.endpoint"),
		},
		&cli.StringFlag{
			Name:    "vertex-project",
			Usage:   "Set GCP project for Vertex AI",
			Sources: src("PROJECT_ID", "analysis.vertex.project"),
		},
		&cli.StringFlag{
			Name:    "vertex-region",
			Usage:   "Set Vertex AI region",
			Value:   "us-central1",
			Sources: src("VERTEX_AI_REGION", "analysis.vertex.region"),
		},
		&cli.StringFlag{
			Name:    "vertex-model",
			Usage:   "Set Vertex AI model",
			Value:   "gemini-1.5-pro",
			Sources: src("VERTEX_AI_MODEL", "analysis.vertex.model"),
		},

		&cli.StringFlag{
			Name:      "store-backend",
			Usage:     "Set result store backend (filesystem, gcs)",
			Value:     config.StoreFilesystem,
			Sources:   src("STORE_BACKEND", "store.backend"),
			Validator: oneOf(config.StoreFilesystem, config.StoreGCS),
		},
		&cli.StringFlag{
			Name:    "records-dir",
			Aliases: []string{"o"},
			Usage:   "Set directory to persist analysis records to",
			Value:   "/data/output",
			Sources: src("OUTPUT_DIR", "store.records_dir"),
		},
		&cli.StringFlag{
			Name:    "gcs-bucket",
			Usage:   "Set GCS bucket for the gcs store backend",
			Sources: src("GCS_BUCKET", "store.gcs_bucket"),
		},
		&cli.StringFlag{
			Name:    "gcs-prefix",
			Usage:   "Set object name prefix for the gcs store backend",
			Sources: src("GCS_PREFIX", "store.gcs_prefix"),
		},

		&cli.StringFlag{
			Name:    "pg-host",
			Usage:   "Set PostgreSQL host; empty disables the job journal",
			Sources: src("PG_HOST", "postgresql.host"),
		},
		&cli.StringFlag{
			Name:    "pg-port",
			Usage:   "Set PostgreSQL port",
			Value:   "5432",
			Sources: src("PG_PORT", "postgresql.port"),
		},
		&cli.StringFlag{
			Name:    "pg-username",
			Usage:   "Set PostgreSQL username",
			Sources: src("PG_USERNAME", "postgresql.username"),
		},
		&cli.StringFlag{
			Name:    "pg-password",
			Usage:   "Set PostgreSQL password",
			Sources: src("PG_PASSWORD", "postgresql.password"),
		},
		&cli.StringFlag{
			Name:    "pg-dbname",
			Usage:   "Set PostgreSQL database name",
			Value:   "attachment_analyzer",
			Sources: src("PG_DBNAME", "postgresql.dbname"),
		},
		&cli.StringFlag{
			Name:    "instance-id",
			Usage:   "Set stable instance id; restart recovery only fails jobs started under it",
			Value:   hostname(),
			Sources: src("INSTANCE_ID", "postgresql.instance_id"),
		},

		&cli.StringFlag{
			Name:    "http-host",
			Usage:   "Set HTTP server host",
			Value:   "0.0.0.0",
			Sources: src("HTTP_HOST", "http.host"),
		},
		&cli.StringFlag{
			Name:    "http-port",
			Usage:   "Set HTTP server port",
			Value:   "8080",
			Sources: src("PORT", "http.port"),
		},
		&cli.DurationFlag{
			Name:    "http-idle-timeout",
			Usage:   "Set HTTP server idle timeout",
			Value:   1 * time.Minute,
			Sources: src("HTTP_IDLE_TIMEOUT", "http.idle_timeout"),
		},
		&cli.DurationFlag{
			Name:    "http-read-timeout",
			Usage:   "Set HTTP server read timeout",
			Value:   15 * time.Second,
			Sources: src("HTTP_READ_TIMEOUT", "http.read_timeout"),
		},
		&cli.DurationFlag{
			Name:    "http-write-timeout",
			Usage:   "Set HTTP server write timeout, must cover download and all analysis attempts",
			Value:   20 * time.Minute,
			Sources: src("HTTP_WRITE_TIMEOUT", "http.write_timeout"),
		},
	}
}

func oneOf(allowed ...string) func(string) error {
	return func(v string) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("%q must be one of %q", v, allowed)
	}
}

func validateConfig(cfg *config.Config) error {
	switch {
	case cfg.Analysis.Backend == config.AnalyzerVertex && cfg.Analysis.Vertex.ProjectID == "":
		return errors.New("vertex-project is required for the vertex analyzer backend")
	case cfg.Store.Backend == config.StoreGCS && cfg.Store.GCSBucket == "":
		return errors.New("gcs-bucket is required for the gcs store backend")
	case cfg.Analysis.Retries < 0:
		return errors.New("analysis-retries must not be negative")
	case cfg.PostgreSQL.Enabled() && cfg.PostgreSQL.InstanceID == "":
		return errors.New("instance-id is required when the job journal is enabled")
	}

	return nil
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}

func validateDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q does not exist", dir)
		}
		return fmt.Errorf("failed to stat %q: %w", dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}

	return nil
}

func validateConfigFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q does not exist", path)
		}
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%q is a directory, not a file", path)
	}

	ext := filepath.Ext(info.Name())
	if ext != ".yml" && ext != ".yaml" {
		return fmt.Errorf("invalid extension %q", path)
	}

	return nil
}
