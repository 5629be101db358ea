package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

const (
	AnalyzerLandingAI = "landingai"
	AnalyzerVertex    = "vertex"

	StoreFilesystem = "filesystem"
	StoreGCS        = "gcs"
)

type Config struct {
	App
	Webhook
	Download
	Analysis
	Store
	PostgreSQL
	HTTP
}

type App struct {
	Version string
	Tracing bool
}

type Webhook struct {
	Path         string
	Secret       string
	TriggerPhase string
	OriginPhase  string
	MaxBodyBytes int64
}

type Download struct {
	TempDirectory  string
	Timeout        time.Duration
	MaxBytes       int64
	UpstreamToken  string
	UpstreamDomain string
}

type Analysis struct {
	Backend      string
	Timeout      time.Duration
	Retries      int
	RetryBackoff time.Duration
	LandingAI
	Vertex
}

type LandingAI struct {
	APIKey   string
	Endpoint string
}

type Vertex struct {
	ProjectID string
	Region    string
	Model     string
}

type Store struct {
	Backend          string
	RecordsDirectory string
	GCSBucket        string
	GCSPrefix        string
}

type PostgreSQL struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
	// InstanceID scopes restart recovery to the jobs this instance started.
	InstanceID string
}

// Enabled reports whether the job journal should be kept in PostgreSQL.
func (p PostgreSQL) Enabled() bool {
	return p.Host != ""
}

type HTTP struct {
	Host         string
	Port         string
	IdleTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func Load(cmd *cli.Command, version string) *Config {
	return &Config{
		App: App{
			Version: version,
			Tracing: cmd.Bool("tracing"),
		},
		Webhook: Webhook{
			Path:         cmd.String("webhook-path"),
			Secret:       cmd.String("webhook-secret"),
			TriggerPhase: cmd.String("trigger-phase"),
			OriginPhase:  cmd.String("origin-phase"),
			MaxBodyBytes: cmd.Int64("webhook-max-body"),
		},
		Download: Download{
			TempDirectory:  cmd.String("temp-dir"),
			Timeout:        cmd.Duration("download-timeout"),
			MaxBytes:       cmd.Int64("download-max-size"),
			UpstreamToken:  cmd.String("upstream-token"),
			UpstreamDomain: cmd.String("upstream-domain"),
		},
		Analysis: Analysis{
			Backend:      cmd.String("analyzer-backend"),
			Timeout:      cmd.Duration("analysis-timeout"),
			Retries:      int(cmd.Int("analysis-retries")),
			RetryBackoff: cmd.Duration("analysis-retry-backoff"),
			LandingAI: LandingAI{
				APIKey:   cmd.String("landingai-api-key"),
				Endpoint: cmd.String("landingai-endpoint"),
			},
			Vertex: Vertex{
				ProjectID: cmd.String("vertex-project"),
				Region:    cmd.String("vertex-region"),
				Model:     cmd.String("vertex-model"),
			},
		},
		Store: Store{
			Backend:          cmd.String("store-backend"),
			RecordsDirectory: cmd.String("records-dir"),
			GCSBucket:        cmd.String("gcs-bucket"),
			GCSPrefix:        cmd.String("gcs-prefix"),
		},
		PostgreSQL: PostgreSQL{
			Host:     cmd.String("pg-host"),
			Port:     cmd.String("pg-port"),
			Username: cmd.String("pg-username"),
			Password: cmd.String("pg-password"),
			DBName:   cmd.String("pg-dbname"),

			InstanceID: cmd.String("instance-id"),
		},
		HTTP: HTTP{
			Host:         cmd.String("http-host"),
			Port:         cmd.String("http-port"),
			IdleTimeout:  cmd.Duration("http-idle-timeout"),
			ReadTimeout:  cmd.Duration("http-read-timeout"),
			WriteTimeout: cmd.Duration("http-write-timeout"),
		},
	}
}
