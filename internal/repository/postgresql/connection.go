package postgresql

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/attachment_analyzer/internal/config"
)

const (
	connectAttempts = 5
	connectDelay    = 3 * time.Second
	maxConns        = 8
)

// Connect opens the journal pool and waits until the database answers a ping.
func Connect(ctx context.Context, log *slog.Logger, cfg config.PostgreSQL) (*pgxpool.Pool, error) {
	connectionURL := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     cfg.DBName,
		RawQuery: url.Values{"sslmode": {"disable"}, "application_name": {"attachment_analyzer"}}.Encode(),
	}

	poolCfg, err := pgxpool.ParseConfig(connectionURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}
	poolCfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pingWithRetry(ctx, log, pool.Ping, connectAttempts, connectDelay); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	return pool, nil
}

func pingWithRetry(
	ctx context.Context,
	log *slog.Logger,
	ping func(context.Context) error,
	attempts int,
	delay time.Duration,
) error {
	for attempt := 1; ; attempt++ {
		err := ping(ctx)
		if err == nil || attempt >= attempts {
			return err
		}

		log.DebugContext(ctx, "journal database not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.String("err", err.Error()))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
