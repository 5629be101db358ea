package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/urfave/cli/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	migrationTypeUp   = "up"
	migrationTypeDown = "down"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := command(log).Run(ctx, os.Args); err != nil {
		log.ErrorContext(ctx, "failed to apply migrations", slog.String("err", err.Error()))
		stop()
		os.Exit(1)
	}
}

func command(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "migrator",
		Usage: "Apply job journal migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "Set migration direction (up, down)",
				Value: migrationTypeUp,
				Validator: func(v string) error {
					if v != migrationTypeUp && v != migrationTypeDown {
						return fmt.Errorf("type must be %q or %q, got %q", migrationTypeUp, migrationTypeDown, v)
					}
					return nil
				},
			},
			&cli.StringFlag{Name: "username", Usage: "Set database username", Sources: cli.EnvVars("PG_USERNAME"), Required: true},
			&cli.StringFlag{Name: "password", Usage: "Set database password", Sources: cli.EnvVars("PG_PASSWORD"), Required: true},
			&cli.StringFlag{Name: "host", Usage: "Set database host", Value: "127.0.0.1", Sources: cli.EnvVars("PG_HOST")},
			&cli.StringFlag{Name: "port", Usage: "Set database port", Value: "5432", Sources: cli.EnvVars("PG_PORT")},
			&cli.StringFlag{Name: "db", Usage: "Set database name", Value: "attachment_analyzer", Sources: cli.EnvVars("PG_DBNAME")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, log, cmd.String("type"), databaseURL(cmd))
		},
	}
}

func run(ctx context.Context, log *slog.Logger, migrationType, dbURL string) (err error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migrations source: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := migrator.Close()
		err = errors.Join(err, srcErr, dbErr)
	}()

	go func() {
		<-ctx.Done()
		migrator.GracefulStop <- true
	}()

	switch migrationType {
	case migrationTypeDown:
		err = migrator.Down()
	default:
		err = migrator.Up()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.InfoContext(ctx, "no migrations to apply")
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to apply %s migrations: %w", migrationType, err)
	}

	log.InfoContext(ctx, "migrations applied successfully", slog.String("type", migrationType))

	return nil
}

func databaseURL(cmd *cli.Command) string {
	return (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cmd.String("username"), cmd.String("password")),
		Host:     net.JoinHostPort(cmd.String("host"), cmd.String("port")),
		Path:     cmd.String("db"),
		RawQuery: "sslmode=disable",
	}).String()
}
