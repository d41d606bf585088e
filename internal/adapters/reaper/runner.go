// Package reaper wires the expired-session reaper to the Postgres session store.
package reaper

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/target/refund-ui/config"
	"github.com/target/refund-ui/internal/data"
	"github.com/target/refund-ui/internal/observability/statsd"
	"github.com/target/refund-ui/internal/service"
)

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB      *sql.DB
	Config  config.SessionsConfig
	Logger  *slog.Logger
	Metrics statsd.Sink

	// Repo overrides the Postgres repository (tests).
	Repo service.ExpiredSessionDeleter
}

// Runner runs the session reaper loop.
type Runner struct {
	reaper *service.SessionReaper
	logger *slog.Logger
}

// NewRunner creates a new reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	repo := opts.Repo
	if repo == nil {
		if opts.DB == nil {
			return nil, errors.New("database connection is required")
		}
		repo = data.NewSessionRepo(opts.DB, nil)
	}

	reaper, err := service.NewSessionReaper(service.SessionReaperOptions{
		Repo:      repo,
		Interval:  opts.Config.ReaperInterval,
		BatchSize: opts.Config.ReaperBatchSize,
		Logger:    opts.Logger,
		Metrics:   opts.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Runner{reaper: reaper, logger: opts.Logger}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting session reaper runner")
	return r.reaper.Run(ctx)
}
