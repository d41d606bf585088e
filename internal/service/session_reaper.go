package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/target/refund-ui/internal/observability/metrics"
	"github.com/target/refund-ui/internal/observability/statsd"
)

// ExpiredSessionDeleter removes expired sessions in batches.
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context, batchSize int) (int64, error)
}

// SessionReaperOptions groups dependencies for SessionReaper.
type SessionReaperOptions struct {
	Repo      ExpiredSessionDeleter // Required
	Interval  time.Duration         // default 10m
	BatchSize int                   // default 500
	Logger    *slog.Logger          // Optional
	Metrics   statsd.Sink           // Optional
}

// SessionReaper periodically deletes expired rows from the Postgres session store.
// Redis expires keys on its own, so the reaper only runs for the Postgres backend.
type SessionReaper struct {
	repo      ExpiredSessionDeleter
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	metrics   statsd.Sink
}

// NewSessionReaper constructs a SessionReaper.
func NewSessionReaper(opts SessionReaperOptions) (*SessionReaper, error) {
	if opts.Repo == nil {
		return nil, errors.New("session repository is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Minute
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionReaper{
		repo:      opts.Repo,
		interval:  opts.Interval,
		batchSize: opts.BatchSize,
		logger:    logger.With("component", "session_reaper"),
		metrics:   opts.Metrics,
	}, nil
}

// Run reaps once after a short jitter and then on every tick until ctx is cancelled.
// Returns nil on graceful shutdown.
func (r *SessionReaper) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting session reaper", "interval", r.interval)

	r.waitWithJitter(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.ReapOnce(ctx); err != nil && !isContextCancellation(err) {
			r.logger.ErrorContext(ctx, "session reap failed", "error", err)
		}

		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "session reaper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ReapOnce deletes expired sessions batch by batch until none remain.
func (r *SessionReaper) ReapOnce(ctx context.Context) (int64, error) {
	start := time.Now()
	var total int64
	var err error
	for {
		var n int64
		n, err = r.repo.DeleteExpired(ctx, r.batchSize)
		total += n
		if err != nil || n < int64(r.batchSize) {
			break
		}
		if ctx.Err() != nil {
			err = ctx.Err()
			break
		}
	}

	if total > 0 {
		r.logger.InfoContext(ctx, "deleted expired sessions", "count", total)
	}
	metrics.EmitSessionReap(r.metrics, metrics.ReapMetric{
		Deleted:  total,
		Duration: time.Since(start),
		Err:      suppressContextCancellation(err),
	})
	return total, err
}

// waitWithJitter delays up to 10% of the interval so replicas do not reap in lockstep.
func (r *SessionReaper) waitWithJitter(ctx context.Context) {
	maxJitter := int64(r.interval / 10)
	if maxJitter <= 0 {
		return
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		r.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}
	jitter := time.Duration(int64(binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter))) // #nosec G115 - bounded by maxJitter

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func suppressContextCancellation(err error) error {
	if isContextCancellation(err) {
		return nil
	}
	return err
}
