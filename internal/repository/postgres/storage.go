package postgres

import (
	"context"
	"fmt"
	"time"

	"organizese/internal/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Storage implements both the task and the person repositories on one pool.
type Storage struct {
	pool *pgxpool.Pool
}

type options struct {
	maxConns    int32
	minConns    int32
	idleTimeout time.Duration
	pingRetries uint64
}

type Option func(*options)

func WithMaxConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = int32(n)
		}
	}
}

func WithMinConns(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.minConns = int32(n)
		}
	}
}

func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.idleTimeout = d
		}
	}
}

func WithPingRetries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.pingRetries = uint64(n)
		}
	}
}

func New(ctx context.Context, connString string, opts ...Option) (*Storage, error) {
	o := options{
		maxConns:    10,
		minConns:    2,
		idleTimeout: 5 * time.Minute,
		pingRetries: 5,
	}
	for _, opt := range opts {
		opt(&o)
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: failed to parse database config", err)
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	config.MaxConns = o.maxConns
	config.MinConns = o.minConns
	config.MaxConnIdleTime = o.idleTimeout

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: failed to create pool", err)
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	// the database container usually starts together with the service
	ping := func() error { return pool.Ping(ctx) }
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), o.pingRetries), ctx)
	err = backoff.RetryNotify(ping, policy, func(err error, next time.Duration) {
		logger.Warn("Repository: ping failed, retrying", zap.Error(err), zap.Duration("next_attempt_in", next))
	})
	if err != nil {
		pool.Close()
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: connected to PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: PostgreSQL connections closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func warnIfSlow(op string, start time.Time, limit time.Duration) {
	if elapsed := time.Since(start); elapsed > limit {
		logger.Warn("Repository: slow query", zap.String("operation", op), zap.Duration("ms", elapsed))
	}
}
