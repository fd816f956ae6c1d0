// Package storage keeps typed values under independent keys on a durable
// backend. Reads fall back to a default and writes never fail the caller:
// every problem is logged, counted, and swallowed.
package storage

import (
	"context"
	"encoding/json"
	"log/slog"

	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"github.com/vladimiradmaev/health-tracker/internal/metrics"
)

// Keys used by the profile store.
const (
	ProfilesKey      = "health-tracker-profiles"
	ActiveProfileKey = "health-tracker-active-profile"
)

// Driver identifies a backend implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
)

// Backend is a durable byte slot per key.
type Backend interface {
	Driver() Driver
	// Get returns ok=false when nothing was ever stored under key.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Store pairs a backend with the error handler and counters used by Load and Commit.
type Store struct {
	backend Backend
	metrics *metrics.Storage
	errs    *apperrors.Handler
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics records loads and commits on m.
func WithMetrics(m *metrics.Storage) Option {
	return func(s *Store) { s.metrics = m }
}

// WithLogger sends swallowed errors to l instead of the global logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.errs = apperrors.NewHandler(l) }
}

// New wraps backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewStorage(nil)
	}
	if s.errs == nil {
		s.errs = apperrors.NewHandler(logger.GetLogger())
	}
	return s
}

// Backend returns the wrapped backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Load returns the last value committed under key, or def when nothing is
// stored, the backend read fails, or the stored bytes do not decode.
func Load[T any](ctx context.Context, s *Store, key string, def T) T {
	s.metrics.Loads.WithLabelValues(key).Inc()

	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.metrics.LoadFallbacks.WithLabelValues(key, "read").Inc()
		s.errs.Handle(ctx, apperrors.NewLoadError(err, key).WithContext("driver", string(s.backend.Driver())))
		return def
	}
	if !ok {
		s.metrics.LoadFallbacks.WithLabelValues(key, "missing").Inc()
		logger.Debug("No stored value, using default", "key", key)
		return def
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		s.metrics.LoadFallbacks.WithLabelValues(key, "decode").Inc()
		s.errs.Handle(ctx, apperrors.NewDecodeError(err, key))
		return def
	}
	return value
}

// Commit encodes value and writes it under key. Failures are logged and
// swallowed; the caller's in-memory value stays authoritative.
func Commit[T any](ctx context.Context, s *Store, key string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		s.metrics.CommitFailures.WithLabelValues(key).Inc()
		s.errs.Handle(ctx, apperrors.NewInternalError(err).WithContext("key", key))
		return
	}

	if err := s.backend.Set(ctx, key, data); err != nil {
		s.metrics.CommitFailures.WithLabelValues(key).Inc()
		s.errs.Handle(ctx, apperrors.NewStorageError(err, key).
			WithContext("driver", string(s.backend.Driver())).
			WithContext("bytes", len(data)))
		return
	}
	s.metrics.Commits.WithLabelValues(key).Inc()
}
