package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/society_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/SscSPs/society_ledger/internal/metrics"
	"github.com/SscSPs/society_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	txManager portsrepo.TransactionManager
	events    portssvc.EventPublisher
	metrics   *metrics.Recorder
	now       func() time.Time
}

// ServiceOption configures the shared dependencies of a service.
type ServiceOption func(*BaseService)

// WithEventPublisher sets where committed ledger activity is announced.
func WithEventPublisher(p portssvc.EventPublisher) ServiceOption {
	return func(s *BaseService) {
		s.events = p
	}
}

// WithMetrics sets the recorder for business counters.
func WithMetrics(m *metrics.Recorder) ServiceOption {
	return func(s *BaseService) {
		s.metrics = m
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.now = now
	}
}

func newBaseService(txManager portsrepo.TransactionManager, options ...ServiceOption) BaseService {
	base := BaseService{
		txManager: txManager,
		now:       time.Now,
	}
	for _, option := range options {
		option(&base)
	}
	return base
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// inTransaction runs fn atomically. Without a transaction manager fn runs as is.
func (s *BaseService) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.WithinTransaction(ctx, fn)
}

// afterCommit defers f until the surrounding transaction commits.
func (s *BaseService) afterCommit(ctx context.Context, f func()) {
	if s.txManager == nil {
		f()
		return
	}
	s.txManager.OnCommit(ctx, f)
}

// publish announces an event once the surrounding transaction has committed.
// Delivery failures are logged and never surface to the caller.
func (s *BaseService) publish(ctx context.Context, event domain.LedgerEvent) {
	if s.events == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	s.afterCommit(ctx, func() {
		if err := s.events.Publish(context.WithoutCancel(ctx), event); err != nil {
			s.LogError(ctx, err, "Failed to publish ledger event",
				slog.String("event_type", string(event.EventType)),
				slog.String("entity_id", event.EntityID))
		}
	})
}
