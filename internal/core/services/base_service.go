package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/SscSPs/erp_ledger/internal/platform/metrics"
	"github.com/google/uuid"
)

const defaultOperationTimeout = 10 * time.Second

// BaseService provides common functionality for all services
type BaseService struct {
	Metrics *metrics.Ledger
	Timeout time.Duration
	Clock   func() time.Time
	NewID   func() string
}

func newBaseService() BaseService {
	return BaseService{
		Timeout: defaultOperationTimeout,
		Clock:   func() time.Time { return time.Now().UTC() },
		NewID:   uuid.NewString,
	}
}

// Option configures the shared parts of a service.
type Option func(*BaseService)

// WithMetrics records operation outcomes on m.
func WithMetrics(m *metrics.Ledger) Option {
	return func(s *BaseService) { s.Metrics = m }
}

// WithOperationTimeout bounds every command. Non-positive values keep the default.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *BaseService) {
		if d > 0 {
			s.Timeout = d
		}
	}
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *BaseService) { s.Clock = clock }
}

// WithIDGenerator replaces uuid.NewString.
func WithIDGenerator(newID func() string) Option {
	return func(s *BaseService) { s.NewID = newID }
}

func (s *BaseService) apply(options []Option) {
	for _, option := range options {
		option(s)
	}
}

func (s *BaseService) now() time.Time {
	return s.Clock()
}

// withTimeout derives the per-operation deadline.
func (s *BaseService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.Timeout)
}

// finish maps an expired deadline to a timeout error and records the outcome.
func (s *BaseService) finish(ctx context.Context, operation string, started time.Time, err error) error {
	if err != nil {
		return s.fail(ctx, operation, started, err)
	}
	s.succeed(operation, started, nil)
	return nil
}

func (s *BaseService) fail(ctx context.Context, operation string, started time.Time, err error) error {
	if ctxErr := apperrors.FromContext(ctx, operation); ctxErr != nil && apperrors.KindOf(err) == apperrors.KindInternal {
		err = ctxErr
	}
	s.Metrics.ObserveOperation(operation, metrics.OutcomeFailure, started)
	return err
}

// succeed records a committed operation; downstream warnings downgrade the outcome.
func (s *BaseService) succeed(operation string, started time.Time, warnings []domain.OperationWarning) {
	outcome := metrics.OutcomeSuccess
	if len(warnings) > 0 {
		outcome = metrics.OutcomeWarning
	}
	s.Metrics.ObserveOperation(operation, outcome, started)
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
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a degraded but non-fatal outcome
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// logFailure logs unexpected errors and keeps expected domain outcomes at debug.
func (s *BaseService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	switch apperrors.KindOf(err) {
	case apperrors.KindInternal, apperrors.KindTimeout:
		s.LogError(ctx, err, msg, keyvals...)
	default:
		s.LogDebug(ctx, msg, append([]any{slog.String("reason", err.Error())}, keyvals...)...)
	}
}

// bestEffort runs a downstream step in its own transaction after the core
// write has committed. A failure is logged, counted and returned as a
// warning; it never undoes the committed money movement.
func (s *BaseService) bestEffort(ctx context.Context, tm portsrepo.TransactionManager, operation, step, recordID string, fn portsrepo.TxFunc) *domain.OperationWarning {
	err := tm.WithinTransaction(ctx, fn)
	if err == nil {
		return nil
	}
	s.Metrics.BestEffortFailed(operation, step)
	s.LogWarn(ctx, "Downstream step failed after commit",
		slog.String("operation", operation),
		slog.String("step", step),
		slog.String("record_id", recordID),
		slog.String("error", err.Error()))
	return &domain.OperationWarning{Step: step, RecordID: recordID, Message: warningMessage(step, err)}
}

// warningMessage keeps domain errors readable and hides internal faults,
// which are only logged.
func warningMessage(step string, err error) string {
	switch apperrors.KindOf(err) {
	case apperrors.KindInternal:
		return step + " failed"
	case apperrors.KindTimeout:
		return step + " timed out"
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
