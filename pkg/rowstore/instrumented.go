package rowstore

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Observer receives timing for each store call.
type Observer interface {
	ObserveStoreOperation(op, table string, duration time.Duration, err error)
}

// Instrumented decorates a Store with metrics and debug logging.
type Instrumented struct {
	next     Store
	observer Observer
	logger   *zap.Logger
}

// NewInstrumented wraps next. observer and logger are optional.
func NewInstrumented(next Store, observer Observer, logger *zap.Logger) *Instrumented {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instrumented{next: next, observer: observer, logger: logger}
}

// Read implements Store.
func (s *Instrumented) Read(ctx context.Context, table string) ([]Row, error) {
	start := time.Now()
	rows, err := s.next.Read(ctx, table)
	s.record("read", table, time.Since(start), len(rows), err)
	return rows, err
}

// Write implements Store.
func (s *Instrumented) Write(ctx context.Context, table string, header []string, rows []Row) error {
	start := time.Now()
	err := s.next.Write(ctx, table, header, rows)
	s.record("write", table, time.Since(start), len(rows), err)
	return err
}

func (s *Instrumented) record(op, table string, duration time.Duration, rows int, err error) {
	if s.observer != nil {
		s.observer.ObserveStoreOperation(op, table, duration, err)
	}
	if err != nil {
		s.logger.Warn("row store operation failed", zap.String("op", op), zap.String("table", table), zap.Duration("latency", duration), zap.Error(err))
		return
	}
	s.logger.Debug("row store operation", zap.String("op", op), zap.String("table", table), zap.Int("rows", rows), zap.Duration("latency", duration))
}
