// Package payment simulates funding an escrow. No money moves: a started
// payment succeeds after a fixed delay unless the simulator is closed first.
package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "escrow-wizard/internal/common/errors"
	"escrow-wizard/internal/common/logger"
	"escrow-wizard/internal/common/metrics"
	"escrow-wizard/internal/models"

	"github.com/google/uuid"
)

const DefaultDelay = 2 * time.Second

// Simulator runs at most one payment: idle -> processing -> succeeded.
// The completion runs on a timer goroutine, so state is guarded by mu.
type Simulator struct {
	mu         sync.Mutex
	delay      time.Duration
	now        func() time.Time
	onComplete func(models.PaymentResult)
	logger     logger.Logger

	status models.PaymentStatus
	result models.PaymentResult
	timer  *time.Timer
	done   chan struct{}
	err    error
	closed bool
}

type Option func(*Simulator)

// WithClock overrides time.Now for timestamps and transaction ids.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// WithOnComplete registers a callback invoked once, off the caller's
// goroutine, when the payment succeeds. It runs before Close can proceed
// and must not call back into the Simulator.
func WithOnComplete(fn func(models.PaymentResult)) Option {
	return func(s *Simulator) { s.onComplete = fn }
}

func NewSimulator(delay time.Duration, log logger.Logger, opts ...Option) *Simulator {
	if delay < 0 {
		delay = 0
	}
	s := &Simulator{
		delay:  delay,
		now:    time.Now,
		logger: log,
		status: models.PaymentIdle,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins processing. Starting again while processing or after success
// is a no-op that returns the same pending payment.
func (s *Simulator) Start(_ context.Context, method models.PaymentMethod, amount int64) (*Pending, error) {
	if !method.Valid() {
		return nil, apperrors.NewInvalidPaymentMethodError(fmt.Sprintf("method: %q", method))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, apperrors.NewDisposedError()
	}
	if s.status != models.PaymentIdle {
		s.logger.Debug("payment already started", map[string]interface{}{"status": s.status})
		return &Pending{s: s}, nil
	}

	s.status = models.PaymentProcessing
	s.result = models.PaymentResult{
		Status:    models.PaymentProcessing,
		Method:    method,
		Amount:    amount,
		StartedAt: s.now(),
	}
	s.timer = time.AfterFunc(s.delay, s.complete)

	s.logger.Info("payment processing", map[string]interface{}{
		"method": method,
		"amount": amount,
		"delay":  s.delay.String(),
	})
	return &Pending{s: s}, nil
}

// complete runs on the timer goroutine. The lock is held through the
// onComplete callback, so a concurrent Close either wins and suppresses the
// callback or waits for it to return. onComplete must not call back into the
// Simulator.
func (s *Simulator) complete() {
	s.mu.Lock()
	if s.closed || s.status != models.PaymentProcessing {
		s.mu.Unlock()
		return
	}
	completed := s.now()
	s.status = models.PaymentSucceeded
	s.result.Status = models.PaymentSucceeded
	s.result.CompletedAt = completed
	s.result.TransactionID = transactionID(completed)
	result := s.result

	metrics.PaymentsTotal.WithLabelValues(string(result.Method), string(result.Status)).Inc()
	metrics.PaymentDuration.Observe(completed.Sub(result.StartedAt).Seconds())
	s.logger.Info("payment succeeded", map[string]interface{}{
		"method":        result.Method,
		"amount":        result.Amount,
		"transactionId": result.TransactionID,
	})
	if s.onComplete != nil {
		s.onComplete(result)
	}
	s.mu.Unlock()

	// Waiters are released last so everything above happens before Wait
	// returns.
	close(s.done)
}

// Close cancels a pending completion. After Close no state transition
// happens and waiters receive PAYMENT_CANCELLED. Close is idempotent.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.status == models.PaymentProcessing {
		s.err = apperrors.NewPaymentCancelledError()
		close(s.done)
		metrics.PaymentsTotal.WithLabelValues(string(s.result.Method), "cancelled").Inc()
		s.logger.Info("payment cancelled", map[string]interface{}{"method": s.result.Method})
	}
}

func (s *Simulator) Status() models.PaymentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Result returns the payment as currently known and whether it succeeded.
func (s *Simulator) Result() (models.PaymentResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.status == models.PaymentSucceeded
}

// Pending is a handle on a started payment.
type Pending struct {
	s *Simulator
}

// Done is closed when the payment succeeds or is cancelled.
func (p *Pending) Done() <-chan struct{} {
	return p.s.done
}

// Wait blocks until the payment settles or ctx ends.
func (p *Pending) Wait(ctx context.Context) (models.PaymentResult, error) {
	select {
	case <-ctx.Done():
		return models.PaymentResult{}, ctx.Err()
	case <-p.s.done:
	}

	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if p.s.err != nil {
		return p.s.result, p.s.err
	}
	return p.s.result, nil
}

// transactionID is display-only: TXN-<unix seconds>-<8 hex>.
func transactionID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("TXN-%d-%s", at.Unix(), strings.ToUpper(suffix))
}
