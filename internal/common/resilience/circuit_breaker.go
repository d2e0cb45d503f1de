package resilience

import (
	"context"
	"sync"
	"time"

	commonerrors "github.com/hirehub/backend/internal/common/errors"
	"github.com/hirehub/backend/internal/common/logger"
	"github.com/hirehub/backend/internal/observability/metrics"
)

type state int

const (
	closed state = iota
	open
	halfOpen
)

func (s state) String() string {
	switch s {
	case open:
		return "open"
	case halfOpen:
		return "half-open"
	}
	return "closed"
}

type CircuitBreakerConfig struct {
	// Threshold is the number of consecutive failures that opens the circuit.
	// Zero disables the breaker.
	Threshold  int32
	Timeout    time.Duration
	ResetAfter time.Duration
	Name       string
	Logger     *logger.Logger
	// IgnoreError reports errors that should not count as failures, such as
	// domain-level not found or validation results.
	IgnoreError func(error) bool
}

// CircuitBreaker fails fast after Threshold consecutive failures. Once
// ResetAfter has elapsed a single trial call is let through; its outcome
// closes or re-opens the circuit.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu       sync.Mutex
	state    state
	failures int32
	openedAt time.Time
	trial    bool
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{cfg: cfg}
}

// IsOpen reports whether calls are currently rejected.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state == open && time.Since(cb.openedAt) <= cb.cfg.ResetAfter
}

// Call runs fn under the configured timeout. While open it fails fast with
// ErrCircuitOpen without invoking fn.
func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if !cb.acquire() {
		if cb.cfg.Logger != nil {
			cb.cfg.Logger.Warnf("circuit breaker [%s]: open, rejecting call", cb.cfg.Name)
		}
		return commonerrors.ErrCircuitOpen
	}

	callCtx := ctx
	if cb.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cb.cfg.Timeout)
		defer cancel()
	}

	err := fn(callCtx)
	cb.release(err)
	return err
}

func (cb *CircuitBreaker) acquire() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case open:
		if time.Since(cb.openedAt) <= cb.cfg.ResetAfter {
			return false
		}
		cb.transition(halfOpen)
		cb.trial = true
		return true
	case halfOpen:
		if cb.trial {
			return false
		}
		cb.trial = true
		return true
	}
	return true
}

func (cb *CircuitBreaker) release(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.trial = false

	if err == nil || (cb.cfg.IgnoreError != nil && cb.cfg.IgnoreError(err)) {
		cb.failures = 0
		if cb.state != closed {
			cb.transition(closed)
		}
		return
	}

	cb.failures++
	if cb.cfg.Name != "" {
		metrics.CircuitBreakerFailures.WithLabelValues(cb.cfg.Name).Inc()
	}

	if cb.state == halfOpen || (cb.cfg.Threshold > 0 && cb.failures >= cb.cfg.Threshold) {
		cb.openedAt = time.Now()
		if cb.state != open {
			cb.transition(open)
		}
	}
}

func (cb *CircuitBreaker) transition(to state) {
	from := cb.state
	cb.state = to

	if cb.cfg.Name != "" {
		v := 0.0
		if to == open {
			v = 1
		}
		metrics.CircuitBreakerState.WithLabelValues(cb.cfg.Name).Set(v)
	}
	if cb.cfg.Logger != nil {
		cb.cfg.Logger.Warnf("circuit breaker [%s]: %s -> %s", cb.cfg.Name, from, to)
	}
}
