package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "github.com/hirehub/backend/internal/common/errors"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Threshold:  2,
		Timeout:    time.Second,
		ResetAfter: time.Hour,
	})

	boom := errors.New("boom")
	fail := func(context.Context) error { return boom }

	for i := 0; i < 2; i++ {
		if err := cb.Call(context.Background(), fail); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected boom, got %v", i, err)
		}
	}

	called := false
	err := cb.Call(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, commonerrors.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if called {
		t.Error("fn must not run while the circuit is open")
	}
}

func TestCircuitBreaker_ResetsAfterWindow(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Threshold:  1,
		Timeout:    time.Second,
		ResetAfter: 10 * time.Millisecond,
	})

	_ = cb.Call(context.Background(), func(context.Context) error { return errors.New("boom") })
	if !cb.IsOpen() {
		t.Fatal("expected open circuit")
	}

	time.Sleep(20 * time.Millisecond)

	if err := cb.Call(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("expected success after reset window, got %v", err)
	}
}

func TestCircuitBreaker_IgnoredErrorsDoNotCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Threshold:   1,
		Timeout:     time.Second,
		ResetAfter:  time.Hour,
		IgnoreError: commonerrors.IsDomainError,
	})

	_ = cb.Call(context.Background(), func(context.Context) error { return commonerrors.ErrUserNotFound })

	if cb.IsOpen() {
		t.Fatal("domain errors must not trip the breaker")
	}
}

func TestCircuitBreaker_FailedTrialReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Threshold:  3,
		ResetAfter: 10 * time.Millisecond,
	})

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		_ = cb.Call(context.Background(), func(context.Context) error { return boom })
	}
	if !cb.IsOpen() {
		t.Fatal("expected open circuit")
	}

	time.Sleep(20 * time.Millisecond)

	// A single failed trial is enough; the threshold only applies while closed.
	if err := cb.Call(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected the trial to run, got %v", err)
	}
	if !cb.IsOpen() {
		t.Fatal("failed trial should re-open the circuit")
	}
}

func TestCircuitBreaker_ZeroThresholdNeverOpens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{ResetAfter: time.Hour})

	for i := 0; i < 10; i++ {
		_ = cb.Call(context.Background(), func(context.Context) error { return errors.New("boom") })
	}
	if cb.IsOpen() {
		t.Fatal("zero threshold disables the breaker")
	}
}
