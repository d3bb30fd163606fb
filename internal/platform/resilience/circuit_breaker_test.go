package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, openTimeout time.Duration, halfOpenMax int) (*CircuitBreaker, *time.Time) {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMax,
	})
	clock := time.Now()
	b.now = func() time.Time { return clock }
	return b, &clock
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	b, _ := newTestBreaker(3, time.Second, 1)

	for i := 0; i < 2; i++ {
		b.RecordFailure()
		if err := b.Allow(); err != nil {
			t.Fatalf("breaker opened before threshold at failure %d: %v", i+1, err)
		}
	}

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after threshold, got %v", err)
	}
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("expected open state, got %s", got)
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	t.Parallel()

	b, clock := newTestBreaker(1, time.Second, 2)

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker, got %v", err)
	}

	*clock = clock.Add(2 * time.Second)
	if got := b.State(); got != CircuitStateHalfOpen {
		t.Fatalf("expected half_open after timeout, got %s", got)
	}

	for i := 0; i < 2; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("probe %d rejected: %v", i+1, err)
		}
		b.RecordSuccess()
	}

	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed after successful probes, got %s", got)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	b, clock := newTestBreaker(1, time.Second, 2)

	b.RecordFailure()
	*clock = clock.Add(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("probe rejected: %v", err)
	}
	b.RecordFailure()

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected breaker re-opened after probe failure, got %v", err)
	}
}

func TestCircuitBreaker_HalfOpenBudgetBounded(t *testing.T) {
	t.Parallel()

	b, clock := newTestBreaker(1, time.Second, 1)

	b.RecordFailure()
	*clock = clock.Add(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe rejected: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected probe budget exhausted, got %v", err)
	}
}

func TestCircuitBreaker_DoRecordsOutcome(t *testing.T) {
	t.Parallel()

	b, _ := newTestBreaker(1, time.Second, 1)
	errBoom := errors.New("boom")

	if err := b.Do(func() error { return errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if err := b.Do(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker to short-circuit, got %v", err)
	}

	var nilBreaker *CircuitBreaker
	if err := nilBreaker.Do(func() error { return nil }); err != nil {
		t.Fatalf("nil breaker should pass through, got %v", err)
	}
}
