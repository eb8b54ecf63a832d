package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastBudget() Budget {
	return Budget{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Multiplier:     2.0,
		BreakerEnabled: false,
	}
}

func retryAll(error) Verdict { return Verdict{Retryable: true, RecordFailure: true} }

func TestDoRetriesUntilSuccess(t *testing.T) {
	runner := NewRunner(fastBudget())

	attempts := 0
	err := runner.Do(context.Background(), "dep.call", retryAll, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoStopsAtMaxAttempts(t *testing.T) {
	runner := NewRunner(fastBudget())

	attempts := 0
	failure := errors.New("still down")
	err := runner.Do(context.Background(), "dep.call", retryAll, func(context.Context) error {
		attempts++
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected final attempt error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoDoesNotRetryPermanentErrors(t *testing.T) {
	runner := NewRunner(fastBudget())

	permanent := func(error) Verdict { return Verdict{Retryable: false, RecordFailure: true} }
	attempts := 0
	err := runner.Do(context.Background(), "dep.call", permanent, func(context.Context) error {
		attempts++
		return errors.New("bad request")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if attempts != 1 {
		t.Fatalf("permanent error must not be retried, got %d attempts", attempts)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	runner := NewRunner(fastBudget())

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := runner.Do(ctx, "dep.call", retryAll, func(context.Context) error {
		attempts++
		cancel()
		return errors.New("transient")
	})
	if err == nil {
		t.Fatalf("expected error after cancellation")
	}
	if attempts != 1 {
		t.Fatalf("cancelled context must stop retries, got %d attempts", attempts)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	budget := fastBudget()
	budget.MaxAttempts = 1
	budget.BreakerEnabled = true
	budget.BreakerMinRequests = 3
	budget.BreakerFailureRatio = 0.5
	budget.BreakerOpenTimeout = time.Minute
	budget.BreakerHalfOpenMax = 1
	runner := NewRunner(budget)

	failure := errors.New("down")
	for i := 0; i < 3; i++ {
		_ = runner.Do(context.Background(), "dep.call", retryAll, func(context.Context) error {
			return failure
		})
	}

	calls := 0
	err := runner.Do(context.Background(), "dep.call", retryAll, func(context.Context) error {
		calls++
		return nil
	})
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("open circuit must short-circuit the call, got %d calls", calls)
	}
}

func TestBreakersAreScopedPerOperation(t *testing.T) {
	budget := fastBudget()
	budget.MaxAttempts = 1
	budget.BreakerEnabled = true
	budget.BreakerMinRequests = 3
	budget.BreakerFailureRatio = 0.5
	budget.BreakerOpenTimeout = time.Minute
	runner := NewRunner(budget)

	for i := 0; i < 3; i++ {
		_ = runner.Do(context.Background(), "dep.broken", retryAll, func(context.Context) error {
			return errors.New("down")
		})
	}

	err := runner.Do(context.Background(), "dep.healthy", retryAll, func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("a failing sibling operation must not trip this breaker, got %v", err)
	}
}

func TestIgnoredFailuresDoNotTripBreaker(t *testing.T) {
	budget := fastBudget()
	budget.MaxAttempts = 1
	budget.BreakerEnabled = true
	budget.BreakerMinRequests = 3
	budget.BreakerFailureRatio = 0.5
	budget.BreakerOpenTimeout = time.Minute
	runner := NewRunner(budget)

	ignore := func(error) Verdict { return Verdict{Retryable: false, RecordFailure: false} }
	for i := 0; i < 5; i++ {
		_ = runner.Do(context.Background(), "dep.call", ignore, func(context.Context) error {
			return errors.New("caller mistake")
		})
	}

	err := runner.Do(context.Background(), "dep.call", ignore, func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unrecorded failures must not open the circuit, got %v", err)
	}
}
