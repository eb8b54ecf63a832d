package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Verdict classifies one failed attempt.
type Verdict struct {
	Retryable     bool
	RecordFailure bool
}

// Classifier maps a dependency error to a Verdict.
type Classifier func(err error) Verdict

// Budget bounds retries and the circuit breaker for one dependency.
type Budget struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64

	BreakerEnabled      bool
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration
	BreakerHalfOpenMax  uint32
}

func DefaultBudget() Budget {
	return Budget{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     400 * time.Millisecond,
		Multiplier:     2.0,

		BreakerEnabled:      true,
		BreakerMinRequests:  10,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  30 * time.Second,
		BreakerHalfOpenMax:  2,
	}
}

func (b Budget) normalize() Budget {
	def := DefaultBudget()
	if b.MaxAttempts <= 0 {
		b.MaxAttempts = def.MaxAttempts
	}
	if b.InitialBackoff <= 0 {
		b.InitialBackoff = def.InitialBackoff
	}
	if b.MaxBackoff < b.InitialBackoff {
		b.MaxBackoff = b.InitialBackoff
	}
	if b.Multiplier < 1.0 {
		b.Multiplier = def.Multiplier
	}
	if b.BreakerMinRequests == 0 {
		b.BreakerMinRequests = def.BreakerMinRequests
	}
	if b.BreakerFailureRatio <= 0 || b.BreakerFailureRatio > 1 {
		b.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if b.BreakerOpenTimeout <= 0 {
		b.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	if b.BreakerHalfOpenMax == 0 {
		b.BreakerHalfOpenMax = def.BreakerHalfOpenMax
	}
	return b
}

// Runner wraps dependency calls with retry and a per-operation circuit
// breaker.
type Runner struct {
	budget Budget

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewRunner(budget Budget) *Runner {
	return &Runner{
		budget:   budget.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

func (r *Runner) Do(ctx context.Context, operation string, classify Classifier, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("resilience: nil operation callback")
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if classify == nil {
		classify = func(error) Verdict { return Verdict{RecordFailure: true} }
	}

	if !r.budget.BreakerEnabled {
		return r.retry(ctx, op, classify, fn)
	}

	breaker := r.breaker(op, classify)
	_, err := breaker.Execute(func() (any, error) {
		return nil, r.retry(ctx, op, classify, fn)
	})
	return err
}

func (r *Runner) retry(ctx context.Context, op string, classify Classifier, fn func(context.Context) error) error {
	backoff := r.budget.InitialBackoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !classify(err).Retryable || attempt == r.budget.MaxAttempts {
			return err
		}

		wait := backoff
		if wait > r.budget.MaxBackoff {
			wait = r.budget.MaxBackoff
		}
		slog.Warn("retry_attempt",
			"operation", op,
			"attempt", attempt,
			"max_attempts", r.budget.MaxAttempts,
			"backoff_ms", float64(wait.Microseconds())/1000.0,
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * r.budget.Multiplier)
	}
}

func (r *Runner) breaker(op string, classify Classifier) *gobreaker.CircuitBreaker[any] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if breaker, ok := r.breakers[op]; ok {
		return breaker
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        op,
		MaxRequests: r.budget.BreakerHalfOpenMax,
		Timeout:     r.budget.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < r.budget.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= r.budget.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return !classify(err).RecordFailure
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	})
	r.breakers[op] = breaker
	return breaker
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
