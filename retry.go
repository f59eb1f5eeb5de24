package gopaginator

import (
	"context"
	"time"
)

// RetryPolicy configures the bounded exponential-backoff retry loop wrapped
// around every live fetch.
type RetryPolicy struct {
	// MaxAttempts total attempt budget, the first attempt included.
	// Zero still executes the first attempt; it only forbids retries.
	MaxAttempts int
	// InitialDelay wait before the first retry.
	InitialDelay time.Duration
	// MaxDelay cap for the doubling delay sequence.
	MaxDelay time.Duration
	// RetryIf decides whether a failure is worth retrying. Nil retries all
	// failures within budget.
	RetryIf func(error) bool
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     10 * time.Second,
	}
}

// fetchWithRetry runs attempt until it succeeds or the policy gives up, and
// propagates the last error unchanged. Retries are invisible to the caller
// except through onAttempt, which reports each retry ordinal (1, 2, ...)
// before its backoff wait; the initial attempt is not reported.
//
// The delay sequence for InitialDelay=d, MaxDelay=M is d, min(2d,M),
// min(4d,M), ... Waits are timer-based and abort on context cancellation.
func fetchWithRetry[T any, K comparable](
	ctx context.Context,
	policy RetryPolicy,
	onAttempt func(attempt int),
	attempt func(context.Context) (Page[T, K], error),
) (Page[T, K], error) {
	delay := policy.InitialDelay

	var lastErr error
	for n := 0; ; n++ {
		page, err := attempt(ctx)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if n+1 >= policy.MaxAttempts {
			break
		}
		if policy.RetryIf != nil && !policy.RetryIf(err) {
			break
		}

		if onAttempt != nil {
			onAttempt(n + 1)
		}

		if err = waitRetry(ctx, delay); err != nil {
			break
		}
		delay = nextRetryDelay(delay, policy.MaxDelay)
	}

	return Page[T, K]{}, lastErr
}

func nextRetryDelay(current, maxDelay time.Duration) time.Duration {
	next := current * 2
	if maxDelay > 0 && next > maxDelay {
		next = maxDelay
	}

	return next
}

// waitRetry blocks for the backoff delay, returning early if the context is
// done. The engine stays responsive during backoff: nothing is held locked
// while waiting.
func waitRetry(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
