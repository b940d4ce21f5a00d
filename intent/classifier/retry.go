package classifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
)

const (
	DefaultMaxAttempts = 10
	DefaultRetryDelay  = time.Second
)

// RetryPolicy bounds how often a classification is attempted. NewBackOff
// builds the wait schedule for one Classify call; it is a factory because
// backoff.BackOff values are stateful.
type RetryPolicy struct {
	MaxAttempts uint
	NewBackOff  func() backoff.BackOff
}

func DefaultRetryPolicy() RetryPolicy {
	return ConstantRetryPolicy(DefaultMaxAttempts, DefaultRetryDelay)
}

func ConstantRetryPolicy(maxAttempts uint, delay time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		NewBackOff: func() backoff.BackOff {
			return backoff.NewConstantBackOff(delay)
		},
	}
}

type retrying struct {
	next   contractx.Classifier
	policy RetryPolicy
}

// WithRetry wraps next so that every failure is retried until MaxAttempts
// attempts have been made. The returned error matches both
// ErrRetriesExhausted and the last underlying error.
func WithRetry(next contractx.Classifier, policy RetryPolicy) contractx.Classifier {
	if policy.MaxAttempts == 0 {
		policy.MaxAttempts = DefaultMaxAttempts
	}
	if policy.NewBackOff == nil {
		policy.NewBackOff = DefaultRetryPolicy().NewBackOff
	}
	return &retrying{next: next, policy: policy}
}

func (r *retrying) Classify(ctx context.Context, text string) (string, error) {
	logger := zerolog.Ctx(ctx)
	attempts := 0

	label, err := backoff.Retry(ctx,
		func() (string, error) {
			attempts++
			return r.next.Classify(ctx, text)
		},
		backoff.WithBackOff(r.policy.NewBackOff()),
		backoff.WithMaxTries(r.policy.MaxAttempts),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			logger.Warn().
				Err(err).
				Int("attempt", attempts).
				Uint("max_attempts", r.policy.MaxAttempts).
				Dur("wait", wait).
				Msg("intent classification failed, retrying")
		}),
	)
	if err == nil {
		return label, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "", err
	}
	return "", fmt.Errorf("%w after %d attempts: %w", contractx.ErrRetriesExhausted, attempts, err)
}
