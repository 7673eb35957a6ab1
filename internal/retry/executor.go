package retry

import (
	"context"
	"time"

	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// OnRetryFunc is called before each wait. attempt is zero-based.
type OnRetryFunc func(attempt int, err error, delay time.Duration)

// Executor runs an operation until it succeeds, fails fatally, or runs out
// of attempts. An Executor is immutable and safe for concurrent use.
type Executor struct {
	classifier ldmcsv.ErrorClassifier
	strategy   ldmcsv.BackoffStrategy
	onRetry    OnRetryFunc
}

// NewExecutor panics if classifier or strategy is nil.
func NewExecutor(classifier ldmcsv.ErrorClassifier, strategy ldmcsv.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("retry: nil classifier")
	}
	if strategy == nil {
		panic("retry: nil strategy")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// WithOnRetry returns a copy of e that reports each retry to fn.
func (e *Executor) WithOnRetry(fn OnRetryFunc) *Executor {
	clone := *e
	clone.onRetry = fn
	return &clone
}

// WithLogger returns a copy of e that logs each retry at verbose level.
func (e *Executor) WithLogger(logger ldmcsv.Logger, what string) *Executor {
	return e.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Verbose("%s failed (retry %d in %v): %v", what, attempt+1, delay, err)
	})
}

// Execute calls op once, then again after each backoff delay for as long as
// the error is transient. A negative MaxAttempts retries without limit.
// The error of the last attempt is returned, or ctx.Err() if the context
// ends while waiting.
func (e *Executor) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	err := op(ctx)
	limit := e.strategy.MaxAttempts()

	for attempt := 0; err != nil && e.classifier.IsTransient(err); attempt++ {
		if limit >= 0 && attempt >= limit {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}
		if waitErr := sleep(ctx, delay); waitErr != nil {
			return waitErr
		}

		err = op(ctx)
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
