// Package retry re-runs operations that fail with transient errors, waiting
// between attempts according to a backoff strategy.
//
// Backends use it for connection setup and uploads:
//
//	exec := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), retry.NewExponentialBackoff(3))
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
package retry
