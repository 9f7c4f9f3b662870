// Package retry retries connection establishment with exponential backoff.
//
// It is used only when opening a catalog database pool. Metadata list loads
// are never retried; a failed load goes straight to the exception reporter.
//
//	exec := retry.NewExecutor(retry.ConnectClassifier{}, retry.NewExponentialBackoff(3))
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
package retry
