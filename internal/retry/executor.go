package retry

import (
	"context"
	"time"
)

// Classifier reports whether an error is worth another attempt.
type Classifier interface {
	IsTransient(err error) bool
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(error) bool

func (f ClassifierFunc) IsTransient(err error) bool { return f(err) }

// Executor runs an operation until it succeeds, fails permanently or the
// retry budget is spent. Safe for concurrent use.
type Executor struct {
	classifier Classifier
	strategy   Strategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor panics if classifier or strategy is nil.
func NewExecutor(classifier Classifier, strategy Strategy) *Executor {
	if classifier == nil || strategy == nil {
		panic("retry: classifier and strategy are required")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// WithOnRetry returns a copy of e that calls fn before every wait.
func (e *Executor) WithOnRetry(fn func(attempt int, err error, delay time.Duration)) *Executor {
	cp := *e
	cp.onRetry = fn
	return &cp
}

// Execute runs op and returns nil on success, the first permanent error, the
// last transient error once retries run out, or the context error.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	err := op(ctx)
	budget := e.strategy.MaxAttempts()

	for attempt := 0; err != nil && e.classifier.IsTransient(err); attempt++ {
		if budget >= 0 && attempt >= budget {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = op(ctx)
	}
	return err
}
