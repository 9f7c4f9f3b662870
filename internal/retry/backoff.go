package retry

import (
	"math"
	"math/rand"
	"time"
)

// Strategy decides how often and how long to wait between attempts.
type Strategy interface {
	// NextDelay returns the wait before retry number attempt (zero based).
	NextDelay(attempt int) time.Duration
	// MaxAttempts is the retry budget after the first attempt.
	// Zero disables retries; a negative value retries until the context ends.
	MaxAttempts() int
}

// ExponentialBackoff doubles the delay after every retry, capped at a maximum,
// with optional symmetric jitter.
type ExponentialBackoff struct {
	initial     time.Duration
	max         time.Duration
	factor      float64
	maxAttempts int
	jitter      float64
	random      func() float64
}

// BackoffOption configures an ExponentialBackoff.
type BackoffOption func(*ExponentialBackoff)

func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.initial = d }
}

func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.max = d }
}

func WithMultiplier(m float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.factor = m }
}

// WithJitter spreads each delay by up to ±j of its value (0 disables jitter).
func WithJitter(j float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.jitter = j }
}

// WithRandom replaces the [0,1) source used for jitter.
func WithRandom(f func() float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.random = f }
}

// NewExponentialBackoff creates a backoff with 100ms initial delay, 10s cap,
// factor 2 and 10% jitter.
func NewExponentialBackoff(maxAttempts int, opts ...BackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initial:     100 * time.Millisecond,
		max:         10 * time.Second,
		factor:      2,
		maxAttempts: maxAttempts,
		jitter:      0.1,
		random:      rand.Float64,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(b.initial) * math.Pow(b.factor, float64(attempt))
	if limit := float64(b.max); d > limit {
		d = limit
	}
	if b.jitter > 0 && b.random != nil {
		d *= 1 + b.jitter*(2*b.random()-1)
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

func (b *ExponentialBackoff) MaxAttempts() int { return b.maxAttempts }
