package zoho

import (
	"context"
	"time"

	"github.com/fivetwenty-io/zoho-projects/internal/constants"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RateLimitGuard self-throttles child collection requests against the remote fixed window
// budget. It never asks the server for the remaining quota. A guard belongs to one iterator.
type RateLimitGuard struct {
	budget  int
	delay   time.Duration
	sleep   SleepFunc
	logger  Logger
	made    int
	delays  int
	noticed bool
}

// RateLimitOption configures a RateLimitGuard.
type RateLimitOption func(*RateLimitGuard)

// WithBudget sets the number of requests allowed per window.
func WithBudget(requests int) RateLimitOption {
	return func(g *RateLimitGuard) {
		if requests > 0 {
			g.budget = requests
		}
	}
}

// WithDelay sets the delay inserted before each request over budget.
func WithDelay(delay time.Duration) RateLimitOption {
	return func(g *RateLimitGuard) {
		g.delay = delay
	}
}

// WithSleep replaces the sleep function.
func WithSleep(sleep SleepFunc) RateLimitOption {
	return func(g *RateLimitGuard) {
		if sleep != nil {
			g.sleep = sleep
		}
	}
}

// WithGuardLogger sets the logger that receives the throttling notice.
func WithGuardLogger(logger Logger) RateLimitOption {
	return func(g *RateLimitGuard) {
		g.logger = logger
	}
}

// NewRateLimitGuard creates a guard for 100 requests per 120 seconds.
func NewRateLimitGuard(opts ...RateLimitOption) *RateLimitGuard {
	guard := &RateLimitGuard{
		budget: constants.RateLimitRequests,
		delay:  constants.RateLimitDelay,
		sleep:  sleepContext,
	}

	for _, opt := range opts {
		opt(guard)
	}

	return guard
}

// Wait is called before each child collection request with the number of parents still
// queued. It logs a notice once when the projected request count exceeds the budget and
// sleeps before every request past the budget.
func (g *RateLimitGuard) Wait(ctx context.Context, queued int) error {
	g.made++

	if !g.noticed && g.made+queued > g.budget {
		g.noticed = true

		if g.logger != nil {
			g.logger.Warn("Projected requests exceed rate limit, throttling child collection requests", map[string]interface{}{
				"projected": g.made + queued,
				"budget":    g.budget,
				"delay":     g.delay.String(),
			})
		}
	}

	if g.made <= g.budget {
		return nil
	}

	g.delays++

	return g.sleep(ctx, g.delay)
}

// Requests returns how many requests the guard has seen.
func (g *RateLimitGuard) Requests() int {
	return g.made
}

// Delays returns how many times the guard has slept.
func (g *RateLimitGuard) Delays() int {
	return g.delays
}

// Noticed reports whether the throttling notice has fired.
func (g *RateLimitGuard) Noticed() bool {
	return g.noticed
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
