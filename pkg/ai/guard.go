// pkg/ai/guard.go

package ai

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// GuardConfig tunes the client-side throttle and the circuit breaker.
type GuardConfig struct {
	// RequestsPerMinute of 0 disables throttling.
	RequestsPerMinute int
	// ConsecutiveFailures trips the breaker; 0 means 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open; 0 means 30s.
	OpenTimeout time.Duration
}

// Guard decorates a Provider with a rate limiter and a circuit breaker.
// Only server-side and transport failures count towards tripping.
type Guard struct {
	inner   Provider
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

var _ Provider = (*Guard)(nil)

// NewGuard wraps p.
func NewGuard(p Provider, cfg GuardConfig) *Guard {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	}

	threshold := cfg.ConsecutiveFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        p.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if errors.Is(err, context.Canceled) {
				return true
			}
			pe, ok := AsProviderError(err)
			return ok && !pe.Retryable()
		},
	})

	return &Guard{inner: p, limiter: rate.NewLimiter(limit, 1), breaker: breaker}
}

func (g *Guard) Name() string { return g.inner.Name() }

// State exposes the breaker state for diagnostics.
func (g *Guard) State() gobreaker.State { return g.breaker.State() }

func (g *Guard) Generate(ctx context.Context, req Request) (Response, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return Response{}, unknown(g.Name(), err)
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.Generate(ctx, req)
	})
	if err != nil {
		return Response{}, g.translate(ctx, err)
	}
	return out.(Response), nil
}

// HealthCheck bypasses the limiter and breaker so diagnostics always reach the backend.
func (g *Guard) HealthCheck(ctx context.Context) error {
	return g.inner.HealthCheck(ctx)
}

func (g *Guard) translate(ctx context.Context, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		otelzap.Ctx(ctx).Warn("Provider circuit open, request rejected",
			zap.String("provider", g.Name()))
		return &ProviderError{
			Code:     ServerError,
			Provider: g.Name(),
			Message:  "too many consecutive failures; backing off",
			Err:      err,
		}
	}
	return err
}
