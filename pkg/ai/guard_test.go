package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	errs  []error
	calls int
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Generate(ctx context.Context, req Request) (Response, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return Response{}, s.errs[i]
	}
	return Response{Text: "feat: ok", Provider: s.Name()}, nil
}

func (s *scriptedProvider) HealthCheck(ctx context.Context) error { return nil }

func serverErr() error { return &ProviderError{Code: ServerError, Provider: "scripted", Status: 500} }

func TestGuardOpensAfterConsecutiveServerErrors(t *testing.T) {
	inner := &scriptedProvider{errs: []error{serverErr(), serverErr()}}
	g := NewGuard(inner, GuardConfig{ConsecutiveFailures: 2, OpenTimeout: time.Hour})

	for i := 0; i < 2; i++ {
		_, err := g.Generate(context.Background(), Request{})
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, g.State())

	_, err := g.Generate(context.Background(), Request{})
	require.Error(t, err)
	pe, ok := AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, ServerError, pe.Code)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, 2, inner.calls, "open breaker must not reach the backend")
}

func TestGuardIgnoresNonRetryableForTripping(t *testing.T) {
	auth := &ProviderError{Code: InvalidCredential, Provider: "scripted", Status: 401}
	inner := &scriptedProvider{errs: []error{auth, auth, auth}}
	g := NewGuard(inner, GuardConfig{ConsecutiveFailures: 2})

	for i := 0; i < 3; i++ {
		_, err := g.Generate(context.Background(), Request{})
		pe, ok := AsProviderError(err)
		require.True(t, ok)
		assert.Equal(t, InvalidCredential, pe.Code)
	}
	assert.Equal(t, gobreaker.StateClosed, g.State())

	resp, err := g.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "feat: ok", resp.Text)
}

func TestGuardRateLimiterHonoursContext(t *testing.T) {
	inner := &scriptedProvider{}
	g := NewGuard(inner, GuardConfig{RequestsPerMinute: 1})

	_, err := g.Generate(context.Background(), Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = g.Generate(ctx, Request{})
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
