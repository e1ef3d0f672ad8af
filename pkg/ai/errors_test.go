package ai

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeForStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   ErrorCode
	}{
		{http.StatusUnauthorized, InvalidCredential},
		{http.StatusForbidden, InvalidCredential},
		{http.StatusTooManyRequests, RateLimited},
		{http.StatusInternalServerError, ServerError},
		{http.StatusBadGateway, ServerError},
		{529, ServerError},
		{http.StatusBadRequest, Unknown},
		{http.StatusNotFound, Unknown},
		{0, Unknown},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, CodeForStatus(tt.status))
		})
	}
}

func TestProviderErrorRetryable(t *testing.T) {
	t.Parallel()

	assert.False(t, (&ProviderError{Code: InvalidCredential}).Retryable())
	assert.False(t, (&ProviderError{Code: RateLimited}).Retryable())
	assert.True(t, (&ProviderError{Code: ServerError}).Retryable())
	assert.True(t, (&ProviderError{Code: Unknown}).Retryable())
}

func TestProviderErrorUnwrapAndFormat(t *testing.T) {
	t.Parallel()

	cause := errors.New("socket closed")
	err := fmt.Errorf("outer: %w", FromHTTPStatus("openai", 503, "", cause))

	pe, ok := AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, ServerError, pe.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "openai: server_error (status 503): socket closed", pe.Error())

	_, ok = AsProviderError(errors.New("plain"))
	assert.False(t, ok)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, err := ParseKind(" Anthropic ")
	require.NoError(t, err)
	assert.Equal(t, KindAnthropic, k)
	assert.True(t, k.NeedsAPIKey())
	assert.False(t, KindOllama.NeedsAPIKey())

	_, err = ParseKind("browser")
	assert.Error(t, err)
}
