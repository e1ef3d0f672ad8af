package commitor_err

import (
	"errors"
	"fmt"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeMatching(t *testing.T) {
	t.Parallel()

	base := Wrap(GenerationServerError, errors.New("upstream 502"), "provider failed")
	wrapped := cerr.Wrap(fmt.Errorf("attempt 2: %w", base), "generate")

	assert.True(t, Is(wrapped, GenerationServerError))
	assert.False(t, Is(wrapped, GenerationAuthError))
	assert.Equal(t, GenerationServerError, CodeOf(wrapped))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
}

func TestCodeRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code Code
		want bool
	}{
		{GenerationServerError, true},
		{EmptyGeneratedMessage, true},
		{GenerationAuthError, false},
		{GenerationRateLimited, false},
		{NoStagedChanges, false},
		{DecryptionFailure, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.code), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.code.Retryable())
		})
	}
}

func TestGetExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"validation", NewValidationError("bad flag"), 2},
		{"cancelled", NewCancelledError("aborted"), 130},
		{"coded_config", New(ConfigurationMissing, "no config"), 2},
		{"coded_git", New(NotARepository, "not a repo"), 1},
		{"expected", NewExpectedError(New(NoStagedChanges, "nothing staged")), 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestClassifiedErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ClassifiedError{
		Category:    CategoryGit,
		Message:     "git is not installed",
		Cause:       errors.New("exec: git: not found"),
		Remediation: []string{"install git", "re-run commitor doctor"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "git is not installed")
	assert.Contains(t, msg, "Cause: exec: git: not found")
	assert.Contains(t, msg, "1. install git")
	assert.Contains(t, msg, "2. re-run commitor doctor")
	require.ErrorIs(t, err, err.Cause)
}

func TestRemediationOf(t *testing.T) {
	t.Parallel()

	err := cerr.Wrap(New(NoStagedChanges, "nothing staged", "run git add"), "analyze")
	assert.Equal(t, []string{"run git add"}, RemediationOf(err))
	assert.Nil(t, RemediationOf(errors.New("plain")))
}

func TestNewExpectedErrorNil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, NewExpectedError(nil))
	assert.False(t, IsExpectedUserError(errors.New("x")))
}
