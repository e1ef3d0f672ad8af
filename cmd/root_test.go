package cmd

import (
	"errors"
	"testing"

	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCommands(t *testing.T) {
	RegisterCommands()

	for _, name := range []string{"commit", "analyze", "language", "config", "doctor", "history"} {
		c, _, err := RootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}

	c, _, err := RootCmd.Find([]string{"config", "logout"})
	require.NoError(t, err)
	assert.Equal(t, "clear", c.Name())

	for _, flag := range []string{"dry-run", "yes", "amend", "language", "provider", "model", "max-attempts"} {
		assert.NotNil(t, RootCmd.Flags().Lookup(flag), flag)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "expected user error", err: commitor_err.NewExpectedError(
			commitor_err.New(commitor_err.NoStagedChanges, "no staged changes")), want: 0},
		{name: "validation", err: commitor_err.NewValidationError("bad flag"), want: 2},
		{name: "configuration", err: commitor_err.New(commitor_err.ConfigurationMissing, "no key"), want: 2},
		{name: "cancelled", err: commitor_err.NewCancelledError("interrupted"), want: 130},
		{name: "plain error", err: errors.New("boom"), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
