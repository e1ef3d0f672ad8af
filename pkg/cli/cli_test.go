package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlagsToViper(t *testing.T) {
	cmd := &cobra.Command{Use: "commit"}
	AddStringFlag(cmd, "provider", "p", "", "provider", false)
	AddIntFlag(cmd, "max-attempts", "", 3, "attempts")
	AddBoolFlag(cmd, "dry-run", "", false, "dry run")

	v := viper.New()
	require.NoError(t, BindFlagsToViper(cmd, v, "provider", "max-attempts"))
	require.NoError(t, cmd.Flags().Set("max-attempts", "5"))

	assert.Equal(t, 5, v.GetInt("max_attempts"))
	assert.False(t, v.IsSet("dry_run"))
}

func TestEnvPrefixResolvesUnderscoreKeys(t *testing.T) {
	t.Setenv("COMMITOR_MAX_ATTEMPTS", "7")

	v := viper.New()
	SetViperEnvPrefix(v, "COMMITOR")
	assert.Equal(t, 7, v.GetInt("max_attempts"))
	assert.Equal(t, 7, v.GetInt("max-attempts"))
}
