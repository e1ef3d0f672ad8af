// pkg/cli/cli.go
//
// Flag helpers shared by the commitor commands. Flags are declared through
// the Add* helpers and then bound into a viper instance so that a flag, an
// environment variable (COMMITOR_ prefix) and the config file resolve through
// one lookup. Flag names use dashes; viper keys use underscores so that
// `--max-attempts`, `COMMITOR_MAX_ATTEMPTS` and `max_attempts:` all meet.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AddStringFlag adds a string flag and optionally marks as required.
// Env/Config are handled by Viper if you call BindFlagsToViper.
func AddStringFlag(cmd *cobra.Command, name, shorthand, def, help string, required bool) {
	cmd.Flags().StringP(name, shorthand, def, help)
	if required {
		if err := cmd.MarkFlagRequired(name); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to mark flag %s as required: %v\n", name, err)
		}
	}
}

// AddBoolFlag adds a boolean flag.
func AddBoolFlag(cmd *cobra.Command, name, shorthand string, def bool, help string) {
	cmd.Flags().BoolP(name, shorthand, def, help)
}

// AddIntFlag adds an int flag.
func AddIntFlag(cmd *cobra.Command, name, shorthand string, def int, help string) {
	cmd.Flags().IntP(name, shorthand, def, help)
}

// ViperKey maps a flag name onto its viper key.
func ViperKey(flagName string) string {
	return strings.ReplaceAll(flagName, "-", "_")
}

// BindFlagsToViper binds all flags on a command to a Viper instance.
// Only the names listed in keys are bound when keys is non-empty.
func BindFlagsToViper(cmd *cobra.Command, v *viper.Viper, keys ...string) error {
	allowed := make(map[string]bool, len(keys))
	for _, k := range keys {
		allowed[k] = true
	}

	var result error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if len(allowed) > 0 && !allowed[f.Name] {
			return
		}
		if err := v.BindPFlag(ViperKey(f.Name), f); err != nil {
			result = multierror.Append(result, err)
		}
	})
	return result
}

// SetViperEnvPrefix lets Viper read env with prefix.
func SetViperEnvPrefix(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}
