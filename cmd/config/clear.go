// cmd/config/clear.go

package config

import (
	"github.com/frkngnc/commitor/pkg/cli"
	"github.com/frkngnc/commitor/pkg/commitor_cli"
	"github.com/frkngnc/commitor/pkg/commitor_io"
	appconfig "github.com/frkngnc/commitor/pkg/config"
	"github.com/frkngnc/commitor/pkg/interaction"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

var clearCmd = &cobra.Command{
	Use:     "clear",
	Aliases: []string{"logout"},
	Short:   "Remove the configuration file and the stored API key",
	Args:    cobra.NoArgs,
	RunE:    commitor_cli.Wrap(runClear),
}

func init() {
	cli.AddBoolFlag(clearCmd, "yes", "y", false, "Do not ask for confirmation")
}

func runClear(rc *commitor_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
	logger := otelzap.Ctx(rc.Ctx)
	yes, _ := cmd.Flags().GetBool("yes")

	store := appconfig.NewStore(appconfig.DefaultPath())
	if !store.Exists() {
		logger.Info("terminal prompt: No configuration found. Nothing to clear.")
		return nil
	}

	if !yes {
		logger.Warn("terminal prompt: This removes all saved configuration including the API key")
		ok, err := interaction.New().YesNo(rc.Ctx, "Are you sure you want to continue?", false)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("terminal prompt: Clear cancelled")
			return nil
		}
	}

	if err := store.Clear(rc.Ctx); err != nil {
		return err
	}
	logger.Info("terminal prompt: Configuration cleared")
	return nil
}
