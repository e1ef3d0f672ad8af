// cmd/config/set.go

package config

import (
	"strings"

	"github.com/frkngnc/commitor/pkg/commitor_cli"
	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/commitor_io"
	appconfig "github.com/frkngnc/commitor/pkg/config"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration value",
	Long: `Set one configuration value and save the file.

Keys: ` + strings.Join(appconfig.Keys, ", ") + `

A language value other than tr, en, auto or custom is stored as a custom
language name, so "commitor config set language German" works.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: appconfig.Keys,
	RunE:      commitor_cli.Wrap(runSet),
}

func runSet(rc *commitor_io.RuntimeContext, _ *cobra.Command, args []string) error {
	logger := otelzap.Ctx(rc.Ctx)
	key, value := args[0], args[1]

	store := appconfig.NewStore(appconfig.DefaultPath())
	cfg, err := store.Update(rc.Ctx, func(cfg *appconfig.Config) error {
		if err := appconfig.Set(cfg, key, value); err != nil {
			return commitor_err.NewValidationError(err.Error())
		}
		return nil
	})
	if err != nil {
		return err
	}

	shown := value
	if isSecretKey(key) {
		shown = "(hidden)"
	}
	logger.Info("terminal prompt: Configuration updated",
		zap.String("key", key),
		zap.String("value", shown),
		zap.String("language", DescribeLanguage(cfg.Language, cfg.CustomLanguage)))
	return nil
}

func isSecretKey(key string) bool {
	k := strings.ToLower(strings.ReplaceAll(key, "-", "_"))
	return k == "api_key"
}
