// cmd/config/init.go

package config

import (
	"context"
	"fmt"
	"time"

	"github.com/frkngnc/commitor/pkg/ai"
	"github.com/frkngnc/commitor/pkg/cli"
	"github.com/frkngnc/commitor/pkg/cmd_helpers"
	"github.com/frkngnc/commitor/pkg/commitor_cli"
	"github.com/frkngnc/commitor/pkg/commitor_io"
	appconfig "github.com/frkngnc/commitor/pkg/config"
	"github.com/frkngnc/commitor/pkg/interaction"
	"github.com/frkngnc/commitor/pkg/language"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// KeyCheckTimeout bounds the API key health check during init.
const KeyCheckTimeout = 15 * time.Second

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup: provider, API key and language",
	Args:  cobra.NoArgs,
	RunE:  commitor_cli.Wrap(runInit),
}

func init() {
	cli.AddBoolFlag(initCmd, "skip-check", "", false, "Do not verify the API key with the provider")
	cli.AddBoolFlag(initCmd, "force", "f", false, "Overwrite an existing configuration without asking")
}

var providerChoices = []struct {
	kind  appconfig.Provider
	label string
}{
	{appconfig.ProviderOpenAI, "OpenAI (ChatGPT)"},
	{appconfig.ProviderAnthropic, "Anthropic (Claude)"},
	{appconfig.ProviderOllama, "Ollama (local models)"},
}

var languageChoices = []struct {
	lang  appconfig.Language
	label string
}{
	{appconfig.LanguageAuto, "Automatic (README + git history)"},
	{appconfig.LanguageTurkish, "Turkish"},
	{appconfig.LanguageEnglish, "English"},
	{appconfig.LanguageCustom, "Other language..."},
}

// KeyChecker verifies a candidate configuration against the provider.
type KeyChecker func(ctx context.Context, cfg appconfig.Config) error

// CheckWithProvider builds the provider and runs its health check.
func CheckWithProvider(ctx context.Context, cfg appconfig.Config) error {
	p, err := ai.New(cmd_helpers.ProviderConfig(cfg))
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, KeyCheckTimeout)
	defer cancel()
	return p.HealthCheck(ctx)
}

func runInit(rc *commitor_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
	logger := otelzap.Ctx(rc.Ctx)
	skipCheck, _ := cmd.Flags().GetBool("skip-check")
	force, _ := cmd.Flags().GetBool("force")

	c, err := cmd_helpers.NewContainer(rc, cmd_helpers.Options{})
	if err != nil {
		return err
	}

	// ASSESS
	if c.Store.Exists() && !force {
		overwrite, err := c.Prompter.YesNo(rc.Ctx, "Configuration already exists. Overwrite it?", false)
		if err != nil {
			return err
		}
		if !overwrite {
			logger.Info("terminal prompt: Setup cancelled")
			return nil
		}
	}

	var check KeyChecker = CheckWithProvider
	if skipCheck {
		check = nil
	}
	hint := c.Service.DetectLanguage(rc.Ctx)

	// INTERVENE
	cfg, err := Wizard(rc.Ctx, c.Prompter, hint, check)
	if err != nil {
		return err
	}
	if cfg == nil {
		logger.Info("terminal prompt: Setup cancelled")
		return nil
	}
	if err := c.Store.Save(rc.Ctx, *cfg); err != nil {
		return err
	}

	// EVALUATE
	logger.Info("terminal prompt: Setup complete",
		zap.String("config", c.Store.Path()),
		zap.String("provider", string(cfg.Provider)),
		zap.String("language", DescribeLanguage(cfg.Language, cfg.CustomLanguage)))
	logger.Info("terminal prompt: You can now run `commitor commit` to generate commit messages")
	return nil
}

// Wizard asks for the provider, credentials and language. A nil config
// with a nil error means the user gave up.
func Wizard(ctx context.Context, p *interaction.Prompter, hint language.Result, check KeyChecker) (*appconfig.Config, error) {
	logger := otelzap.Ctx(ctx)
	cfg := appconfig.Default()

	labels := make([]string, len(providerChoices))
	for i, pc := range providerChoices {
		labels[i] = pc.label
	}
	idx, err := p.Select(ctx, "Which AI provider should generate messages?", labels)
	if err != nil {
		return nil, err
	}
	cfg.Provider = providerChoices[idx].kind

	if ai.Kind(cfg.Provider).NeedsAPIKey() {
		ok, err := askKey(ctx, p, &cfg, check)
		if err != nil || !ok {
			return nil, err
		}
	} else {
		d := ai.Defaults(ai.Kind(cfg.Provider))
		if cfg.Model, err = p.Input(ctx, "Model", d.Model); err != nil {
			return nil, err
		}
		if cfg.BaseURL, err = p.Input(ctx, "Ollama URL", d.BaseURL); err != nil {
			return nil, err
		}
		if check != nil {
			if err := check(ctx, cfg); err != nil {
				logger.Warn("terminal prompt: Ollama check failed; the configuration is saved anyway", zap.Error(err))
			}
		}
	}

	if hint.Decided() {
		logger.Info("terminal prompt: Detected language from README and commit history",
			zap.String("language", language.Label(string(hint.Language))),
			zap.String("confidence", fmt.Sprintf("%.0f%%", hint.Confidence*100)))
	} else {
		logger.Info("terminal prompt: Unable to detect the language automatically")
	}

	labels = make([]string, len(languageChoices))
	for i, lc := range languageChoices {
		labels[i] = lc.label
	}
	idx, err = p.Select(ctx, "Which language should commit messages use?", labels)
	if err != nil {
		return nil, err
	}
	cfg.Language = languageChoices[idx].lang
	if cfg.Language == appconfig.LanguageCustom {
		if cfg.CustomLanguage, err = p.Required(ctx, "Language name (e.g. German)", appconfig.CheckLanguageName); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// askKey loops until the key is well-formed and, when check is set, accepted
// by the provider. ok is false when the user stops trying.
func askKey(ctx context.Context, p *interaction.Prompter, cfg *appconfig.Config, check KeyChecker) (bool, error) {
	logger := otelzap.Ctx(ctx)
	for {
		key, err := p.Secret(ctx, fmt.Sprintf("%s API key", cfg.Provider))
		if err != nil {
			return false, err
		}

		problem := appconfig.CheckAPIKey(cfg.Provider, key)
		if problem == nil && check != nil {
			candidate := *cfg
			candidate.APIKey = key
			logger.Info("terminal prompt: Validating API key", zap.String("provider", string(cfg.Provider)))
			problem = check(ctx, candidate)
		}
		if problem == nil {
			cfg.APIKey = key
			return true, nil
		}

		logger.Error("terminal prompt: API key validation failed", zap.Error(problem))
		retry, err := p.YesNo(ctx, "Try a different API key?", true)
		if err != nil || !retry {
			return false, err
		}
	}
}
