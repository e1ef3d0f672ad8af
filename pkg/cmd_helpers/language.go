// pkg/cmd_helpers/language.go

package cmd_helpers

import (
	"errors"

	"github.com/frkngnc/commitor/pkg/commitor"
	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/commitor_io"
	"github.com/frkngnc/commitor/pkg/config"
	"github.com/frkngnc/commitor/pkg/interaction"
	"github.com/frkngnc/commitor/pkg/prompt"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// LanguageChoices are offered when the language cannot be settled from config.
var LanguageChoices = []string{"Turkish", "English", "Other language..."}

// ResolveLanguage settles the message language for this run, asking the
// user when detection is inconclusive or the custom name is missing.
func ResolveLanguage(rc *commitor_io.RuntimeContext, c *Container) (string, error) {
	logger := otelzap.Ctx(rc.Ctx)

	label, detected, err := c.Service.ResolveLanguage(rc.Ctx, c.Config.Language, c.Config.CustomLanguage)
	switch {
	case errors.Is(err, commitor.ErrLanguageUndecided):
		logger.Warn("terminal prompt: Automatic language detection failed. Please choose a language.")
		return PromptLanguage(rc, c.Prompter)

	case err != nil && c.Config.Language == config.LanguageCustom && commitor_err.Is(err, commitor_err.ConfigurationMissing):
		logger.Warn("terminal prompt: Custom language is not set. Please enter the language you want to use.")
		return promptCustom(rc, c.Prompter)

	case err != nil:
		return "", err
	}

	if detected {
		logger.Info("terminal prompt: Detected language", zap.String("language", label))
	}
	return label, nil
}

// PromptLanguage asks for a language. Without input it falls back to the default.
func PromptLanguage(rc *commitor_io.RuntimeContext, p *interaction.Prompter) (string, error) {
	idx, err := p.Select(rc.Ctx, "Select language for this commit:", LanguageChoices)
	if errors.Is(err, interaction.ErrNoInput) {
		otelzap.Ctx(rc.Ctx).Warn("No language chosen, using default", zap.String("language", prompt.DefaultLanguage))
		return prompt.DefaultLanguage, nil
	}
	if err != nil {
		return "", err
	}
	if idx < len(LanguageChoices)-1 {
		return LanguageChoices[idx], nil
	}
	return promptCustom(rc, p)
}

func promptCustom(rc *commitor_io.RuntimeContext, p *interaction.Prompter) (string, error) {
	name, err := p.Required(rc.Ctx, "Language name (e.g. German)", config.CheckLanguageName)
	if errors.Is(err, interaction.ErrNoInput) {
		return prompt.DefaultLanguage, nil
	}
	return name, err
}
