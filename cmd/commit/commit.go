// cmd/commit/commit.go

package commit

import (
	"context"
	"errors"

	"github.com/frkngnc/commitor/pkg/classify"
	"github.com/frkngnc/commitor/pkg/cli"
	"github.com/frkngnc/commitor/pkg/cmd_helpers"
	"github.com/frkngnc/commitor/pkg/commitor_cli"
	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/commitor_io"
	"github.com/frkngnc/commitor/pkg/config"
	"github.com/frkngnc/commitor/pkg/git"
	"github.com/frkngnc/commitor/pkg/interaction"
	"github.com/frkngnc/commitor/pkg/message"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// OverrideFlags are the flags that map onto configuration keys.
var OverrideFlags = []string{"language", "provider", "model", "max-attempts"}

// CommitCmd generates a message for the staged changes and commits it.
var CommitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate a commit message for the staged changes and commit",
	Long: `Analyze the staged changes, generate a conventional commit message with
the configured AI provider and commit it after confirmation.

The generated message is shown together with any format warnings. You can
then commit it, edit it, ask for a new one, or cancel.

Examples:
  commitor commit                     # interactive
  commitor commit --dry-run           # print the message only
  commitor commit --yes               # commit the first message
  commitor commit --language German   # one-off language override
  commitor commit --amend             # rewrite the last commit message`,
	Args: cobra.NoArgs,
	RunE: commitor_cli.Wrap(Run),
}

func init() {
	AddFlags(CommitCmd)
}

// AddFlags registers the commit flags on cmd. The root command shares them.
func AddFlags(cmd *cobra.Command) {
	cli.AddBoolFlag(cmd, "dry-run", "n", false, "Print the generated message without committing")
	cli.AddBoolFlag(cmd, "yes", "y", false, "Commit the first generated message without asking")
	cli.AddBoolFlag(cmd, "amend", "", false, "Amend the previous commit instead of creating a new one")
	cli.AddStringFlag(cmd, "language", "l", "", "Message language: tr, en, auto or a language name", false)
	cli.AddStringFlag(cmd, "provider", "p", "", "AI provider: openai, anthropic or ollama", false)
	cli.AddStringFlag(cmd, "model", "m", "", "Model name override", false)
	cli.AddIntFlag(cmd, "max-attempts", "", config.DefaultMaxAttempts, "Generation attempts before giving up")
}

type flags struct {
	dryRun bool
	yes    bool
	amend  bool
}

func readFlags(cmd *cobra.Command) flags {
	var f flags
	f.dryRun, _ = cmd.Flags().GetBool("dry-run")
	f.yes, _ = cmd.Flags().GetBool("yes")
	f.amend, _ = cmd.Flags().GetBool("amend")
	return f
}

// Run is the commit flow: analyze, settle the language, generate, then loop
// over the user's actions until a commit or a cancel.
func Run(rc *commitor_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
	logger := otelzap.Ctx(rc.Ctx)
	f := readFlags(cmd)

	v := config.NewViper()
	if err := cli.BindFlagsToViper(cmd, v, OverrideFlags...); err != nil {
		return err
	}

	c, err := cmd_helpers.NewContainer(rc, cmd_helpers.Options{
		Viper:        v,
		NeedProvider: true,
		ConfirmRetry: !f.yes,
	})
	if err != nil {
		return err
	}

	// ASSESS
	if !f.dryRun {
		if err := git.RunPreflightChecks(rc.Ctx, c.Dir, git.DefaultPreflightConfig()); err != nil {
			return err
		}
	}

	cs, err := c.Service.Analyze(rc.Ctx)
	if err != nil {
		if commitor_err.Is(err, commitor_err.NoStagedChanges) {
			logger.Warn("terminal prompt: No staged changes. Stage files with `git add <path>` first.")
			return commitor_err.NewExpectedError(err)
		}
		return err
	}
	_, rule := classify.DefaultPolicy.Explain(cs.Files())
	if err := c.Renderer.ChangeSet(cs, rule); err != nil {
		return err
	}

	lang, err := cmd_helpers.ResolveLanguage(rc, c)
	if err != nil {
		return err
	}

	logger.Info("terminal prompt: Generating commit message",
		zap.String("provider", c.Provider.Name()),
		zap.String("language", lang))
	msg, err := c.Service.GenerateMessage(rc.Ctx, cs, lang)
	if err != nil {
		return err
	}

	// INTERVENE
	for {
		c.Renderer.Message(msg, c.Service.Validate(msg))
		if f.dryRun {
			return nil
		}

		action := interaction.ActionCommit
		if !f.yes {
			action, err = c.Prompter.ChooseAction(rc.Ctx, "What would you like to do?", interaction.DefaultActions)
			if err != nil {
				return err
			}
		}
		logger.Debug("Action chosen", zap.String("action", string(action)))

		switch action {
		case interaction.ActionCommit:
			res, err := c.Service.Commit(rc.Ctx, msg, f.amend)
			if err != nil {
				return err
			}
			// EVALUATE
			c.Renderer.Committed(res)
			return nil

		case interaction.ActionEdit:
			text, ok, err := c.Prompter.Edit(rc.Ctx, msg.Raw())
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			edited := message.FromRaw(text)
			if edited.IsZero() {
				logger.Warn("terminal prompt: Edited message is empty, keeping the previous one")
				continue
			}
			msg = edited

		case interaction.ActionRegenerate:
			logger.Info("terminal prompt: Regenerating message")
			next, err := c.Service.GenerateMessage(rc.Ctx, cs, lang)
			if err != nil {
				if isFatal(err) {
					return err
				}
				logger.Error("terminal prompt: Regeneration failed", zap.Error(err))
				continue
			}
			msg = next

		default:
			logger.Info("terminal prompt: Commit cancelled")
			return nil
		}
	}
}

func isFatal(err error) bool {
	switch commitor_err.CodeOf(err) {
	case commitor_err.GenerationAuthError, commitor_err.GenerationRateLimited:
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
