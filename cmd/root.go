/* cmd/root.go */

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/frkngnc/commitor/cmd/analyze"
	"github.com/frkngnc/commitor/cmd/commit"
	"github.com/frkngnc/commitor/cmd/config"
	"github.com/frkngnc/commitor/cmd/doctor"
	"github.com/frkngnc/commitor/cmd/history"
	"github.com/frkngnc/commitor/cmd/language"
	"github.com/frkngnc/commitor/pkg/commitor_cli"
	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/logger"
	"github.com/frkngnc/commitor/pkg/shared"
	"github.com/frkngnc/commitor/pkg/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd runs the commit flow when no subcommand is given.
var RootCmd = &cobra.Command{
	Use:   "commitor",
	Short: "AI-generated conventional commit messages for your staged changes",
	Long: `commitor reads the staged changes of the current git repository, asks an
AI provider (OpenAI, Anthropic or a local Ollama model) for a conventional
commit message in your language, and commits it after you confirm.

Run "commitor config init" once, then "commitor" inside a repository.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          commitor_cli.Wrap(commit.Run),
}

// RegisterCommands adds all subcommands to the root command.
func RegisterCommands() {
	RootCmd.Version = shared.Version
	commit.AddFlags(RootCmd)

	for _, subCmd := range []*cobra.Command{
		commit.CommitCmd,
		analyze.AnalyzeCmd,
		language.LanguageCmd,
		config.ConfigCmd,
		doctor.DoctorCmd,
		history.HistoryCmd,
	} {
		RootCmd.AddCommand(subCmd)
	}
}

// Execute runs the CLI and exits with the code that matches the error.
func Execute() {
	if err := telemetry.Init("commitor"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: telemetry disabled: %v\n", err)
	}

	RegisterCommands()
	err := RootCmd.Execute()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	_ = telemetry.Shutdown(ctx)
	cancel()
	shared.SafeSync()

	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if commitor_err.IsExpectedUserError(err) {
		logger.L().Info("CLI completed with user error", zap.Error(err))
		return 0
	}

	// console level hides this; the log file keeps it with the stack
	logger.L().Info("CLI execution error", zap.String("error", fmt.Sprintf("%+v", err)))
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	if steps := commitor_err.RemediationOf(err); len(steps) > 0 {
		fmt.Fprintln(os.Stderr)
		for _, s := range steps {
			fmt.Fprintf(os.Stderr, "  - %s\n", s)
		}
	}
	return commitor_err.GetExitCode(err)
}
