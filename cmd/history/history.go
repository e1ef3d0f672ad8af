// cmd/history/history.go

package history

import (
	"github.com/frkngnc/commitor/pkg/cli"
	"github.com/frkngnc/commitor/pkg/cmd_helpers"
	"github.com/frkngnc/commitor/pkg/commitor_cli"
	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/commitor_io"
	"github.com/frkngnc/commitor/pkg/output"
	"github.com/spf13/cobra"
)

const defaultCount = 10

// HistoryCmd lists recent commits.
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent commits of the current branch",
	Args:  cobra.NoArgs,
	RunE:  commitor_cli.Wrap(runHistory),
}

func init() {
	cli.AddIntFlag(HistoryCmd, "count", "n", defaultCount, "Number of commits to show")
	cli.AddBoolFlag(HistoryCmd, "json", "", false, "Print the result as JSON")
}

func runHistory(rc *commitor_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
	n, _ := cmd.Flags().GetInt("count")
	asJSON, _ := cmd.Flags().GetBool("json")
	if n <= 0 {
		return commitor_err.NewValidationError("--count must be positive")
	}

	c, err := cmd_helpers.NewContainer(rc, cmd_helpers.Options{})
	if err != nil {
		return err
	}
	if !c.Repo.IsRepository(rc.Ctx) {
		return commitor_err.New(commitor_err.NotARepository, "not a git repository",
			"run commitor inside a git working tree")
	}

	commits, err := c.Repo.History(rc.Ctx, n)
	if err != nil {
		return err
	}
	if asJSON {
		return output.JSONToStdout(commits)
	}
	return c.Renderer.History(commits)
}
