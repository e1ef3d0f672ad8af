// cmd/analyze/analyze.go

package analyze

import (
	"fmt"

	"github.com/frkngnc/commitor/pkg/changeset"
	"github.com/frkngnc/commitor/pkg/classify"
	"github.com/frkngnc/commitor/pkg/cli"
	"github.com/frkngnc/commitor/pkg/cmd_helpers"
	"github.com/frkngnc/commitor/pkg/commitor_cli"
	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/commitor_io"
	"github.com/frkngnc/commitor/pkg/output"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// AnalyzeCmd prints the staged change set without calling a provider.
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Show the staged changes and the detected commit type",
	Long: `Analyze the staged changes the same way the commit command does and print
the files, line counts, the detected commit type and the rule that chose it.
No provider is contacted.

Examples:
  commitor analyze
  commitor analyze --json | jq .changes.stats`,
	Args: cobra.NoArgs,
	RunE: commitor_cli.Wrap(runAnalyze),
}

func init() {
	cli.AddBoolFlag(AnalyzeCmd, "json", "", false, "Print the result as JSON")
}

// Result is the JSON form of an analysis.
type Result struct {
	Changes *changeset.ChangeSet `json:"changes"`
	Rule    string               `json:"rule"`
	Scope   string               `json:"scope,omitempty"`
}

func runAnalyze(rc *commitor_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
	logger := otelzap.Ctx(rc.Ctx)
	asJSON, _ := cmd.Flags().GetBool("json")

	c, err := cmd_helpers.NewContainer(rc, cmd_helpers.Options{})
	if err != nil {
		return err
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
	res := Result{Changes: cs, Rule: rule, Scope: classify.SuggestScope(cs.Files())}
	logger.Debug("Analysis complete", zap.String("summary", cs.Summary()), zap.String("rule", rule))

	if asJSON {
		return output.JSONToStdout(res)
	}
	if err := c.Renderer.ChangeSet(cs, rule); err != nil {
		return err
	}
	if res.Scope != "" {
		fmt.Printf("scope: %s\n", res.Scope)
	}
	return nil
}
