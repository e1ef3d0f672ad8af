// cmd/language/language.go

package language

import (
	"github.com/frkngnc/commitor/pkg/cli"
	"github.com/frkngnc/commitor/pkg/cmd_helpers"
	"github.com/frkngnc/commitor/pkg/commitor_cli"
	"github.com/frkngnc/commitor/pkg/commitor_io"
	"github.com/frkngnc/commitor/pkg/output"
	"github.com/spf13/cobra"
)

// LanguageCmd shows what automatic language detection decides for this repository.
var LanguageCmd = &cobra.Command{
	Use:   "language",
	Short: "Detect the commit message language of this repository",
	Long: `Score the README and the recent commit messages for Turkish and English
and print the decision with a per-source breakdown. This is what the
"auto" language setting uses.`,
	Args: cobra.NoArgs,
	RunE: commitor_cli.Wrap(runLanguage),
}

func init() {
	cli.AddBoolFlag(LanguageCmd, "json", "", false, "Print the result as JSON")
}

func runLanguage(rc *commitor_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	c, err := cmd_helpers.NewContainer(rc, cmd_helpers.Options{})
	if err != nil {
		return err
	}

	res := c.Service.DetectLanguage(rc.Ctx)
	if asJSON {
		return output.JSONToStdout(res)
	}
	return c.Renderer.Language(res)
}
