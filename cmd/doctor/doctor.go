// cmd/doctor/doctor.go

package doctor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/frkngnc/commitor/pkg/ai"
	"github.com/frkngnc/commitor/pkg/cli"
	"github.com/frkngnc/commitor/pkg/cmd_helpers"
	"github.com/frkngnc/commitor/pkg/commitor_cli"
	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/commitor_io"
	"github.com/frkngnc/commitor/pkg/config"
	"github.com/frkngnc/commitor/pkg/git"
	"github.com/frkngnc/commitor/pkg/ollama"
	"github.com/frkngnc/commitor/pkg/output"
	"github.com/hashicorp/go-version"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// HealthTimeout bounds the provider health check.
const HealthTimeout = 15 * time.Second

// DoctorCmd checks that everything commitor depends on is in place.
var DoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check git, the repository, the configuration and the provider",
	Long: `Run the checks commitor depends on and report each one:

  git        installed and at least version ` + git.MinimumGitVersion + `
  identity   user.name and user.email are set
  repository the current directory is inside a git work tree
  config     the configuration file loads and validates
  provider   the configured provider answers with the stored credentials
  models     (ollama only) the models pulled on the local server`,
	Args: cobra.NoArgs,
	RunE: commitor_cli.Wrap(runDoctor),
}

func init() {
	cli.AddBoolFlag(DoctorCmd, "json", "", false, "Print the result as JSON")
	cli.AddBoolFlag(DoctorCmd, "offline", "", false, "Skip the provider health check")
}

// Check is one line of the report.
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

func runDoctor(rc *commitor_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
	logger := otelzap.Ctx(rc.Ctx)
	asJSON, _ := cmd.Flags().GetBool("json")
	offline, _ := cmd.Flags().GetBool("offline")

	c, err := cmd_helpers.NewContainer(rc, cmd_helpers.Options{Viper: config.NewViper()})
	if err != nil {
		return err
	}

	checks := RunChecks(rc.Ctx, c, !offline)

	failed := 0
	for _, ch := range checks {
		if !ch.OK {
			failed++
		}
	}
	logger.Debug("Doctor finished", zap.Int("checks", len(checks)), zap.Int("failed", failed))

	if asJSON {
		if err := output.JSONToStdout(checks); err != nil {
			return err
		}
	} else {
		for _, ch := range checks {
			c.Renderer.Status(ch.OK, ch.Name, ch.Detail)
		}
	}

	if failed > 0 {
		return commitor_err.NewValidationError(fmt.Sprintf("%d of %d checks failed", failed, len(checks)))
	}
	return nil
}

// RunChecks runs every check in order. A failing check never stops the others.
func RunChecks(ctx context.Context, c *cmd_helpers.Container, online bool) []Check {
	var checks []Check

	v, err := git.CheckGitInstalled(ctx)
	if err == nil {
		err = git.CheckGitVersion(v, git.MinimumGitVersion)
	}
	checks = append(checks, result("git", err, versionString(v)))

	checks = append(checks, result("identity", git.CheckGitIdentity(ctx, c.Dir), ""))

	if c.Repo.IsRepository(ctx) {
		branch, _ := c.Repo.CurrentBranch(ctx)
		checks = append(checks, Check{Name: "repository", OK: true, Detail: "branch " + branch})
	} else {
		checks = append(checks, Check{Name: "repository", Detail: "not inside a git work tree"})
	}

	cfgErr := config.Validate(c.Config)
	if cfgErr == nil && !c.Store.Exists() {
		checks = append(checks, Check{Name: "config", OK: true, Detail: "defaults (run `commitor config init`)"})
	} else {
		checks = append(checks, result("config", cfgErr, c.Store.Path()))
	}

	if !online {
		return checks
	}

	provider, err := ai.New(cmd_helpers.ProviderConfig(c.Config))
	if err != nil {
		return append(checks, result("provider", err, ""))
	}
	hctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()
	checks = append(checks, result("provider", provider.HealthCheck(hctx), provider.Name()))

	if c.Config.Provider == config.ProviderOllama {
		checks = append(checks, ModelsCheck(hctx, ollama.NewClient(c.Config.BaseURL, nil)))
	}
	return checks
}

// ModelsCheck lists the models pulled on a local Ollama server with their sizes.
func ModelsCheck(ctx context.Context, client *ollama.Client) Check {
	models, err := client.ListModels(ctx)
	if err != nil {
		return result("models", err, "")
	}
	if len(models) == 0 {
		return Check{Name: "models", Detail: "no models pulled on " + client.Endpoint()}
	}

	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, fmt.Sprintf("%s (%s)", m.Name, ollama.FormatSizeBytes(m.Size)))
	}
	return Check{Name: "models", OK: true, Detail: strings.Join(names, ", ")}
}

func result(name string, err error, detail string) Check {
	if err != nil {
		return Check{Name: name, Detail: err.Error()}
	}
	return Check{Name: name, OK: true, Detail: detail}
}

func versionString(v *version.Version) string {
	if v == nil {
		return ""
	}
	return "version " + v.String()
}
