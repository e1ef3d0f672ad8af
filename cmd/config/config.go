// cmd/config/config.go

package config

import (
	"fmt"
	"strconv"

	"github.com/frkngnc/commitor/pkg/cli"
	"github.com/frkngnc/commitor/pkg/cmd_helpers"
	"github.com/frkngnc/commitor/pkg/commitor_cli"
	"github.com/frkngnc/commitor/pkg/commitor_io"
	appconfig "github.com/frkngnc/commitor/pkg/config"
	"github.com/frkngnc/commitor/pkg/crypto"
	"github.com/frkngnc/commitor/pkg/output"
	"github.com/spf13/cobra"
)

// ConfigCmd manages the stored configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the commitor configuration",
	Long: `Manage the commitor configuration file.

The file lives under $XDG_CONFIG_HOME/commitor (mode 0600). The API key is
stored encrypted with a key derived from this machine, so the file cannot
simply be copied to another host.

Values resolve in this order: command-line flags, COMMITOR_* environment
variables, the config file, then built-in defaults. OPENAI_API_KEY and
ANTHROPIC_API_KEY are used when no key is configured.

Examples:
  commitor config init
  commitor config set language tr
  commitor config set model gpt-4o
  commitor config show
  commitor config clear`,
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: commitor_cli.Wrap(func(rc *commitor_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		fmt.Println(appconfig.DefaultPath())
		return nil
	}),
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration (API key masked)",
	Args:  cobra.NoArgs,
	RunE:  commitor_cli.Wrap(runShow),
}

func init() {
	cli.AddBoolFlag(showCmd, "json", "", false, "Print the result as JSON")

	ConfigCmd.AddCommand(initCmd, setCmd, showCmd, clearCmd, pathCmd)
}

// View is the displayed form of a configuration.
type View struct {
	Path     string `json:"path"`
	Exists   bool   `json:"exists"`
	Provider string `json:"provider"`
	Language string `json:"language"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`

	MaxAttempts       int     `json:"max_attempts"`
	RequestsPerMinute int     `json:"requests_per_minute"`
	Temperature       float32 `json:"temperature"`
}

// NewView masks the key and describes the language preference.
func NewView(path string, exists bool, cfg appconfig.Config) View {
	key := "not set"
	if cfg.APIKey != "" {
		key = crypto.MaskKey(cfg.APIKey)
	}
	return View{
		Path:              path,
		Exists:            exists,
		Provider:          string(cfg.Provider),
		Language:          DescribeLanguage(cfg.Language, cfg.CustomLanguage),
		APIKey:            key,
		Model:             cfg.Model,
		BaseURL:           cfg.BaseURL,
		MaxAttempts:       cfg.MaxAttempts,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Temperature:       cfg.Temperature,
	}
}

// DescribeLanguage renders a language preference for people.
func DescribeLanguage(lang appconfig.Language, custom string) string {
	switch lang {
	case appconfig.LanguageAuto:
		return "automatic (README + git history)"
	case appconfig.LanguageCustom:
		if custom == "" {
			return "custom (not set)"
		}
		return "custom (" + custom + ")"
	case appconfig.LanguageTurkish:
		return "Turkish"
	case appconfig.LanguageEnglish:
		return "English"
	}
	return string(lang)
}

func runShow(rc *commitor_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	c, err := cmd_helpers.NewContainer(rc, cmd_helpers.Options{Viper: appconfig.NewViper()})
	if err != nil {
		return err
	}
	view := NewView(c.Store.Path(), c.Store.Exists(), c.Config)

	if asJSON {
		return output.JSONToStdout(view)
	}

	model := view.Model
	if model == "" {
		model = "(provider default)"
	}
	t := output.NewTable().WithHeaders("KEY", "VALUE")
	t.AddRow("provider", view.Provider)
	t.AddRow("language", view.Language)
	t.AddRow("api_key", view.APIKey)
	t.AddRow("model", model)
	if view.BaseURL != "" {
		t.AddRow("base_url", view.BaseURL)
	}
	t.AddRow("max_attempts", strconv.Itoa(view.MaxAttempts))
	t.AddRow("requests_per_minute", strconv.Itoa(view.RequestsPerMinute))
	t.AddRow("temperature", strconv.FormatFloat(float64(view.Temperature), 'f', -1, 32))
	t.AddRow("path", view.Path)
	if !view.Exists {
		t.AddRow("", "(no file yet, showing defaults)")
	}
	return t.Render()
}
