// Package cmd_helpers assembles the objects a command needs from the
// resolved configuration so that every command wires them the same way.
package cmd_helpers

import (
	"context"
	"os"
	"time"

	"github.com/frkngnc/commitor/pkg/ai"
	"github.com/frkngnc/commitor/pkg/commitor"
	"github.com/frkngnc/commitor/pkg/commitor_io"
	"github.com/frkngnc/commitor/pkg/config"
	"github.com/frkngnc/commitor/pkg/git"
	"github.com/frkngnc/commitor/pkg/interaction"
	"github.com/frkngnc/commitor/pkg/output"
	"github.com/spf13/viper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// RetryDelay is the pause between generation attempts.
const RetryDelay = time.Second

// Options selects what the container builds.
type Options struct {
	// Dir is the working directory; empty means the process cwd.
	Dir string
	// Viper carries flag and environment overrides. May be nil.
	Viper *viper.Viper
	// NeedProvider validates the configuration and builds the AI provider.
	NeedProvider bool
	// ConfigPath overrides the config file location.
	ConfigPath string
	// ConfirmRetry asks before every generation retry.
	ConfirmRetry bool
}

// Container holds the wired dependencies of one command run.
type Container struct {
	Dir      string
	Repo     *git.Repository
	Store    *config.Store
	Config   config.Config
	Provider ai.Provider
	Service  *commitor.Service
	Prompter *interaction.Prompter
	Renderer *output.Renderer
}

// NewContainer resolves configuration and builds the service.
func NewContainer(rc *commitor_io.RuntimeContext, opts Options) (*Container, error) {
	logger := rc.Log.Named("container")

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}

	config.LoadDotEnv(rc.Ctx, dir)

	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	store := config.NewStore(path)

	var (
		cfg config.Config
		err error
	)
	if opts.NeedProvider {
		cfg, err = config.Resolve(rc.Ctx, store, opts.Viper)
	} else {
		cfg, err = config.Overlay(rc.Ctx, store, opts.Viper)
	}
	if err != nil {
		return nil, err
	}

	// git paths in status and numstat output are root-relative
	repo := git.Open(dir)
	readmeDir := dir
	if root, rootErr := repo.Root(rc.Ctx); rootErr == nil {
		repo = git.Open(root)
		readmeDir = root
	}

	c := &Container{
		Dir:      dir,
		Repo:     repo,
		Store:    store,
		Config:   cfg,
		Prompter: interaction.New(),
		Renderer: NewRenderer(),
	}

	if opts.NeedProvider {
		c.Provider, err = ai.New(ProviderConfig(cfg))
		if err != nil {
			return nil, err
		}
	}

	var onRetry commitor.RetryFunc
	if opts.ConfirmRetry {
		onRetry = ConfirmRetry(c.Prompter)
	}

	c.Service, err = commitor.New(commitor.Options{
		Repo:        repo,
		Log:         repo,
		Committer:   repo,
		Provider:    c.Provider,
		ReadmeDir:   readmeDir,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  RetryDelay,
		OnRetry:     onRetry,
		Debug:       os.Getenv("COMMITOR_DEBUG") == "1",
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Container ready",
		zap.String("dir", dir),
		zap.String("provider", string(cfg.Provider)),
		zap.String("language", string(cfg.Language)),
		zap.Bool("with_provider", opts.NeedProvider))
	return c, nil
}

// ConfirmRetry reports the failed attempt and asks whether to try again.
func ConfirmRetry(p *interaction.Prompter) commitor.RetryFunc {
	return func(ctx context.Context, attempt int, err error) bool {
		otelzap.Ctx(ctx).Warn("terminal prompt: Failed to generate commit message",
			zap.Int("attempt", attempt), zap.Error(err))
		retry, perr := p.YesNo(ctx, "Retry?", true)
		if perr != nil {
			return false
		}
		return retry
	}
}

// ProviderConfig maps the user configuration onto the provider factory input.
func ProviderConfig(cfg config.Config) ai.Config {
	return ai.Config{
		Kind:              ai.Kind(cfg.Provider),
		APIKey:            cfg.APIKey,
		Model:             cfg.Model,
		BaseURL:           cfg.BaseURL,
		Temperature:       cfg.Temperature,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}
}

// NewRenderer styles stdout when it is a terminal and writes plain text otherwise.
func NewRenderer() *output.Renderer {
	styles := output.PlainStyles()
	if term.IsTerminal(int(os.Stdout.Fd())) {
		styles = output.DefaultStyles()
	}
	return output.NewRenderer(os.Stdout, styles)
}
