// pkg/git/preflight.go
//
// Git preflight checks - validates the git environment before a commit cycle.
// Follows fail-fast principle: detect issues BEFORE calling a provider.

package git

import (
	"context"
	"fmt"
	"net/mail"
	"os/exec"
	"regexp"
	"strings"

	"github.com/frkngnc/commitor/pkg/execute"
	"github.com/hashicorp/go-version"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// MinimumGitVersion is the oldest git whose porcelain -z output we parse.
const MinimumGitVersion = "2.0.0"

var gitVersionPattern = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// PreflightConfig defines which checks run.
type PreflightConfig struct {
	RequireGitInstalled bool
	RequireIdentity     bool
	MinimumVersion      string
}

// DefaultPreflightConfig returns standard configuration for committing.
func DefaultPreflightConfig() PreflightConfig {
	return PreflightConfig{
		RequireGitInstalled: true,
		RequireIdentity:     true,
		MinimumVersion:      MinimumGitVersion,
	}
}

// RunPreflightChecks performs all configured checks and stops at the first failure.
func RunPreflightChecks(ctx context.Context, dir string, config PreflightConfig) error {
	logger := otelzap.Ctx(ctx)

	logger.Debug("Running git preflight checks",
		zap.Bool("require_installed", config.RequireGitInstalled),
		zap.Bool("require_identity", config.RequireIdentity))

	if config.RequireGitInstalled {
		v, err := CheckGitInstalled(ctx)
		if err != nil {
			return err
		}
		if err := CheckGitVersion(v, config.MinimumVersion); err != nil {
			return err
		}
	}

	if config.RequireIdentity {
		if err := CheckGitIdentity(ctx, dir); err != nil {
			return err
		}
	}

	logger.Debug("Git preflight checks passed")
	return nil
}

// CheckGitInstalled verifies git is available in PATH and returns its version.
func CheckGitInstalled(ctx context.Context) (*version.Version, error) {
	logger := otelzap.Ctx(ctx)

	gitPath, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git is not installed or not in PATH\n\n" +
			"To install:\n" +
			"  Ubuntu/Debian: sudo apt-get install git\n" +
			"  macOS:         brew install git\n" +
			"  Or visit:      https://git-scm.com/downloads")
	}

	out, err := execute.Run(ctx, execute.Options{Command: "git", Args: []string{"--version"}, Quiet: true})
	if err != nil {
		return nil, fmt.Errorf("git is installed at %s but failed to execute: %w", gitPath, err)
	}

	v, err := ParseGitVersion(out)
	if err != nil {
		return nil, err
	}

	logger.Debug("Git is installed",
		zap.String("path", gitPath),
		zap.String("version", v.String()))
	return v, nil
}

// ParseGitVersion extracts the version from `git --version` output,
// e.g. "git version 2.39.3 (Apple Git-145)".
func ParseGitVersion(output string) (*version.Version, error) {
	m := gitVersionPattern.FindString(output)
	if m == "" {
		return nil, fmt.Errorf("unrecognised git version output %q", strings.TrimSpace(output))
	}
	return version.NewVersion(m)
}

// CheckGitVersion fails when v is older than minimum.
func CheckGitVersion(v *version.Version, minimum string) error {
	if minimum == "" {
		return nil
	}
	constraint, err := version.NewConstraint(">= " + minimum)
	if err != nil {
		return fmt.Errorf("invalid minimum git version %q: %w", minimum, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("git %s is too old; version %s or newer is required", v, minimum)
	}
	return nil
}

// CheckGitIdentity verifies user.name and user.email resolve for dir and that
// the email parses as an address.
func CheckGitIdentity(ctx context.Context, dir string) error {
	logger := otelzap.Ctx(ctx)

	userName, err := gitConfig(ctx, dir, "user.name")
	if err != nil || userName == "" {
		return formatIdentityError("user.name", "")
	}

	userEmail, err := gitConfig(ctx, dir, "user.email")
	if err != nil || userEmail == "" {
		return formatIdentityError("user.email", userName)
	}

	if _, err := mail.ParseAddress(userEmail); err != nil {
		return fmt.Errorf("git user.email '%s' is not a valid email address\n\n"+
			"Fix with:\n"+
			"  git config --global user.email \"your.email@example.com\"", userEmail)
	}

	logger.Debug("Git identity is configured",
		zap.String("user.name", userName),
		zap.String("user.email", userEmail))
	return nil
}

func gitConfig(ctx context.Context, dir, key string) (string, error) {
	out, err := execute.Run(ctx, execute.Options{
		Command: "git",
		Args:    []string{"config", "--get", key},
		Dir:     dir,
		Quiet:   true,
	})
	return strings.TrimSpace(out), err
}

// formatIdentityError creates a user-friendly error message for missing git identity
func formatIdentityError(key, userName string) error {
	var currentConfig string
	if userName != "" {
		currentConfig = fmt.Sprintf("\nCurrent configuration:\n  user.name: %s\n  %s: NOT SET\n", userName, key)
	}

	return fmt.Errorf("git identity not configured: %s\n"+
		"%s\n"+
		"Configure your identity:\n"+
		"  git config --global user.name \"Your Name\"\n"+
		"  git config --global user.email \"your.email@example.com\"",
		key, currentConfig)
}
