// pkg/git/committer.go

package git

import (
	"context"
	"strings"

	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/execute"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// CommitResult describes the commit that was just written.
type CommitResult struct {
	Hash      string `json:"hash"`
	ShortHash string `json:"short_hash"`
	Branch    string `json:"branch"`
	Amended   bool   `json:"amended"`
}

// Commit records the index with message. The message is passed on stdin so
// it is never interpreted by a shell. With amend the HEAD commit is replaced.
// Hooks run as usual.
func (r *Repository) Commit(ctx context.Context, message string, amend bool) (CommitResult, error) {
	logger := otelzap.Ctx(ctx)

	// ASSESS
	if strings.TrimSpace(message) == "" {
		return CommitResult{}, commitor_err.NewValidationError("commit message is empty")
	}

	// INTERVENE
	args := []string{"commit", "--cleanup=strip", "-F", "-"}
	if amend {
		args = append(args, "--amend")
	}
	if _, err := execute.Run(ctx, execute.Options{
		Command: "git",
		Args:    args,
		Dir:     r.Dir,
		Stdin:   strings.NewReader(message),
	}); err != nil {
		return CommitResult{}, commitor_err.NewGitError("git commit failed", err,
			"check the hook output above",
			"verify user.name and user.email are configured")
	}

	// EVALUATE
	hash, err := r.HeadHash(ctx)
	if err != nil {
		return CommitResult{}, err
	}
	branch, err := r.CurrentBranch(ctx)
	if err != nil {
		logger.Warn("Could not resolve branch after commit", zap.Error(err))
	}

	res := CommitResult{Hash: hash, ShortHash: ShortHash(hash), Branch: branch, Amended: amend}
	logger.Info("Commit created",
		zap.String("hash", res.ShortHash),
		zap.String("branch", res.Branch),
		zap.Bool("amend", amend))
	return res, nil
}
