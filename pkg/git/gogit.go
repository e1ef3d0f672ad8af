// pkg/git/gogit.go

package git

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// DetachedHead is reported for a detached HEAD, or an unborn HEAD that does
// not point at a branch.
const DetachedHead = "HEAD"

// CommitSummary is one entry of `commitor history`.
type CommitSummary struct {
	Hash      string    `json:"hash"`
	ShortHash string    `json:"short_hash"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	When      time.Time `json:"when"`
	Subject   string    `json:"subject"`
	Message   string    `json:"-"`
}

func (r *Repository) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(r.Dir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// IsRepository reports whether Dir is inside a git work tree.
func (r *Repository) IsRepository(ctx context.Context) bool {
	_, err := r.open()
	if err != nil {
		otelzap.Ctx(ctx).Debug("Not a git repository", zap.String("dir", r.Dir), zap.Error(err))
		return false
	}
	return true
}

// Root returns the top of the work tree.
func (r *Repository) Root(ctx context.Context) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", cerr.Wrap(err, "open repository")
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", cerr.Wrap(err, "open worktree")
	}
	return wt.Filesystem.Root(), nil
}

// CurrentBranch returns the short branch name, or DetachedHead.
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	repo, err := r.open()
	if err != nil {
		return DetachedHead, cerr.Wrap(err, "open repository")
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return unbornBranch(repo), nil
	}
	if err != nil {
		return DetachedHead, cerr.Wrap(err, "resolve HEAD")
	}
	if !head.Name().IsBranch() {
		return DetachedHead, nil
	}
	return head.Name().Short(), nil
}

// unbornBranch reads the branch HEAD names before the first commit exists.
func unbornBranch(repo *gogit.Repository) string {
	ref, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil || ref.Type() != plumbing.SymbolicReference || !ref.Target().IsBranch() {
		return DetachedHead
	}
	return ref.Target().Short()
}

// History returns up to n commits reachable from HEAD, newest first.
// An unborn HEAD yields an empty list.
func (r *Repository) History(ctx context.Context, n int) ([]CommitSummary, error) {
	logger := otelzap.Ctx(ctx)

	repo, err := r.open()
	if err != nil {
		return nil, cerr.Wrap(err, "open repository")
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, cerr.Wrap(err, "resolve HEAD")
	}

	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash(), Order: gogit.LogOrderCommitterTime})
	if err != nil {
		return nil, cerr.Wrap(err, "read log")
	}
	defer iter.Close()

	var out []CommitSummary
	for n <= 0 || len(out) < n {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		c, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, cerr.Wrap(err, "walk log")
		}
		out = append(out, summarize(c))
	}

	logger.Debug("Read commit history", zap.Int("commits", len(out)))
	return out, nil
}

// RecentLog returns the full messages of the last n commits.
func (r *Repository) RecentLog(ctx context.Context, n int) ([]string, error) {
	commits, err := r.History(ctx, n)
	if err != nil {
		return nil, err
	}
	msgs := make([]string, 0, len(commits))
	for _, c := range commits {
		msgs = append(msgs, c.Message)
	}
	return msgs, nil
}

// LastMessage returns the HEAD commit message, or "" on an unborn branch.
func (r *Repository) LastMessage(ctx context.Context) (string, error) {
	commits, err := r.History(ctx, 1)
	if err != nil || len(commits) == 0 {
		return "", err
	}
	return commits[0].Message, nil
}

// HeadHash returns the full HEAD hash.
func (r *Repository) HeadHash(ctx context.Context) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", cerr.Wrap(err, "open repository")
	}
	head, err := repo.Head()
	if err != nil {
		return "", cerr.Wrap(err, "resolve HEAD")
	}
	return head.Hash().String(), nil
}

func summarize(c *object.Commit) CommitSummary {
	hash := c.Hash.String()
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return CommitSummary{
		Hash:      hash,
		ShortHash: ShortHash(hash),
		Author:    c.Author.Name,
		Email:     c.Author.Email,
		When:      c.Author.When,
		Subject:   strings.TrimSpace(subject),
		Message:   strings.TrimSpace(c.Message),
	}
}

// ShortHash abbreviates a full hash to seven characters.
func ShortHash(hash string) string {
	if len(hash) <= 7 {
		return hash
	}
	return hash[:7]
}
