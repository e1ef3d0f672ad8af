// pkg/changeset/builder.go

package changeset

import (
	"context"

	cerr "github.com/cockroachdb/errors"
	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel per-file diff reads.
const DefaultConcurrency = 4

// Rename pairs the previous and current path of a staged rename.
type Rename struct {
	From string
	To   string
}

// Status is the staged portion of the working tree, split by change kind.
type Status struct {
	Staged  []string
	Created []string
	Deleted []string
	Renamed []Rename
}

// StagedPaths returns the de-duplicated union of every staged path.
func (s Status) StagedPaths() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok || p == "" {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, p := range s.Staged {
		add(p)
	}
	for _, p := range s.Created {
		add(p)
	}
	for _, p := range s.Deleted {
		add(p)
	}
	for _, r := range s.Renamed {
		add(r.To)
	}
	return out
}

// NumstatRow is one line of `git diff --cached --numstat`.
type NumstatRow struct {
	Additions int
	Deletions int
	Path      string
}

// Repository is the read side of version control the builder needs.
type Repository interface {
	IsRepository(ctx context.Context) bool
	CurrentBranch(ctx context.Context) (string, error)
	Status(ctx context.Context) (Status, error)
	DiffNumstat(ctx context.Context) ([]NumstatRow, error)
	DiffText(ctx context.Context, path string) (string, error)
}

// Classifier assigns a CommitType to a list of file changes.
type Classifier interface {
	Classify(files []FileChange) CommitType
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(files []FileChange) CommitType

func (f ClassifierFunc) Classify(files []FileChange) CommitType { return f(files) }

// Builder turns repository state into a ChangeSet.
type Builder struct {
	Repo        Repository
	Classifier  Classifier
	Concurrency int
}

// NewBuilder returns a Builder with the default concurrency.
func NewBuilder(repo Repository, classifier Classifier) *Builder {
	return &Builder{Repo: repo, Classifier: classifier, Concurrency: DefaultConcurrency}
}

// Build enumerates staged paths, reads their counts and diffs, and classifies the result.
func (b *Builder) Build(ctx context.Context) (*ChangeSet, error) {
	logger := otelzap.Ctx(ctx)

	if b.Repo == nil {
		return nil, cerr.AssertionFailedf("changeset builder has no repository")
	}

	// ASSESS
	if !b.Repo.IsRepository(ctx) {
		return nil, commitor_err.New(commitor_err.NotARepository,
			"not a git repository",
			"run commitor inside a git working tree",
			"or initialise one with: git init")
	}

	branch, err := b.Repo.CurrentBranch(ctx)
	if err != nil {
		logger.Warn("Could not resolve current branch", zap.Error(err))
		branch = "HEAD"
	}

	status, err := b.Repo.Status(ctx)
	if err != nil {
		return nil, cerr.Wrap(err, "read staged status")
	}
	if len(status.StagedPaths()) == 0 {
		return nil, commitor_err.New(commitor_err.NoStagedChanges,
			"no staged changes found",
			`stage files first with: git add <path>`)
	}

	rows, err := b.Repo.DiffNumstat(ctx)
	if err != nil {
		return nil, cerr.Wrap(err, "read staged numstat")
	}

	// INTERVENE
	diffs := b.fetchDiffs(ctx, rows)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created := toSet(status.Created)
	deleted := toSet(status.Deleted)
	renamedFrom := make(map[string]string, len(status.Renamed))
	for _, r := range status.Renamed {
		renamedFrom[r.To] = r.From
	}

	files := make([]FileChange, 0, len(rows))
	for i, row := range rows {
		fc := FileChange{
			Path:      row.Path,
			Kind:      KindModified,
			Additions: nonNegative(row.Additions),
			Deletions: nonNegative(row.Deletions),
			Diff:      diffs[i],
		}
		switch {
		case has(created, row.Path):
			fc.Kind = KindAdded
		case has(deleted, row.Path):
			fc.Kind = KindDeleted
		default:
			if from, ok := renamedFrom[row.Path]; ok {
				fc.Kind = KindRenamed
				fc.OldPath = from
			}
		}
		files = append(files, fc)
	}

	typ := TypeFeat
	if b.Classifier != nil {
		typ = b.Classifier.Classify(files)
	}
	cs := New(files, branch, typ)

	// EVALUATE
	logger.Debug("Change set built",
		zap.String("branch", branch),
		zap.String("type", string(typ)),
		zap.Int("files", cs.Stats().FileCount),
		zap.Int("additions", cs.Stats().TotalAdditions),
		zap.Int("deletions", cs.Stats().TotalDeletions))

	return cs, nil
}

// fetchDiffs reads every per-file diff concurrently. Slot i always holds the
// diff for rows[i]; a failed read leaves the slot empty.
func (b *Builder) fetchDiffs(ctx context.Context, rows []NumstatRow) []string {
	logger := otelzap.Ctx(ctx)
	diffs := make([]string, len(rows))

	limit := b.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			text, err := b.Repo.DiffText(gctx, row.Path)
			if err != nil {
				logger.Warn("Diff unavailable, continuing with empty diff",
					zap.String("path", row.Path), zap.Error(err))
				return nil
			}
			diffs[i] = text
			return nil
		})
	}
	_ = g.Wait()
	return diffs
}

func toSet(items []string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return m
}

func has(m map[string]struct{}, k string) bool {
	_, ok := m[k]
	return ok
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
