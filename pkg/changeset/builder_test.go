package changeset

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	isRepo   bool
	branch   string
	status   Status
	rows     []NumstatRow
	diffs    map[string]string
	diffErr  map[string]error
	delay    map[string]time.Duration
	statusEr error
}

func (f *fakeRepo) IsRepository(context.Context) bool { return f.isRepo }

func (f *fakeRepo) CurrentBranch(context.Context) (string, error) {
	if f.branch == "" {
		return "", errors.New("unborn HEAD")
	}
	return f.branch, nil
}

func (f *fakeRepo) Status(context.Context) (Status, error) { return f.status, f.statusEr }

func (f *fakeRepo) DiffNumstat(context.Context) ([]NumstatRow, error) { return f.rows, nil }

func (f *fakeRepo) DiffText(ctx context.Context, path string) (string, error) {
	if d, ok := f.delay[path]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err, ok := f.diffErr[path]; ok {
		return "", err
	}
	return f.diffs[path], nil
}

func constClassifier(t CommitType) Classifier {
	return ClassifierFunc(func([]FileChange) CommitType { return t })
}

func TestBuildPreservesOrderAndKinds(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		isRepo: true,
		branch: "main",
		status: Status{
			Staged:  []string{"pkg/a.go"},
			Created: []string{"pkg/new.go"},
			Deleted: []string{"old.txt"},
			Renamed: []Rename{{From: "x/before.go", To: "x/after.go"}},
		},
		rows: []NumstatRow{
			{Additions: 3, Deletions: 1, Path: "pkg/a.go"},
			{Additions: 40, Deletions: 0, Path: "pkg/new.go"},
			{Additions: 0, Deletions: 12, Path: "old.txt"},
			{Additions: 2, Deletions: 2, Path: "x/after.go"},
		},
		diffs: map[string]string{
			"pkg/a.go":   "diff a",
			"pkg/new.go": "diff new",
			"old.txt":    "diff old",
			"x/after.go": "diff renamed",
		},
		// first rows finish last
		delay: map[string]time.Duration{
			"pkg/a.go":   30 * time.Millisecond,
			"pkg/new.go": 20 * time.Millisecond,
			"old.txt":    10 * time.Millisecond,
		},
	}

	cs, err := NewBuilder(repo, constClassifier(TypeFix)).Build(context.Background())
	require.NoError(t, err)

	files := cs.Files()
	require.Len(t, files, 4)
	assert.Equal(t, []string{"pkg/a.go", "pkg/new.go", "old.txt", "x/after.go"}, cs.Paths())

	assert.Equal(t, KindModified, files[0].Kind)
	assert.Equal(t, "diff a", files[0].Diff)
	assert.Equal(t, KindAdded, files[1].Kind)
	assert.Equal(t, KindDeleted, files[2].Kind)
	assert.Equal(t, KindRenamed, files[3].Kind)
	assert.Equal(t, "x/before.go", files[3].OldPath)
	assert.Empty(t, files[0].OldPath)

	assert.Equal(t, "main", cs.Branch)
	assert.Equal(t, TypeFix, cs.Type)
	assert.Equal(t, Stats{FileCount: 4, TotalAdditions: 45, TotalDeletions: 15}, cs.Stats())
}

func TestBuildDiffFailureDegradesToEmpty(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		isRepo: true,
		branch: "dev",
		status: Status{Staged: []string{"a.go", "b.go"}},
		rows: []NumstatRow{
			{Additions: 1, Deletions: 1, Path: "a.go"},
			{Additions: 2, Deletions: 0, Path: "b.go"},
		},
		diffs:   map[string]string{"b.go": "diff b"},
		diffErr: map[string]error{"a.go": errors.New("fatal: bad object")},
	}

	cs, err := NewBuilder(repo, constClassifier(TypeFeat)).Build(context.Background())
	require.NoError(t, err)

	files := cs.Files()
	require.Len(t, files, 2)
	assert.Empty(t, files[0].Diff)
	assert.Equal(t, "diff b", files[1].Diff)
}

func TestBuildPreconditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		repo *fakeRepo
		code commitor_err.Code
	}{
		{
			name: "not_a_repository",
			repo: &fakeRepo{isRepo: false},
			code: commitor_err.NotARepository,
		},
		{
			name: "nothing_staged",
			repo: &fakeRepo{isRepo: true, branch: "main"},
			code: commitor_err.NoStagedChanges,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewBuilder(tt.repo, constClassifier(TypeFeat)).Build(context.Background())
			require.Error(t, err)
			assert.True(t, commitor_err.Is(err, tt.code))
		})
	}
}

func TestBuildBranchFallback(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		isRepo: true,
		status: Status{Created: []string{"a.go"}},
		rows:   []NumstatRow{{Additions: 1, Path: "a.go"}},
	}
	cs, err := NewBuilder(repo, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HEAD", cs.Branch)
	assert.Equal(t, TypeFeat, cs.Type)
}

func TestBuildStatusError(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{isRepo: true, branch: "main", statusEr: errors.New("index locked")}
	_, err := NewBuilder(repo, nil).Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index locked")
}

func TestBuildManyFilesStableOrder(t *testing.T) {
	t.Parallel()

	const n = 25
	repo := &fakeRepo{isRepo: true, branch: "main", diffs: map[string]string{}, delay: map[string]time.Duration{}}
	for i := 0; i < n; i++ {
		p := fmt.Sprintf("f%02d.go", i)
		repo.status.Staged = append(repo.status.Staged, p)
		repo.rows = append(repo.rows, NumstatRow{Additions: i, Deletions: 1, Path: p})
		repo.diffs[p] = "diff " + p
		repo.delay[p] = time.Duration(n-i) * time.Millisecond
	}

	b := NewBuilder(repo, nil)
	b.Concurrency = 8
	cs, err := b.Build(context.Background())
	require.NoError(t, err)
	for i, f := range cs.Files() {
		assert.Equal(t, fmt.Sprintf("f%02d.go", i), f.Path)
		assert.Equal(t, "diff "+f.Path, f.Diff)
	}
}
