package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/frkngnc/commitor/pkg/changeset"
	"github.com/frkngnc/commitor/pkg/classify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gitEnv isolates git from the developer's global config and hooks.
func gitEnv(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Ada")
	t.Setenv("GIT_AUTHOR_EMAIL", "ada@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Ada")
	t.Setenv("GIT_COMMITTER_EMAIL", "ada@example.com")
}

func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuildAndCommitAgainstRealGit(t *testing.T) {
	gitEnv(t)
	ctx := context.Background()
	dir := t.TempDir()

	gitCmd(t, dir, "init", "-q", "-b", "main")
	write(t, dir, "pkg/old.go", "package pkg\n\nfunc A() {}\n")
	write(t, dir, "remove.txt", "bye\n")
	gitCmd(t, dir, "add", "-A")
	gitCmd(t, dir, "commit", "-q", "-m", "chore: seed")

	write(t, dir, "pkg/feature.go", "package pkg\n\nfunc B() {}\nfunc C() {}\n")
	gitCmd(t, dir, "mv", "pkg/old.go", "pkg/renamed.go")
	gitCmd(t, dir, "rm", "-q", "remove.txt")
	write(t, dir, "unstaged.go", "package main\n")
	gitCmd(t, dir, "add", "pkg/feature.go")

	repo := Open(dir)
	cs, err := changeset.NewBuilder(repo, classify.DefaultPolicy).Build(ctx)
	require.NoError(t, err)

	assert.Equal(t, "main", cs.Branch)
	assert.Equal(t, changeset.TypeFeat, cs.Type)

	byPath := map[string]changeset.FileChange{}
	for _, f := range cs.Files() {
		byPath[f.Path] = f
	}
	require.Len(t, byPath, 3)
	assert.Equal(t, changeset.KindAdded, byPath["pkg/feature.go"].Kind)
	assert.Equal(t, 4, byPath["pkg/feature.go"].Additions)
	assert.Contains(t, byPath["pkg/feature.go"].Diff, "+func B() {}")
	assert.Equal(t, changeset.KindDeleted, byPath["remove.txt"].Kind)
	assert.Equal(t, changeset.KindRenamed, byPath["pkg/renamed.go"].Kind)
	assert.Equal(t, "pkg/old.go", byPath["pkg/renamed.go"].OldPath)
	assert.NotContains(t, byPath, "unstaged.go")

	res, err := repo.Commit(ctx, "feat(pkg): add feature\n\n- add B and C", false)
	require.NoError(t, err)
	assert.Len(t, res.ShortHash, 7)
	assert.Equal(t, "main", res.Branch)

	last, err := repo.LastMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "feat(pkg): add feature\n\n- add B and C", last)

	amended, err := repo.Commit(ctx, "feat(pkg): add B and C", true)
	require.NoError(t, err)
	assert.True(t, amended.Amended)
	assert.NotEqual(t, res.Hash, amended.Hash)

	hist, err := repo.History(ctx, 5)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "feat(pkg): add B and C", hist[0].Subject)

	_, err = changeset.NewBuilder(repo, classify.DefaultPolicy).Build(ctx)
	require.Error(t, err)

	require.NoError(t, CheckGitIdentity(ctx, dir))
	require.NoError(t, RunPreflightChecks(ctx, dir, DefaultPreflightConfig()))
}

func TestBuildFromSubdirectoryKeepsDiffs(t *testing.T) {
	gitEnv(t)
	ctx := context.Background()
	dir := t.TempDir()

	gitCmd(t, dir, "init", "-q", "-b", "main")
	write(t, dir, "README.md", "# demo\n")
	gitCmd(t, dir, "add", "-A")
	gitCmd(t, dir, "commit", "-q", "-m", "chore: seed")

	write(t, dir, "pkg/a/x.go", "package a\n\nfunc X() {}\n")
	write(t, dir, "docs/[draft] notes.md", "draft\n")
	gitCmd(t, dir, "add", "-A")

	sub := filepath.Join(dir, "pkg", "a")
	cs, err := changeset.NewBuilder(Open(sub), classify.DefaultPolicy).Build(ctx)
	require.NoError(t, err)

	byPath := map[string]changeset.FileChange{}
	for _, f := range cs.Files() {
		byPath[f.Path] = f
	}
	require.Len(t, byPath, 2)
	assert.Contains(t, byPath["pkg/a/x.go"].Diff, "+func X() {}")
	assert.Contains(t, byPath["docs/[draft] notes.md"].Diff, "+draft")
}
