package commit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generated = "<<COMMITOR_TITLE>>feat(pkg): add greeting helper<<COMMITOR_TITLE_END>>\n" +
	"<<COMMITOR_BODY>>- add Hello to pkg<<COMMITOR_BODY_END>>"

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return strings.TrimSpace(string(out))
}

// fakeOllama answers /api/generate with a fixed message and records the prompt.
func fakeOllama(t *testing.T, prompts *[]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		*prompts = append(*prompts, req.Prompt)
		_ = json.NewEncoder(w).Encode(map[string]any{"model": "llama3.2", "response": generated, "done": true})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCommitEndToEnd(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))
	t.Setenv("COMMITOR_LOG_FILE", filepath.Join(home, "commitor.log"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	var prompts []string
	srv := fakeOllama(t, &prompts)
	t.Setenv("COMMITOR_PROVIDER", "ollama")
	t.Setenv("COMMITOR_BASE_URL", srv.URL)
	t.Setenv("COMMITOR_LANGUAGE", "en")

	dir := t.TempDir()
	runGit(t, dir, "init", "-q", "-b", "main")
	runGit(t, dir, "config", "user.name", "Ada")
	runGit(t, dir, "config", "user.email", "ada@example.com")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# demo\n"), 0o644))
	runGit(t, dir, "add", "README.md")
	runGit(t, dir, "commit", "-q", "-m", "docs: add readme")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", "hello.go"),
		[]byte("package pkg\n\nfunc Hello() string { return \"hi\" }\n"), 0o644))
	runGit(t, dir, "add", "pkg/hello.go")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	CommitCmd.SetArgs([]string{"--yes"})
	require.NoError(t, CommitCmd.ExecuteContext(context.Background()))

	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "pkg/hello.go")

	subject := runGit(t, dir, "log", "-1", "--format=%s")
	assert.Equal(t, "feat(pkg): add greeting helper", subject)
	body := runGit(t, dir, "log", "-1", "--format=%b")
	assert.Equal(t, "- add Hello to pkg", body)
	assert.Empty(t, runGit(t, dir, "diff", "--cached", "--name-only"))
}
