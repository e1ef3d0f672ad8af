package message

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawInvariant(t *testing.T) {
	t.Parallel()

	m := New("feat(cli): add flag", "")
	assert.Equal(t, "feat(cli): add flag", m.Raw())

	withBody := m.WithBody("- adds --dry-run")
	assert.Equal(t, "feat(cli): add flag\n\n- adds --dry-run", withBody.Raw())
	assert.Equal(t, "feat(cli): add flag", m.Raw(), "original value is untouched")

	renamed := withBody.WithTitle("fix(cli): correct flag")
	assert.Equal(t, "fix(cli): correct flag\n\n- adds --dry-run", renamed.Raw())
	assert.Equal(t, "fix", renamed.Type())
	assert.Equal(t, "cli", renamed.Scope())
}

func TestFromRaw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		wantTitle string
		wantBody  string
	}{
		{"title_only", "docs: fix typo\n", "docs: fix typo", ""},
		{"title_and_body", "feat: x\n\n- a\n- b\n", "feat: x", "- a\n- b"},
		{"leading_blank_lines", "\n\n  feat: x  \nbody", "feat: x", "body"},
		{"crlf", "fix: y\r\n\r\nline", "fix: y", "line"},
		{"empty", "  \n ", "", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := FromRaw(tt.text)
			assert.Equal(t, tt.wantTitle, m.Title())
			assert.Equal(t, tt.wantBody, m.Body())
			if tt.wantBody == "" {
				assert.Equal(t, tt.wantTitle, m.Raw())
			} else {
				assert.Equal(t, tt.wantTitle+"\n\n"+tt.wantBody, m.Raw())
			}
		})
	}
	assert.True(t, FromRaw("").IsZero())
}

func TestParseTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title, typ, scope string
	}{
		{"feat(auth): add login", "feat", "auth"},
		{"fix: null check", "fix", ""},
		{"perf(db):faster", "perf", "db"},
		{"Just words", "chore", ""},
		{"feat(): empty scope", "chore", ""},
		{"feat:", "chore", ""},
	}
	for _, tt := range tests {
		tt := tt
		typ, scope := ParseTitle(tt.title)
		assert.Equal(t, tt.typ, typ, tt.title)
		assert.Equal(t, tt.scope, scope, tt.title)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	long := "feat: " + strings.Repeat("x", 70)

	tests := []struct {
		name       string
		msg        CommitMessage
		valid      bool
		violations int
	}{
		{"clean", New("feat(api): add pagination", "- cursor based\n- limit flag"), true, 0},
		{"title_too_long", New(long, ""), false, 1},
		{"not_conventional", New("Added pagination", ""), false, 1},
		{"long_body_line", New("fix: x", "- "+strings.Repeat("y", 80)), false, 1},
		{"everything_wrong", New(strings.Repeat("z", 80), strings.Repeat("w", 73)+"\n"+strings.Repeat("v", 90)), false, 4},
		{"exactly_72_runes_ok", New("feat: "+strings.Repeat("ğ", 66), ""), true, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := Validate(tt.msg)
			assert.Equal(t, tt.valid, r.Valid)
			assert.Len(t, r.Violations, tt.violations)
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(New("feat(x): y", "- z"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"feat(x): y","body":"- z","raw":"feat(x): y\n\n- z","type":"feat","scope":"x"}`, string(raw))
}
