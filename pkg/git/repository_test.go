package git

import (
	"testing"

	"github.com/frkngnc/commitor/pkg/changeset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusZ(t *testing.T) {
	t.Parallel()

	out := "M  pkg/a.go\x00" +
		"A  docs/new file.md\x00" +
		"D  old.txt\x00" +
		"R  pkg/new.go\x00pkg/old.go\x00" +
		" M unstaged.go\x00" +
		"MM both.go\x00" +
		"UU conflict.go\x00" +
		"AA added-twice.go\x00" +
		"C  copy.go\x00orig.go\x00"

	st, err := parseStatusZ(out)
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg/a.go", "both.go"}, st.Staged)
	assert.Equal(t, []string{"docs/new file.md", "copy.go"}, st.Created)
	assert.Equal(t, []string{"old.txt"}, st.Deleted)
	assert.Equal(t, []changeset.Rename{{From: "pkg/old.go", To: "pkg/new.go"}}, st.Renamed)
}

func TestParseStatusZErrors(t *testing.T) {
	t.Parallel()

	_, err := parseStatusZ("garbage\x00")
	assert.Error(t, err)

	_, err = parseStatusZ("R  only-new.go\x00")
	assert.Error(t, err)

	st, err := parseStatusZ("")
	require.NoError(t, err)
	assert.Empty(t, st.StagedPaths())
}

func TestParseNumstatZ(t *testing.T) {
	t.Parallel()

	out := "10\t2\tpkg/a.go\x00" +
		"-\t-\tassets/logo.png\x00" +
		"3\t3\t\x00pkg/old.go\x00pkg/new.go\x00" +
		"0\t7\tspaced name.txt\x00"

	rows, err := parseNumstatZ(out)
	require.NoError(t, err)
	assert.Equal(t, []changeset.NumstatRow{
		{Additions: 10, Deletions: 2, Path: "pkg/a.go"},
		{Additions: 0, Deletions: 0, Path: "assets/logo.png"},
		{Additions: 3, Deletions: 3, Path: "pkg/new.go"},
		{Additions: 0, Deletions: 7, Path: "spaced name.txt"},
	}, rows)
}

func TestParseNumstatZErrors(t *testing.T) {
	t.Parallel()

	_, err := parseNumstatZ("10 2 pkg/a.go\x00")
	assert.Error(t, err)

	_, err = parseNumstatZ("1\t1\t\x00only-old\x00")
	assert.Error(t, err)
}

func TestShortHash(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0123456", ShortHash("0123456789abcdef"))
	assert.Equal(t, "abc", ShortHash("abc"))
}
