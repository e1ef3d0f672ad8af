package changeset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFollowEntries(t *testing.T) {
	t.Parallel()

	cs := New([]FileChange{
		{Path: "a.go", Kind: KindModified, Additions: 10, Deletions: 2},
		{Path: "b_test.go", Kind: KindAdded, Additions: 5},
		{Path: "c.md", Kind: KindModified, Additions: 1, Deletions: 7},
	}, "main", TypeFeat)

	assert.Equal(t, Stats{FileCount: 3, TotalAdditions: 16, TotalDeletions: 9}, cs.Stats())

	goOnly := cs.Filter(func(f FileChange) bool { return f.Path != "c.md" })
	assert.Equal(t, Stats{FileCount: 2, TotalAdditions: 15, TotalDeletions: 2}, goOnly.Stats())
	assert.Equal(t, 3, cs.Len(), "filter must not touch the source")
}

func TestFilesReturnsCopy(t *testing.T) {
	t.Parallel()

	src := []FileChange{{Path: "a.go", Additions: 1}}
	cs := New(src, "main", TypeFix)
	src[0].Additions = 100

	files := cs.Files()
	files[0].Additions = 50

	assert.Equal(t, 1, cs.Stats().TotalAdditions)
}

func TestCommitTypeValid(t *testing.T) {
	t.Parallel()

	for _, ct := range CommitTypes {
		assert.True(t, ct.Valid(), ct)
	}
	assert.False(t, CommitType("wip").Valid())
}

func TestMarshalJSONIncludesComputedStats(t *testing.T) {
	t.Parallel()

	cs := New([]FileChange{{Path: "x.go", Kind: KindAdded, Additions: 4, Diff: "secret diff"}}, "feature/x", TypeFeat)
	raw, err := json.Marshal(cs)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "feature/x", out["branch"])
	assert.Equal(t, "feat", out["type"])
	stats := out["stats"].(map[string]any)
	assert.EqualValues(t, 4, stats["total_additions"])
	assert.NotContains(t, string(raw), "secret diff")
}

func TestSummary(t *testing.T) {
	t.Parallel()
	cs := New([]FileChange{{Path: "a", Additions: 2, Deletions: 1}}, "main", TypeFix)
	assert.Equal(t, "fix on main: 1 files +2 -1", cs.Summary())
}
