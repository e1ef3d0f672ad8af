package language

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Score
	}{
		{"empty", "", Score{}},
		{"english_words", "Add the parser and fix the tests", Score{EN: 5}},
		{"word_boundaries", "theme address fixture", Score{}},
		{"turkish_words", "ve bir ile", Score{TR: 3}},
		{"diacritics_weighted", "ş", Score{TR: 2}},
		{"turkish_word_with_diacritic", "için", Score{TR: 2 + 1}},
		{"uppercase_words_counted", "UPDATE The README", Score{EN: 2}},
		{"decomposed_input_normalized", "s\u0327", Score{TR: 2}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ScoreText(tt.text))
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		score Score
		want  Code
	}{
		{"below_min_score", Score{TR: 4}, Undecided},
		{"tie", Score{TR: 5, EN: 5}, Undecided},
		{"too_close", Score{TR: 11, EN: 10}, Undecided},
		{"turkish", Score{TR: 12, EN: 3}, Turkish},
		{"english", Score{TR: 1, EN: 9}, English},
		{"min_score_reached", Score{TR: 5}, Turkish},
		{"margin_at_threshold", Score{TR: 6, EN: 4}, Turkish},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DefaultPolicy.Resolve(tt.score))
		})
	}
}

func TestConfidence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Confidence(Score{}))
	assert.InDelta(t, 0.5, Confidence(Score{TR: 3, EN: 1}), 1e-9)
	assert.InDelta(t, 1.0, Confidence(Score{EN: 7}), 1e-9)
}

func TestAsciiFillerIsUndecided(t *testing.T) {
	t.Parallel()

	filler := strings.Repeat("lorem ipsum dolor sit amet consectetur ", 50)
	s := ScoreText(filler)
	assert.Equal(t, 0, s.Total())
	assert.Equal(t, 0.0, Confidence(s))
	assert.Equal(t, Undecided, DefaultPolicy.Resolve(s))
}

type staticLog struct {
	msgs []string
	err  error
	n    int
}

func (s *staticLog) RecentLog(_ context.Context, n int) ([]string, error) {
	s.n = n
	return s.msgs, s.err
}

func TestDetectorCombinesSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"),
		[]byte("Bu proje için bir araç ve kütüphane."), 0o600))

	log := &staticLog{msgs: []string{"feat: ekle yeni özellik", "fix: düzelt"}}
	res := NewDetector(dir, log).Detect(context.Background())

	assert.Equal(t, DefaultLogWindow, log.n)
	require.Len(t, res.Details, 2)
	assert.Equal(t, "readme", res.Details[0].Source)
	assert.Equal(t, "commits", res.Details[1].Source)
	assert.Equal(t, Turkish, res.Language)
	assert.True(t, res.Decided())
	assert.Equal(t, res.Details[0].Score.Add(res.Details[1].Score), res.Score)
	assert.Equal(t, Score{TR: 14, EN: 1}, res.Score)
	assert.InDelta(t, 13.0/15.0, res.Confidence, 1e-9)
}

func TestDetectorToleratesMissingSources(t *testing.T) {
	t.Parallel()

	log := &staticLog{err: errors.New("does not have any commits yet")}
	res := NewDetector(t.TempDir(), log).Detect(context.Background())

	assert.Equal(t, Undecided, res.Language)
	assert.Equal(t, 0.0, res.Confidence)
	for _, d := range res.Details {
		assert.Equal(t, Score{}, d.Score)
	}
}

func TestDetectorEnglishHistory(t *testing.T) {
	t.Parallel()

	log := &staticLog{msgs: []string{
		"fix: remove the stale cache",
		"feat: add retry for the client",
		"refactor: update config loading with defaults",
	}}
	d := &Detector{Sources: []Source{CommitLogSource{Log: log}}}
	res := d.Detect(context.Background())
	assert.Equal(t, English, res.Language)
}

func TestLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Turkish", Label("tr"))
	assert.Equal(t, "English", Label("en"))
	assert.Equal(t, "", Label("  "))
	assert.Equal(t, "Brazilian Portuguese", Label(" Brazilian Portuguese "))
	assert.Equal(t, "Klingon-ish", Label("Klingon-ish"))
}
