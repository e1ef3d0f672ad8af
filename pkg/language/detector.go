// pkg/language/detector.go

package language

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// DefaultLogWindow is how many recent commit messages are sampled.
const DefaultLogWindow = 25

// Source yields text to score. Errors are tolerated by the Detector.
type Source interface {
	Name() string
	Text(ctx context.Context) (string, error)
}

// LogReader returns the most recent commit messages, newest first.
type LogReader interface {
	RecentLog(ctx context.Context, n int) ([]string, error)
}

// ReadmeSource reads README.md from Dir. A missing file yields empty text.
type ReadmeSource struct {
	Dir string
}

func (ReadmeSource) Name() string { return "readme" }

func (r ReadmeSource) Text(context.Context) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, "README.md"))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CommitLogSource joins the last Window commit messages.
type CommitLogSource struct {
	Log    LogReader
	Window int
}

func (CommitLogSource) Name() string { return "commits" }

func (c CommitLogSource) Text(ctx context.Context) (string, error) {
	if c.Log == nil {
		return "", nil
	}
	n := c.Window
	if n <= 0 {
		n = DefaultLogWindow
	}
	msgs, err := c.Log.RecentLog(ctx, n)
	if err != nil {
		return "", err
	}
	return strings.Join(msgs, "\n"), nil
}

// SourceDetail is the per-source breakdown of a detection.
type SourceDetail struct {
	Source     string  `json:"source"`
	Score      Score   `json:"score"`
	Language   Code    `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Result is the combined detection over all sources.
type Result struct {
	Language   Code           `json:"language"`
	Confidence float64        `json:"confidence"`
	Score      Score          `json:"score"`
	Details    []SourceDetail `json:"details"`
}

// Decided reports whether a language was resolved.
func (r Result) Decided() bool { return r.Language != Undecided }

// Detector sums scores over its sources and resolves them with Policy.
type Detector struct {
	Sources []Source
	Policy  Policy
}

// NewDetector wires the README in dir and the commit log reader.
func NewDetector(dir string, log LogReader) *Detector {
	return &Detector{
		Sources: []Source{
			ReadmeSource{Dir: dir},
			CommitLogSource{Log: log, Window: DefaultLogWindow},
		},
		Policy: DefaultPolicy,
	}
}

// Detect never fails: an unreadable source simply scores zero.
func (d *Detector) Detect(ctx context.Context) Result {
	logger := otelzap.Ctx(ctx)

	policy := d.Policy
	if policy == (Policy{}) {
		policy = DefaultPolicy
	}

	var total Score
	details := make([]SourceDetail, 0, len(d.Sources))
	for _, src := range d.Sources {
		text, err := src.Text(ctx)
		if err != nil {
			logger.Debug("Language source unavailable",
				zap.String("source", src.Name()), zap.Error(err))
			text = ""
		}
		s := ScoreText(text)
		total = total.Add(s)
		details = append(details, SourceDetail{
			Source:     src.Name(),
			Score:      s,
			Language:   policy.Resolve(s),
			Confidence: Confidence(s),
		})
	}

	res := Result{
		Language:   policy.Resolve(total),
		Confidence: Confidence(total),
		Score:      total,
		Details:    details,
	}
	logger.Debug("Language detection finished",
		zap.String("language", string(res.Language)),
		zap.Float64("confidence", res.Confidence),
		zap.Int("tr", total.TR),
		zap.Int("en", total.EN))
	return res
}
