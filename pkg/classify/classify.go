// Package classify assigns a conventional-commit type to a set of staged
// changes using an ordered cascade of named path and line-count predicates.
// The first matching rule wins; the last rule always matches.
package classify

import (
	"path"
	"strings"

	"github.com/frkngnc/commitor/pkg/changeset"
)

// Policy holds the tunable thresholds used by the line-count rules.
type Policy struct {
	// RefactorLow and RefactorHigh bound the inclusive additions/deletions
	// ratio treated as a refactor.
	RefactorLow  float64
	RefactorHigh float64
	// AdditiveFactor: a file whose additions exceed AdditiveFactor×deletions
	// marks the change as a feature.
	AdditiveFactor int
}

// DefaultPolicy is the policy used by Classify.
var DefaultPolicy = Policy{
	RefactorLow:    0.8,
	RefactorHigh:   1.2,
	AdditiveFactor: 2,
}

// Rule is one step of the cascade.
type Rule struct {
	Name  string
	Type  changeset.CommitType
	Match func(files []changeset.FileChange, p Policy) bool
}

// Rules returns the cascade in evaluation order.
func Rules() []Rule {
	return []Rule{
		{Name: "docs-only", Type: changeset.TypeDocs, Match: allDocs},
		{Name: "tests", Type: changeset.TypeTest, Match: anyPath(isTestPath)},
		{Name: "styles", Type: changeset.TypeStyle, Match: anyPath(isStylePath)},
		{Name: "tooling", Type: changeset.TypeChore, Match: anyPath(isToolingPath)},
		{Name: "additive", Type: changeset.TypeFeat, Match: additive},
		{Name: "balanced", Type: changeset.TypeRefactor, Match: balanced},
		{Name: "corrective", Type: changeset.TypeFix, Match: corrective},
		{Name: "default", Type: changeset.TypeFeat, Match: func([]changeset.FileChange, Policy) bool { return true }},
	}
}

// Classify applies DefaultPolicy.
func Classify(files []changeset.FileChange) changeset.CommitType {
	return DefaultPolicy.Classify(files)
}

// Classify implements changeset.Classifier.
func (p Policy) Classify(files []changeset.FileChange) changeset.CommitType {
	t, _ := p.Explain(files)
	return t
}

// Explain returns the assigned type together with the name of the rule that fired.
func (p Policy) Explain(files []changeset.FileChange) (changeset.CommitType, string) {
	for _, r := range Rules() {
		if r.Match(files, p) {
			return r.Type, r.Name
		}
	}
	// unreachable: the default rule always matches
	return changeset.TypeFeat, "default"
}

func anyPath(pred func(lower string) bool) func([]changeset.FileChange, Policy) bool {
	return func(files []changeset.FileChange, _ Policy) bool {
		for _, f := range files {
			if pred(strings.ToLower(f.Path)) {
				return true
			}
		}
		return false
	}
}

func allDocs(files []changeset.FileChange, _ Policy) bool {
	if len(files) == 0 {
		return false
	}
	for _, f := range files {
		if !isDocPath(strings.ToLower(f.Path)) {
			return false
		}
	}
	return true
}

var docExtensions = map[string]bool{".md": true, ".txt": true, ".rst": true, ".adoc": true}

func isDocPath(p string) bool {
	if docExtensions[path.Ext(p)] {
		return true
	}
	if strings.HasPrefix(path.Base(p), "readme") {
		return true
	}
	for _, seg := range strings.Split(path.Dir(p), "/") {
		if seg == "doc" || seg == "docs" {
			return true
		}
	}
	return false
}

func isTestPath(p string) bool {
	return strings.Contains(p, "test") ||
		strings.Contains(p, "spec") ||
		strings.HasSuffix(p, "_test.go")
}

var styleExtensions = map[string]bool{".css": true, ".scss": true, ".sass": true, ".less": true, ".styl": true}

func isStylePath(p string) bool {
	return styleExtensions[path.Ext(p)] ||
		strings.Contains(p, "style") ||
		strings.Contains(p, "theme")
}

var toolingPrefixes = []string{
	"package.json", "tsconfig", "webpack", "vite", "rollup", "babel", "eslint", "prettier",
	"makefile", "dockerfile", "go.mod", "go.sum", ".golangci",
}

func isToolingPath(p string) bool {
	if strings.Contains(p, "config") || strings.HasPrefix(p, ".github/") {
		return true
	}
	base := path.Base(p)
	for _, prefix := range toolingPrefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}

func additive(files []changeset.FileChange, p Policy) bool {
	factor := p.AdditiveFactor
	if factor <= 0 {
		factor = DefaultPolicy.AdditiveFactor
	}
	for _, f := range files {
		if f.Kind == changeset.KindAdded || f.Additions > f.Deletions*factor {
			return true
		}
	}
	return false
}

func balanced(files []changeset.FileChange, p Policy) bool {
	s := changeset.ComputeStats(files)
	denom := s.TotalDeletions
	if denom == 0 {
		denom = 1
	}
	ratio := float64(s.TotalAdditions) / float64(denom)
	return ratio >= p.RefactorLow && ratio <= p.RefactorHigh
}

func corrective(files []changeset.FileChange, _ Policy) bool {
	for _, f := range files {
		if f.Kind == changeset.KindModified && f.Deletions > 0 {
			return true
		}
	}
	return false
}
