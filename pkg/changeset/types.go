// pkg/changeset/types.go

package changeset

import (
	"encoding/json"
	"fmt"
)

// ChangeKind describes what happened to a staged path.
type ChangeKind string

const (
	KindAdded    ChangeKind = "added"
	KindModified ChangeKind = "modified"
	KindDeleted  ChangeKind = "deleted"
	KindRenamed  ChangeKind = "renamed"
)

// CommitType is the conventional-commit category assigned to a ChangeSet.
type CommitType string

const (
	TypeFeat     CommitType = "feat"
	TypeFix      CommitType = "fix"
	TypeRefactor CommitType = "refactor"
	TypeDocs     CommitType = "docs"
	TypeTest     CommitType = "test"
	TypeChore    CommitType = "chore"
	TypeStyle    CommitType = "style"
	TypePerf     CommitType = "perf"
)

// CommitTypes lists every valid CommitType in declaration order.
var CommitTypes = []CommitType{
	TypeFeat, TypeFix, TypeRefactor, TypeDocs, TypeTest, TypeChore, TypeStyle, TypePerf,
}

func (t CommitType) String() string { return string(t) }

// Valid reports whether t is one of the closed set of commit types.
func (t CommitType) Valid() bool {
	for _, c := range CommitTypes {
		if c == t {
			return true
		}
	}
	return false
}

// FileChange is one staged path. Values are never mutated after Build.
type FileChange struct {
	Path      string     `json:"path"`
	Kind      ChangeKind `json:"kind"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Diff      string     `json:"-"`
	OldPath   string     `json:"old_path,omitempty"`
}

// Stats aggregates line counts over a ChangeSet.
type Stats struct {
	FileCount      int `json:"file_count"`
	TotalAdditions int `json:"total_additions"`
	TotalDeletions int `json:"total_deletions"`
}

// ComputeStats sums files. It is the only way Stats are produced.
func ComputeStats(files []FileChange) Stats {
	s := Stats{FileCount: len(files)}
	for _, f := range files {
		s.TotalAdditions += f.Additions
		s.TotalDeletions += f.Deletions
	}
	return s
}

// ChangeSet is the ordered description of everything currently staged.
type ChangeSet struct {
	files  []FileChange
	Branch string
	Type   CommitType
}

// New copies files so later changes to the caller's slice cannot leak in.
func New(files []FileChange, branch string, typ CommitType) *ChangeSet {
	cp := make([]FileChange, len(files))
	copy(cp, files)
	return &ChangeSet{files: cp, Branch: branch, Type: typ}
}

// Files returns a copy of the entries in diff order.
func (cs *ChangeSet) Files() []FileChange {
	cp := make([]FileChange, len(cs.files))
	copy(cp, cs.files)
	return cp
}

// Len is the number of files.
func (cs *ChangeSet) Len() int { return len(cs.files) }

// Stats are recomputed from the current entries on every call.
func (cs *ChangeSet) Stats() Stats {
	return ComputeStats(cs.files)
}

// Paths returns the staged paths in order.
func (cs *ChangeSet) Paths() []string {
	out := make([]string, 0, len(cs.files))
	for _, f := range cs.files {
		out = append(out, f.Path)
	}
	return out
}

// Filter returns a new ChangeSet holding the entries keep accepts.
// Branch and Type are carried over unchanged.
func (cs *ChangeSet) Filter(keep func(FileChange) bool) *ChangeSet {
	out := make([]FileChange, 0, len(cs.files))
	for _, f := range cs.files {
		if keep(f) {
			out = append(out, f)
		}
	}
	return &ChangeSet{files: out, Branch: cs.Branch, Type: cs.Type}
}

// WithType returns a copy carrying typ.
func (cs *ChangeSet) WithType(typ CommitType) *ChangeSet {
	return &ChangeSet{files: cs.files, Branch: cs.Branch, Type: typ}
}

// Summary renders a one-line description used in logs.
func (cs *ChangeSet) Summary() string {
	s := cs.Stats()
	return fmt.Sprintf("%s on %s: %d files +%d -%d", cs.Type, cs.Branch, s.FileCount, s.TotalAdditions, s.TotalDeletions)
}

type changeSetJSON struct {
	Branch string       `json:"branch"`
	Type   CommitType   `json:"type"`
	Stats  Stats        `json:"stats"`
	Files  []FileChange `json:"files"`
}

// MarshalJSON emits the computed stats alongside the entries.
func (cs *ChangeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(changeSetJSON{
		Branch: cs.Branch,
		Type:   cs.Type,
		Stats:  cs.Stats(),
		Files:  cs.files,
	})
}
