// pkg/git/repository.go
//
// Repository answers the change-set builder's questions about the index.
// Staged status and diffs go through the git CLI with -z output so paths with
// spaces or non-ASCII characters arrive unquoted; detection, branch and log
// reads use go-git and need no git binary.

package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/frkngnc/commitor/pkg/changeset"
	"github.com/frkngnc/commitor/pkg/execute"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Repository is a work tree rooted at (or below) Dir.
type Repository struct {
	Dir string
}

var _ changeset.Repository = (*Repository)(nil)

// Open returns a Repository for dir; "" means the working directory.
func Open(dir string) *Repository {
	if dir == "" {
		dir = "."
	}
	return &Repository{Dir: dir}
}

func (r *Repository) run(ctx context.Context, args ...string) (string, error) {
	return execute.Run(ctx, execute.Options{
		Command: "git",
		Args:    args,
		Dir:     r.Dir,
		Quiet:   true,
	})
}

// Status reads the index side of `git status`.
func (r *Repository) Status(ctx context.Context) (changeset.Status, error) {
	out, err := r.run(ctx, "status", "--porcelain=v1", "-z", "--untracked-files=no")
	if err != nil {
		return changeset.Status{}, cerr.Wrap(err, "failed to get git status")
	}
	st, err := parseStatusZ(out)
	if err != nil {
		return changeset.Status{}, err
	}

	otelzap.Ctx(ctx).Debug("Git status retrieved",
		zap.Int("staged", len(st.Staged)),
		zap.Int("created", len(st.Created)),
		zap.Int("deleted", len(st.Deleted)),
		zap.Int("renamed", len(st.Renamed)))
	return st, nil
}

// DiffNumstat returns per-file line counts of the staged diff.
func (r *Repository) DiffNumstat(ctx context.Context) ([]changeset.NumstatRow, error) {
	out, err := r.run(ctx, "diff", "--cached", "--numstat", "-M", "-z")
	if err != nil {
		return nil, cerr.Wrap(err, "failed to get staged numstat")
	}
	return parseNumstatZ(out)
}

// DiffText returns the staged unified diff of one path. path is relative to
// the work tree root, as reported by Status and DiffNumstat, so it is passed
// as a top-anchored literal pathspec and resolves the same from any subdirectory.
func (r *Repository) DiffText(ctx context.Context, path string) (string, error) {
	out, err := r.run(ctx, "diff", "--cached", "-M", "--no-color", "--", rootPathspec(path))
	if err != nil {
		return "", cerr.Wrapf(err, "failed to diff %s", path)
	}
	return out, nil
}

func rootPathspec(path string) string {
	return ":(top,literal)" + path
}

// parseStatusZ reads `git status --porcelain=v1 -z`. Only the index column (X)
// matters; unmerged entries are skipped.
func parseStatusZ(out string) (changeset.Status, error) {
	var st changeset.Status
	entries := strings.Split(out, "\x00")

	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		if entry == "" {
			continue
		}
		if len(entry) < 4 || entry[2] != ' ' {
			return st, fmt.Errorf("malformed status entry %q", entry)
		}
		x, y, path := entry[0], entry[1], entry[3:]

		if isUnmerged(x, y) {
			continue
		}

		switch x {
		case 'A', 'C':
			st.Created = append(st.Created, path)
		case 'D':
			st.Deleted = append(st.Deleted, path)
		case 'R':
			if i+1 >= len(entries) {
				return st, fmt.Errorf("rename entry %q missing source path", entry)
			}
			i++
			st.Renamed = append(st.Renamed, changeset.Rename{From: entries[i], To: path})
		case 'M', 'T':
			st.Staged = append(st.Staged, path)
		}

		// copies also carry a source path
		if x == 'C' && i+1 < len(entries) {
			i++
		}
	}
	return st, nil
}

func isUnmerged(x, y byte) bool {
	if x == 'U' || y == 'U' {
		return true
	}
	return (x == 'A' && y == 'A') || (x == 'D' && y == 'D')
}

// parseNumstatZ reads `git diff --numstat -z`. Plain rows are
// "add\tdel\tpath\0"; renames are "add\tdel\t\0from\0to\0". Binary files
// report "-" and count as zero.
func parseNumstatZ(out string) ([]changeset.NumstatRow, error) {
	var rows []changeset.NumstatRow
	entries := strings.Split(out, "\x00")

	for i := 0; i < len(entries); i++ {
		entry := strings.TrimPrefix(entries[i], "\n")
		if entry == "" {
			continue
		}
		fields := strings.SplitN(entry, "\t", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed numstat entry %q", entry)
		}

		path := fields[2]
		if path == "" {
			if i+2 >= len(entries) {
				return nil, fmt.Errorf("rename numstat entry %q missing paths", entry)
			}
			path = entries[i+2]
			i += 2
		}

		rows = append(rows, changeset.NumstatRow{
			Additions: countOrZero(fields[0]),
			Deletions: countOrZero(fields[1]),
			Path:      path,
		})
	}
	return rows, nil
}

func countOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
