// pkg/classify/scope.go

package classify

import (
	"strings"

	"github.com/frkngnc/commitor/pkg/changeset"
)

// SuggestScope proposes a conventional-commit scope when every staged path
// lives in the same package. Paths under pkg/, cmd/ or internal/ contribute
// their second segment; anything else contributes its top-level directory.
// Returns "" when the paths disagree or sit at the repository root.
func SuggestScope(files []changeset.FileChange) string {
	scope := ""
	for _, f := range files {
		s := scopeOf(f.Path)
		if s == "" {
			return ""
		}
		if scope == "" {
			scope = s
			continue
		}
		if s != scope {
			return ""
		}
	}
	return scope
}

func scopeOf(p string) string {
	parts := strings.Split(strings.TrimPrefix(p, "./"), "/")
	if len(parts) < 2 {
		return ""
	}
	switch parts[0] {
	case "pkg", "cmd", "internal":
		if len(parts) >= 3 {
			return parts[1]
		}
		return parts[0]
	}
	return parts[0]
}
