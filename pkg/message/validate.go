// pkg/message/validate.go

package message

import (
	"fmt"
	"unicode/utf8"
)

// MaxLineLength bounds the title and every body line.
const MaxLineLength = 72

// Report is the advisory outcome of Validate. Callers decide whether a
// violation blocks the commit or is only shown as a warning.
type Report struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations,omitempty"`
}

// Validate checks title length, conventional format and body line length.
func Validate(m CommitMessage) Report {
	var violations []string

	if n := utf8.RuneCountInString(m.Title()); n > MaxLineLength {
		violations = append(violations,
			fmt.Sprintf("title is too long (%d > %d characters)", n, MaxLineLength))
	}

	if !IsConventional(m.Title()) {
		violations = append(violations, "title does not follow conventional commit format: type(scope): description")
	}

	for i, line := range m.BodyLines() {
		if n := utf8.RuneCountInString(line); n > MaxLineLength {
			violations = append(violations,
				fmt.Sprintf("body line %d is too long (%d > %d characters)", i+1, n, MaxLineLength))
		}
	}

	return Report{Valid: len(violations) == 0, Violations: violations}
}
