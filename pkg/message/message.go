// Package message holds the CommitMessage value together with the parser that
// recovers it from provider output and the advisory style validator.
package message

import (
	"encoding/json"
	"regexp"
	"strings"
)

// conventionalPattern matches `type(scope): description`.
var conventionalPattern = regexp.MustCompile(`^(\w+)(?:\(([^)]+)\))?:\s*.+`)

// DefaultType is assigned to titles that do not follow the conventional pattern.
const DefaultType = "chore"

// CommitMessage is an immutable commit message. Raw is always derived from
// Title and Body; there is no way to set it independently.
type CommitMessage struct {
	title string
	body  string
	raw   string
	typ   string
	scope string
}

// New trims title and body, parses the type and scope, and derives Raw.
func New(title, body string) CommitMessage {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	typ, scope := ParseTitle(title)
	return CommitMessage{
		title: title,
		body:  body,
		raw:   buildRaw(title, body),
		typ:   typ,
		scope: scope,
	}
}

// FromRaw splits user-edited text into title (first non-blank line) and body
// (everything after it, leading blank lines dropped).
func FromRaw(text string) CommitMessage {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i == len(lines) {
		return New("", "")
	}
	title := lines[i]
	rest := make([]string, 0, len(lines)-i-1)
	for _, l := range lines[i+1:] {
		rest = append(rest, strings.TrimRight(l, " \t"))
	}
	return New(title, strings.Join(rest, "\n"))
}

func buildRaw(title, body string) string {
	if body == "" {
		return title
	}
	return title + "\n\n" + body
}

func (m CommitMessage) Title() string { return m.title }
func (m CommitMessage) Body() string  { return m.body }
func (m CommitMessage) Raw() string   { return m.raw }
func (m CommitMessage) Type() string  { return m.typ }
func (m CommitMessage) Scope() string { return m.scope }

// IsZero reports whether the message has no title.
func (m CommitMessage) IsZero() bool { return m.title == "" }

// BodyLines splits the body; an empty body has no lines.
func (m CommitMessage) BodyLines() []string {
	if m.body == "" {
		return nil
	}
	return strings.Split(m.body, "\n")
}

// WithTitle returns a copy with a new title and regenerated Raw.
func (m CommitMessage) WithTitle(title string) CommitMessage {
	return New(title, m.body)
}

// WithBody returns a copy with a new body and regenerated Raw.
func (m CommitMessage) WithBody(body string) CommitMessage {
	return New(m.title, body)
}

func (m CommitMessage) String() string { return m.raw }

type messageJSON struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Raw   string `json:"raw"`
	Type  string `json:"type"`
	Scope string `json:"scope,omitempty"`
}

func (m CommitMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageJSON{Title: m.title, Body: m.body, Raw: m.raw, Type: m.typ, Scope: m.scope})
}

// ParseTitle extracts type and scope. Non-conventional titles get DefaultType.
func ParseTitle(title string) (typ, scope string) {
	m := conventionalPattern.FindStringSubmatch(title)
	if m == nil {
		return DefaultType, ""
	}
	return m[1], m[2]
}

// IsConventional reports whether line matches the conventional pattern.
func IsConventional(line string) bool {
	return conventionalPattern.MatchString(line)
}
