// pkg/output/render.go

package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/frkngnc/commitor/pkg/changeset"
	"github.com/frkngnc/commitor/pkg/git"
	"github.com/frkngnc/commitor/pkg/language"
	"github.com/frkngnc/commitor/pkg/message"
)

var (
	ColorPrimary = lipgloss.Color("#00ffff")
	ColorSuccess = lipgloss.Color("#00ff00")
	ColorWarning = lipgloss.Color("#ffaa00")
	ColorError   = lipgloss.Color("#ff0000")
	ColorMuted   = lipgloss.Color("#666666")
	ColorBorder  = lipgloss.Color("#3d5a80")
)

// Styles groups the lipgloss styles used by the renderers.
type Styles struct {
	Title   lipgloss.Style
	Body    lipgloss.Style
	Panel   lipgloss.Style
	Heading lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultStyles is the colour scheme for terminals.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Body:    lipgloss.NewStyle(),
		Panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder).Padding(0, 1),
		Heading: lipgloss.NewStyle().Bold(true),
		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// PlainStyles renders without colour or borders, for pipes and tests.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Body: s, Panel: s, Heading: s, Success: s, Warning: s, Error: s, Muted: s}
}

// Renderer writes human-readable views of commitor values.
type Renderer struct {
	w      io.Writer
	styles Styles
}

// NewRenderer writes to w with the given styles.
func NewRenderer(w io.Writer, styles Styles) *Renderer {
	return &Renderer{w: w, styles: styles}
}

// ChangeSet prints the file table followed by the totals and the detected type.
func (r *Renderer) ChangeSet(cs *changeset.ChangeSet, rule string) error {
	fmt.Fprintln(r.w, r.styles.Heading.Render("Staged changes on "+cs.Branch))

	t := NewTableTo(r.w).WithHeaders("STATUS", "FILE", "+", "-")
	for _, f := range cs.Files() {
		path := f.Path
		if f.OldPath != "" {
			path = f.OldPath + " -> " + f.Path
		}
		t.AddRow(string(f.Kind), path, "+"+strconv.Itoa(f.Additions), "-"+strconv.Itoa(f.Deletions))
	}
	if err := t.Render(); err != nil {
		return err
	}

	st := cs.Stats()
	fmt.Fprintf(r.w, "\n%d file(s), %s, %s\n",
		st.FileCount,
		r.styles.Success.Render(fmt.Sprintf("+%d", st.TotalAdditions)),
		r.styles.Error.Render(fmt.Sprintf("-%d", st.TotalDeletions)))

	typ := "type: " + r.styles.Title.Render(cs.Type.String())
	if rule != "" {
		typ += r.styles.Muted.Render(" (" + rule + ")")
	}
	fmt.Fprintln(r.w, typ)
	return nil
}

// Message prints m in a panel followed by any validation warnings.
func (r *Renderer) Message(m message.CommitMessage, report message.Report) {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render(m.Title()))
	if body := m.Body(); body != "" {
		b.WriteString("\n\n")
		b.WriteString(r.styles.Body.Render(body))
	}
	fmt.Fprintln(r.w, r.styles.Panel.Render(b.String()))

	for _, v := range report.Violations {
		fmt.Fprintln(r.w, r.styles.Warning.Render("warning: "+v))
	}
}

// Language prints a detection result with its per-source breakdown.
func (r *Renderer) Language(res language.Result) error {
	decided := "undecided"
	if res.Decided() {
		decided = language.Label(string(res.Language))
	}
	fmt.Fprintf(r.w, "%s %s (confidence %.0f%%, tr=%d en=%d)\n",
		r.styles.Heading.Render("Detected language:"),
		r.styles.Title.Render(decided),
		res.Confidence*100, res.Score.TR, res.Score.EN)

	t := NewTableTo(r.w).WithHeaders("SOURCE", "TR", "EN", "RESULT")
	for _, d := range res.Details {
		result := "undecided"
		if d.Language != language.Undecided {
			result = string(d.Language)
		}
		t.AddRow(d.Source, strconv.Itoa(d.Score.TR), strconv.Itoa(d.Score.EN), result)
	}
	return t.Render()
}

// History prints one line per commit.
func (r *Renderer) History(commits []git.CommitSummary) error {
	if len(commits) == 0 {
		fmt.Fprintln(r.w, r.styles.Muted.Render("no commits yet"))
		return nil
	}
	t := NewTableTo(r.w).WithHeaders("HASH", "AUTHOR", "DATE", "SUBJECT")
	for _, c := range commits {
		t.AddRow(c.ShortHash, Truncate(c.Author, 20), c.When.Format("2006-01-02 15:04"), Truncate(c.Subject, 72))
	}
	return t.Render()
}

// Committed reports a finished commit.
func (r *Renderer) Committed(res git.CommitResult) {
	verb := "Committed"
	if res.Amended {
		verb = "Amended"
	}
	fmt.Fprintln(r.w, r.styles.Success.Render(fmt.Sprintf("%s %s on %s", verb, res.ShortHash, res.Branch)))
}

// Warn prints a single warning line.
func (r *Renderer) Warn(msg string) {
	fmt.Fprintln(r.w, r.styles.Warning.Render("warning: "+msg))
}

// Status prints a check line for doctor.
func (r *Renderer) Status(ok bool, name, detail string) {
	mark := r.styles.Success.Render("ok  ")
	if !ok {
		mark = r.styles.Error.Render("FAIL")
	}
	line := fmt.Sprintf("%s %s", mark, name)
	if detail != "" {
		line += r.styles.Muted.Render("  " + detail)
	}
	fmt.Fprintln(r.w, line)
}
