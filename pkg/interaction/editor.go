// pkg/interaction/editor.go

package interaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// EditTerminator ends multi-line input when no terminal is attached.
const EditTerminator = "."

type editorModel struct {
	area      textarea.Model
	saved     bool
	cancelled bool
}

func newEditorModel(initial string) editorModel {
	ta := textarea.New()
	ta.SetValue(initial)
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(max(6, strings.Count(initial, "\n")+3))
	ta.Focus()
	return editorModel{area: ta}
}

func (m editorModel) Init() tea.Cmd { return textarea.Blink }

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+s", "ctrl+d":
			m.saved = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m editorModel) View() string {
	if m.saved || m.cancelled {
		return ""
	}
	return headingStyle.Render("Edit commit message") + "\n\n" +
		m.area.View() + "\n\n" +
		mutedStyle.Render("ctrl+s to save, esc to discard") + "\n"
}

// Value is the current text.
func (m editorModel) Value() string { return m.area.Value() }

// Edit lets the user change text. ok is false when the edit was discarded.
// Without a terminal the user types lines ending with a lone ".".
func (p *Prompter) Edit(ctx context.Context, initial string) (text string, ok bool, err error) {
	if !p.isTerm {
		return p.editLines(ctx, initial)
	}

	prog := tea.NewProgram(newEditorModel(initial),
		tea.WithContext(ctx),
		tea.WithInput(p.rawIn),
		tea.WithOutput(p.out))
	final, err := prog.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return initial, false, ctx.Err()
		}
		return initial, false, fmt.Errorf("message editor: %w", err)
	}

	m, isEditor := final.(editorModel)
	if !isEditor || !m.saved {
		return initial, false, nil
	}
	return m.Value(), true, nil
}

func (p *Prompter) editLines(ctx context.Context, initial string) (string, bool, error) {
	_, _ = fmt.Fprintln(p.out, "Current message:")
	_, _ = fmt.Fprintln(p.out, initial)
	_, _ = fmt.Fprintf(p.out, "Enter the new message, end with a line containing only %q (empty keeps the current one):\n", EditTerminator)

	var lines []string
	for {
		line, err := p.ReadLine(ctx, "")
		if errors.Is(err, ErrNoInput) {
			break
		}
		if err != nil {
			return initial, false, err
		}
		if line == EditTerminator {
			break
		}
		lines = append(lines, line)
	}

	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if text == "" {
		return initial, false, nil
	}
	return text, true, nil
}
