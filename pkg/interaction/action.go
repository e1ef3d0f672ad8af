// pkg/interaction/action.go

package interaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Action is what the user wants to do with a generated message.
type Action string

const (
	ActionCommit     Action = "commit"
	ActionEdit       Action = "edit"
	ActionRegenerate Action = "regenerate"
	ActionCancel     Action = "cancel"
)

// DefaultActions is the order shown in the menu.
var DefaultActions = []Action{ActionCommit, ActionEdit, ActionRegenerate, ActionCancel}

var actionLabels = map[Action]string{
	ActionCommit:     "Commit with this message",
	ActionEdit:       "Edit the message",
	ActionRegenerate: "Generate a new message",
	ActionCancel:     "Cancel",
}

var actionKeys = map[Action]string{
	ActionCommit:     "c",
	ActionEdit:       "e",
	ActionRegenerate: "r",
	ActionCancel:     "q",
}

// Key is the single-key shortcut for a.
func (a Action) Key() string {
	if k, ok := actionKeys[a]; ok {
		return k
	}
	return string(a)[:1]
}

// Label is the menu text for a.
func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	headingStyle  = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00"))
)

// actionModel is a vertical menu. Enter picks the highlighted entry, a
// shortcut key picks its entry directly, esc and ctrl+c cancel.
type actionModel struct {
	title   string
	actions []Action
	cursor  int
	chosen  Action
	done    bool
}

func newActionModel(title string, actions []Action) actionModel {
	return actionModel{title: title, actions: actions}
}

func (m actionModel) Init() tea.Cmd { return nil }

func (m actionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.actions)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = m.actions[m.cursor]
		m.done = true
		return m, tea.Quit
	case "esc", "ctrl+c":
		m.chosen = ActionCancel
		m.done = true
		return m, tea.Quit
	default:
		for i, a := range m.actions {
			if key.String() == a.Key() {
				m.cursor = i
				m.chosen = a
				m.done = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m actionModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(headingStyle.Render(m.title))
	b.WriteString("\n\n")
	for i, a := range m.actions {
		line := fmt.Sprintf("[%s] %s", a.Key(), a.Label())
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + selectedStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("up/down to move, enter to select, esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

// ChooseAction shows the action menu. A terminal gets the interactive menu;
// anything else gets a numbered list.
func (p *Prompter) ChooseAction(ctx context.Context, title string, actions []Action) (Action, error) {
	if len(actions) == 0 {
		actions = DefaultActions
	}

	if !p.isTerm {
		labels := make([]string, len(actions))
		for i, a := range actions {
			labels[i] = a.Label()
		}
		idx, err := p.Select(ctx, title, labels)
		if err != nil {
			return ActionCancel, err
		}
		return actions[idx], nil
	}

	prog := tea.NewProgram(newActionModel(title, actions),
		tea.WithContext(ctx),
		tea.WithInput(p.rawIn),
		tea.WithOutput(p.out))
	final, err := prog.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ActionCancel, ctx.Err()
		}
		return ActionCancel, fmt.Errorf("action menu: %w", err)
	}

	m, ok := final.(actionModel)
	if !ok || !m.done {
		return ActionCancel, nil
	}
	return m.chosen, nil
}
