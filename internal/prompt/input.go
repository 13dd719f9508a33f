package prompt

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-media-clone/internal/theme"
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// inputModel is a one-line editor that quits on submit or cancel.
type inputModel struct {
	input     textinput.Model
	done      bool
	cancelled bool
}

func newInputModel(label, initial string) inputModel {
	styles := theme.Current()

	ti := textinput.New()
	ti.Prompt = label
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.Input
	ti.CharLimit = 0 // mapped names may hold nested paths
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()

	return inputModel{input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter, tea.KeyCtrlJ:
			m.done = true
			m.input.Blur()
			return m, tea.Quit

		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			m.input.Blur()
			return m, tea.Quit

		case tea.KeyCtrlD:
			// EOF on an empty line, delete-forward otherwise
			if m.input.Value() == "" {
				m.cancelled = true
				m.input.Blur()
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	styles := theme.Current()

	switch {
	case m.cancelled:
		return styles.Prompt.Render(m.input.Prompt) + styles.Muted.Render("^C") + "\n"
	case m.done:
		return styles.Prompt.Render(m.input.Prompt) + styles.Input.Render(m.input.Value()) + "\n"
	default:
		return m.input.View()
	}
}
