package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-media-clone/internal/theme"
)

func press(m inputModel, keys ...tea.KeyMsg) (inputModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(inputModel)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInputModelPrefilled(t *testing.T) {
	m := newInputModel("Destination: ", "Show Name")
	assert.Equal(t, "Show Name", m.input.Value())
	assert.Equal(t, len("Show Name"), m.input.Position())

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.done)
	assert.False(t, m.cancelled)
	assert.Equal(t, "Show Name", m.input.Value())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestInputModelEditing(t *testing.T) {
	m := newInputModel("Destination: ", "Show Name")

	m, _ = press(m, runes(" (2020)"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.done)
	assert.Equal(t, "Show Name (2020)", m.input.Value())
}

func TestInputModelBackspaceToEmpty(t *testing.T) {
	m := newInputModel("Destination: ", "ab")

	m, _ = press(m,
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	assert.True(t, m.done)
	assert.Equal(t, "", m.input.Value())
}

func TestInputModelCancel(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		key     tea.KeyMsg
	}{
		{"ctrl+c", "Show Name", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"esc", "Show Name", tea.KeyMsg{Type: tea.KeyEsc}},
		{"ctrl+d on empty line", "", tea.KeyMsg{Type: tea.KeyCtrlD}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newInputModel("> ", tt.initial)
			m, cmd := press(m, tt.key)
			assert.True(t, m.cancelled)
			assert.False(t, m.done)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Contains(t, m.View(), "^C")
		})
	}
}

func TestInputModelCtrlDWithText(t *testing.T) {
	m := newInputModel("> ", "abc")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.False(t, m.cancelled)
	assert.False(t, m.done)
}

func TestInputModelLongInitial(t *testing.T) {
	initial := strings.Repeat("Sub/Path/", 40) + "Show Name"
	require.Greater(t, len([]rune(initial)), 255)

	m := newInputModel("Destination: ", initial)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, initial, m.input.Value())
}

func TestInputModelFinalView(t *testing.T) {
	m := newInputModel("Destination: ", "The Matrix")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	view := m.View()
	assert.Contains(t, view, "Destination: ")
	assert.Contains(t, view, "The Matrix")
	assert.True(t, strings.HasSuffix(view, "\n"))
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		line string
		n    int
		want int
	}{
		{"1", 3, 1},
		{" 3 ", 3, 3},
		{"0", 3, 0},
		{"4", 3, 0},
		{"-1", 3, 0},
		{"", 3, 0},
		{"two", 3, 0},
		{"1.5", 3, 0},
		{"1", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseChoice(tt.line, tt.n))
		})
	}
}

func TestRenderMenu(t *testing.T) {
	styles := theme.NewPlainStyles()

	out := RenderMenu(styles, "Select Extensions to copy:", []string{"Video", "Any"})
	assert.Equal(t, "Select Extensions to copy:\n1: Video\n2: Any\n", out)

	assert.Equal(t, "1: only\n", RenderMenu(styles, "", []string{"only"}))
}

// editorTerminal drives the Bubble Tea editor from a plain reader.
func editorTerminal(in string, out *bytes.Buffer) *Terminal {
	term := NewTerminal(WithInput(strings.NewReader(in)), WithOutput(out))
	term.editor = true
	return term
}

func TestTerminalInput(t *testing.T) {
	var out bytes.Buffer
	term := editorTerminal("Matrix\r", &out)

	got, err := term.Input("Destination: ", "The ")
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", got)
}

func TestTerminalInputCancelled(t *testing.T) {
	var out bytes.Buffer
	term := editorTerminal("\x03", &out)

	_, err := term.Input("Destination: ", "Show Name")
	assert.True(t, errors.Is(err, ErrCancelled))
}

func TestTerminalChoose(t *testing.T) {
	var out bytes.Buffer
	term := editorTerminal("2\r", &out)

	choice, err := term.Choose("", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 2, choice)
	assert.Contains(t, out.String(), "1: a")
	assert.Contains(t, out.String(), "3: c")
}

func TestTerminalChooseEOF(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(WithInput(strings.NewReader("")), WithOutput(&out))

	done := make(chan error, 1)
	go func() {
		_, err := term.Choose("", []string{"a"})
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrCancelled)
	case <-time.After(5 * time.Second):
		t.Fatal("Choose did not return at end of input")
	}
	assert.Contains(t, out.String(), "1: a")
}

func TestTerminalPipedAnswers(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(WithInput(strings.NewReader("2\r\n\nRenamed\npartial")), WithOutput(&out))

	choice, err := term.Choose("", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, choice)

	got, err := term.Input("Destination: ", "Suggested")
	require.NoError(t, err)
	assert.Equal(t, "Suggested", got, "empty line keeps the suggestion")

	got, err = term.Input("Destination: ", "Suggested")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got)

	got, err = term.Input("Destination: ", "")
	require.NoError(t, err)
	assert.Equal(t, "partial", got)

	_, err = term.Input("Destination: ", "Suggested")
	assert.ErrorIs(t, err, ErrCancelled)

	assert.Contains(t, out.String(), "Renamed\n")
}
