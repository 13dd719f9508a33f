// Package prompt provides the line-editing prompts used by the session.
// On a terminal, prompts run as small inline Bubble Tea programs around a
// textinput, so a suggested value can be shown pre-filled and edited in
// place. Piped input is read one line per prompt instead.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/litescript/ls-media-clone/internal/theme"
)

// ChoiceLabel is shown when reading a numbered menu selection.
const ChoiceLabel = "Enter choice number: "

// Prompt errors.
var (
	// ErrCancelled is returned for ctrl+c, esc, ctrl+d on an empty line,
	// or end of input.
	ErrCancelled = errors.New("prompt cancelled")
	// ErrPrompt wraps failures of the terminal itself.
	ErrPrompt = errors.New("prompt failed")
)

// Prompter reads answers from the user.
type Prompter interface {
	// Input shows label with initial pre-filled and returns the submitted line.
	Input(label, initial string) (string, error)

	// Choose lists options as a numbered menu and returns the 1-based choice,
	// or 0 when the answer is not a listed number.
	Choose(title string, options []string) (int, error)
}

// Terminal is a Prompter backed by Bubble Tea on a TTY and by plain line
// reads otherwise.
type Terminal struct {
	in  io.Reader
	out io.Writer

	lines  *bufio.Reader // shared across prompts so buffered answers survive
	editor bool          // use the editor even when in is not a TTY
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithInput reads answers from r instead of stdin.
func WithInput(r io.Reader) Option {
	return func(t *Terminal) { t.in = r }
}

// WithOutput renders prompts and menus to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(t *Terminal) { t.out = w }
}

// NewTerminal creates a terminal prompter.
func NewTerminal(opts ...Option) *Terminal {
	t := &Terminal{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Input runs an editable single-line prompt.
func (t *Terminal) Input(label, initial string) (string, error) {
	if !t.interactive() {
		return t.readLine(label, initial)
	}

	var popts []tea.ProgramOption
	if t.in != nil {
		popts = append(popts, tea.WithInput(t.in))
	}
	if t.out != nil {
		popts = append(popts, tea.WithOutput(t.out))
	}

	p := tea.NewProgram(newInputModel(label, initial), popts...)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("%w: %w", ErrPrompt, err)
	}

	m, ok := final.(inputModel)
	if !ok {
		return "", fmt.Errorf("%w: unexpected model %T", ErrPrompt, final)
	}
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.input.Value(), nil
}

// Choose prints a numbered menu and reads the selection.
func (t *Terminal) Choose(title string, options []string) (int, error) {
	fmt.Fprint(t.writer(), RenderMenu(theme.Current(), title, options))

	line, err := t.Input(ChoiceLabel, "")
	if err != nil {
		return 0, err
	}
	return ParseChoice(line, len(options)), nil
}

// readLine answers a prompt from non-terminal input. An empty line keeps
// initial, and end of input before any text cancels.
func (t *Terminal) readLine(label, initial string) (string, error) {
	if t.lines == nil {
		t.lines = bufio.NewReader(t.reader())
	}

	styles := theme.Current()
	w := t.writer()
	fmt.Fprint(w, styles.Prompt.Render(label))

	line, err := t.lines.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: %w", ErrPrompt, err)
	}
	if err != nil && line == "" {
		fmt.Fprintln(w)
		return "", ErrCancelled
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		line = initial
	}
	fmt.Fprintln(w, styles.Input.Render(line))
	return line, nil
}

func (t *Terminal) interactive() bool {
	if t.editor {
		return true
	}
	f, ok := t.reader().(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (t *Terminal) reader() io.Reader {
	if t.in != nil {
		return t.in
	}
	return stdin
}

func (t *Terminal) writer() io.Writer {
	if t.out != nil {
		return t.out
	}
	return stdout
}

// RenderMenu formats options as "N: option" lines under an optional title.
func RenderMenu(styles theme.Styles, title string, options []string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(styles.Title.Render(title))
		b.WriteString("\n")
	}
	for i, opt := range options {
		b.WriteString(styles.MenuKey.Render(strconv.Itoa(i+1) + ":"))
		b.WriteString(" ")
		b.WriteString(styles.MenuItem.Render(opt))
		b.WriteString("\n")
	}
	return b.String()
}

// ParseChoice converts a typed menu answer into a 1-based choice.
// Anything that is not a number between 1 and n yields 0.
func ParseChoice(line string, n int) int {
	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || choice < 1 || choice > n {
		return 0
	}
	return choice
}
