package editor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// Prefilling edits in a terminal input field that starts out holding the
// current text. When the terminal program cannot run, the call is served by
// the fallback editor instead.
type Prefilling struct {
	in       io.Reader
	out      io.Writer
	fallback Editor
	// run is swapped in tests.
	run func(m *editModel) (*editModel, error)
}

// NewPrefilling returns a prefilling editor over in/out.
func NewPrefilling(in io.Reader, out io.Writer, fallback Editor) *Prefilling {
	p := &Prefilling{in: in, out: out, fallback: fallback}
	p.run = p.runProgram
	return p
}

func (p *Prefilling) Edit(prompt, initial string) (string, error) {
	final, err := p.run(newEditModel(prompt, initial))
	if err != nil {
		if p.fallback == nil {
			return "", fmt.Errorf("editor: %w", err)
		}
		return p.fallback.Edit(prompt, initial)
	}
	return final.result()
}

func (p *Prefilling) runProgram(m *editModel) (*editModel, error) {
	program := tea.NewProgram(m, tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := program.Run()
	if err != nil {
		return nil, err
	}
	fm, ok := final.(*editModel)
	if !ok {
		return nil, errors.New("unexpected model type")
	}
	return fm, nil
}

type editModel struct {
	prompt    string
	initial   string
	input     textinput.Model
	submitted bool
	cancelled bool
	value     string
	width     int
}

func newEditModel(prompt, initial string) *editModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()
	ti.Width = 76
	return &editModel{prompt: prompt, initial: initial, input: ti, width: 80}
}

func (m *editModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.submitted = true
			m.value = m.input.Value()
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 8 {
			m.width = msg.Width
			m.input.Width = msg.Width - 4
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *editModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render(m.prompt))
	b.WriteString("\n")
	b.WriteString(currentStyle.Render("current: " + m.initial))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter to accept, empty keeps the original, esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

// result applies the shared contract: cancel wins, and an empty or blank
// submission keeps the original text.
func (m *editModel) result() (string, error) {
	if m.cancelled || !m.submitted {
		return "", ErrCancelled
	}
	text := strings.TrimSpace(m.value)
	if text == "" {
		return m.initial, nil
	}
	return text, nil
}
