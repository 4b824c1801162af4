package main

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.Color("#3B82F6")
	mutedColor  = lipgloss.Color("#6B7280")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

var errPromptCancelled = errors.New("input cancelled")

type promptKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	EOF    key.Binding
}

var promptKeys = promptKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("ctrl+c", "cancel"),
	),
	EOF: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "run greeting only"),
	),
}

// promptModel reads a single line of code.
type promptModel struct {
	textInput textinput.Model
	value     string
	submitted bool
	cancelled bool
}

func newPromptModel() promptModel {
	ti := textinput.New()
	ti.Placeholder = "code to append (enter for the greeting only)"
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "> "
	return promptModel{textInput: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 10 {
			m.textInput.Width = msg.Width - 10
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, promptKeys.Cancel):
			m.cancelled = true
			return m, tea.Quit

		case key.Matches(msg, promptKeys.Submit):
			m.value = m.textInput.Value()
			m.submitted = true
			return m, tea.Quit

		case key.Matches(msg, promptKeys.EOF) && m.textInput.Value() == "":
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	switch {
	case m.cancelled:
		return ""
	case m.submitted:
		return promptStyle.Render("> ") + m.value + "\n"
	}
	return m.textInput.View() + "\n" + mutedStyle.Render("enter run  ctrl+c cancel") + "\n"
}

// promptLine runs the interactive prompt on a terminal, rendering to out so
// stdout is left to the program.
func promptLine(in *os.File, out io.Writer) (string, error) {
	p := tea.NewProgram(newPromptModel(), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(promptModel)
	if !ok {
		return "", errors.New("unexpected prompt state")
	}
	if m.cancelled {
		return "", errPromptCancelled
	}
	return m.value, nil
}
