package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Beastly713/sharesplit/pkg/dealer"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // Red
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
)

type mode int

const (
	splitMode mode = iota
	combineMode
)

// split form fields
const (
	secretField = iota
	sharesField
	thresholdField
)

type model struct {
	dealer *dealer.Dealer

	mode   mode
	inputs []textinput.Model
	focus  int
	pasted textarea.Model

	output   string
	status   string
	failed   bool
	quitting bool
}

// resultMsg carries the outcome of a split or combine back to Update.
type resultMsg struct {
	output string
	err    error
}

func initialModel(d *dealer.Dealer, shares, threshold int) model {
	secret := textinput.New()
	secret.Placeholder = "Enter secret"
	secret.EchoMode = textinput.EchoPassword
	secret.EchoCharacter = '•'
	secret.Prompt = "Secret:    "

	sharesInput := textinput.New()
	sharesInput.Placeholder = "Shares"
	sharesInput.CharLimit = 3
	sharesInput.Prompt = "Shares:    "
	sharesInput.SetValue(strconv.Itoa(shares))

	thresholdInput := textinput.New()
	thresholdInput.Placeholder = "Threshold"
	thresholdInput.CharLimit = 3
	thresholdInput.Prompt = "Threshold: "
	thresholdInput.SetValue(strconv.Itoa(threshold))

	pasted := textarea.New()
	pasted.Placeholder = "Paste shares (one per line)"
	pasted.ShowLineNumbers = false
	pasted.CharLimit = 0
	pasted.MaxWidth = 0
	pasted.SetHeight(6)
	pasted.SetWidth(72)

	m := model{
		dealer: d,
		inputs: []textinput.Model{secret, sharesInput, thresholdInput},
		pasted: pasted,
	}
	m.inputs[secretField].Focus()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "ctrl+t":
			return m.toggleMode()

		case "ctrl+s":
			return m, m.submit()

		case "enter":
			if m.mode == splitMode {
				return m, m.submit()
			}

		case "tab", "down":
			if m.mode == splitMode {
				return m.moveFocus(1)
			}

		case "shift+tab", "up":
			if m.mode == splitMode {
				return m.moveFocus(-1)
			}
		}

	case resultMsg:
		if msg.err != nil {
			m.failed = true
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.failed = false
		m.output = msg.output
		if m.mode == splitMode {
			m.status = "Success! Hand each share to a different holder."
			m.inputs[secretField].SetValue("")
		} else {
			m.status = "Success! Secret recovered."
		}
		return m, nil
	}

	// Forward everything else to the focused widget
	var cmd tea.Cmd
	if m.mode == splitMode {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	} else {
		m.pasted, cmd = m.pasted.Update(msg)
	}
	return m, cmd
}

func (m model) toggleMode() (tea.Model, tea.Cmd) {
	m.output = ""
	m.status = ""
	m.failed = false

	if m.mode == splitMode {
		m.mode = combineMode
		m.inputs[m.focus].Blur()
		return m, m.pasted.Focus()
	}

	m.mode = splitMode
	m.pasted.Blur()
	return m, m.inputs[m.focus].Focus()
}

func (m model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m, m.inputs[m.focus].Focus()
}

// submit runs the operation for the current mode off the update loop.
func (m model) submit() tea.Cmd {
	if m.mode == combineMode {
		pasted := m.pasted.Value()
		return func() tea.Msg {
			tokens, err := readTokens(strings.NewReader(pasted))
			if err != nil {
				return resultMsg{err: err}
			}
			resp, err := m.dealer.Combine(&dealer.CombineRequest{Shares: tokens})
			if err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{output: resp.Secret}
		}
	}

	secret := m.inputs[secretField].Value()
	sharesText := strings.TrimSpace(m.inputs[sharesField].Value())
	thresholdText := strings.TrimSpace(m.inputs[thresholdField].Value())
	return func() tea.Msg {
		shares, err := strconv.Atoi(sharesText)
		if err != nil {
			return resultMsg{err: fmt.Errorf("shares must be a number, got %q", sharesText)}
		}
		threshold, err := strconv.Atoi(thresholdText)
		if err != nil {
			return resultMsg{err: fmt.Errorf("threshold must be a number, got %q", thresholdText)}
		}
		resp, err := m.dealer.Split(&dealer.SplitRequest{
			Secret:    secret,
			Shares:    shares,
			Threshold: threshold,
		})
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{output: strings.Join(resp.Shares, "\n")}
	}
}

func (m model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Shamir Secret Splitter"))
	b.WriteString("\n\n")

	if m.mode == splitMode {
		b.WriteString(headingStyle.Render("Split"))
		b.WriteString("\n")
		for i, input := range m.inputs {
			view := input.View()
			if i == m.focus {
				view = focusedStyle.Render(">") + " " + view
			} else {
				view = "  " + view
			}
			b.WriteString(view + "\n")
		}
	} else {
		b.WriteString(headingStyle.Render("Recombine"))
		b.WriteString("\n")
		b.WriteString(m.pasted.View())
		b.WriteString("\n")
	}

	if m.output != "" {
		b.WriteString("\n" + m.output + "\n")
	}

	if m.status != "" {
		style := okStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.status) + "\n")
	}

	help := "tab: next field | enter: split | ctrl+t: recombine | esc: quit"
	if m.mode == combineMode {
		help = "ctrl+s: combine | ctrl+t: split | esc: quit"
	}
	b.WriteString("\n" + helpStyle.Render(help))

	return docStyle.Render(b.String())
}

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Interactive terminal UI for splitting and recombining secrets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(
				initialModel(a.dealer, a.cfg.Shares, a.cfg.Threshold),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}
}
