package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docsqa/internal/domain"
)

// Asker is the TUI-facing subset of the query engine.
type Asker interface {
	Query(ctx context.Context, question string) (domain.Answer, error)
}

type answerMsg struct {
	answer domain.Answer
	err    error
}

// Model is the Bubble Tea model for the chat screen. Every question is sent
// on its own; earlier exchanges are only shown, never sent back.
type Model struct {
	asker    Asker
	ctx      context.Context
	input    textinput.Model
	viewport viewport.Model
	log      []exchange
	summary  string
	status   string
	pending  bool
	ready    bool
}

type exchange struct {
	question string
	answer   string
	matches  int
}

// New creates a chat model. summary is shown under the header.
func New(ctx context.Context, asker Asker, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		asker:    asker,
		ctx:      ctx,
		input:    ti,
		viewport: vp,
		summary:  summary,
		status:   "Index ready. Ctrl+C to quit.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, ih := inputStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // header+summary, status, input box
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil

	case answerMsg:
		m.pending = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.log = append(m.log, exchange{
			question: msg.answer.Question,
			answer:   msg.answer.Text,
			matches:  len(msg.answer.Matches),
		})
		m.status = fmt.Sprintf("%d chunk(s) used as context", len(msg.answer.Matches))
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.pending {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.pending = true
			m.status = "Thinking..."
			return m, m.ask(q)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// keys belong to the input; the transcript only scrolls with the mouse
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmd = tea.Batch(cmd, vpCmd)
	}
	return m, cmd
}

func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		ans, err := m.asker.Query(m.ctx, question)
		return answerMsg{answer: ans, err: err}
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("docsqa")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	if len(m.log) == 0 {
		return "No questions yet."
	}
	var b strings.Builder
	for i, ex := range m.log {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("Q: " + ex.question))
		b.WriteString("\n")
		answer := ex.answer
		if answer == "" {
			answer = "(no answer)"
		}
		b.WriteString(lipgloss.NewStyle().Width(max(20, m.viewport.Width-4)).Render("A: " + answer))
	}
	return b.String()
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
