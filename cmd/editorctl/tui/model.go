// Package tui implements a minimal terminal demo host for the editing
// engine, grounded on cmd/calcmark/tui/repl's single-pane bubbletea model:
// one text view of the whole document plus a one-line input, no split panes.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scrivlet/editorcore/cmd/editorctl/config"
	"github.com/scrivlet/editorcore/command"
	"github.com/scrivlet/editorcore/editor"
	"github.com/scrivlet/editorcore/htmlbridge"
	"github.com/scrivlet/editorcore/schema"
	"github.com/scrivlet/editorcore/state"
	"github.com/scrivlet/editorcore/transaction"
)

// Model is the terminal editor's bubbletea model. Every edit reaches the
// document as a transaction dispatched through editor.Editor, never as a
// direct document mutation (typed text is held in the input line and
// inserted on Enter), so the demo host exercises the same pipeline a real
// frontend would.
type Model struct {
	ed   *editor.Editor
	path string

	input    textinput.Model
	status   string
	isError  bool
	quitting bool

	width  int
	height int

	styles config.Styles
}

// New builds the terminal editor model. If path is non-empty, its contents
// are loaded as document JSON; otherwise a blank document is created.
func New(path string) (Model, error) {
	reg := schema.New()
	if err := schema.RegisterBasic(reg); err != nil {
		return Model{}, fmt.Errorf("schema setup: %w", err)
	}

	ed := editor.New(reg)
	ed.SetHTMLPipeline(htmlbridge.New())

	cfg := config.Get()
	if err := ed.Init(editor.Config{
		GroupTimeout: cfg.History.GroupTimeoutMillis,
		UndoCap:      cfg.History.UndoCap,
	}); err != nil {
		return Model{}, fmt.Errorf("init editor: %w", err)
	}

	status := "new document"
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Model{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err := ed.SetJSON(data); err != nil {
			return Model{}, fmt.Errorf("load %s: %w", path, err)
		}
		status = "loaded " + path
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type text, Enter for a new paragraph, :help for commands"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 70

	return Model{
		ed:     ed,
		path:   path,
		input:  ti,
		status: status,
		width:  80,
		height: 24,
		styles: config.GetStyles(),
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.width - 6
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		return m.handleEnter(), nil

	case tea.KeyCtrlZ:
		m.report(m.ed.Undo())
		return m, nil

	case tea.KeyCtrlY:
		m.report(m.ed.Redo())
		return m, nil

	case tea.KeyBackspace:
		m.runStateCommand(command.DeleteBackward)
		return m, nil

	case tea.KeyDelete:
		m.runStateCommand(command.DeleteForward)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleEnter() Model {
	text := m.input.Value()
	m.input.SetValue("")

	if strings.HasPrefix(text, ":") {
		return m.runSlashCommand(strings.TrimPrefix(text, ":"))
	}
	if text == "" {
		m.runStateCommand(command.SplitBlockCommand)
		return m
	}

	m.runStateCommand(func(s *state.EditorState) *transaction.Transaction {
		return command.InsertTextCommand(s, text)
	})
	return m
}

// runStateCommand builds a transaction from the editor's current state and
// dispatches it, reporting any failure to the status line. fn returning nil
// (a command that declined, e.g. nothing to delete) is silently a no-op.
func (m *Model) runStateCommand(fn func(*state.EditorState) *transaction.Transaction) {
	tr := fn(m.ed.GetState())
	if tr == nil {
		return
	}
	m.report(m.ed.Dispatch(*tr))
}

func (m Model) runSlashCommand(name string) Model {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return m
	}

	switch fields[0] {
	case "quit", "q":
		m.quitting = true
	case "undo", "u":
		m.report(m.ed.Undo())
	case "redo", "r":
		m.report(m.ed.Redo())
	case "html":
		html, err := m.ed.GetHTML()
		if err != nil {
			m.report(err)
		} else {
			m.status, m.isError = html, false
		}
	case "json":
		data, err := m.ed.GetJSON()
		if err != nil {
			m.report(err)
		} else {
			m.status, m.isError = string(data), false
		}
	case "save":
		if len(fields) < 2 {
			m.status, m.isError = "usage: :save <path>", true
			break
		}
		m.saveTo(fields[1])
	case "cmd":
		if len(fields) < 2 {
			m.status, m.isError = "usage: :cmd <name>", true
			break
		}
		m.report(m.ed.ExecuteCommand(fields[1]))
	default:
		m.status, m.isError = "unknown command: "+fields[0], true
	}
	return m
}

func (m *Model) saveTo(path string) {
	data, err := m.ed.GetJSON()
	if err != nil {
		m.report(err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		m.report(err)
		return
	}
	m.status, m.isError = "saved "+path, false
}

func (m *Model) report(err error) {
	if err != nil {
		m.status, m.isError = err.Error(), true
		return
	}
	m.status, m.isError = "ok", false
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("236")).
		Padding(0, 1).
		Width(m.width)
	b.WriteString(title.Render("editorctl"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Muted.Render(m.ed.GetText()))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n")

	statusStyle := m.styles.Accent
	if m.isError {
		statusStyle = m.styles.Error
	}
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")

	help := m.styles.Muted.Render(":undo :redo :html :json :save <path> :cmd <name> :quit")
	b.WriteString(help)

	return b.String()
}
