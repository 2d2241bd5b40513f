// Package viewer implements the interactive result browser. The state
// machine is a single viewing state parameterized by a cursor over a
// fixed result list; all I/O (terminal, opening files) is injected so
// the transitions are testable with synthetic key events.
package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Asaad47/pdf-search/internal/store"
)

// Opener asks the host environment to open a source file, ideally at
// the given page. Failure is reported in the viewer, never fatal.
type Opener func(path string, page int) error

// openResultMsg carries the outcome of an open request.
type openResultMsg struct {
	path string
	err  error
}

// Model is the bubbletea model for the result browser. The cursor is
// always a valid index into results; navigation wraps at both ends.
type Model struct {
	results []store.Result
	query   string
	cursor  int
	status  string

	opener   Opener
	viewport viewport.Model
	styles   Styles
	width    int
	height   int
	ready    bool
	quitting bool
}

// NewModel creates a viewer over a non-empty result list. Callers must
// short-circuit before entering the viewer when there is nothing to
// view.
func NewModel(results []store.Result, query string, opener Opener) (*Model, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("nothing to view: empty result list")
	}
	return &Model{
		results: results,
		query:   query,
		opener:  opener,
		styles:  DefaultStyles(),
		width:   80,
		height:  24,
	}, nil
}

// Cursor returns the current cursor position.
func (m *Model) Cursor() int { return m.cursor }

// Current returns the result under the cursor.
func (m *Model) Current() store.Result { return m.results[m.cursor] }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		return m, nil

	case openResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("could not open %s: %v", msg.path, msg.err)
		} else {
			m.status = fmt.Sprintf("opened %s", msg.path)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n", "right":
		m.cursor = (m.cursor + 1) % len(m.results)
		m.status = ""
		m.syncViewport()
		return m, nil

	case "p", "left":
		m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
		m.status = ""
		m.syncViewport()
		return m, nil

	case "o":
		return m, m.openCurrent()

	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "down", "pgup", "pgdown":
		// Scrolls the rendered page text; the cursor is untouched.
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	default:
		m.status = fmt.Sprintf("unrecognized key %q (n/p navigate, o open, q quit)", msg.String())
		return m, nil
	}
}

// openCurrent requests the host to open the current result's source.
// The cursor never moves on open, success or failure.
func (m *Model) openCurrent() tea.Cmd {
	if m.opener == nil {
		m.status = "opening files is not available"
		return nil
	}
	current := m.Current()
	return func() tea.Msg {
		err := m.opener(current.Entry.Source, current.Entry.PageNumber)
		return openResultMsg{path: current.Entry.Source, err: err}
	}
}

func (m *Model) resizeViewport() {
	// Header, status line, and key hints take the rest of the frame.
	height := m.height - 8
	if height < 3 {
		height = 3
	}
	if !m.ready {
		m.viewport = viewport.New(m.width-4, height)
		m.ready = true
		m.syncViewport()
		return
	}
	m.viewport.Width = m.width - 4
	m.viewport.Height = height
	m.viewport.SetContent(m.Current().Entry.Text)
}

func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.Current().Entry.Text)
	m.viewport.GotoTop()
}

// View implements tea.Model. Rendering is a pure function of the
// model; re-rendering the same state yields the same frame.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	current := m.Current()

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("Result %d/%d", m.cursor+1, len(m.results))))
	b.WriteString(m.styles.Score.Render(fmt.Sprintf("  score %.3f  query %q", current.Score, m.query)))
	b.WriteString("\n")
	b.WriteString(m.styles.Source.Render(fmt.Sprintf("%s (page %d/%d)",
		current.Entry.Source, current.Entry.PageNumber, current.Entry.TotalPages)))
	b.WriteString("\n\n")

	if m.ready {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(current.Entry.Text)
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.styles.Status.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.KeyHints.Render("n/p next/prev • ↑/↓ scroll • o open • q quit"))

	return m.styles.Panel.Width(m.width - 2).Render(b.String())
}

// Run drives the viewer to completion on the attached terminal.
func Run(results []store.Result, query string, opener Opener) error {
	model, err := NewModel(results, query, opener)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
