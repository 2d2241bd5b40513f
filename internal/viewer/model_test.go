package viewer

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asaad47/pdf-search/internal/store"
)

func testResults(n int) []store.Result {
	results := make([]store.Result, n)
	for i := range results {
		results[i] = store.Result{
			Entry: store.Entry{
				Source:     fmt.Sprintf("/decks/deck%d.pdf", i),
				PageNumber: i + 1,
				TotalPages: n,
				Text:       fmt.Sprintf("page text %d", i),
			},
			Score: 1.0 - float32(i)*0.1,
			Rank:  i,
		}
	}
	return results
}

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	panic("unknown key " + s)
}

func press(t *testing.T, m *Model, s string) tea.Cmd {
	t.Helper()
	updated, cmd := m.Update(key(s))
	require.Same(t, m, updated)
	return cmd
}

func TestViewerRequiresResults(t *testing.T) {
	_, err := NewModel(nil, "query", nil)
	require.Error(t, err)
}

func TestViewerNextWraps(t *testing.T) {
	m, err := NewModel(testResults(3), "q", nil)
	require.NoError(t, err)

	press(t, m, "n")
	assert.Equal(t, 1, m.Cursor())
	press(t, m, "n")
	assert.Equal(t, 2, m.Cursor())
	press(t, m, "n")
	assert.Equal(t, 0, m.Cursor())
}

func TestViewerPreviousWraps(t *testing.T) {
	m, err := NewModel(testResults(3), "q", nil)
	require.NoError(t, err)

	press(t, m, "p")
	assert.Equal(t, 2, m.Cursor())
	press(t, m, "p")
	assert.Equal(t, 1, m.Cursor())
}

func TestViewerNextThenPreviousReturns(t *testing.T) {
	m, err := NewModel(testResults(4), "q", nil)
	require.NoError(t, err)

	// Including across the wrap boundary.
	press(t, m, "p")
	assert.Equal(t, 3, m.Cursor())
	press(t, m, "n")
	assert.Equal(t, 0, m.Cursor())

	press(t, m, "n")
	press(t, m, "p")
	assert.Equal(t, 0, m.Cursor())
}

func TestViewerArrowKeysNavigate(t *testing.T) {
	m, err := NewModel(testResults(2), "q", nil)
	require.NoError(t, err)

	press(t, m, "right")
	assert.Equal(t, 1, m.Cursor())
	press(t, m, "left")
	assert.Equal(t, 0, m.Cursor())
}

func TestViewerSingleResultWraps(t *testing.T) {
	m, err := NewModel(testResults(1), "q", nil)
	require.NoError(t, err)

	press(t, m, "n")
	assert.Equal(t, 0, m.Cursor())
	press(t, m, "p")
	assert.Equal(t, 0, m.Cursor())
}

func TestViewerUnknownKeyIsDiagnosticOnly(t *testing.T) {
	m, err := NewModel(testResults(3), "q", nil)
	require.NoError(t, err)
	press(t, m, "n")

	press(t, m, "z")
	assert.Equal(t, 1, m.Cursor())
	assert.Contains(t, m.status, "unrecognized key")
	assert.Contains(t, m.View(), "unrecognized key")
}

func TestViewerOpenInvokesOpener(t *testing.T) {
	var openedPath string
	var openedPage int
	opener := func(path string, page int) error {
		openedPath = path
		openedPage = page
		return nil
	}

	m, err := NewModel(testResults(3), "q", opener)
	require.NoError(t, err)
	press(t, m, "n")

	cmd := press(t, m, "o")
	require.NotNil(t, cmd)
	msg := cmd()

	assert.Equal(t, "/decks/deck1.pdf", openedPath)
	assert.Equal(t, 2, openedPage)
	assert.Equal(t, 1, m.Cursor())

	m.Update(msg)
	assert.Contains(t, m.status, "opened")
}

func TestViewerOpenFailureIsNotFatal(t *testing.T) {
	opener := func(string, int) error {
		return errors.New("no handler registered")
	}

	m, err := NewModel(testResults(2), "q", opener)
	require.NoError(t, err)

	cmd := press(t, m, "o")
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, 0, m.Cursor())
	assert.Contains(t, m.status, "could not open")
}

func TestViewerQuit(t *testing.T) {
	m, err := NewModel(testResults(2), "q", nil)
	require.NoError(t, err)

	cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewerRenderIsPure(t *testing.T) {
	m, err := NewModel(testResults(3), "routing", nil)
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	press(t, m, "n")

	first := m.View()
	second := m.View()
	assert.Equal(t, first, second)
	assert.Contains(t, first, "Result 2/3")
	assert.Contains(t, first, "/decks/deck1.pdf")
	assert.Contains(t, first, "routing")
}
