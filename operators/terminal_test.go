package operators

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/teranos/scribble"
)

func newTestOperator() (*TerminalOperator, *scribble.SceneDirector) {
	config := scribble.DefaultSceneConfig()
	config.Seed = 42
	d := scribble.NewSceneDirectorWithConfig(scribble.Bounds{Width: 79, Height: 22}, config)
	return NewTerminalOperator(d), d
}

// TestTerminalOperator_Resize feeds a window size and checks the canvas
// bounds reserve the status row.
func TestTerminalOperator_Resize(t *testing.T) {
	op, d := newTestOperator()
	defer d.Stop()

	op.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, scribble.Bounds{Width: 119, Height: 38}, d.CurrentBounds())
}

// TestTerminalOperator_DragAndRelease walks a full interactive gesture
// through Update and verifies the hand-off reaches the director.
func TestTerminalOperator_DragAndRelease(t *testing.T) {
	op, d := newTestOperator()
	defer d.Stop()

	op.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	op.Update(tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	op.Update(tea.MouseMsg{X: 35, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	op.Update(tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})

	assert.Len(t, d.TakeSnapshot().Cursor, 2)

	op.Update(tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Equal(t, 1, d.StickCount())
	assert.Empty(t, d.TakeSnapshot().Cursor)
}

// TestTerminalOperator_MotionWithoutButton keeps a drag alive when the
// terminal reports held-button motion as MouseButtonNone.
func TestTerminalOperator_MotionWithoutButton(t *testing.T) {
	op, d := newTestOperator()
	defer d.Stop()

	op.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	op.Update(tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	op.Update(tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})

	assert.Len(t, d.TakeSnapshot().Cursor, 1)
}

// TestTerminalOperator_RightButtonPauses maps the secondary button onto the
// pause gate.
func TestTerminalOperator_RightButtonPauses(t *testing.T) {
	op, d := newTestOperator()
	defer d.Stop()

	op.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.True(t, d.Paused())

	op.Update(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonRight})
	assert.False(t, d.Paused())
}

// TestTerminalOperator_PauseKey offers P as a keyboard toggle.
func TestTerminalOperator_PauseKey(t *testing.T) {
	op, d := newTestOperator()
	defer d.Stop()

	op.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.True(t, d.Paused())

	op.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.False(t, d.Paused())
}

// TestTerminalOperator_QuitStopsScene tears the scene down exactly once and
// leaves the summary for the final View.
func TestTerminalOperator_QuitStopsScene(t *testing.T) {
	op, d := newTestOperator()
	d.Start()

	_, cmd := op.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.NotNil(t, cmd)

	// The director is already stopped; a second Stop reports it.
	assert.False(t, d.Stop().Success)
	assert.Contains(t, op.View(), "sticks")
}

// TestTerminalOperator_ViewLayout renders the rune grid plus status bar.
func TestTerminalOperator_ViewLayout(t *testing.T) {
	op, d := newTestOperator()
	defer d.Stop()

	op.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	op.Update(tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	op.Update(tea.MouseMsg{X: 25, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})

	view := op.View()
	assert.Contains(t, view, "*")
	assert.Contains(t, view, "q: quit")
}

// TestPlotRunes strokes within the grid and skips cells outside it.
func TestPlotRunes(t *testing.T) {
	grid := make([][]rune, 5)
	for y := range grid {
		grid[y] = []rune("     ")
	}

	plotRunes(grid, scribble.Segment{X1: 0, Y1: 0, X2: 4, Y2: 4}, '·')
	assert.Equal(t, '·', grid[0][0])
	assert.Equal(t, '·', grid[2][2])
	assert.Equal(t, '·', grid[4][4])

	assert.NotPanics(t, func() {
		plotRunes(grid, scribble.Segment{X1: -3, Y1: 2, X2: 8, Y2: 2}, '·')
	})
	assert.Equal(t, '·', grid[2][0])
}
