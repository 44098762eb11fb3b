// Package operators provides host front-ends that drive a scribble scene:
// a terminal renderer built on bubbletea and a desktop window built on ebiten.
// Both translate host input events into SceneDirector pointer and control
// calls and render from snapshots, never from live stick state.
package operators

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teranos/scribble"
	"github.com/teranos/scribble/snag"
)

// redrawMsg is delivered whenever the director signals that the scene changed.
type redrawMsg struct{}

// TerminalOperator hosts a scene in the terminal. It is a bubbletea model:
// mouse events feed the director, director redraws trigger repaints, and View
// rasterizes the latest snapshot onto a rune grid.
//
// Example usage:
//
//	op := operators.NewTerminalOperator(director)
//	p := tea.NewProgram(op, tea.WithAltScreen(), tea.WithMouseAllMotion())
//	if _, err := p.Run(); err != nil { ... }
type TerminalOperator struct {
	director *scribble.SceneDirector
	handler  *snag.Handler

	width  int
	height int

	snapshot scribble.SceneSnapshot
	dragging bool
	summary  string

	statusStyle lipgloss.Style
	pausedStyle lipgloss.Style
}

// NewTerminalOperator wraps a director in a terminal front-end. The director
// should already be cast; the operator starts it on Init and stops it when
// the user quits.
func NewTerminalOperator(director *scribble.SceneDirector) *TerminalOperator {
	return &TerminalOperator{
		director: director,
		handler:  snag.NewHandler("terminal", nil),
		statusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Background(lipgloss.Color("235")),
		pausedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Background(lipgloss.Color("235")).
			Bold(true),
	}
}

// Init starts the scene and begins listening for redraw signals.
func (op *TerminalOperator) Init() tea.Cmd {
	op.director.Start()
	return op.waitForRedraw()
}

// waitForRedraw blocks on the director's coalesced redraw channel.
func (op *TerminalOperator) waitForRedraw() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-op.director.Redraw(); !ok {
			return nil
		}
		return redrawMsg{}
	}
}

// Update translates terminal events into director calls.
func (op *TerminalOperator) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		op.width = msg.Width
		op.height = msg.Height
		// Bottom row is the status bar, not canvas.
		op.director.SetBounds(scribble.Bounds{Width: msg.Width - 1, Height: msg.Height - 2})
		op.snapshot = op.director.TakeSnapshot()
		return op, nil

	case tea.MouseMsg:
		return op.handleMouse(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			op.summary = op.director.Stop().Summary()
			return op, tea.Quit
		case "p":
			// Keyboard alternative for terminals without right-button events.
			if op.director.Paused() {
				op.director.SecondaryRelease()
			} else {
				op.director.SecondaryPress()
			}
			op.snapshot = op.director.TakeSnapshot()
			return op, nil
		}
		return op, nil

	case redrawMsg:
		op.snapshot = op.director.TakeSnapshot()
		return op, op.waitForRedraw()
	}

	return op, nil
}

// handleMouse routes button state to the drag, hand-off and pause operations.
func (op *TerminalOperator) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonLeft:
		switch msg.Action {
		case tea.MouseActionPress, tea.MouseActionMotion:
			op.dragging = true
			op.director.PointerDrag(scribble.Point{X: msg.X, Y: msg.Y})
		case tea.MouseActionRelease:
			if op.dragging {
				op.dragging = false
				op.director.PointerRelease()
			}
		}

	case tea.MouseButtonRight:
		switch msg.Action {
		case tea.MouseActionPress:
			op.director.SecondaryPress()
		case tea.MouseActionRelease:
			op.director.SecondaryRelease()
		}

	case tea.MouseButtonNone:
		// Motion with the button held arrives as MouseButtonNone in some
		// terminals; keep the drag alive if one is in progress.
		if op.dragging && msg.Action == tea.MouseActionMotion {
			op.director.PointerDrag(scribble.Point{X: msg.X, Y: msg.Y})
		}
	}

	op.snapshot = op.director.TakeSnapshot()
	return op, nil
}

// View rasterizes the latest snapshot onto a rune grid with a status bar on
// the bottom row.
func (op *TerminalOperator) View() string {
	if op.summary != "" {
		return op.summary + "\n"
	}
	if op.width == 0 || op.height < 2 {
		return "warming up..."
	}

	canvasH := op.height - 1
	grid := make([][]rune, canvasH)
	for y := range grid {
		grid[y] = make([]rune, op.width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	for _, trail := range op.snapshot.Sticks {
		for _, seg := range trail {
			plotRunes(grid, seg, '·')
		}
	}
	for _, seg := range op.snapshot.Cursor {
		plotRunes(grid, seg, '*')
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	b.WriteString(op.statusBar())
	return b.String()
}

// statusBar renders the bottom row: counts, pause state and key help.
func (op *TerminalOperator) statusBar() string {
	stats := op.director.Stats()
	left := fmt.Sprintf(" %d sticks · %d segments · %d hand-offs ",
		stats["sticks"], stats["segments_published"], stats["hand_offs"])
	right := " drag: draw · right-click: pause · q: quit "

	style := op.statusStyle
	if op.director.Paused() {
		left = " PAUSED " + left
		style = op.pausedStyle
	}

	pad := op.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 0 {
		pad = 0
	}
	return style.Render(left + strings.Repeat(" ", pad) + right)
}

// Handler exposes the operator's snag collection for post-session reporting.
func (op *TerminalOperator) Handler() *snag.Handler {
	return op.handler
}

// plotRunes strokes a segment onto the rune grid with the standard
// error-accumulating integer walk, skipping cells outside the grid.
func plotRunes(grid [][]rune, seg scribble.Segment, mark rune) {
	x1, y1, x2, y2 := seg.X1, seg.Y1, seg.X2, seg.Y2
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if y1 >= 0 && y1 < len(grid) && x1 >= 0 && x1 < len(grid[y1]) {
			grid[y1][x1] = mark
		}
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
