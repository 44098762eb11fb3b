package operators

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/teranos/scribble"
)

// WindowOperator hosts a scene in a desktop window. It is an ebiten Game:
// Update polls mouse state into director calls, Draw strokes the latest
// snapshot, and Layout feeds window resizes back as canvas bounds.
//
// Example usage:
//
//	op := operators.NewWindowOperator(director, 800, 600)
//	ebiten.SetWindowSize(800, 600)
//	ebiten.SetWindowTitle("scribble")
//	if err := ebiten.RunGame(op); err != nil { ... }
type WindowOperator struct {
	director *scribble.SceneDirector

	width  int
	height int

	snapshot scribble.SceneSnapshot
	dragging bool
	showHUD  bool

	background color.RGBA
	stick      color.RGBA
	cursor     color.RGBA
}

// NewWindowOperator wraps a director in a desktop front-end with the given
// initial window size. The director should already be cast and started.
func NewWindowOperator(director *scribble.SceneDirector, width, height int) *WindowOperator {
	director.SetBounds(scribble.Bounds{Width: width - 1, Height: height - 1})
	return &WindowOperator{
		director:   director,
		width:      width,
		height:     height,
		showHUD:    true,
		background: color.RGBA{13, 17, 23, 255},
		stick:      color.RGBA{201, 209, 217, 255},
		cursor:     color.RGBA{255, 200, 80, 255},
	}
}

// Update polls input. Left button drags the interactive stick and hands it
// off on release; right button pauses while held; Q quits; H toggles the HUD.
func (op *WindowOperator) Update() error {
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		op.dragging = true
		x, y := ebiten.CursorPosition()
		op.director.PointerDrag(scribble.Point{X: x, Y: y})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && op.dragging {
		op.dragging = false
		op.director.PointerRelease()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		op.director.SecondaryPress()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		op.director.SecondaryRelease()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		op.showHUD = !op.showHUD
	}
	// Teardown belongs to the caller that owns the director.
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	// Drain pending redraw signals; Draw runs every frame regardless, so the
	// channel only needs emptying to keep coalescing accurate.
	select {
	case <-op.director.Redraw():
		op.snapshot = op.director.TakeSnapshot()
	default:
		if op.dragging {
			op.snapshot = op.director.TakeSnapshot()
		}
	}

	return nil
}

// Draw strokes every published trail, then the interactive trail on top, then
// the HUD.
func (op *WindowOperator) Draw(screen *ebiten.Image) {
	screen.Fill(op.background)

	for _, trail := range op.snapshot.Sticks {
		for _, seg := range trail {
			vector.StrokeLine(screen,
				float32(seg.X1), float32(seg.Y1),
				float32(seg.X2), float32(seg.Y2),
				1, op.stick, true)
		}
	}
	for _, seg := range op.snapshot.Cursor {
		vector.StrokeLine(screen,
			float32(seg.X1), float32(seg.Y1),
			float32(seg.X2), float32(seg.Y2),
			2, op.cursor, true)
	}

	if op.showHUD {
		stats := op.director.Stats()
		status := fmt.Sprintf("sticks: %d  segments: %d  hand-offs: %d  fps: %0.1f",
			stats["sticks"], stats["segments_published"], stats["hand_offs"], ebiten.ActualFPS())
		if op.director.Paused() {
			status = "PAUSED  " + status
		}
		ebitenutil.DebugPrintAt(screen, status, 12, 12)
	}
}

// Layout reports the logical screen size and pushes resizes to the director.
func (op *WindowOperator) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != op.width || outsideHeight != op.height {
		op.width = outsideWidth
		op.height = outsideHeight
		op.director.SetBounds(scribble.Bounds{Width: outsideWidth - 1, Height: outsideHeight - 1})
	}
	return outsideWidth, outsideHeight
}
