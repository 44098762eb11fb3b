package scribble

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSnapshot() SceneSnapshot {
	return SceneSnapshot{
		Sticks: [][]Segment{
			{{X1: 10, Y1: 10, X2: 40, Y2: 40}},
			{{X1: 40, Y1: 10, X2: 10, Y2: 40}},
		},
		Cursor: []Segment{{X1: 25, Y1: 5, X2: 25, Y2: 45}},
	}
}

// TestFilmStrip_RenderFrame checks the frame geometry and that segment
// pixels actually land on the image.
func TestFilmStrip_RenderFrame(t *testing.T) {
	f := NewFilmStrip(FilmConfig{
		Scale:      1,
		Background: color.RGBA{0, 0, 0, 255},
		Stick:      color.RGBA{255, 255, 255, 255},
		Cursor:     color.RGBA{255, 200, 80, 255},
	})

	b := Bounds{Width: 50, Height: 50}
	img := f.RenderFrame(testSnapshot(), b, "")

	assert.Equal(t, 51, img.Bounds().Dx())
	assert.Equal(t, 51, img.Bounds().Dy())

	// A point on the first diagonal.
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(20, 20))
	// The cursor trail is drawn last, on top: it overdraws the diagonals'
	// intersection.
	assert.Equal(t, color.RGBA{255, 200, 80, 255}, img.RGBAAt(25, 25))
	// Empty canvas stays background.
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(0, 50))
}

// TestFilmStrip_RenderFrameScaled doubles the scale and checks the image
// grows with it.
func TestFilmStrip_RenderFrameScaled(t *testing.T) {
	config := DefaultFilmConfig("")
	config.Scale = 3
	f := NewFilmStrip(config)

	img := f.RenderFrame(testSnapshot(), Bounds{Width: 50, Height: 50}, "")
	assert.Equal(t, 153, img.Bounds().Dx())
}

// TestFilmStrip_SkipsOutOfBoundsPixels renders a segment projecting past the
// canvas border without panicking.
func TestFilmStrip_SkipsOutOfBoundsPixels(t *testing.T) {
	f := NewFilmStrip(DefaultFilmConfig(""))
	snap := SceneSnapshot{
		Sticks: [][]Segment{{{X1: -20, Y1: 5, X2: 70, Y2: 5}}},
	}

	assert.NotPanics(t, func() {
		f.RenderFrame(snap, Bounds{Width: 50, Height: 50}, "")
	})
}

// TestFilmStrip_CaptureFrame writes numbered PNG files and counts them.
func TestFilmStrip_CaptureFrame(t *testing.T) {
	dir := t.TempDir()
	f := NewFilmStrip(DefaultFilmConfig(dir))

	b := Bounds{Width: 50, Height: 50}

	path1, err := f.CaptureFrame(testSnapshot(), b, "start")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "frame_0000_start.png"), filepath.Clean(path1))

	path2, err := f.CaptureFrame(testSnapshot(), b, "end")
	assert.NoError(t, err)
	assert.Contains(t, path2, "frame_0001_end.png")

	assert.Equal(t, 2, f.FrameCount())

	info, err := os.Stat(path1)
	assert.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

// TestFilmStrip_CaptureFrameBadDir reports the failure as a recoverable
// capture snag.
func TestFilmStrip_CaptureFrameBadDir(t *testing.T) {
	// A regular file where the output directory should be.
	blocked := filepath.Join(t.TempDir(), "blocked")
	assert.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))

	config := DefaultFilmConfig("")
	config.OutputDir = filepath.Join(blocked, "frames")
	f := NewFilmStrip(config)

	_, err := f.CaptureFrame(testSnapshot(), Bounds{Width: 10, Height: 10}, "x")
	assert.Error(t, err)

	var s interface{ CanRecover() bool }
	assert.ErrorAs(t, err, &s)
	assert.True(t, s.CanRecover())
}
