package scribble

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/teranos/scribble/snag"
)

// FilmConfig defines the visual parameters for captured frames.
type FilmConfig struct {
	Scale      int        // Pixels per canvas unit (minimum 1)
	Background color.RGBA // Canvas color
	Stick      color.RGBA // Autonomous trail color
	Cursor     color.RGBA // Interactive trail color
	Label      bool       // Stamp a frame label in the corner
	OutputDir  string     // Directory to save frames
}

// DefaultFilmConfig returns white-on-black frames at 1:1 scale with labels.
func DefaultFilmConfig(outputDir string) FilmConfig {
	return FilmConfig{
		Scale:      1,
		Background: color.RGBA{0, 0, 0, 255},
		Stick:      color.RGBA{255, 255, 255, 255},
		Cursor:     color.RGBA{255, 200, 80, 255},
		Label:      true,
		OutputDir:  outputDir,
	}
}

// FilmStrip rasterizes scene snapshots into images and saves them as a
// numbered sequence of PNG frames. Useful for debugging motion, building
// regression baselines, and making the README pretty.
type FilmStrip struct {
	config     FilmConfig
	face       font.Face
	frameCount int
}

// NewFilmStrip creates a frame recorder with the given configuration.
func NewFilmStrip(config FilmConfig) *FilmStrip {
	if config.Scale < 1 {
		config.Scale = 1
	}
	if config.OutputDir != "" {
		os.MkdirAll(config.OutputDir, 0755)
	}

	return &FilmStrip{
		config: config,
		face:   basicfont.Face7x13,
	}
}

// FrameCount returns how many frames have been captured so far.
func (f *FilmStrip) FrameCount() int { return f.frameCount }

// RenderFrame rasterizes a snapshot onto a fresh image sized to the canvas
// bounds. Every segment is plotted as a line stroke; the interactive trail
// is drawn last, on top.
func (f *FilmStrip) RenderFrame(snap SceneSnapshot, b Bounds, label string) *image.RGBA {
	scale := f.config.Scale
	width := (b.Width + 1) * scale
	height := (b.Height + 1) * scale
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, f.config.Background)
		}
	}

	for _, trail := range snap.Sticks {
		for _, seg := range trail {
			plotLine(img, seg.X1*scale, seg.Y1*scale, seg.X2*scale, seg.Y2*scale, f.config.Stick)
		}
	}
	for _, seg := range snap.Cursor {
		plotLine(img, seg.X1*scale, seg.Y1*scale, seg.X2*scale, seg.Y2*scale, f.config.Cursor)
	}

	if f.config.Label && label != "" {
		f.stampLabel(img, label)
	}

	return img
}

// CaptureFrame renders the snapshot and saves it as the next numbered PNG
// frame, returning the file path. Failures come back as recoverable capture
// snags: a screensaver that drops a frame keeps animating.
func (f *FilmStrip) CaptureFrame(snap SceneSnapshot, b Bounds, label string) (string, error) {
	img := f.RenderFrame(snap, b, label)

	filename := fmt.Sprintf("%s/frame_%04d_%s.png", f.config.OutputDir, f.frameCount, label)
	file, err := os.Create(filename)
	if err != nil {
		return "", snag.NewBlip("capture", "failed to create frame file",
			snag.Context{"frame": f.frameCount, "path": filename, "cause": err})
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", snag.NewBlip("capture", "failed to encode frame",
			snag.Context{"frame": f.frameCount, "path": filename, "cause": err})
	}

	f.frameCount++
	return filename, nil
}

// stampLabel draws the frame label in the top-left corner.
func (f *FilmStrip) stampLabel(img *image.RGBA, label string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(f.config.Stick),
		Face: f.face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(4 << 6),
			Y: fixed.Int26_6(f.face.Metrics().Height.Ceil() << 6),
		},
	}
	drawer.DrawString(label)
}

// plotLine strokes an integer line with the classic error-accumulating walk.
// Pixels outside the image are skipped, which handles segment endpoints that
// project past the canvas border.
func plotLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
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

	bounds := img.Bounds()
	for {
		if image.Pt(x1, y1).In(bounds) {
			img.SetRGBA(x1, y1, col)
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
