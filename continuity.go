package scribble

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/teranos/scribble/snag"
)

// Continuity validates that captured frames match a baseline, for
// regression-testing deterministic scenes: the same seed and the same step
// count must paint the same pixels.
type Continuity struct {
	baselineDir string
	currentDir  string
	tolerance   float64 // fraction of pixels allowed to differ
}

// NewContinuity creates a frame consistency checker. The default tolerance
// is exact: animation frames are integer geometry on solid color, so a
// single differing pixel is a real regression.
func NewContinuity(baselineDir, currentDir string) *Continuity {
	return &Continuity{
		baselineDir: baselineDir,
		currentDir:  currentDir,
		tolerance:   0,
	}
}

// WithTolerance allows a fraction of differing pixels before a comparison
// fails, for hosts that post-process frames.
func (c *Continuity) WithTolerance(tolerance float64) *Continuity {
	c.tolerance = tolerance
	return c
}

// CheckFrame compares a captured frame against its baseline by name. On a
// mismatch it writes a red-highlight diff image next to the current frame
// and returns a gallery-severity snag describing the drift.
func (c *Continuity) CheckFrame(name string) error {
	baseline, err := loadFrame(c.baselineDir + "/" + name + ".png")
	if err != nil {
		return snag.Wrap("capture", err, snag.Context{"role": "baseline", "frame": name})
	}
	current, err := loadFrame(c.currentDir + "/" + name + ".png")
	if err != nil {
		return snag.Wrap("capture", err, snag.Context{"role": "current", "frame": name})
	}

	drift := FrameDrift(baseline, current)
	if drift <= c.tolerance {
		return nil
	}

	diffPath := c.currentDir + "/" + name + "_diff.png"
	if diffErr := writeDiffFrame(baseline, current, diffPath); diffErr != nil {
		diffPath = ""
	}

	return snag.New("capture", "frame drifted from baseline", snag.Context{
		"frame":     name,
		"drift":     drift,
		"tolerance": c.tolerance,
		"diff":      diffPath,
	})
}

// SetBaseline promotes the named current frame to the baseline.
func (c *Continuity) SetBaseline(name string) error {
	if err := os.MkdirAll(c.baselineDir, 0755); err != nil {
		return snag.Wrap("capture", err, snag.Context{"dir": c.baselineDir})
	}

	data, err := os.ReadFile(c.currentDir + "/" + name + ".png")
	if err != nil {
		return snag.Wrap("capture", err, snag.Context{"frame": name})
	}
	if err := os.WriteFile(c.baselineDir+"/"+name+".png", data, 0644); err != nil {
		return snag.Wrap("capture", err, snag.Context{"frame": name})
	}
	return nil
}

// FrameDrift returns the fraction of pixels that differ between two frames.
// Mismatched dimensions count as fully different.
func FrameDrift(a, b image.Image) float64 {
	ba := a.Bounds()
	bb := b.Bounds()
	if ba != bb {
		return 1.0
	}

	total := (ba.Max.X - ba.Min.X) * (ba.Max.Y - ba.Min.Y)
	if total == 0 {
		return 0
	}

	differing := 0
	for y := ba.Min.Y; y < ba.Max.Y; y++ {
		for x := ba.Min.X; x < ba.Max.X; x++ {
			ar, ag, ab2, aa := a.At(x, y).RGBA()
			br, bg, bb2, bba := b.At(x, y).RGBA()
			if ar != br || ag != bg || ab2 != bb2 || aa != bba {
				differing++
			}
		}
	}

	return float64(differing) / float64(total)
}

// DiffFrame builds a visual diff: differing pixels in red, matching pixels
// dimmed.
func DiffFrame(baseline, current image.Image) *image.RGBA {
	bounds := baseline.Bounds()
	diff := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			br, bg, bb2, ba := baseline.At(x, y).RGBA()
			cr, cg, cb, ca := current.At(x, y).RGBA()

			if br != cr || bg != cg || bb2 != cb || ba != ca {
				diff.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				diff.SetRGBA(x, y, color.RGBA{
					uint8(br >> 9),
					uint8(bg >> 9),
					uint8(bb2 >> 9),
					uint8(ba >> 8),
				})
			}
		}
	}

	return diff
}

func loadFrame(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

func writeDiffFrame(baseline, current image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, DiffFrame(baseline, current))
}
