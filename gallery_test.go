package scribble

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func captureTestFrame(t *testing.T, dir string) string {
	t.Helper()
	f := NewFilmStrip(DefaultFilmConfig(dir))
	path, err := f.CaptureFrame(testSnapshot(), Bounds{Width: 50, Height: 50}, "shot")
	assert.NoError(t, err)
	return path
}

// TestGalleryWriter_AddFrame inlines a captured frame as a data URL.
func TestGalleryWriter_AddFrame(t *testing.T) {
	dir := t.TempDir()
	framePath := captureTestFrame(t, dir)

	g := NewGalleryWriter(dir)
	report := SessionReport{SessionName: "test"}

	assert.NoError(t, g.AddFrame(&report, framePath, "start", "first published trail"))
	assert.Len(t, report.Frames, 1)
	assert.Equal(t, "start", report.Frames[0].Label)
	assert.Contains(t, string(report.Frames[0].DataURL), "data:image/png;base64,")
}

// TestGalleryWriter_AddFrameMissing comes back as a recoverable gallery snag.
func TestGalleryWriter_AddFrameMissing(t *testing.T) {
	g := NewGalleryWriter(t.TempDir())
	report := SessionReport{}

	err := g.AddFrame(&report, "/nonexistent/frame.png", "x", "")
	assert.Error(t, err)

	var s interface{ CanRecover() bool }
	assert.ErrorAs(t, err, &s)
	assert.True(t, s.CanRecover())
	assert.Empty(t, report.Frames)
}

// TestGalleryWriter_WriteGallery renders a self-contained page with the
// embedded metadata block the index reads back.
func TestGalleryWriter_WriteGallery(t *testing.T) {
	dir := t.TempDir()
	framePath := captureTestFrame(t, dir)

	g := NewGalleryWriter(dir)
	report := SessionReport{
		SessionName: "evening run",
		Timestamp:   "20260831_120000",
		Duration:    3 * time.Second,
		Success:     true,
		Stats:       map[string]int64{"hand_offs": 2},
		FinalView:   ANSIToHTML("\x1b[1mfinal\x1b[0m"),
	}
	assert.NoError(t, g.AddFrame(&report, framePath, "start", ""))

	assert.NoError(t, g.WriteGallery(report))

	content, err := os.ReadFile(filepath.Join(dir, "index.html"))
	assert.NoError(t, err)
	html := string(content)

	assert.Contains(t, html, "evening run")
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, `id="session-metadata"`)
	assert.Contains(t, html, `"frameCount":1`)
	assert.Contains(t, html, "font-weight: bold")
}

// TestGenerateIndex scans timestamped session directories and lists them
// newest first with the metadata extracted from each page.
func TestGenerateIndex(t *testing.T) {
	baseDir := t.TempDir()

	for i, stamp := range []string{"20260831_100000", "20260831_110000"} {
		sessionDir := filepath.Join(baseDir, "evening", stamp)
		framePath := captureTestFrame(t, sessionDir)

		g := NewGalleryWriter(sessionDir)
		report := SessionReport{
			SessionName: "evening run",
			Timestamp:   stamp,
			Duration:    time.Duration(i+1) * time.Second,
			Success:     true,
		}
		assert.NoError(t, g.AddFrame(&report, framePath, "shot", ""))
		assert.NoError(t, g.WriteGallery(report))
	}

	assert.NoError(t, GenerateIndex(baseDir))

	content, err := os.ReadFile(filepath.Join(baseDir, "index.html"))
	assert.NoError(t, err)
	html := string(content)

	assert.Contains(t, html, "evening run")
	assert.Contains(t, html, "20260831_100000")
	assert.Contains(t, html, "20260831_110000")
}

// TestGenerateIndex_Empty produces a page even with nothing to list.
func TestGenerateIndex_Empty(t *testing.T) {
	baseDir := t.TempDir()
	assert.NoError(t, GenerateIndex(baseDir))

	content, err := os.ReadFile(filepath.Join(baseDir, "index.html"))
	assert.NoError(t, err)
	assert.Contains(t, string(content), "No session galleries")
}

// TestConvertImageToDataURL picks the MIME type from the extension.
func TestConvertImageToDataURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.png")
	assert.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0644))

	url, err := convertImageToDataURL(path)
	assert.NoError(t, err)
	assert.Contains(t, string(url), "data:image/png;base64,")

	_, err = convertImageToDataURL(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
