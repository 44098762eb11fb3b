package scribble

import (
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/teranos/scribble/snag"
)

//go:embed html_templates/gallery.html
var galleryTemplate string

//go:embed html_templates/index.html
var indexTemplate string

// SessionReport represents a complete animation session report.
type SessionReport struct {
	SessionName string            `json:"session_name"`
	Timestamp   string            `json:"timestamp"`
	Duration    time.Duration     `json:"duration"`
	Success     bool              `json:"success"`
	Frames      []FrameEntry      `json:"frames"`
	Actions     []SceneAction     `json:"actions"`
	Stats       map[string]int64  `json:"stats"`
	FinalView   template.HTML     `json:"-"`
	Metadata    map[string]string `json:"metadata"`
}

// FrameEntry represents a single captured frame with context.
type FrameEntry struct {
	Label       string       `json:"label"`
	Filename    string       `json:"filename"`
	Timestamp   time.Time    `json:"timestamp"`
	Step        int          `json:"step"`
	Description string       `json:"description"`
	DataURL     template.URL `json:"data_url"` // Base64 encoded data URL for embedding
}

// sessionMetadata is the structured data embedded in gallery pages so the
// index can read session results without parsing HTML.
type sessionMetadata struct {
	SessionName string `json:"sessionName"`
	Duration    string `json:"duration"`
	FrameCount  int    `json:"frameCount"`
	Timestamp   string `json:"timestamp"`
	Success     bool   `json:"success"`
}

// IndexEntry represents a single session gallery on the index page.
type IndexEntry struct {
	SessionName  string    `json:"session_name"`
	Timestamp    string    `json:"timestamp"`
	Success      bool      `json:"success"`
	FrameCount   int       `json:"frame_count"`
	Duration     string    `json:"duration"`
	GalleryPath  string    `json:"gallery_path"`
	RelativePath string    `json:"relative_path"`
	CreatedAt    time.Time `json:"created_at"`
}

// GalleryWriter turns captured frame sequences into self-contained HTML
// contact sheets. Frames are inlined as data URLs so a gallery is a single
// file that can be attached to a bug report.
type GalleryWriter struct {
	outputDir     string
	templateCache map[string]*template.Template
}

// NewGalleryWriter creates a gallery writer rooted at outputDir.
func NewGalleryWriter(outputDir string) *GalleryWriter {
	return &GalleryWriter{
		outputDir:     outputDir,
		templateCache: make(map[string]*template.Template),
	}
}

// AddFrame builds a FrameEntry for a captured frame file, inlining the image
// as a data URL. A missing or unreadable frame is a recoverable gallery snag.
func (g *GalleryWriter) AddFrame(report *SessionReport, path, label, description string) error {
	dataURL, err := convertImageToDataURL(path)
	if err != nil {
		return snag.NewBlip("gallery", "failed to inline frame",
			snag.Context{"path": path, "cause": err})
	}

	report.Frames = append(report.Frames, FrameEntry{
		Label:       label,
		Filename:    filepath.Base(path),
		Timestamp:   time.Now(),
		Step:        len(report.Frames),
		Description: description,
		DataURL:     dataURL,
	})
	return nil
}

// WriteGallery renders the session report to index.html under the output
// directory.
func (g *GalleryWriter) WriteGallery(report SessionReport) error {
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return snag.Wrap("gallery", err, snag.Context{"dir": g.outputDir})
	}

	galleryPath := filepath.Join(g.outputDir, "index.html")
	file, err := os.Create(galleryPath)
	if err != nil {
		return snag.Wrap("gallery", err, snag.Context{"path": galleryPath})
	}
	defer file.Close()

	meta, err := json.Marshal(sessionMetadata{
		SessionName: report.SessionName,
		Duration:    report.Duration.String(),
		FrameCount:  len(report.Frames),
		Timestamp:   report.Timestamp,
		Success:     report.Success,
	})
	if err != nil {
		return snag.Wrap("gallery", err, nil)
	}

	data := struct {
		SessionReport
		MetadataJSON template.JS
	}{
		SessionReport: report,
		MetadataJSON:  template.JS(meta),
	}

	if err := g.getGalleryTemplate().Execute(file, data); err != nil {
		return snag.Wrap("gallery", err, snag.Context{"path": galleryPath})
	}
	return nil
}

func (g *GalleryWriter) getGalleryTemplate() *template.Template {
	if tmpl, exists := g.templateCache["gallery"]; exists {
		return tmpl
	}

	tmpl := template.Must(template.New("gallery").Parse(galleryTemplate))
	g.templateCache["gallery"] = tmpl
	return tmpl
}

// convertImageToDataURL reads an image file and converts it to a base64 data URL.
func convertImageToDataURL(imagePath string) (template.URL, error) {
	imageBytes, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(imagePath))
	var mimeType string
	switch ext {
	case ".png":
		mimeType = "image/png"
	case ".jpg", ".jpeg":
		mimeType = "image/jpeg"
	case ".gif":
		mimeType = "image/gif"
	default:
		mimeType = "image/png"
	}

	base64Data := base64.StdEncoding.EncodeToString(imageBytes)
	return template.URL(fmt.Sprintf("data:%s;base64,%s", mimeType, base64Data)), nil
}

// GenerateIndex creates a central index HTML file linking all session
// galleries found under baseDir.
func GenerateIndex(baseDir string) error {
	entries, err := scanGalleries(baseDir)
	if err != nil {
		return snag.Wrap("gallery", err, snag.Context{"dir": baseDir})
	}

	indexPath := filepath.Join(baseDir, "index.html")
	file, err := os.Create(indexPath)
	if err != nil {
		return snag.Wrap("gallery", err, snag.Context{"path": indexPath})
	}
	defer file.Close()

	tmpl := template.Must(template.New("index").Parse(indexTemplate))

	indexData := struct {
		Sessions    []IndexEntry
		GeneratedAt time.Time
	}{
		Sessions:    entries,
		GeneratedAt: time.Now(),
	}

	if err := tmpl.Execute(file, indexData); err != nil {
		return snag.Wrap("gallery", err, snag.Context{"path": indexPath})
	}
	return nil
}

// scanGalleries finds all session galleries under the base directory. Session
// galleries live in timestamped directories: <baseDir>/<name>/20060102_150405/index.html.
func scanGalleries(baseDir string) ([]IndexEntry, error) {
	var entries []IndexEntry

	err := filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.Name() != "index.html" || path == filepath.Join(baseDir, "index.html") {
			return nil
		}

		dir := filepath.Dir(path)
		timestamp := filepath.Base(dir)
		if _, err := time.Parse("20060102_150405", timestamp); err != nil {
			return nil
		}

		entry := IndexEntry{
			SessionName:  filepath.Base(filepath.Dir(dir)),
			Timestamp:    timestamp,
			GalleryPath:  path,
			RelativePath: relativePath(baseDir, path),
			CreatedAt:    info.ModTime(),
		}

		if meta, err := extractSessionMetadata(path); err == nil {
			entry.SessionName = meta.SessionName
			entry.Success = meta.Success
			entry.FrameCount = meta.FrameCount
			entry.Duration = meta.Duration
		}

		entries = append(entries, entry)
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Newest first
	for i := 0; i < len(entries)-1; i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[j].CreatedAt.After(entries[i].CreatedAt) {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}

	return entries, nil
}

// extractSessionMetadata reads the embedded JSON metadata block from a
// gallery page.
func extractSessionMetadata(htmlPath string) (*sessionMetadata, error) {
	content, err := os.ReadFile(htmlPath)
	if err != nil {
		return nil, err
	}
	htmlContent := string(content)

	start := strings.Index(htmlContent, `<script type="application/json" id="session-metadata">`)
	if start == -1 {
		return nil, fmt.Errorf("no JSON metadata found")
	}

	jsonStart := strings.Index(htmlContent[start:], "{")
	if jsonStart == -1 {
		return nil, fmt.Errorf("no JSON opening brace found in metadata")
	}
	start += jsonStart

	scriptEnd := strings.Index(htmlContent[start:], "</script>")
	if scriptEnd == -1 {
		return nil, fmt.Errorf("no script closing tag found")
	}
	end := start + scriptEnd

	var metadata sessionMetadata
	if err := json.Unmarshal([]byte(strings.TrimSpace(htmlContent[start:end])), &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse JSON metadata: %w", err)
	}
	return &metadata, nil
}

func relativePath(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}
