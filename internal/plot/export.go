package plot

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Export formats.
const (
	FormatHTML = "html"
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatEPS  = "eps"
)

// DefaultExportWidth is the image width used when none is configured.
const DefaultExportWidth = 1200

// Formats lists every supported export format.
var Formats = []string{FormatHTML, FormatPNG, FormatSVG, FormatPDF, FormatEPS}

// ValidFormat reports whether format is supported.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// FormatFromPath infers the export format from a file extension.
func FormatFromPath(path string) (string, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "htm" {
		ext = FormatHTML
	}
	return ext, ValidFormat(ext)
}

// Export renders spec in the given format.
func Export(w io.Writer, spec Spec, format string, width int) error {
	if width <= 0 {
		width = DefaultExportWidth
	}
	switch format {
	case FormatHTML:
		return RenderHTML(w, spec)
	case FormatPNG, FormatSVG:
		return RenderImage(w, spec, format, width)
	case FormatPDF, FormatEPS:
		return RenderVector(w, spec, format, width)
	default:
		return fmt.Errorf("unknown export format %q (available: %s)", format, strings.Join(Formats, ", "))
	}
}

// ExportFile renders spec to path, replacing any existing file atomically.
func ExportFile(path string, spec Spec, format string, width int) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "tuiplot-*."+format)
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := Export(tmpFile, spec, format, width); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
