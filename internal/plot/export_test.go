package plot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/tuiplot/internal/model"
)

func exportSpec(t *testing.T) Spec {
	t.Helper()
	spec, ok := Compose([]model.Trace{
		numericTrace("y vs x", "x", "y", []string{"1", "3", "5"}, []string{"2", "4", "6"}),
		{
			X: []string{"1", "2"}, Y: []string{"7", ""},
			XKind: model.KindInt64, YKind: model.KindFloat64,
			Name: "gappy", XLabel: "x", YLabel: "y",
		},
	})
	if !ok {
		t.Fatalf("expected a chart")
	}
	return spec
}

func TestExportFormats(t *testing.T) {
	spec := exportSpec(t)
	signatures := map[string]string{
		FormatHTML: "echarts",
		FormatPNG:  "\x89PNG",
		FormatSVG:  "<svg",
		FormatPDF:  "%PDF",
		FormatEPS:  "%!PS",
	}
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Export(&buf, spec, format, 640); err != nil {
				t.Fatalf("Export(%s) failed: %v", format, err)
			}
			if !strings.Contains(buf.String(), signatures[format]) {
				t.Fatalf("expected %q in %s output", signatures[format], format)
			}
		})
	}
}

func TestExportHTMLContainsLabels(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, exportSpec(t)); err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{DefaultTitle, "y vs x", "gappy"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in html", want)
		}
	}
}

func TestExportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, exportSpec(t), "gif", 0); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestExportNoPoints(t *testing.T) {
	spec, _ := Compose([]model.Trace{numericTrace("A", "x", "y", []string{""}, []string{""})})
	var buf bytes.Buffer
	if err := Export(&buf, spec, FormatPNG, 0); err == nil {
		t.Fatalf("expected error when nothing is plottable")
	}
}

func TestExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "chart.svg")
	if err := ExportFile(path, exportSpec(t), FormatSVG, 0); err != nil {
		t.Fatalf("ExportFile failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat export: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected non-empty export")
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file to be cleaned up, got %d entries", len(entries))
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, ok := FormatFromPath("a/b/Chart.PNG"); !ok || f != FormatPNG {
		t.Fatalf("unexpected format %q %v", f, ok)
	}
	if f, ok := FormatFromPath("page.htm"); !ok || f != FormatHTML {
		t.Fatalf("unexpected format %q %v", f, ok)
	}
	if _, ok := FormatFromPath("chart.gif"); ok {
		t.Fatalf("expected gif to be rejected")
	}
}
