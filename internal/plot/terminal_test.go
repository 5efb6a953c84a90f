package plot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/tuiplot/internal/model"
)

func TestRenderTerminal(t *testing.T) {
	spec, _ := Compose([]model.Trace{
		numericTrace("A", "x", "y", []string{"1", "2", "3"}, []string{"1", "4", "9"}),
		numericTrace("B", "time", "value", []string{"1", "2", "3"}, []string{"3", "2", "1"}),
	})
	var buf bytes.Buffer
	if err := RenderTerminal(&buf, spec, 20, 6); err != nil {
		t.Fatalf("RenderTerminal failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{DefaultTitle, "value", "time", "Legend:", "A (solid)", "B (dashed)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes when writing to a buffer")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title + y title + rows + x ticks + x title + legend
	if want := 1 + 1 + 6 + 1 + 1 + 1; len(lines) != want {
		t.Fatalf("expected %d lines, got %d:\n%s", want, len(lines), out)
	}
}

func TestRenderTerminalNoPoints(t *testing.T) {
	spec, _ := Compose([]model.Trace{
		numericTrace("A", "x", "y", []string{""}, []string{""}),
	})
	var buf bytes.Buffer
	if err := RenderTerminal(&buf, spec, 20, 6); err != nil {
		t.Fatalf("RenderTerminal failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No plottable points.") {
		t.Fatalf("expected notice, got %q", buf.String())
	}
}

func TestRenderTerminalEmptySpec(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTerminal(&buf, Spec{}, 20, 6); err != nil {
		t.Fatalf("RenderTerminal failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for an empty spec")
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80, 4); got != 80-4-3 {
		t.Fatalf("unexpected width %d", got)
	}
	if got := PlotWidthFor(0, 4); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestMarkerFillsCell(t *testing.T) {
	cells := makeCells(2, 2)
	setMarker(cells, 3, 5)
	if cells[1][1] != markerMask {
		t.Fatalf("expected full marker cell, got %#x", cells[1][1])
	}
	if brailleFromMask(markerMask) != '⣿' {
		t.Fatalf("unexpected marker rune")
	}
}
