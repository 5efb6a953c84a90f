package preview

import (
	"strings"
	"testing"

	"github.com/verte-zerg/tuiplot/internal/model"
)

func sampleTable() *model.Table {
	return &model.Table{Columns: []model.Column{
		{Name: "city", Kind: model.KindText, Values: []string{"Oslo", "Zürich", "東京"}},
		{Name: "temp", Kind: model.KindFloat64, Values: []string{"3.5", "12.25", "18"}},
	}}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"x", "value"}
	rows := [][]string{
		{"a", "1"},
		{"long", "12345"},
	}
	lines := FormatTable(headers, rows, map[int]bool{1: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "x     value" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a         1" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "long  12345" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestLinesUseDisplayWidth(t *testing.T) {
	lines := Lines(sampleTable(), 10)
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(lines))
	}
	// 東京 is two cells per rune, so it pads like a four-letter word.
	if lines[3] != "東京       18" {
		t.Fatalf("unexpected wide row: %q", lines[3])
	}
	if lines[2] != "Zürich  12.25" {
		t.Fatalf("unexpected row: %q", lines[2])
	}
}

func TestLinesLimitsRows(t *testing.T) {
	if lines := Lines(sampleTable(), 1); len(lines) != 2 {
		t.Fatalf("expected header and 1 row, got %d", len(lines))
	}
	if lines := Lines(&model.Table{}, 5); lines != nil {
		t.Fatalf("expected no lines for an empty table")
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 40)
	got := Truncate(long, 10)
	if DisplayWidth(got) != 10 || !strings.HasSuffix(got, "…") {
		t.Fatalf("unexpected truncation %q", got)
	}
	if Truncate("short", 10) != "short" {
		t.Fatalf("expected short value untouched")
	}
}

func TestTypes(t *testing.T) {
	lines := Types(sampleTable())
	if len(lines) != 2 || lines[0] != "city  text" || lines[1] != "temp  float64" {
		t.Fatalf("unexpected types %q", lines)
	}
}
