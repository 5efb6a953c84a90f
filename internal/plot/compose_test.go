package plot

import (
	"math"
	"reflect"
	"testing"

	"github.com/verte-zerg/tuiplot/internal/model"
)

func numericTrace(name, xLabel, yLabel string, x, y []string) model.Trace {
	return model.Trace{
		X: x, Y: y,
		XKind: model.KindInt64, YKind: model.KindInt64,
		Name: name, XLabel: xLabel, YLabel: yLabel,
	}
}

func TestComposeEmpty(t *testing.T) {
	if _, ok := Compose(nil); ok {
		t.Fatalf("expected no chart for empty trace list")
	}
}

func TestComposeSingleTrace(t *testing.T) {
	spec, ok := Compose([]model.Trace{
		numericTrace("y vs x", "x", "y", []string{"1", "3", "5"}, []string{"2", "4", "6"}),
	})
	if !ok {
		t.Fatalf("expected a chart")
	}
	if len(spec.Series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(spec.Series))
	}
	if spec.XAxis.Title != "x" || spec.YAxis.Title != "y" {
		t.Fatalf("unexpected axis titles %q/%q", spec.XAxis.Title, spec.YAxis.Title)
	}
	if !reflect.DeepEqual(spec.Series[0].X, []float64{1, 3, 5}) {
		t.Fatalf("unexpected x %v", spec.Series[0].X)
	}
	if !reflect.DeepEqual(spec.Series[0].Y, []float64{2, 4, 6}) {
		t.Fatalf("unexpected y %v", spec.Series[0].Y)
	}
	if spec.Title != DefaultTitle || spec.Mode != ModeLineMarkers || !spec.ShowLegend {
		t.Fatalf("unexpected fixed styling %+v", spec)
	}
	if spec.MarkerSize != 10 || spec.LineWidth != 3 || spec.Height != 600 {
		t.Fatalf("unexpected sizes marker=%d line=%d height=%d", spec.MarkerSize, spec.LineWidth, spec.Height)
	}
}

func TestComposeAxisTitlesFromLastTrace(t *testing.T) {
	spec, ok := Compose([]model.Trace{
		numericTrace("first", "t1", "a", []string{"1"}, []string{"1"}),
		numericTrace("second", "t2", "b", []string{"2"}, []string{"2"}),
	})
	if !ok {
		t.Fatalf("expected a chart")
	}
	if spec.XAxis.Title != "t2" || spec.YAxis.Title != "b" {
		t.Fatalf("expected last trace labels, got %q/%q", spec.XAxis.Title, spec.YAxis.Title)
	}
	if len(spec.Series) != 2 || spec.Series[0].Name != "first" || spec.Series[1].Name != "second" {
		t.Fatalf("expected both series in order, got %+v", spec.Series)
	}
}

func TestComposeCategoryAxis(t *testing.T) {
	text := model.Trace{
		X: []string{"b", "a", "b"}, Y: []string{"1", "2", "3"},
		XKind: model.KindText, YKind: model.KindInt64,
	}
	nums := model.Trace{
		X: []string{"a", "c"}, Y: []string{"4", ""},
		XKind: model.KindText, YKind: model.KindFloat64,
	}
	spec, _ := Compose([]model.Trace{text, nums})
	if spec.XAxis.Kind != AxisCategory {
		t.Fatalf("expected category axis, got %s", spec.XAxis.Kind)
	}
	if !reflect.DeepEqual(spec.XAxis.Categories, []string{"b", "a", "c"}) {
		t.Fatalf("unexpected categories %v", spec.XAxis.Categories)
	}
	if !reflect.DeepEqual(spec.Series[1].X, []float64{1, 2}) {
		t.Fatalf("expected shared category indexes, got %v", spec.Series[1].X)
	}
	if !math.IsNaN(spec.Series[1].Y[1]) {
		t.Fatalf("expected NaN for empty cell")
	}
	xs, _ := spec.Series[1].Points()
	if len(xs) != 1 {
		t.Fatalf("expected NaN point to be skipped, got %d points", len(xs))
	}
}

func TestComposeDateAxis(t *testing.T) {
	spec, _ := Compose([]model.Trace{{
		X: []string{"2024-01-01", "2024-01-02"}, Y: []string{"1", "2"},
		XKind: model.KindDatetime, YKind: model.KindInt64,
	}})
	if spec.XAxis.Kind != AxisDate {
		t.Fatalf("expected date axis, got %s", spec.XAxis.Kind)
	}
	if got := spec.XAxis.FormatTick(spec.Series[0].X[1]); got != "2024-01-02" {
		t.Fatalf("unexpected date tick %q", got)
	}
}

func TestAxisKind(t *testing.T) {
	tests := []struct {
		kinds []model.Kind
		want  AxisKind
	}{
		{kinds: []model.Kind{model.KindInt64, model.KindFloat64}, want: AxisNumeric},
		{kinds: []model.Kind{model.KindDatetime}, want: AxisDate},
		{kinds: []model.Kind{model.KindDatetime, model.KindInt64}, want: AxisNumeric},
		{kinds: []model.Kind{model.KindInt64, model.KindText}, want: AxisCategory},
	}
	for _, tt := range tests {
		if got := axisKind(tt.kinds); got != tt.want {
			t.Fatalf("axisKind(%v) = %s, want %s", tt.kinds, got, tt.want)
		}
	}
}
