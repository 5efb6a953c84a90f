// Package plot composes chart specifications from traces and renders them.
package plot

import (
	"math"
	"strings"

	"github.com/verte-zerg/tuiplot/internal/model"
)

// AxisKind is how values on an axis are interpreted.
type AxisKind string

// Axis kinds.
const (
	AxisNumeric  AxisKind = "numeric"
	AxisDate     AxisKind = "date"
	AxisCategory AxisKind = "category"
)

// Fixed presentation constants.
const (
	DefaultTitle    = "Your Interactive Plot"
	ModeLineMarkers = "lines+markers"
	HoverClosest    = "closest"
)

// Axis describes one chart axis. Category axes list their labels in
// first-appearance order; point values are indexes into Categories.
type Axis struct {
	Title      string
	Kind       AxisKind
	Categories []string
}

// Series is one rendered trace. X and Y hold axis coordinates (NaN for
// missing or unparseable cells); XText and YText keep the raw cells.
type Series struct {
	Name  string
	X     []float64
	Y     []float64
	XText []string
	YText []string
}

// Spec is a complete, renderer-independent chart description.
type Spec struct {
	Title     string
	TitleSize int
	Series    []Series
	XAxis     Axis
	YAxis     Axis

	Mode          string
	MarkerSize    int
	LineWidth     int
	AxisTitleSize int
	TickSize      int
	LegendSize    int
	FontSize      int
	ShowLegend    bool
	Height        int

	HoverMode       string
	HoverBackground string
	HoverFontSize   int
	HoverFontFamily string
}

// Compose builds the chart for traces. It returns false when there is
// nothing to draw. Axis titles come from the last trace only.
func Compose(traces []model.Trace) (Spec, bool) {
	if len(traces) == 0 {
		return Spec{}, false
	}
	last := traces[len(traces)-1]

	xKinds := make([]model.Kind, len(traces))
	yKinds := make([]model.Kind, len(traces))
	for i, tr := range traces {
		xKinds[i] = tr.XKind
		yKinds[i] = tr.YKind
	}
	xAxis := Axis{Title: last.XLabel, Kind: axisKind(xKinds)}
	yAxis := Axis{Title: last.YLabel, Kind: axisKind(yKinds)}
	xIndex := map[string]int{}
	yIndex := map[string]int{}

	series := make([]Series, 0, len(traces))
	for _, tr := range traces {
		s := Series{
			Name:  tr.Name,
			X:     make([]float64, len(tr.X)),
			Y:     make([]float64, len(tr.Y)),
			XText: tr.X,
			YText: tr.Y,
		}
		for i, raw := range tr.X {
			s.X[i] = axisValue(raw, &xAxis, xIndex)
		}
		for i, raw := range tr.Y {
			s.Y[i] = axisValue(raw, &yAxis, yIndex)
		}
		series = append(series, s)
	}

	return Spec{
		Title:           DefaultTitle,
		TitleSize:       28,
		Series:          series,
		XAxis:           xAxis,
		YAxis:           yAxis,
		Mode:            ModeLineMarkers,
		MarkerSize:      10,
		LineWidth:       3,
		AxisTitleSize:   22,
		TickSize:        18,
		LegendSize:      16,
		FontSize:        16,
		ShowLegend:      true,
		Height:          600,
		HoverMode:       HoverClosest,
		HoverBackground: "white",
		HoverFontSize:   18,
		HoverFontFamily: "Arial",
	}, true
}

// axisKind resolves one axis: any text column makes it categorical, only
// datetime columns make it a date axis, anything else is numeric.
func axisKind(kinds []model.Kind) AxisKind {
	allDates := len(kinds) > 0
	for _, k := range kinds {
		if k == model.KindText {
			return AxisCategory
		}
		if k != model.KindDatetime {
			allDates = false
		}
	}
	if allDates {
		return AxisDate
	}
	return AxisNumeric
}

func axisValue(raw string, axis *Axis, index map[string]int) float64 {
	switch axis.Kind {
	case AxisCategory:
		label := strings.TrimSpace(raw)
		if label == "" {
			return math.NaN()
		}
		idx, ok := index[label]
		if !ok {
			idx = len(axis.Categories)
			index[label] = idx
			axis.Categories = append(axis.Categories, label)
		}
		return float64(idx)
	case AxisDate:
		t, ok := model.ParseTime(raw)
		if !ok {
			return math.NaN()
		}
		return float64(t.UnixNano()) / 1e9
	default:
		v, _ := model.ParseFloat(raw)
		return v
	}
}

// Points returns the finite (x, y) pairs of a series in order.
func (s Series) Points() (xs, ys []float64) {
	n := len(s.X)
	if len(s.Y) < n {
		n = len(s.Y)
	}
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if !finite(s.X[i]) || !finite(s.Y[i]) {
			continue
		}
		xs = append(xs, s.X[i])
		ys = append(ys, s.Y[i])
	}
	return xs, ys
}

// Bounds returns the finite data range across all series.
func (s Spec) Bounds() (xMin, xMax, yMin, yMax float64, ok bool) {
	xMin, yMin = math.Inf(1), math.Inf(1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)
	for _, series := range s.Series {
		xs, ys := series.Points()
		for i := range xs {
			ok = true
			xMin = math.Min(xMin, xs[i])
			xMax = math.Max(xMax, xs[i])
			yMin = math.Min(yMin, ys[i])
			yMax = math.Max(yMax, ys[i])
		}
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// widenRange keeps a degenerate range drawable.
func widenRange(minVal, maxVal float64) (float64, float64) {
	if math.Abs(maxVal-minVal) < 1e-9 {
		return minVal - 1, maxVal + 1
	}
	return minVal, maxVal
}
