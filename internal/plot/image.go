package plot

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
)

// RenderImage writes the chart as PNG or SVG.
func RenderImage(w io.Writer, spec Spec, format string, width int) error {
	var provider chart.RendererProvider
	switch format {
	case FormatPNG:
		provider = chart.PNG
	case FormatSVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
	xMin, xMax, yMin, yMax, ok := spec.Bounds()
	if !ok {
		return fmt.Errorf("chart has no plottable points")
	}
	xMin, xMax = widenRange(xMin, xMax)
	yMin, yMax = widenRange(yMin, yMax)

	series := make([]chart.Series, 0, len(spec.Series))
	for i, s := range spec.Series {
		xs, ys := s.Points()
		if len(xs) == 0 {
			continue
		}
		color := chart.GetDefaultColor(i)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: float64(spec.LineWidth),
				DotColor:    color,
				DotWidth:    float64(spec.MarkerSize) / 2,
			},
		})
	}

	ch := chart.Chart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontSize: float64(spec.TitleSize)},
		Width:      width,
		Height:     spec.Height,
		Background: chart.Style{Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           spec.XAxis.Title,
			NameStyle:      chart.Style{FontSize: float64(spec.AxisTitleSize)},
			Style:          chart.Style{FontSize: float64(spec.TickSize)},
			ValueFormatter: tickFormatter(spec.XAxis),
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks:          categoryTicks(spec.XAxis),
		},
		YAxis: chart.YAxis{
			Name:           spec.YAxis.Title,
			NameStyle:      chart.Style{FontSize: float64(spec.AxisTitleSize)},
			Style:          chart.Style{FontSize: float64(spec.TickSize)},
			ValueFormatter: tickFormatter(spec.YAxis),
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks:          categoryTicks(spec.YAxis),
		},
		Series: series,
	}
	if spec.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch, chart.Style{FontSize: float64(spec.LegendSize)})}
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}
	return nil
}

func tickFormatter(axis Axis) chart.ValueFormatter {
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return fmt.Sprint(v)
		}
		return axis.FormatTick(f)
	}
}

func categoryTicks(axis Axis) []chart.Tick {
	if axis.Kind != AxisCategory {
		return nil
	}
	ticks := make([]chart.Tick, len(axis.Categories))
	for i, label := range axis.Categories {
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}
	return ticks
}
