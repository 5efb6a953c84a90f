package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes a self-contained interactive page for the chart.
func RenderHTML(w io.Writer, spec Spec) error {
	if len(spec.Series) == 0 {
		return fmt.Errorf("chart has no series")
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: spec.Title,
			Width:     "100%",
			Height:    fmt.Sprintf("%dpx", spec.Height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      spec.Title,
			TitleStyle: &opts.TextStyle{FontSize: spec.TitleSize},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: echartsTrigger(spec.HoverMode),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(spec.ShowLegend),
			Top:       "bottom",
			TextStyle: &opts.TextStyle{FontSize: spec.LegendSize},
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: spec.XAxis.Title,
			Type: echartsAxisType(spec.XAxis.Kind),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: spec.YAxis.Title,
			Type: echartsAxisType(spec.YAxis.Kind),
		}),
	)
	if spec.XAxis.Kind == AxisCategory {
		line.SetXAxis(spec.XAxis.Categories)
	}

	for _, s := range spec.Series {
		n := minInt(len(s.X), len(s.Y))
		data := make([]opts.LineData, 0, n)
		for i := 0; i < n; i++ {
			if !finite(s.X[i]) || !finite(s.Y[i]) {
				continue
			}
			data = append(data, opts.LineData{
				Value: []interface{}{echartsValue(spec.XAxis, s.X[i]), echartsValue(spec.YAxis, s.Y[i])},
			})
		}
		line.AddSeries(s.Name, data,
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: opts.Bool(true),
				SymbolSize: spec.MarkerSize,
			}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Width: float32(spec.LineWidth),
			}),
		)
	}
	return line.Render(w)
}

func echartsAxisType(kind AxisKind) string {
	switch kind {
	case AxisCategory:
		return "category"
	case AxisDate:
		return "time"
	default:
		return "value"
	}
}

// echartsValue converts an axis coordinate to what an echarts axis of that
// type expects: category labels, epoch milliseconds or plain numbers.
func echartsValue(axis Axis, v float64) interface{} {
	switch axis.Kind {
	case AxisCategory:
		return axis.FormatTick(v)
	case AxisDate:
		return Time(v).UnixMilli()
	default:
		return v
	}
}

func echartsTrigger(hoverMode string) string {
	if hoverMode == HoverClosest {
		return "item"
	}
	return "axis"
}
