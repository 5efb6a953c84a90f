package plot

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// pixelsToPoints maps Spec pixel sizes onto print points.
const pixelsToPoints = 0.75

// RenderVector writes the chart as PDF or EPS.
func RenderVector(w io.Writer, spec Spec, format string, width int) error {
	if format != FormatPDF && format != FormatEPS {
		return fmt.Errorf("unsupported vector format %q", format)
	}
	if _, _, _, _, ok := spec.Bounds(); !ok {
		return fmt.Errorf("chart has no plottable points")
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(float64(spec.TitleSize) * pixelsToPoints)
	configureAxis(&p.X, spec.XAxis, spec)
	configureAxis(&p.Y, spec.YAxis, spec)
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(float64(spec.LegendSize) * pixelsToPoints)

	for i, s := range spec.Series {
		xs, ys := s.Points()
		if len(xs) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(xs))
		for j := range xs {
			xys[j].X = xs[j]
			xys[j].Y = ys[j]
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("failed to build series %q: %w", s.Name, err)
		}
		color := plotutil.Color(i)
		line.Color = color
		line.Width = vg.Points(float64(spec.LineWidth) * pixelsToPoints)
		points.Color = color
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(float64(spec.MarkerSize) * pixelsToPoints / 2)
		p.Add(line, points)
		if spec.ShowLegend {
			p.Legend.Add(s.Name, line, points)
		}
	}

	wt, err := p.WriterTo(
		vg.Points(float64(width)*pixelsToPoints),
		vg.Points(float64(spec.Height)*pixelsToPoints),
		format,
	)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", format, err)
	}
	return nil
}

func configureAxis(a *plot.Axis, axis Axis, spec Spec) {
	a.Label.Text = axis.Title
	a.Label.TextStyle.Font.Size = vg.Points(float64(spec.AxisTitleSize) * pixelsToPoints)
	a.Tick.Label.Font.Size = vg.Points(float64(spec.TickSize) * pixelsToPoints)
	switch axis.Kind {
	case AxisCategory:
		ticks := make(plot.ConstantTicks, len(axis.Categories))
		for i, label := range axis.Categories {
			ticks[i] = plot.Tick{Value: float64(i), Label: label}
		}
		a.Tick.Marker = ticks
	case AxisDate:
		a.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	}
}
