package session

import (
	"fmt"

	"github.com/verte-zerg/tuiplot/internal/model"
	"github.com/verte-zerg/tuiplot/internal/plot"
)

// PreviewRows is the number of table rows a view carries.
const PreviewRows = 10

// View is the toolkit-independent rendering of a State.
type View struct {
	Status  string
	IsError bool
	// ShowControls is true when a table is loaded and columns can be picked.
	ShowControls bool
	Headers      []string
	Preview      [][]string
	Types        []model.ColumnType
	Chart        plot.Spec
	HasChart     bool
	TraceCount   string
}

// Render derives the view for s with the default preview size.
func Render(s State) View {
	return RenderWithPreview(s, PreviewRows)
}

// RenderWithPreview derives the view for s, carrying up to rows preview
// rows. Non-positive rows fall back to PreviewRows.
func RenderWithPreview(s State, rows int) View {
	if rows <= 0 {
		rows = PreviewRows
	}
	v := View{
		Status:  s.Status,
		IsError: s.Err != nil,
	}
	if s.Table != nil {
		v.ShowControls = true
		v.Headers = s.Table.Names()
		v.Preview = s.Table.Head(rows)
		v.Types = s.Table.Kinds()
	}
	if spec, ok := plot.Compose(s.Traces.All()); ok {
		v.Chart = spec
		v.HasChart = true
		v.TraceCount = TraceCountLine(s.Traces.Len())
	}
	return v
}

// TraceCountLine is the status shown under the chart.
func TraceCountLine(n int) string {
	return fmt.Sprintf("Currently displaying %d trace(s)", n)
}
