// Package traces holds the append-only list of chart series for a session.
package traces

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/tuiplot/internal/model"
)

// ErrUnknownColumn is returned when a selected column is not in the table.
var ErrUnknownColumn = errors.New("unknown column")

// Store is an ordered list of traces. Operations return a new Store and
// never modify the receiver, so a Store value can be shared freely.
type Store struct {
	traces []model.Trace
}

// FromTraces builds a Store holding a copy of traces.
func FromTraces(traces []model.Trace) Store {
	return Store{traces: append([]model.Trace(nil), traces...)}
}

// Defaults returns the pre-filled name and axis labels for a column pair.
func Defaults(xCol, yCol string) (name, xLabel, yLabel string) {
	return fmt.Sprintf("%s vs %s", yCol, xCol), xCol, yCol
}

// Add extracts the x and y columns from table and appends a trace.
// Blank name or labels fall back to Defaults. x and y may be the same column.
func (s Store) Add(table *model.Table, xCol, yCol, name, xLabel, yLabel string) (Store, error) {
	x, ok := table.Column(xCol)
	if !ok {
		return s, fmt.Errorf("%w %q", ErrUnknownColumn, xCol)
	}
	y, ok := table.Column(yCol)
	if !ok {
		return s, fmt.Errorf("%w %q", ErrUnknownColumn, yCol)
	}
	defName, defX, defY := Defaults(xCol, yCol)
	if name == "" {
		name = defName
	}
	if xLabel == "" {
		xLabel = defX
	}
	if yLabel == "" {
		yLabel = defY
	}
	trace := model.Trace{
		X:      append([]string(nil), x.Values...),
		Y:      append([]string(nil), y.Values...),
		XKind:  x.Kind,
		YKind:  y.Kind,
		Name:   name,
		XLabel: xLabel,
		YLabel: yLabel,
	}
	next := make([]model.Trace, len(s.traces), len(s.traces)+1)
	copy(next, s.traces)
	return Store{traces: append(next, trace)}, nil
}

// Clear returns an empty store.
func (s Store) Clear() Store {
	return Store{}
}

// Len returns the number of traces.
func (s Store) Len() int {
	return len(s.traces)
}

// All returns a copy of the traces in insertion order.
func (s Store) All() []model.Trace {
	return append([]model.Trace(nil), s.traces...)
}

// Last returns the most recently added trace.
func (s Store) Last() (model.Trace, bool) {
	if len(s.traces) == 0 {
		return model.Trace{}, false
	}
	return s.traces[len(s.traces)-1], true
}
