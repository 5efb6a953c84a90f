// Package session holds the state of one interactive plotting session and
// the pure handlers that advance it.
package session

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/tuiplot/internal/loader"
	"github.com/verte-zerg/tuiplot/internal/model"
	"github.com/verte-zerg/tuiplot/internal/traces"
)

// ErrNoTable is reported when a trace is added before any file is loaded.
var ErrNoTable = errors.New("no file loaded")

// State is everything one session knows. Handle never mutates a State in
// place; it returns the next one.
type State struct {
	Table  *model.Table
	Info   model.LoadInfo
	Traces traces.Store
	Status string
	// Err is the failure behind Status, nil when Status reports success.
	Err error
}

// Action is an input to Handle.
type Action interface {
	action()
}

// Upload delivers the bytes of a newly selected file. Err is set when the
// file could not be read at all.
type Upload struct {
	Source string
	Data   []byte
	Err    error
}

// AddTrace appends a trace built from two columns of the loaded table.
// Blank Name, XLabel or YLabel use the defaults.
type AddTrace struct {
	X      string
	Y      string
	Name   string
	XLabel string
	YLabel string
}

// ClearTraces empties the trace store.
type ClearTraces struct{}

// RestoreTraces replaces the trace store with saved traces.
type RestoreTraces struct {
	Traces []model.Trace
	Source string
}

func (Upload) action()        {}
func (AddTrace) action()      {}
func (ClearTraces) action()   {}
func (RestoreTraces) action() {}

// Handle applies one action and returns the resulting state.
func Handle(s State, a Action) State {
	switch a := a.(type) {
	case Upload:
		return handleUpload(s, a)
	case AddTrace:
		return handleAdd(s, a)
	case ClearTraces:
		s.Traces = s.Traces.Clear()
		s.Status = "Cleared all traces"
		s.Err = nil
		return s
	case RestoreTraces:
		s.Traces = traces.FromTraces(a.Traces)
		s.Status = fmt.Sprintf("Restored %d trace(s) from %s", len(a.Traces), a.Source)
		s.Err = nil
		return s
	default:
		return s
	}
}

func handleUpload(s State, a Upload) State {
	var (
		table *model.Table
		delim rune
		err   = a.Err
	)
	if err != nil {
		err = &loader.ParseError{Kind: loader.ReadFailure, Err: err}
	} else {
		table, delim, err = loader.LoadBytes(a.Data)
	}
	if err != nil {
		s.Table = nil
		s.Info = model.LoadInfo{Source: a.Source}
		s.Err = err
		s.Status = fmt.Sprintf("Error reading file: %v", err)
		return s
	}
	s.Table = table
	s.Info = model.LoadInfo{
		Source:    a.Source,
		Delimiter: delim,
		Rows:      table.Rows(),
		Cols:      table.Cols(),
	}
	s.Err = nil
	s.Status = fmt.Sprintf("File loaded successfully! Shape: %d rows × %d columns | Delimiter: '%s'",
		s.Info.Rows, s.Info.Cols, model.DelimiterLabel(delim))
	return s
}

func handleAdd(s State, a AddTrace) State {
	if s.Table == nil {
		s.Err = ErrNoTable
		s.Status = fmt.Sprintf("Cannot add trace: %v", ErrNoTable)
		return s
	}
	next, err := s.Traces.Add(s.Table, a.X, a.Y, a.Name, a.XLabel, a.YLabel)
	if err != nil {
		s.Err = err
		s.Status = fmt.Sprintf("Cannot add trace: %v", err)
		return s
	}
	s.Traces = next
	last, _ := next.Last()
	s.Err = nil
	s.Status = fmt.Sprintf("Added trace: %s", last.Name)
	return s
}
