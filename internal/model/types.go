// Package model defines shared data structures.
package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred type of a column.
type Kind string

// Column kinds, named after the dtypes users expect to see.
const (
	KindInt64    Kind = "int64"
	KindFloat64  Kind = "float64"
	KindDatetime Kind = "datetime"
	KindText     Kind = "text"
)

// Numeric reports whether the kind holds numbers.
func (k Kind) Numeric() bool {
	return k == KindInt64 || k == KindFloat64
}

// DateLayouts are the layouts tried, in order, when probing date-like cells.
var DateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"02.01.2006",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
}

// ParseFloat parses a numeric cell. Empty cells yield NaN and ok=false.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

// ParseTime parses a date-like cell with DateLayouts.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Column is a named sequence of raw cell values with an inferred kind.
type Column struct {
	Name   string
	Kind   Kind
	Values []string
}

// Float returns the numeric value of row i, NaN when not numeric.
func (c Column) Float(i int) float64 {
	if i < 0 || i >= len(c.Values) {
		return math.NaN()
	}
	v, _ := ParseFloat(c.Values[i])
	return v
}

// Time returns the date value of row i.
func (c Column) Time(i int) (time.Time, bool) {
	if i < 0 || i >= len(c.Values) {
		return time.Time{}, false
	}
	return ParseTime(c.Values[i])
}

// Table is a parsed delimited file. It is read-only once built.
type Table struct {
	Columns []Column
}

// ColumnType pairs a column name with its kind.
type ColumnType struct {
	Name string
	Kind Kind
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Cols returns the number of columns.
func (t *Table) Cols() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Kinds returns the column to kind mapping in column order.
func (t *Table) Kinds() []ColumnType {
	if t == nil {
		return nil
	}
	out := make([]ColumnType, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = ColumnType{Name: c.Name, Kind: c.Kind}
	}
	return out
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	if t == nil {
		return Column{}, false
	}
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Head returns up to n rows as cell slices in column order.
func (t *Table) Head(n int) [][]string {
	rows := t.Rows()
	if n < 0 || n > rows {
		n = rows
	}
	out := make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(t.Columns))
		for c, col := range t.Columns {
			row[c] = col.Values[r]
		}
		out[r] = row
	}
	return out
}

// Trace is one renderable data series. len(X) == len(Y) always holds.
type Trace struct {
	X      []string
	Y      []string
	XKind  Kind
	YKind  Kind
	Name   string
	XLabel string
	YLabel string
}

// LoadInfo summarizes the last successful load.
type LoadInfo struct {
	Source    string
	Delimiter rune
	Rows      int
	Cols      int
}

// DelimiterLabel renders a delimiter for status lines.
func DelimiterLabel(d rune) string {
	if d == '\t' {
		return `\t`
	}
	return string(d)
}

// Snapshot is a saved, named copy of a trace store.
type Snapshot struct {
	ID        int64
	Name      string
	Source    string
	CreatedAt time.Time
	Traces    []Trace
}

// SnapshotSummary describes a snapshot without its trace data.
type SnapshotSummary struct {
	ID         int64
	Name       string
	Source     string
	CreatedAt  time.Time
	TraceCount int
}

// UIConfig defines interactive settings.
type UIConfig struct {
	Dir         string
	PreviewRows int
}

// ExportConfig defines chart export settings.
type ExportConfig struct {
	Format string
	Dir    string
	Width  int
}
