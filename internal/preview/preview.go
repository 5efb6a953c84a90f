// Package preview formats tables as fixed-width text.
package preview

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuiplot/internal/model"
)

// DefaultRows is the number of rows shown in a preview.
const DefaultRows = 10

// MaxCellWidth caps the display width of a single cell.
const MaxCellWidth = 24

const ellipsis = "…"

// Lines renders the header and the first n rows of t. Numeric columns are
// right aligned; wide cells are truncated to MaxCellWidth.
func Lines(t *model.Table, n int) []string {
	if t.Cols() == 0 {
		return nil
	}
	if n <= 0 {
		n = DefaultRows
	}
	headers := make([]string, t.Cols())
	rightAlign := make(map[int]bool, t.Cols())
	for i, c := range t.Columns {
		headers[i] = Truncate(c.Name, MaxCellWidth)
		rightAlign[i] = c.Kind.Numeric()
	}
	head := t.Head(n)
	rows := make([][]string, len(head))
	for r, row := range head {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = Truncate(cell, MaxCellWidth)
		}
		rows[r] = cells
	}
	return FormatTable(headers, rows, rightAlign)
}

// Types renders one "name: kind" line per column.
func Types(t *model.Table) []string {
	kinds := t.Kinds()
	if len(kinds) == 0 {
		return nil
	}
	width := 0
	for _, k := range kinds {
		if w := DisplayWidth(k.Name); w > width {
			width = w
		}
	}
	lines := make([]string, len(kinds))
	for i, k := range kinds {
		lines[i] = fmt.Sprintf("%s  %s", padCell(k.Name, width, false), k.Kind)
	}
	return lines
}

// Truncate shortens s to at most width display cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// DisplayWidth returns the number of terminal cells s occupies.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// FormatTable aligns headers and rows into columns separated by two spaces.
func FormatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = DisplayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := DisplayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, formatRow(headers, widths, rightAlignCols))
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := DisplayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}
