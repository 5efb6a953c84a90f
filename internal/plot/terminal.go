package plot

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

type lineStyle struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 16
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
	markerMask          = 0xFF
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
	{name: "blue", code: "\x1b[34m"},
}

// RenderTerminal draws the chart with braille cells. All series share one
// pair of axes; width and height are in terminal cells.
func RenderTerminal(w io.Writer, spec Spec, width, height int) error {
	return renderTerminal(w, spec, width, height, false)
}

// RenderTerminalWithColor draws the chart with optional forced color output.
func RenderTerminalWithColor(w io.Writer, spec Spec, width, height int, forceColor bool) error {
	return renderTerminal(w, spec, width, height, forceColor)
}

func renderTerminal(w io.Writer, spec Spec, width, height int, forceColor bool) error {
	if len(spec.Series) == 0 {
		return nil
	}
	if spec.Title != "" {
		if _, err := fmt.Fprintln(w, spec.Title); err != nil {
			return err
		}
	}
	xMin, xMax, yMin, yMax, ok := spec.Bounds()
	if !ok {
		_, err := fmt.Fprintln(w, "No plottable points.")
		return err
	}
	xMin, xMax = widenRange(xMin, xMax)
	yMin, yMax = widenRange(yMin, yMax)

	if height <= 0 {
		height = defaultPlotHeight
	}
	axisLabels := makeAxisLabels(spec.YAxis, yMin, yMax, height)
	leftAxisWidth := 0
	for _, label := range axisLabels {
		if n := utf8.RuneCountInString(label); n > leftAxisWidth {
			leftAxisWidth = n
		}
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth(), leftAxisWidth)
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	dotsX := width * 2
	dotsY := height * 4
	seriesCells := make([][][]uint8, len(spec.Series))
	for si, s := range spec.Series {
		cells := makeCells(height, width)
		seriesCells[si] = cells
		style := lineStyles[si%len(lineStyles)]
		prevX, prevY := -1, -1
		n := minInt(len(s.X), len(s.Y))
		for i := 0; i < n; i++ {
			if !finite(s.X[i]) || !finite(s.Y[i]) {
				prevX, prevY = -1, -1
				continue
			}
			px := valueToCol(s.X[i], xMin, xMax, dotsX)
			py := valueToRow(s.Y[i], yMin, yMax, dotsY)
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if style.shouldPlot(dx) {
						setBrailleDot(cells, dx, dy)
					}
				})
			}
			setMarker(cells, px, py)
			prevX, prevY = px, py
		}
	}

	useColor := shouldUseColor(w, forceColor)
	if spec.YAxis.Title != "" {
		if _, err := fmt.Fprintf(w, "%*s%s\n", leftAxisWidth, "", " "+spec.YAxis.Title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", leftAxisWidth, axisLabels[y], axisSeparator))
		for x := 0; x < width; x++ {
			mask, colorIdx := composeCell(seriesCells, x, y)
			ch := brailleFromMask(mask)
			if useColor && colorIdx >= 0 {
				row.WriteString(colorPalette[colorIdx%len(colorPalette)].code)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	indent := strings.Repeat(" ", leftAxisWidth+utf8.RuneCountInString(axisSeparator))
	if _, err := fmt.Fprintln(w, indent+xAxisLine(spec.XAxis, xMin, xMax, width)); err != nil {
		return err
	}
	if spec.XAxis.Title != "" {
		if _, err := fmt.Fprintln(w, indent+centerText(spec.XAxis.Title, width)); err != nil {
			return err
		}
	}
	if spec.ShowLegend {
		if _, err := fmt.Fprintln(w, renderLegend(spec.Series, useColor)); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available
// width next to a y axis of the given label width.
func PlotWidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - labelWidth - utf8.RuneCountInString(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeAxisLabels(axis Axis, minVal, maxVal float64, height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = axis.FormatTick(maxVal)
	if height > 2 {
		labels[height/2] = axis.FormatTick(maxVal - (maxVal-minVal)*float64(height/2)/float64(height-1))
	}
	if height > 1 {
		labels[height-1] = axis.FormatTick(minVal)
	}
	return labels
}

func xAxisLine(axis Axis, minVal, maxVal float64, width int) string {
	left := axis.FormatTick(minVal)
	right := axis.FormatTick(maxVal)
	gap := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		return truncateRunes(left+" "+right, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

func centerText(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

func truncateRunes(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(seriesCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, cells := range seriesCells {
		if y < 0 || y >= len(cells) {
			continue
		}
		if x < 0 || x >= len(cells[y]) {
			continue
		}
		cellMask := cells[y][x]
		if cellMask == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= cellMask
	}
	return mask, colorIdx
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

func valueToCol(v, minVal, maxVal float64, width int) int {
	if width <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	col := int(math.Round(pos * float64(width-1)))
	if col < 0 {
		col = 0
	}
	if col >= width {
		col = width - 1
	}
	return col
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := brailleFromMask(markerMask)
	for i, s := range series {
		styleName := lineStyles[i%len(lineStyles)].name
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, styleName)
		if useColor {
			color := colorPalette[i%len(colorPalette)].code
			label = color + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

// setMarker fills the whole braille cell holding the dot.
func setMarker(cells [][]uint8, x, y int) {
	cellY := y / 4
	cellX := x / 2
	if cellY < 0 || cellY >= len(cells) || cellX < 0 || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] = markerMask
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY >= len(cells) {
		return
	}
	if cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
