package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuiplot/internal/plot"
	"github.com/verte-zerg/tuiplot/internal/preview"
)

const (
	fallbackWidth = 80
	// chartChrome is the number of lines the terminal chart adds around
	// the plot area: title, y title, x ticks, x title and legend.
	chartChrome    = 5
	minChartHeight = 4
	// controlLines covers the status, blank, selectors, inputs and spacer
	// lines above the chart.
	controlLines = 8
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	panelTitle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	focusedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	selectorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	tableMuted     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	traceCountLine = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(padLines(m.renderTabs(), m.width), m.width, headerHeight)
	var body string
	switch {
	case m.picking:
		body = m.renderPicker()
	case m.activeTab == tabData:
		body = m.renderData()
	default:
		body = m.renderPlot()
	}
	body = fitLines(body, m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	footerHeight = lipgloss.Height(m.help.View(m.keys))
	if m.notice != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.chart.Width = m.width
	m.chart.Height = maxInt(1, bodyHeight-controlLines-1)
	for i := range m.inputs {
		promptWidth := lipgloss.Width(m.inputs[i].Prompt)
		m.inputs[i].Width = maxInt(10, minInt(60, m.width-promptWidth-2))
	}
	m.preview.SetWidth(m.width)
	m.sizePreview(bodyHeight)
	m.renderChart()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderStatus() string {
	if m.view.Status == "" {
		return headerStyle.Render("No file loaded. Press o to open one.")
	}
	status := truncateLine(m.view.Status, m.width)
	if m.view.IsError {
		return errorStyle.Render(status)
	}
	return successStyle.Render(status)
}

func (m *Model) renderData() string {
	lines := []string{m.renderStatus(), ""}
	if !m.view.ShowControls {
		return strings.Join(lines, "\n")
	}
	lines = append(lines, tableMuted.Render(m.preview.View()), "")
	lines = append(lines, m.renderPanel("Available Columns", m.showColumns, m.keys.Columns.Help().Key, columnLines(m.view.Headers)))
	lines = append(lines, m.renderPanel("Data Types", m.showTypes, m.keys.Types.Help().Key, preview.Types(m.state.Table)))
	return strings.Join(lines, "\n")
}

func (m *Model) renderPanel(title string, open bool, toggle string, body []string) string {
	if !open {
		return panelTitle.Render(fmt.Sprintf("▸ %s (%s to expand)", title, toggle))
	}
	lines := []string{panelTitle.Render(fmt.Sprintf("▾ %s", title))}
	for _, line := range body {
		lines = append(lines, "  "+line)
	}
	return strings.Join(lines, "\n")
}

func columnLines(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = fmt.Sprintf("%d. %s", i+1, name)
	}
	return out
}

func (m *Model) renderPlot() string {
	lines := []string{m.renderStatus(), ""}
	if m.view.ShowControls {
		x, y := m.selectedColumns()
		lines = append(lines,
			m.renderSelector("X column: ", x, fieldX),
			m.renderSelector("Y column: ", y, fieldY),
		)
		for _, input := range m.inputs {
			lines = append(lines, input.View())
		}
		lines = append(lines, "")
	} else {
		lines = append(lines, headerStyle.Render("Load a file to pick columns."), "")
	}
	lines = append(lines, m.chart.View())
	if m.view.HasChart {
		lines = append(lines, traceCountLine.Render(m.view.TraceCount))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSelector(label, value string, field int) string {
	text := fmt.Sprintf("%s‹ %s ›", label, value)
	if m.focus == field {
		return focusedStyle.Render(text)
	}
	return selectorStyle.Render(text)
}

func (m *Model) renderPicker() string {
	title := panelTitle.Render(fmt.Sprintf("Open file (%s) in %s", strings.Join(AllowedTypes, ", "), m.picker.CurrentDirectory))
	return title + "\n\n" + m.picker.View()
}

func (m *Model) renderFooter() string {
	helpView := m.help.View(m.keys)
	if m.notice == "" {
		return helpView
	}
	notice := truncateLine(m.notice, m.width)
	if m.noticeErr {
		notice = errorStyle.Render(notice)
	} else {
		notice = headerStyle.Render(notice)
	}
	return notice + "\n" + helpView
}

func (m *Model) renderChart() {
	if !m.view.HasChart {
		m.chart.SetContent(headerStyle.Render("No traces yet. Pick columns and press a to add one."))
		return
	}
	width := m.width
	if width <= 0 {
		width = fallbackWidth
	}
	height := maxInt(minChartHeight, m.chart.Height-chartChrome)
	var buf bytes.Buffer
	if err := plot.RenderTerminalWithColor(&buf, m.view.Chart, plot.PlotWidthFor(width, 10), height, true); err != nil {
		m.chart.SetContent(fmt.Sprintf("Failed to render chart: %v", err))
		return
	}
	m.chart.SetContent(strings.TrimRight(buf.String(), "\n"))
}

func (m *Model) rebuildPreview() {
	cols, rows := previewTableData(m.view.Headers, m.view.Preview, m.previewRows)
	m.preview.SetRows(nil)
	m.preview.SetColumns(cols)
	m.preview.SetRows(rows)
	m.preview.GotoTop()
	_, bodyHeight, _ := m.layoutHeights()
	m.sizePreview(bodyHeight)
}

func (m *Model) sizePreview(bodyHeight int) {
	rows := len(m.preview.Rows())
	// header line plus its bottom border
	m.preview.SetHeight(maxInt(3, minInt(rows+2, bodyHeight-4)))
}

func previewTableData(headers []string, cells [][]string, limit int) ([]table.Column, []table.Row) {
	if limit > 0 && len(cells) > limit {
		cells = cells[:limit]
	}
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		width := preview.DisplayWidth(h)
		for _, row := range cells {
			if i < len(row) {
				width = maxInt(width, preview.DisplayWidth(row[i]))
			}
		}
		cols[i] = table.Column{Title: h, Width: maxInt(3, minInt(width, preview.MaxCellWidth))}
	}
	rows := make([]table.Row, len(cells))
	for r, row := range cells {
		rows[r] = table.Row(append([]string(nil), row...))
	}
	return cols, rows
}

func previewTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
