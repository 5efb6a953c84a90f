// Package tui provides the Bubble Tea plotting interface.
package tui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuiplot/internal/model"
	"github.com/verte-zerg/tuiplot/internal/session"
	"github.com/verte-zerg/tuiplot/internal/store"
	"github.com/verte-zerg/tuiplot/internal/traces"
)

const (
	tabData = iota
	tabPlot
)

// Plot tab fields, in focus order.
const (
	fieldX = iota
	fieldY
	fieldName
	fieldXLabel
	fieldYLabel
	fieldCount
)

// AllowedTypes lists the file extensions offered by the file picker.
var AllowedTypes = []string{".csv", ".tsv", ".txt"}

// Options configures a Model.
type Options struct {
	// Store is optional; without it snapshots cannot be saved.
	Store  *store.Store
	UI     model.UIConfig
	Export model.ExportConfig
	// Path is loaded on start when set.
	Path string
	// State seeds the session, e.g. with restored traces.
	State session.State
}

// Model implements the Bubble Tea plotting UI.
type Model struct {
	store     *store.Store
	exportCfg model.ExportConfig
	initPath  string
	now       func() time.Time

	state session.State
	view  session.View

	tabs      []string
	activeTab int
	keys      keyMap
	help      help.Model

	picking bool
	picker  filepicker.Model

	preview     table.Model
	previewRows int
	showColumns bool
	showTypes   bool

	xIndex int
	yIndex int
	focus  int
	inputs []textinput.Model
	chart  viewport.Model

	notice    string
	noticeErr bool

	width  int
	height int
}

var quietBrowserOnce sync.Once

// NewModel constructs a plotting TUI model.
func NewModel(opts Options) *Model {
	quietBrowserOnce.Do(quietBrowser)
	m := &Model{
		store:       opts.Store,
		exportCfg:   opts.Export,
		initPath:    opts.Path,
		now:         time.Now,
		state:       opts.State,
		tabs:        []string{"Data", "Plot"},
		keys:        newKeyMap(),
		help:        help.New(),
		previewRows: opts.UI.PreviewRows,
	}
	if m.previewRows <= 0 {
		m.previewRows = session.PreviewRows
	}
	m.picker = newPicker(opts.UI.Dir)
	m.preview = table.New(table.WithFocused(true))
	m.preview.SetStyles(previewTableStyles())
	m.chart = viewport.New(0, 0)
	m.inputs = []textinput.Model{
		newLabelInput("Name: "),
		newLabelInput("X label: "),
		newLabelInput("Y label: "),
	}
	if m.state.Traces.Len() > 0 {
		m.activeTab = tabPlot
	}
	m.refresh()
	m.resetSelection()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.initPath != "" {
		return readFileCmd(m.initPath)
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayout()
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	case fileReadMsg:
		m.dispatch(session.Upload{Source: msg.path, Data: msg.data, Err: msg.err})
		if m.state.Err == nil {
			m.resetSelection()
		}
		return m, nil
	case exportDoneMsg:
		switch {
		case msg.err != nil:
			m.setNotice(msg.err.Error(), true)
		case msg.opened:
			m.setNotice(fmt.Sprintf("Opened %s in browser", msg.path), false)
		default:
			m.setNotice(fmt.Sprintf("Exported chart to %s", msg.path), false)
		}
		return m, nil
	case snapshotSavedMsg:
		if msg.err != nil {
			m.setNotice(msg.err.Error(), true)
		} else {
			m.setNotice(fmt.Sprintf("Saved snapshot #%d", msg.id), false)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.picking {
			return m.updatePicker(msg)
		}
		if m.editing() {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.updateLayout()
		return m, nil
	case key.Matches(msg, m.keys.DataTab):
		m.setTab(tabData)
		return m, nil
	case key.Matches(msg, m.keys.PlotTab):
		m.setTab(tabPlot)
		return m, nil
	case key.Matches(msg, m.keys.Open):
		m.picking = true
		return m, m.picker.Init()
	case key.Matches(msg, m.keys.Add):
		return m, m.addTrace()
	case key.Matches(msg, m.keys.Clear):
		m.dispatch(session.ClearTraces{})
		return m, tea.ClearScreen
	case key.Matches(msg, m.keys.Export):
		m.setNotice("Exporting...", false)
		return m, exportCmd(m.view.Chart, m.exportCfg, m.now())
	case key.Matches(msg, m.keys.Browser):
		m.setNotice("Opening browser...", false)
		return m, browserCmd(m.view.Chart, m.exportCfg, m.now())
	case key.Matches(msg, m.keys.Save):
		if m.store == nil {
			m.setNotice("Snapshots are disabled", true)
			return m, nil
		}
		return m, saveSnapshotCmd(m.store, snapshotName(m.state.Info.Source, m.now()), m.state.Info.Source, m.state.Traces.All())
	}

	if m.activeTab == tabData {
		switch {
		case key.Matches(msg, m.keys.Columns):
			m.showColumns = !m.showColumns
			return m, nil
		case key.Matches(msg, m.keys.Types):
			m.showTypes = !m.showTypes
			return m, nil
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.Down):
		return m, m.setFocus(m.focus + 1)
	case key.Matches(msg, m.keys.PrevField), key.Matches(msg, m.keys.Up):
		return m, m.setFocus(m.focus - 1)
	case key.Matches(msg, m.keys.Prev):
		m.cycleColumn(-1)
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.cycleColumn(1)
		return m, nil
	}
	var cmd tea.Cmd
	m.chart, cmd = m.chart.Update(msg)
	return m, cmd
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.addTrace()
	case key.Matches(msg, m.keys.Leave):
		return m, m.setFocus(fieldY)
	case key.Matches(msg, m.keys.NextField):
		return m, m.setFocus(m.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.setFocus(m.focus - 1)
	}
	idx := m.focus - fieldName
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Open) {
		m.picking = false
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.activeTab = tabData
		return m, tea.Batch(cmd, readFileCmd(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.setNotice(fmt.Sprintf("%s is not a supported file", path), true)
	}
	return m, cmd
}

// editing reports whether keystrokes belong to a label input.
func (m *Model) editing() bool {
	return m.activeTab == tabPlot && m.view.ShowControls && m.focus >= fieldName
}

func (m *Model) dispatch(a session.Action) {
	m.state = session.Handle(m.state, a)
	m.refresh()
}

// refresh re-renders the session view and everything derived from it.
func (m *Model) refresh() {
	m.view = session.RenderWithPreview(m.state, m.previewRows)
	m.keys.Clear.SetEnabled(m.state.Traces.Len() > 0)
	hasChart := m.view.HasChart
	m.keys.Export.SetEnabled(hasChart)
	m.keys.Browser.SetEnabled(hasChart)
	m.keys.Save.SetEnabled(hasChart)
	m.keys.Add.SetEnabled(m.view.ShowControls)
	m.keys.Submit.SetEnabled(m.view.ShowControls)
	m.rebuildPreview()
	m.renderChart()
}

func (m *Model) addTrace() tea.Cmd {
	if !m.view.ShowControls {
		return nil
	}
	x, y := m.selectedColumns()
	m.dispatch(session.AddTrace{
		X:      x,
		Y:      y,
		Name:   m.inputs[0].Value(),
		XLabel: m.inputs[1].Value(),
		YLabel: m.inputs[2].Value(),
	})
	return nil
}

func (m *Model) selectedColumns() (string, string) {
	names := m.view.Headers
	if len(names) == 0 {
		return "", ""
	}
	return names[m.xIndex], names[m.yIndex]
}

// resetSelection points the selectors at the first two columns.
func (m *Model) resetSelection() {
	m.xIndex = 0
	m.yIndex = minInt(1, maxInt(0, len(m.view.Headers)-1))
	m.focus = fieldX
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.applyDefaults()
}

func (m *Model) cycleColumn(delta int) {
	count := len(m.view.Headers)
	if count == 0 {
		return
	}
	switch m.focus {
	case fieldX:
		m.xIndex = (m.xIndex + delta + count) % count
	case fieldY:
		m.yIndex = (m.yIndex + delta + count) % count
	default:
		return
	}
	m.applyDefaults()
}

func (m *Model) applyDefaults() {
	x, y := m.selectedColumns()
	if x == "" {
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		return
	}
	name, xLabel, yLabel := traces.Defaults(x, y)
	m.inputs[0].SetValue(name)
	m.inputs[1].SetValue(xLabel)
	m.inputs[2].SetValue(yLabel)
}

func (m *Model) setFocus(idx int) tea.Cmd {
	if idx < 0 {
		idx = fieldCount - 1
	}
	if idx >= fieldCount {
		idx = 0
	}
	m.focus = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i+fieldName == idx {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) setTab(tab int) {
	m.activeTab = tab
	if tab == tabData {
		m.preview.Focus()
		return
	}
	m.preview.Blur()
}

func (m *Model) setNotice(msg string, isErr bool) {
	m.notice = msg
	m.noticeErr = isErr
}

func newPicker(dir string) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = AllowedTypes
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		} else {
			logErrf("failed to resolve working directory: %v\n", err)
			dir = "."
		}
	}
	fp.CurrentDirectory = dir
	return fp
}

func newLabelInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
