package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"

	"github.com/verte-zerg/tuiplot/internal/model"
	"github.com/verte-zerg/tuiplot/internal/plot"
	"github.com/verte-zerg/tuiplot/internal/store"
)

type fileReadMsg struct {
	path string
	data []byte
	err  error
}

type exportDoneMsg struct {
	path   string
	opened bool
	err    error
}

type snapshotSavedMsg struct {
	id  int64
	err error
}

func readFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		return fileReadMsg{path: path, data: data, err: err}
	}
}

func exportCmd(spec plot.Spec, cfg model.ExportConfig, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path := exportPath(cfg.Dir, cfg.Format, now)
		if err := plot.ExportFile(path, spec, cfg.Format, cfg.Width); err != nil {
			return exportDoneMsg{err: fmt.Errorf("failed to export chart: %w", err)}
		}
		return exportDoneMsg{path: path}
	}
}

// quietBrowser silences the opener, which writes to the terminal otherwise
// and garbles the TUI. It runs once, before any command goroutine starts.
func quietBrowser() {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

func browserCmd(spec plot.Spec, cfg model.ExportConfig, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path := exportPath(cfg.Dir, plot.FormatHTML, now)
		if err := plot.ExportFile(path, spec, plot.FormatHTML, cfg.Width); err != nil {
			return exportDoneMsg{err: fmt.Errorf("failed to export chart: %w", err)}
		}
		if err := browser.OpenFile(path); err != nil {
			return exportDoneMsg{path: path, err: fmt.Errorf("failed to open browser: %w", err)}
		}
		return exportDoneMsg{path: path, opened: true}
	}
}

func saveSnapshotCmd(st *store.Store, name, source string, traces []model.Trace) tea.Cmd {
	return func() tea.Msg {
		id, err := st.SaveSnapshot(context.Background(), name, source, traces)
		if err != nil {
			return snapshotSavedMsg{err: fmt.Errorf("failed to save snapshot: %w", err)}
		}
		return snapshotSavedMsg{id: id}
	}
}

func exportPath(dir, format string, now time.Time) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, fmt.Sprintf("tuiplot-%s.%s", now.Format("20060102-150405"), format))
}

func snapshotName(source string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if source == "" || base == "" || base == "." {
		base = "untitled"
	}
	return fmt.Sprintf("%s %s", base, now.Format("2006-01-02 15:04"))
}
