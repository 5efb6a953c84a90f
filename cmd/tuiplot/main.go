// Package main provides the CLI entrypoint for tuiplot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuiplot/internal/config"
	"github.com/verte-zerg/tuiplot/internal/model"
	"github.com/verte-zerg/tuiplot/internal/plot"
	"github.com/verte-zerg/tuiplot/internal/preview"
	"github.com/verte-zerg/tuiplot/internal/session"
	"github.com/verte-zerg/tuiplot/internal/store"
	"github.com/verte-zerg/tuiplot/internal/tui"
)

const (
	defaultExportDir = "."
	defaultPlotRows  = 16
)

var (
	rootDir         string
	rootPreviewRows int
	rootSession     int64
	rootLogFile     string

	inspectRows   int
	inspectWidth  int
	inspectHeight int
	traceOpts     traceFlags

	exportFormat  string
	exportOutput  string
	exportWidth   int
	exportSession int64
	exportDir     string
)

type traceFlags struct {
	x      string
	y      []string
	name   string
	xLabel string
	yLabel string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuiplot [file]",
		Short:         "Interactive CSV plotter for the terminal",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runRootCmd,
	}

	rootCmd.Flags().StringVar(&rootDir, "dir", "", "initial file picker directory (default: current directory)")
	rootCmd.Flags().IntVar(&rootPreviewRows, "preview-rows", session.PreviewRows, "rows shown in the data preview")
	rootCmd.Flags().Int64Var(&rootSession, "session", 0, "restore traces from a saved snapshot id")
	rootCmd.Flags().StringVar(&rootLogFile, "log-file", "", "write debug logs to this file")

	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runRootCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dir", &rootDir, fileCfg.UI.Dir)
	applyIntConfig(cmd, "preview-rows", &rootPreviewRows, fileCfg.UI.PreviewRows)
	if rootPreviewRows <= 0 {
		return fmt.Errorf("--preview-rows must be > 0")
	}
	exportCfg := exportConfigFromFile(fileCfg)

	if rootLogFile != "" {
		f, err := tea.LogToFile(rootLogFile, "tuiplot")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logErrf("failed to close log file: %v\n", cerr)
			}
		}()
	}

	st, err := openOptionalStore(config.DefaultDBPath())
	if err != nil && cmd.Flags().Changed("session") {
		return fmt.Errorf("failed to open db: %w", err)
	}
	if st != nil {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}

	var state session.State
	if cmd.Flags().Changed("session") {
		snap, err := st.LoadSnapshot(context.Background(), rootSession)
		if err != nil {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}
		state = session.Handle(state, session.RestoreTraces{
			Traces: snap.Traces,
			Source: fmt.Sprintf("snapshot #%d (%s)", snap.ID, snap.Name),
		})
	}

	opts := tui.Options{
		Store:  st,
		UI:     model.UIConfig{Dir: rootDir, PreviewRows: rootPreviewRows},
		Export: exportCfg,
		State:  state,
	}
	if len(args) == 1 {
		opts.Path = args[0]
	}
	program := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print a summary, preview and column types of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspectCmd,
	}
	cmd.Flags().IntVar(&inspectRows, "rows", session.PreviewRows, "rows to preview")
	cmd.Flags().IntVar(&inspectWidth, "width", 0, "chart width in cells (default: terminal width)")
	cmd.Flags().IntVar(&inspectHeight, "height", defaultPlotRows, "chart height in cells")
	addTraceFlags(cmd)
	return cmd
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	if inspectRows <= 0 {
		return fmt.Errorf("--rows must be > 0")
	}
	state, err := loadState(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	lines := []string{state.Status, ""}
	lines = append(lines, preview.Lines(state.Table, inspectRows)...)
	if state.Table.Rows() > inspectRows {
		lines = append(lines, fmt.Sprintf("... %d more rows", state.Table.Rows()-inspectRows))
	}
	lines = append(lines, "", "Data Types:")
	for _, line := range preview.Types(state.Table) {
		lines = append(lines, "  "+line)
	}
	if _, err := fmt.Fprintln(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if traceOpts.x == "" && len(traceOpts.y) == 0 {
		return nil
	}
	state, err = addTraces(state)
	if err != nil {
		return err
	}
	view := session.Render(state)
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := plot.RenderTerminal(out, view.Chart, inspectWidth, inspectHeight); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := fmt.Fprintln(out, view.TraceCount); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Render a chart file from a data file or a saved snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", plot.FormatHTML, "output format: "+strings.Join(plot.Formats, ", "))
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default: <export dir>/<input name>.<format>)")
	cmd.Flags().IntVar(&exportWidth, "width", plot.DefaultExportWidth, "image width in pixels")
	cmd.Flags().Int64Var(&exportSession, "session", 0, "export a saved snapshot instead of a file")
	cmd.Flags().StringVar(&exportDir, "export-dir", defaultExportDir, "directory for the default output path")
	addTraceFlags(cmd)
	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "format", &exportFormat, fileCfg.Export.Format)
	applyStringConfig(cmd, "export-dir", &exportDir, fileCfg.Export.Dir)
	applyIntConfig(cmd, "width", &exportWidth, fileCfg.Export.Width)
	if exportOutput != "" && !cmd.Flags().Changed("format") {
		if format, ok := plot.FormatFromPath(exportOutput); ok {
			exportFormat = format
		}
	}
	if !plot.ValidFormat(exportFormat) {
		return fmt.Errorf("unknown --format %q (available: %s)", exportFormat, strings.Join(plot.Formats, ", "))
	}
	if exportWidth <= 0 {
		return fmt.Errorf("--width must be > 0")
	}

	var (
		state session.State
		base  string
	)
	switch {
	case cmd.Flags().Changed("session"):
		if len(args) > 0 {
			return fmt.Errorf("pass either a file or --session, not both")
		}
		snap, err := loadSnapshot(exportSession)
		if err != nil {
			return err
		}
		state = session.Handle(state, session.RestoreTraces{Traces: snap.Traces, Source: snap.Name})
		base = fmt.Sprintf("snapshot-%d", snap.ID)
	case len(args) == 1:
		state, err = loadState(args[0])
		if err != nil {
			return err
		}
		if state, err = addTraces(state); err != nil {
			return err
		}
		base = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	default:
		return fmt.Errorf("a data file or --session is required")
	}

	view := session.Render(state)
	if !view.HasChart {
		return fmt.Errorf("nothing to export: no traces")
	}
	path := exportOutput
	if path == "" {
		path = filepath.Join(exportDir, base+"."+exportFormat)
	}
	if err := plot.ExportFile(path, view.Chart, exportFormat, exportWidth); err != nil {
		return fmt.Errorf("failed to export chart: %w", err)
	}
	logErrf("Wrote %s (%s)\n", path, view.TraceCount)
	return nil
}

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List saved snapshots",
		Args:  cobra.NoArgs,
		RunE:  runSessionsCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionsRmCmd,
	})
	return cmd
}

func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	snaps, err := st.ListSnapshots(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(snaps) == 0 {
		logErrln("No saved snapshots. Press ctrl+s in the plot view to save one.")
		return nil
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(snapshotLines(snaps), "\n")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runSessionsRmCmd(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snapshot id %q", args[0])
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.DeleteSnapshot(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	logErrf("Deleted snapshot #%d\n", id)
	return nil
}

func snapshotLines(snaps []model.SnapshotSummary) []string {
	headers := []string{"ID", "Created", "Traces", "Name", "Source"}
	rows := make([][]string, len(snaps))
	for i, s := range snaps {
		rows[i] = []string{
			strconv.FormatInt(s.ID, 10),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(s.TraceCount),
			s.Name,
			s.Source,
		}
	}
	return preview.FormatTable(headers, rows, map[int]bool{0: true, 2: true})
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func addTraceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&traceOpts.x, "x", "", "x column")
	cmd.Flags().StringArrayVar(&traceOpts.y, "y", nil, "y column, repeat to add one trace per column")
	cmd.Flags().StringVar(&traceOpts.name, "name", "", "trace name (single y only, default: \"<y> vs <x>\")")
	cmd.Flags().StringVar(&traceOpts.xLabel, "x-label", "", "x axis label (default: x column)")
	cmd.Flags().StringVar(&traceOpts.yLabel, "y-label", "", "y axis label (default: y column)")
}

// loadState uploads path into a fresh session and fails on parse errors.
func loadState(path string) (session.State, error) {
	data, err := os.ReadFile(path)
	state := session.Handle(session.State{}, session.Upload{Source: path, Data: data, Err: err})
	if state.Err != nil {
		return state, fmt.Errorf("failed to load %s: %w", path, state.Err)
	}
	return state, nil
}

func addTraces(state session.State) (session.State, error) {
	if traceOpts.x == "" || len(traceOpts.y) == 0 {
		return state, fmt.Errorf("both --x and --y are required")
	}
	if traceOpts.name != "" && len(traceOpts.y) > 1 {
		return state, fmt.Errorf("--name needs a single --y")
	}
	for _, y := range traceOpts.y {
		state = session.Handle(state, session.AddTrace{
			X:      traceOpts.x,
			Y:      y,
			Name:   traceOpts.name,
			XLabel: traceOpts.xLabel,
			YLabel: traceOpts.yLabel,
		})
		if state.Err != nil {
			return state, state.Err
		}
	}
	return state, nil
}

func loadSnapshot(id int64) (model.Snapshot, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	snap, err := st.LoadSnapshot(context.Background(), id)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snap, nil
}

// openOptionalStore opens the snapshot database. On failure the error is
// logged and a nil store is returned alongside it, so the TUI can run
// with snapshots disabled.
func openOptionalStore(path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		logErrf("failed to open db, snapshots disabled: %v\n", err)
		return nil, err
	}
	return st, nil
}

func exportConfigFromFile(fileCfg config.FileConfig) model.ExportConfig {
	cfg := model.ExportConfig{
		Format: plot.FormatHTML,
		Dir:    defaultExportDir,
		Width:  plot.DefaultExportWidth,
	}
	if v := fileCfg.Export.Format; v != nil && plot.ValidFormat(*v) {
		cfg.Format = *v
	} else if v != nil {
		logErrf("ignoring unknown export format %q\n", *v)
	}
	if v := fileCfg.Export.Dir; v != nil {
		cfg.Dir = *v
	}
	if v := fileCfg.Export.Width; v != nil && *v > 0 {
		cfg.Width = *v
	}
	return cfg
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuiplot configuration
# Uncomment a value to enable it. CLI flags override config values.

[ui]
# dir = "."               # Initial file picker directory
# preview-rows = %d       # Rows shown in the data preview

[export]
# format = %q         # One of: %s
# dir = %q              # Directory for exports
# width = %d            # Image width in pixels
`,
		session.PreviewRows,
		plot.FormatHTML,
		strings.Join(plot.Formats, ", "),
		defaultExportDir,
		plot.DefaultExportWidth,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
