package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/verte-zerg/tuiplot/internal/config"
	"github.com/verte-zerg/tuiplot/internal/model"
	"github.com/verte-zerg/tuiplot/internal/store"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func writeCSV(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	dir := setupEnv(t)
	path := writeCSV(t, dir, "x,y\n1,2\n3,4\n5,6\n")

	out, err := runCmd(t, "inspect", path, "--x", "x", "--y", "y", "--width", "30", "--height", "5")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	for _, want := range []string{
		"File loaded successfully! Shape: 3 rows × 2 columns | Delimiter: ','",
		"Data Types:",
		"x  int64",
		"Your Interactive Plot",
		"y vs x",
		"Currently displaying 1 trace(s)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestInspectParseError(t *testing.T) {
	dir := setupEnv(t)
	path := writeCSV(t, dir, "a,b\n1,2\n3,4,5\n")
	if _, err := runCmd(t, "inspect", path); err == nil || !strings.Contains(err.Error(), "inconsistent number of fields") {
		t.Fatalf("expected column mismatch error, got %v", err)
	}
}

func TestExportInfersFormatFromOutput(t *testing.T) {
	dir := setupEnv(t)
	path := writeCSV(t, dir, "x;y;z\n1;2;3\n4;5;6\n")
	outPath := filepath.Join(dir, "charts", "out.svg")

	if _, err := runCmd(t, "export", path, "--x", "x", "--y", "y", "--y", "z", "-o", outPath); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Fatalf("expected svg output")
	}
}

func TestYColumnWithComma(t *testing.T) {
	dir := setupEnv(t)
	path := writeCSV(t, dir, "x;price,eur\n1;2\n3;4\n")

	out, err := runCmd(t, "inspect", path, "--x", "x", "--y", "price,eur", "--width", "30", "--height", "5")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !strings.Contains(out, "price,eur vs x") {
		t.Fatalf("expected comma column trace in output:\n%s", out)
	}

	outPath := filepath.Join(dir, "out.svg")
	if _, err := runCmd(t, "export", path, "--x", "x", "--y", "price,eur", "-o", outPath); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("expected export file: %v", err)
	}
}

func TestOpenOptionalStoreFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	st, err := openOptionalStore(filepath.Join(blocker, "sub", "tuiplot.db"))
	if err == nil {
		t.Fatalf("expected open error")
	}
	if st != nil {
		t.Fatalf("expected nil store on failure")
	}

	st, err = openOptionalStore(filepath.Join(dir, "ok", "tuiplot.db"))
	if err != nil || st == nil {
		t.Fatalf("expected store, got %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
}

func TestExportRequiresColumns(t *testing.T) {
	dir := setupEnv(t)
	path := writeCSV(t, dir, "x,y\n1,2\n")
	if _, err := runCmd(t, "export", path); err == nil {
		t.Fatalf("expected error without --x/--y")
	}
	if _, err := runCmd(t, "export", path, "--x", "x", "--y", "nope"); err == nil {
		t.Fatalf("expected error for unknown column")
	}
	if _, err := runCmd(t, "export", path, "--x", "x", "--y", "y", "--format", "gif"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestExportSnapshot(t *testing.T) {
	dir := setupEnv(t)
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	id, err := st.SaveSnapshot(context.Background(), "saved", "data.csv", []model.Trace{{
		X: []string{"1", "2"}, Y: []string{"3", "4"},
		XKind: model.KindInt64, YKind: model.KindInt64,
		Name: "saved trace", XLabel: "x", YLabel: "y",
	}})
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	out, err := runCmd(t, "sessions")
	if err != nil {
		t.Fatalf("sessions failed: %v", err)
	}
	if !strings.Contains(out, "saved") || !strings.Contains(out, "data.csv") {
		t.Fatalf("expected snapshot listing, got:\n%s", out)
	}

	outPath := filepath.Join(dir, "snap.html")
	if _, err := runCmd(t, "export", "--session", strconv.FormatInt(id, 10), "-o", outPath); err != nil {
		t.Fatalf("export snapshot failed: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "saved trace") {
		t.Fatalf("expected trace name in html export")
	}

	if _, err := runCmd(t, "sessions", "rm", strconv.FormatInt(id, 10)); err != nil {
		t.Fatalf("sessions rm failed: %v", err)
	}
	if _, err := runCmd(t, "export", "--session", strconv.FormatInt(id, 10), "-o", outPath); err == nil {
		t.Fatalf("expected error for deleted snapshot")
	}
}

func TestExportUsesConfigFormat(t *testing.T) {
	dir := setupEnv(t)
	path := writeCSV(t, dir, "x,y\n1,2\n3,4\n")
	outDir := filepath.Join(dir, "exports")
	cfgPath := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	cfg := "[export]\nformat = \"png\"\ndir = " + strconv.Quote(outDir) + "\nwidth = 400\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := runCmd(t, "export", path, "--x", "x", "--y", "y"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "data.png"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("expected png output")
	}
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.UI.Dir != nil || cfg.Export.Format != nil {
		t.Fatalf("expected all template values to be commented out")
	}
}
