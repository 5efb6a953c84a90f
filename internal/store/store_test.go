package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/verte-zerg/tuiplot/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "data", "tuiplot.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return st
}

func TestSnapshotRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	traces := []model.Trace{
		{
			X: []string{"1", "3", "5"}, Y: []string{"2", "4", "6"},
			XKind: model.KindInt64, YKind: model.KindInt64,
			Name: "y vs x", XLabel: "x", YLabel: "y",
		},
		{
			X: []string{"2024-01-01", ""}, Y: []string{"a", "b"},
			XKind: model.KindDatetime, YKind: model.KindText,
			Name: "second", XLabel: "t2", YLabel: "label",
		},
	}

	id, err := st.SaveSnapshot(ctx, "demo", "data.csv", traces)
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	snap, err := st.LoadSnapshot(ctx, id)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if snap.Name != "demo" || snap.Source != "data.csv" || snap.CreatedAt.IsZero() {
		t.Fatalf("unexpected snapshot header %+v", snap)
	}
	if !reflect.DeepEqual(snap.Traces, traces) {
		t.Fatalf("traces differ after round trip:\n got %+v\nwant %+v", snap.Traces, traces)
	}
}

func TestListSnapshots(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	first, err := st.SaveSnapshot(ctx, "empty", "a.csv", nil)
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	second, err := st.SaveSnapshot(ctx, "one", "b.csv", []model.Trace{{X: []string{"1"}, Y: []string{"1"}, Name: "t"}})
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	list, err := st.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(list))
	}
	if list[0].ID != second || list[0].TraceCount != 1 {
		t.Fatalf("expected newest snapshot first, got %+v", list[0])
	}
	if list[1].ID != first || list[1].TraceCount != 0 {
		t.Fatalf("unexpected second entry %+v", list[1])
	}
}

func TestLoadSnapshotNotFound(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.LoadSnapshot(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteSnapshot(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id, err := st.SaveSnapshot(ctx, "gone", "a.csv", []model.Trace{{X: []string{"1"}, Y: []string{"1"}}})
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := st.DeleteSnapshot(ctx, id); err != nil {
		t.Fatalf("delete snapshot: %v", err)
	}
	if _, err := st.LoadSnapshot(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected snapshot to be gone, got %v", err)
	}
	if err := st.DeleteSnapshot(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
