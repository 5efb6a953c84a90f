// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/tuiplot/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a snapshot id does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Store wraps SQLite access for saved snapshots.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshot_traces (
			snapshot_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			x_label TEXT NOT NULL,
			y_label TEXT NOT NULL,
			x_kind TEXT NOT NULL,
			y_kind TEXT NOT NULL,
			x_values TEXT NOT NULL,
			y_values TEXT NOT NULL,
			PRIMARY KEY (snapshot_id, position)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshot stores traces in order under a new snapshot id.
func (s *Store) SaveSnapshot(ctx context.Context, name, source string, traces []model.Trace) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (name, source, created_at) VALUES (?, ?, ?)`,
		name, source, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(traces) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO snapshot_traces (snapshot_id, position, name, x_label, y_label, x_kind, y_kind, x_values, y_values)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, tr := range traces {
			xs, merr := json.Marshal(tr.X)
			if merr != nil {
				err = fmt.Errorf("failed to encode x values: %w", merr)
				return 0, err
			}
			ys, merr := json.Marshal(tr.Y)
			if merr != nil {
				err = fmt.Errorf("failed to encode y values: %w", merr)
				return 0, err
			}
			if _, err = stmt.ExecContext(ctx, id, i, tr.Name, tr.XLabel, tr.YLabel,
				string(tr.XKind), string(tr.YKind), string(xs), string(ys)); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSnapshots returns snapshot summaries, newest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]model.SnapshotSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT s.id, s.name, s.source, s.created_at, COUNT(t.position)
		FROM snapshots s
		LEFT JOIN snapshot_traces t ON t.snapshot_id = s.id
		GROUP BY s.id
		ORDER BY s.id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SnapshotSummary
	for rows.Next() {
		var sum model.SnapshotSummary
		var createdAt string
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Source, &createdAt, &sum.TraceCount); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		sum.CreatedAt = parsed
		result = append(result, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadSnapshot returns a snapshot with its traces in saved order.
func (s *Store) LoadSnapshot(ctx context.Context, id int64) (model.Snapshot, error) {
	snap := model.Snapshot{ID: id}
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, source, created_at FROM snapshots WHERE id = ?`, id).
		Scan(&snap.Name, &snap.Source, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return model.Snapshot{}, err
	}
	if snap.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return model.Snapshot{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, x_label, y_label, x_kind, y_kind, x_values, y_values
		FROM snapshot_traces
		WHERE snapshot_id = ?
		ORDER BY position ASC`, id)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var tr model.Trace
		var xKind, yKind, xs, ys string
		if err := rows.Scan(&tr.Name, &tr.XLabel, &tr.YLabel, &xKind, &yKind, &xs, &ys); err != nil {
			return model.Snapshot{}, err
		}
		tr.XKind = model.Kind(xKind)
		tr.YKind = model.Kind(yKind)
		if err := json.Unmarshal([]byte(xs), &tr.X); err != nil {
			return model.Snapshot{}, fmt.Errorf("failed to decode x values: %w", err)
		}
		if err := json.Unmarshal([]byte(ys), &tr.Y); err != nil {
			return model.Snapshot{}, fmt.Errorf("failed to decode y values: %w", err)
		}
		snap.Traces = append(snap.Traces, tr)
	}
	if err := rows.Err(); err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// DeleteSnapshot removes a snapshot and its traces.
func (s *Store) DeleteSnapshot(ctx context.Context, id int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = fmt.Errorf("%w: %d", ErrNotFound, id)
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM snapshot_traces WHERE snapshot_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
