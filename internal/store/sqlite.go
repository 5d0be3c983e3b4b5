package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/i474232898/temperature-heatmap/internal/temperature"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id               TEXT PRIMARY KEY,
	source           TEXT NOT NULL,
	fetched_at       INTEGER NOT NULL,
	base_temperature REAL NOT NULL,
	records          BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS snapshots_fetched_at ON snapshots (fetched_at);
`

// SQLiteStore keeps snapshots in a SQLite database so the last good dataset
// survives restarts.
type SQLiteStore struct {
	db        *sql.DB
	retention Retention
	now       func() time.Time
}

// OpenSQLite opens (or creates) the database at path. Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string, retention Retention) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases consistent and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db, retention: retention, now: time.Now}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot inserts the snapshot and enforces retention in one transaction.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snapshot temperature.Snapshot) (err error) {
	records, err := json.Marshal(snapshot.Dataset.Records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, fetched_at, base_temperature, records) VALUES (?, ?, ?, ?, ?)`,
		snapshot.ID, snapshot.Source, snapshot.FetchedAt.UTC().UnixNano(), snapshot.Dataset.BaseTemperature, records,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if s.retention.MaxHistory > 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY fetched_at DESC, rowid DESC LIMIT ?)`,
			s.retention.MaxHistory,
		)
		if err != nil {
			return fmt.Errorf("enforce history limit: %w", err)
		}
	}

	if s.retention.MaxAge > 0 {
		cutoff := s.now().Add(-s.retention.MaxAge).UTC().UnixNano()
		_, err = tx.ExecContext(ctx,
			`DELETE FROM snapshots WHERE fetched_at < ? AND id <> ?`,
			cutoff, snapshot.ID,
		)
		if err != nil {
			return fmt.Errorf("enforce max age: %w", err)
		}
	}

	return tx.Commit()
}

// GetLatest returns the most recent snapshot.
func (s *SQLiteStore) GetLatest(ctx context.Context) (temperature.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, fetched_at, base_temperature, records FROM snapshots ORDER BY fetched_at DESC, rowid DESC LIMIT 1`)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return temperature.Snapshot{}, ErrNotFound
	}
	return snap, err
}

// GetRange returns all snapshots fetched between from and to (inclusive), oldest first.
func (s *SQLiteStore) GetRange(ctx context.Context, from, to time.Time) ([]temperature.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, fetched_at, base_temperature, records FROM snapshots
		 WHERE fetched_at >= ? AND fetched_at <= ? ORDER BY fetched_at ASC, rowid ASC`,
		from.UTC().UnixNano(), to.UTC().UnixNano(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []temperature.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (temperature.Snapshot, error) {
	var (
		snap      temperature.Snapshot
		fetchedAt int64
		records   []byte
	)
	if err := sc.Scan(&snap.ID, &snap.Source, &fetchedAt, &snap.Dataset.BaseTemperature, &records); err != nil {
		return temperature.Snapshot{}, err
	}
	if err := json.Unmarshal(records, &snap.Dataset.Records); err != nil {
		return temperature.Snapshot{}, fmt.Errorf("decode records of snapshot %s: %w", snap.ID, err)
	}
	snap.FetchedAt = time.Unix(0, fetchedAt).UTC()
	return snap, nil
}
