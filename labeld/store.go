// Package labeld is the labeling service: it stores ingested sensor
// readings in SQLite and serves the unlabeled window and label commands.
package labeld

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/andareed/siftly-labeler/labelapi"
)

const DefaultDBFile = "sensor_data.db"

var ErrNotFound = errors.New("sample not found")

// Store persists sensor readings and their labels.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and creates if needed) the database at path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		path = DefaultDBFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; keeps batch updates serialised
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sensor_data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			ax REAL,
			ay REAL,
			az REAL,
			gx REAL,
			gy REAL,
			gz REAL,
			pulse REAL,
			label INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_timestamp ON sensor_data(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_label ON sensor_data(label)`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// Insert stores r unlabeled and returns its id.
func (s *Store) Insert(ctx context.Context, r labelapi.Reading) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO sensor_data (timestamp, ax, ay, az, gx, gy, gz, pulse, label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		r.Timestamp, r.AX, r.AY, r.AZ, r.GX, r.GY, r.GZ, r.Pulse)
	if err != nil {
		return 0, fmt.Errorf("insert reading: %w", err)
	}
	return res.LastInsertId()
}

const selectColumns = `id, timestamp, ax, ay, az, gx, gy, gz, pulse, label`

func scanRecords(rows *sql.Rows) ([]labelapi.Record, error) {
	defer func() { _ = rows.Close() }()
	var out []labelapi.Record
	for rows.Next() {
		var (
			r     labelapi.Record
			label sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.AX, &r.AY, &r.AZ, &r.GX, &r.GY, &r.GZ, &r.Pulse, &label); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if label.Valid {
			v := int(label.Int64)
			r.Label = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Unlabeled returns the newest limit unlabeled readings, oldest first.
func (s *Store) Unlabeled(ctx context.Context, limit int) ([]labelapi.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM sensor_data
		WHERE label IS NULL
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select unlabeled: %w", err)
	}
	out, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}

// All returns every reading in id order.
func (s *Store) All(ctx context.Context) ([]labelapi.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM sensor_data ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select all: %w", err)
	}
	return scanRecords(rows)
}

// SetLabel labels a single reading.
func (s *Store) SetLabel(ctx context.Context, id int64, label int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sensor_data SET label = ? WHERE id = ?`, label, id)
	if err != nil {
		return fmt.Errorf("update label: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// BatchLabel labels every id inside one transaction and returns how many
// rows changed.
func (s *Store) BatchLabel(ctx context.Context, ids []int64, label int) (retN int64, retErr error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, label)
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := tx.ExecContext(ctx, `UPDATE sensor_data SET label = ? WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("batch update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}
