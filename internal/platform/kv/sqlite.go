package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	apperrors "selflab/internal/platform/errors"
)

type SQLiteMedium struct {
	db    *sql.DB
	quota int64
}

func NewSQLiteMedium(dbPath string, quota int64) (*SQLiteMedium, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	medium := &SQLiteMedium{db: db, quota: quota}
	if err := medium.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return medium, nil
}

func (m *SQLiteMedium) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := m.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (m *SQLiteMedium) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := m.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return value, true, nil
}

func (m *SQLiteMedium) Commit(ctx context.Context, writes []Write) (err error) {
	if len(writes) == 0 {
		return nil
	}
	if err := checkKeys(writes); err != nil {
		return err
	}
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin kv tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if m.quota > 0 {
		sizes, sizeErr := m.sizes(ctx, tx)
		if sizeErr != nil {
			err = sizeErr
			return err
		}
		if projectedSize(sizes, writes) > m.quota {
			err = apperrors.ErrQuotaExceeded
			return err
		}
	}

	const upsert = `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at;
`
	now := time.Now().UTC().Format(time.RFC3339)
	for _, w := range writes {
		if w.Delete {
			if _, err = tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, w.Key); err != nil {
				return fmt.Errorf("delete %s: %w", w.Key, err)
			}
			continue
		}
		if _, err = tx.ExecContext(ctx, upsert, w.Key, w.Value, now); err != nil {
			return fmt.Errorf("upsert %s: %w", w.Key, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit kv tx: %w", err)
	}
	return nil
}

func (m *SQLiteMedium) sizes(ctx context.Context, tx *sql.Tx) (map[string]int64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT key, length(value) FROM kv`)
	if err != nil {
		return nil, fmt.Errorf("measure kv: %w", err)
	}
	defer rows.Close()
	sizes := map[string]int64{}
	for rows.Next() {
		var (
			key  string
			size int64
		)
		if err := rows.Scan(&key, &size); err != nil {
			return nil, fmt.Errorf("measure kv: %w", err)
		}
		sizes[key] = size
	}
	return sizes, rows.Err()
}

func (m *SQLiteMedium) Close() error {
	return m.db.Close()
}
