package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pestpro/pestpro-api/internal/form"
	_ "modernc.org/sqlite"
)

const draftSchema = `CREATE TABLE IF NOT EXISTS draft (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	payload  TEXT    NOT NULL,
	saved_at INTEGER NOT NULL
)`

// SQLiteStore keeps the draft in a local SQLite file. The table has a single
// row pinned to id 1.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the draft database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("draft store path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(draftSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create draft table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, d form.Data) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO draft (id, payload, saved_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		Encode(d), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load takes the draft out of the table in one statement, so two readers can
// never both receive it.
func (s *SQLiteStore) Load(ctx context.Context) (form.Data, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `DELETE FROM draft WHERE id = 1 RETURNING payload`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return form.Data{}, false, nil
	}
	if err != nil {
		return form.Data{}, false, fmt.Errorf("load draft: %w", err)
	}

	d, err := Decode(payload)
	if err != nil {
		return form.Data{}, false, fmt.Errorf("decode draft: %w", err)
	}
	return d, true, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM draft WHERE id = 1`); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
