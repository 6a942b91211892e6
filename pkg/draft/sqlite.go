package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS drafts (
	slot       TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
`

// SQLiteStore keeps the slot in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	slot string
}

// sqlitePragmas are applied by the driver to every pooled connection.
var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// OpenSQLite opens or creates the database at path and ensures the schema.
// path may already be a file: URI with its own query parameters.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("draft: sqlite path is required")
	}
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("draft: open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("draft: migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db, slot: SlotName}, nil
}

func sqliteDSN(path string) string {
	params := make([]string, 0, len(sqlitePragmas))
	for _, pragma := range sqlitePragmas {
		params = append(params, "_pragma="+url.QueryEscape(pragma))
	}
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

var _ Store = (*SQLiteStore)(nil)

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Read(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM drafts WHERE slot = ?`, s.slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *SQLiteStore) Write(ctx context.Context, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drafts (slot, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		s.slot, payload, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE slot = ?`, s.slot)
	return err
}
