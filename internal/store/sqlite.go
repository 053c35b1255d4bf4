package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS lookups (
	id         TEXT PRIMARY KEY,
	company    TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lookups_company ON lookups(company);
CREATE INDEX IF NOT EXISTS idx_lookups_expires_at ON lookups(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetCached(ctx context.Context, company string) (map[string]string, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM lookups
		 WHERE company = ? AND expires_at > ?
		 ORDER BY created_at DESC
		 LIMIT 1`,
		companyKey(company), time.Now().UTC(),
	)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: query lookup %s", company)
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal payload")
	}
	return fields, nil
}

func (s *SQLiteStore) Record(ctx context.Context, company string, fields map[string]string, ttl time.Duration) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal payload")
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lookups (id, company, payload, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), companyKey(company), string(payload), now, now.Add(ttl),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert lookup %s", company)
	}
	return nil
}

// companyKey normalizes a company name for cache matching.
func companyKey(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}
