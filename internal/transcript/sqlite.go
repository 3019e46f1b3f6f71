package transcript

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sozhaa-tech/chatbot-api/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Entries live in
// an append-only table; the .xlsx snapshot is materialized on demand
// instead of being rewritten per append.
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
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	user_detail TEXT NOT NULL,
	service     TEXT NOT NULL DEFAULT '',
	captured_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS transcript_entries (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	ts         TEXT NOT NULL,
	role       TEXT NOT NULL,
	message    TEXT NOT NULL,
	service    TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_entries_session ON transcript_entries(session_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Append(ctx context.Context, rec model.SessionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal user")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, user_detail, service, captured_at) VALUES (?, ?, ?, ?)`,
		rec.ID, string(userJSON), rec.Service, rec.CapturedAt.UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert session")
	}

	for _, e := range rec.Transcript {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transcript_entries (session_id, ts, role, message, service, name, email, phone)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, e.Timestamp.UTC().Format(time.RFC3339), string(e.Role), e.Message,
			e.Service, e.Name, e.Email, e.Phone,
		)
		if err != nil {
			return eris.Wrap(err, "sqlite: insert entry")
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) Recent(ctx context.Context, n int) ([]model.TranscriptEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, role, message, service, name, email, phone
		 FROM (SELECT * FROM transcript_entries ORDER BY seq DESC LIMIT ?)
		 ORDER BY seq ASC`, n,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query recent")
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *SQLiteStore) ExportXLSX(ctx context.Context) ([]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, role, message, service, name, email, phone
		 FROM transcript_entries ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query entries")
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	return workbookBytes(entries)
}

func scanEntries(rows *sql.Rows) ([]model.TranscriptEntry, error) {
	var entries []model.TranscriptEntry
	for rows.Next() {
		var (
			e    model.TranscriptEntry
			ts   string
			role string
		)
		if err := rows.Scan(&ts, &role, &e.Message, &e.Service, &e.Name, &e.Email, &e.Phone); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan entry")
		}
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: parse timestamp")
		}
		e.Timestamp = t
		e.Role = model.Role(role)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: iterate entries")
}
