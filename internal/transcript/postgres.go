package transcript

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sozhaa-tech/chatbot-api/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs. pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool. Like the SQLite driver,
// entries are append-only rows and the snapshot is materialized on demand.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	user_detail JSONB NOT NULL,
	service     TEXT NOT NULL DEFAULT '',
	captured_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transcript_entries (
	seq        BIGSERIAL PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	ts         TIMESTAMPTZ NOT NULL,
	role       TEXT NOT NULL,
	message    TEXT NOT NULL,
	service    TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_entries_session ON transcript_entries(session_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, rec model.SessionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal user")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_detail, service, captured_at) VALUES ($1, $2, $3, $4)`,
		rec.ID, string(userJSON), rec.Service, rec.CapturedAt.UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert session")
	}

	for _, e := range rec.Transcript {
		_, err = s.pool.Exec(ctx,
			`INSERT INTO transcript_entries (session_id, ts, role, message, service, name, email, phone)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			rec.ID, e.Timestamp.UTC(), string(e.Role), e.Message, e.Service, e.Name, e.Email, e.Phone,
		)
		if err != nil {
			return eris.Wrap(err, "postgres: insert entry")
		}
	}

	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, n int) ([]model.TranscriptEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT ts, role, message, service, name, email, phone
		 FROM (SELECT * FROM transcript_entries ORDER BY seq DESC LIMIT $1) sub
		 ORDER BY seq ASC`, n,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query recent")
	}
	defer rows.Close()

	return scanPgEntries(rows)
}

func (s *PostgresStore) ExportXLSX(ctx context.Context) ([]byte, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT ts, role, message, service, name, email, phone
		 FROM transcript_entries ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query entries")
	}
	defer rows.Close()

	entries, err := scanPgEntries(rows)
	if err != nil {
		return nil, err
	}
	return workbookBytes(entries)
}

func scanPgEntries(rows pgx.Rows) ([]model.TranscriptEntry, error) {
	var entries []model.TranscriptEntry
	for rows.Next() {
		var (
			e    model.TranscriptEntry
			role string
		)
		if err := rows.Scan(&e.Timestamp, &role, &e.Message, &e.Service, &e.Name, &e.Email, &e.Phone); err != nil {
			return nil, eris.Wrap(err, "postgres: scan entry")
		}
		e.Role = model.Role(role)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: iterate entries")
}
