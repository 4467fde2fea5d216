package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PoolConfig configures the connection pool opened by Open.
type PoolConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Schema creates the sessions table. It is safe to run repeatedly.
const Schema = `
CREATE TABLE IF NOT EXISTS file_sessions (
	id         serial PRIMARY KEY,
	title      text NOT NULL,
	file_name  text NOT NULL,
	headers    jsonb NOT NULL,
	data       jsonb NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
)`

const sessionColumns = `id, title, file_name, headers, data, created_at, updated_at`

// PgStore stores sessions in PostgreSQL.
type PgStore struct {
	db   DBTX
	pool *pgxpool.Pool
}

// NewPgStore wraps an existing connection or transaction. Close does not
// close db.
func NewPgStore(db DBTX) *PgStore {
	return &PgStore{db: db}
}

// Open connects a pool, verifies it with a ping and ensures the schema
// exists.
func Open(ctx context.Context, cfg PoolConfig) (*PgStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PgStore{db: pool, pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the file_sessions table if it is missing.
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the pool opened by Open.
func (s *PgStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PgStore) List(ctx context.Context) ([]Session, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+sessionColumns+` FROM file_sessions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *PgStore) Get(ctx context.Context, id int64) (Session, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM file_sessions WHERE id = $1`, id)
	return scanOne(row)
}

func (s *PgStore) Create(ctx context.Context, n NewSession) (Session, error) {
	headers, data, err := encodeTable(n.Headers, n.Data)
	if err != nil {
		return Session{}, err
	}
	row := s.db.QueryRow(ctx,
		`INSERT INTO file_sessions (title, file_name, headers, data)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+sessionColumns,
		n.Title, n.FileName, headers, data)
	return scanOne(row)
}

func (s *PgStore) Update(ctx context.Context, id int64, p Patch) (Session, error) {
	var headers, data []byte
	var err error
	if p.Headers != nil {
		if headers, err = json.Marshal(nonNilStrings(*p.Headers)); err != nil {
			return Session{}, fmt.Errorf("encode headers: %w", err)
		}
	}
	if p.Data != nil {
		if data, err = json.Marshal(nonNilRows(*p.Data)); err != nil {
			return Session{}, fmt.Errorf("encode data: %w", err)
		}
	}

	row := s.db.QueryRow(ctx,
		`UPDATE file_sessions SET
			title      = COALESCE($2, title),
			file_name  = COALESCE($3, file_name),
			headers    = COALESCE($4::jsonb, headers),
			data       = COALESCE($5::jsonb, data),
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+sessionColumns,
		id, p.Title, p.FileName, headers, data)
	return scanOne(row)
}

func (s *PgStore) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM file_sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete session %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanOne(row pgx.Row) (Session, error) {
	sess, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	return sess, err
}

// scanSession scans a single file_sessions row.
func scanSession(row pgx.Row) (Session, error) {
	var (
		sess      Session
		headers   []byte
		data      []byte
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&sess.ID, &sess.Title, &sess.FileName, &headers, &data, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	if err := json.Unmarshal(headers, &sess.Headers); err != nil {
		return Session{}, fmt.Errorf("decode headers of session %d: %w", sess.ID, err)
	}
	if err := json.Unmarshal(data, &sess.Data); err != nil {
		return Session{}, fmt.Errorf("decode data of session %d: %w", sess.ID, err)
	}
	sess.Headers = nonNilStrings(sess.Headers)
	sess.Data = nonNilRows(sess.Data)
	sess.CreatedAt = createdAt.Time
	sess.UpdatedAt = updatedAt.Time
	return sess, nil
}

func encodeTable(headers []string, data []sheet.Row) ([]byte, []byte, error) {
	h, err := json.Marshal(nonNilStrings(headers))
	if err != nil {
		return nil, nil, fmt.Errorf("encode headers: %w", err)
	}
	d, err := json.Marshal(nonNilRows(data))
	if err != nil {
		return nil, nil, fmt.Errorf("encode data: %w", err)
	}
	return h, d, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilRows(r []sheet.Row) []sheet.Row {
	if r == nil {
		return []sheet.Row{}
	}
	return r
}
