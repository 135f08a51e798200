package form

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/formkit/pkg/pg"
)

// Migrations holds the schema for PostgresStore, applied with pg.MigrateFS.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that goose reads.
const MigrationsDir = "migrations"

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	insertSessionSQL = `INSERT INTO form_sessions (id, form, state, updated_at, expires_at) VALUES ($1, $2, $3, $4, $5)`
	selectSessionSQL = `SELECT state FROM form_sessions WHERE id = $1 AND expires_at > now()`
	updateSessionSQL = `UPDATE form_sessions SET form = $2, state = $3, updated_at = $4, expires_at = $5 WHERE id = $1 AND expires_at > now()`
	deleteSessionSQL = `DELETE FROM form_sessions WHERE id = $1`
	purgeSessionsSQL = `DELETE FROM form_sessions WHERE expires_at <= now()`
)

// PostgresStore keeps session states in a JSONB column.
type PostgresStore struct {
	db  DB
	ttl time.Duration
}

// NewPostgresStore creates a store over db. The form_sessions table must
// exist; see Migrations.
func NewPostgresStore(db DB, ttl time.Duration) *PostgresStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PostgresStore{db: db, ttl: ttl}
}

// Create stores a new session state.
func (s *PostgresStore) Create(ctx context.Context, state State) error {
	if err := validState(state); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	now := time.Now().UTC()
	if _, err := s.db.Exec(ctx, insertSessionSQL, state.ID, state.Form, data, now, now.Add(s.ttl)); err != nil {
		if pg.IsDuplicateKeyError(err) {
			return fmt.Errorf("session %q already exists: %w", state.ID, ErrInvalidState)
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Get retrieves a session state by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (State, error) {
	var data []byte
	if err := s.db.QueryRow(ctx, selectSessionSQL, id).Scan(&data); err != nil {
		if pg.IsNotFoundError(err) {
			return State{}, ErrSessionNotFound
		}
		return State{}, errors.Join(ErrStoreUnavailable, err)
	}
	state, err := DecodeState(data)
	if err != nil {
		return State{}, err
	}
	return state.clone(), nil
}

// Update replaces an existing session state and extends its lifetime.
func (s *PostgresStore) Update(ctx context.Context, state State) error {
	if err := validState(state); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, updateSessionSQL, state.ID, state.Form, data, now, now.Add(s.ttl))
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session state by id.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, deleteSessionSQL, id)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteExpired purges expired rows.
func (s *PostgresStore) DeleteExpired(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, purgeSessionsSQL); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
