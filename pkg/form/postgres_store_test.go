package form_test

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

type pgRow struct {
	state     []byte
	expiresAt time.Time
}

// fakeDB emulates the form_sessions table closely enough for the store's queries.
type fakeDB struct {
	mu   sync.Mutex
	rows map[string]pgRow
	err  error
}

func newFakeDB() *fakeDB {
	return &fakeDB{rows: map[string]pgRow{}}
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.err != nil {
		return pgconn.CommandTag{}, db.err
	}

	now := time.Now()
	switch {
	case strings.HasPrefix(sql, "INSERT"):
		id := args[0].(string)
		if _, ok := db.rows[id]; ok {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"}
		}
		db.rows[id] = pgRow{state: args[2].([]byte), expiresAt: args[4].(time.Time)}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.HasPrefix(sql, "UPDATE"):
		id := args[0].(string)
		row, ok := db.rows[id]
		if !ok || !row.expiresAt.After(now) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		db.rows[id] = pgRow{state: args[2].([]byte), expiresAt: args[4].(time.Time)}
		return pgconn.NewCommandTag("UPDATE 1"), nil
	case strings.Contains(sql, "expires_at <= now()"):
		n := 0
		for id, row := range db.rows {
			if !row.expiresAt.After(now) {
				delete(db.rows, id)
				n++
			}
		}
		return pgconn.NewCommandTag("DELETE " + strconv.Itoa(n)), nil
	case strings.HasPrefix(sql, "DELETE"):
		id := args[0].(string)
		if _, ok := db.rows[id]; !ok {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		delete(db.rows, id)
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.CommandTag{}, errors.New("unexpected query: " + sql)
}

func (db *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.err != nil {
		return fakeRow{err: db.err}
	}
	row, ok := db.rows[args[0].(string)]
	if !ok || !row.expiresAt.After(time.Now()) {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: row.state}
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.data
	return nil
}

func TestPostgresStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create get update delete", func(t *testing.T) {
		store := form.NewPostgresStore(newFakeDB(), time.Hour)

		require.NoError(t, store.Create(ctx, newState("a")))

		got, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "signup", got.Form)
		assert.Equal(t, "a@b.com", got.Values["email"])
		assert.Equal(t, []string{}, got.Errors["email"])
		assert.True(t, got.Touched["email"])

		got.Values["email"] = "c@d.com"
		require.NoError(t, store.Update(ctx, got))
		got, err = store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "c@d.com", got.Values["email"])

		require.NoError(t, store.Delete(ctx, "a"))
		_, err = store.Get(ctx, "a")
		assert.ErrorIs(t, err, form.ErrSessionNotFound)
	})

	t.Run("numbers come back as json numbers", func(t *testing.T) {
		store := form.NewPostgresStore(newFakeDB(), time.Hour)
		state := newState("num")
		state.Values = validator.Record{"zip": json.Number("12345")}
		require.NoError(t, store.Create(ctx, state))

		got, err := store.Get(ctx, "num")
		require.NoError(t, err)
		assert.Equal(t, json.Number("12345"), got.Values["zip"])

		registry := validator.NewRegistry().Register("zip", validator.MinLength(3))
		assert.Equal(t,
			registry.Validate("zip", state.Values["zip"]),
			registry.Validate("zip", got.Values["zip"]),
		)
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		store := form.NewPostgresStore(newFakeDB(), time.Hour)
		require.NoError(t, store.Create(ctx, newState("dup")))
		assert.ErrorIs(t, store.Create(ctx, newState("dup")), form.ErrInvalidState)
	})

	t.Run("missing ids", func(t *testing.T) {
		store := form.NewPostgresStore(newFakeDB(), time.Hour)
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, form.ErrSessionNotFound)
		assert.ErrorIs(t, store.Update(ctx, newState("nope")), form.ErrSessionNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "nope"), form.ErrSessionNotFound)
	})

	t.Run("expired rows", func(t *testing.T) {
		db := newFakeDB()
		store := form.NewPostgresStore(db, time.Millisecond)
		require.NoError(t, store.Create(ctx, newState("old")))
		time.Sleep(5 * time.Millisecond)

		_, err := store.Get(ctx, "old")
		assert.ErrorIs(t, err, form.ErrSessionNotFound)
		require.NoError(t, store.DeleteExpired(ctx))
		assert.Empty(t, db.rows)
	})

	t.Run("backend failures", func(t *testing.T) {
		db := newFakeDB()
		db.err = errors.New("connection reset")
		store := form.NewPostgresStore(db, time.Hour)

		assert.ErrorIs(t, store.Create(ctx, newState("x")), form.ErrStoreUnavailable)
		_, err := store.Get(ctx, "x")
		assert.ErrorIs(t, err, form.ErrStoreUnavailable)
	})
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(form.Migrations, form.MigrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	data, err := fs.ReadFile(form.Migrations, form.MigrationsDir+"/"+entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS form_sessions")
	assert.Contains(t, string(data), "-- +goose Down")
}
