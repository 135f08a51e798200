package form_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

func newState(id string) form.State {
	return form.State{
		ID:      id,
		Form:    "signup",
		Initial: validator.Record{"email": ""},
		Values:  validator.Record{"email": "a@b.com"},
		Errors:  map[string][]string{"email": {}},
		Touched: map[string]bool{"email": true},
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create get update delete", func(t *testing.T) {
		store := form.NewMemoryStore(time.Hour, 0)
		defer store.Close()

		require.NoError(t, store.Create(ctx, newState("a")))

		got, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", got.Values["email"])

		got.Values["email"] = "c@d.com"
		require.NoError(t, store.Update(ctx, got))

		got, err = store.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "c@d.com", got.Values["email"])

		require.NoError(t, store.Delete(ctx, "a"))
		_, err = store.Get(ctx, "a")
		assert.ErrorIs(t, err, form.ErrSessionNotFound)
	})

	t.Run("missing ids", func(t *testing.T) {
		store := form.NewMemoryStore(time.Hour, 0)

		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, form.ErrSessionNotFound)
		assert.ErrorIs(t, store.Update(ctx, newState("nope")), form.ErrSessionNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "nope"), form.ErrSessionNotFound)
	})

	t.Run("rejects incomplete state", func(t *testing.T) {
		store := form.NewMemoryStore(time.Hour, 0)
		assert.ErrorIs(t, store.Create(ctx, form.State{Form: "x"}), form.ErrInvalidState)
		assert.ErrorIs(t, store.Create(ctx, form.State{ID: "x"}), form.ErrInvalidState)
	})

	t.Run("stored state is isolated from callers", func(t *testing.T) {
		store := form.NewMemoryStore(time.Hour, 0)
		state := newState("iso")
		require.NoError(t, store.Create(ctx, state))

		state.Values["email"] = "mutated"
		got, err := store.Get(ctx, "iso")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", got.Values["email"])

		got.Touched["email"] = false
		again, err := store.Get(ctx, "iso")
		require.NoError(t, err)
		assert.True(t, again.Touched["email"])
	})

	t.Run("expired entries are not returned", func(t *testing.T) {
		store := form.NewMemoryStore(time.Millisecond, 0)
		require.NoError(t, store.Create(ctx, newState("old")))
		time.Sleep(5 * time.Millisecond)

		_, err := store.Get(ctx, "old")
		assert.ErrorIs(t, err, form.ErrSessionNotFound)
		assert.ErrorIs(t, store.Update(ctx, newState("old")), form.ErrSessionNotFound)
	})

	t.Run("cleanup loop purges expired entries", func(t *testing.T) {
		store := form.NewMemoryStore(time.Millisecond, 2*time.Millisecond)
		defer store.Close()
		require.NoError(t, store.Create(ctx, newState("gone")))

		assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := form.NewMemoryStore(time.Hour, time.Minute)
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
	})
}
