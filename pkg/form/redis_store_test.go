package form_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/redis"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := redis.Connect(ctx, redis.Config{
		ConnectionURL:  url,
		RetryAttempts:  1,
		RetryInterval:  time.Second,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	prefix := "formkit:test:" + uuid.NewString() + ":"
	store := form.NewRedisStore(client, prefix, time.Minute)

	id := uuid.NewString()
	require.NoError(t, store.Create(ctx, newState(id)))
	assert.ErrorIs(t, store.Create(ctx, newState(id)), form.ErrInvalidState)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Values["email"])
	assert.True(t, got.Touched["email"])

	got.Values["email"] = "c@d.com"
	require.NoError(t, store.Update(ctx, got))
	got, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "c@d.com", got.Values["email"])

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, form.ErrSessionNotFound)
	assert.ErrorIs(t, store.Update(ctx, newState(id)), form.ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(ctx, id), form.ErrSessionNotFound)
}
