package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces session keys in a shared Redis database.
const DefaultRedisPrefix = "formkit:session:"

// RedisStore keeps session states as JSON documents with a sliding TTL.
// Values round-trip through JSON, so numbers come back as float64.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store on top of an established client.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// Create stores a new session state. An existing id is not overwritten.
func (s *RedisStore) Create(ctx context.Context, state State) error {
	if err := validState(state); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.key(state.ID), data, s.ttl).Result()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if !ok {
		return fmt.Errorf("session %q already exists: %w", state.ID, ErrInvalidState)
	}
	return nil
}

// Get retrieves a session state by id.
func (s *RedisStore) Get(ctx context.Context, id string) (State, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, ErrSessionNotFound
	}
	if err != nil {
		return State{}, errors.Join(ErrStoreUnavailable, err)
	}
	state, err := DecodeState(data)
	if err != nil {
		return State{}, err
	}
	return state.clone(), nil
}

// Update replaces an existing session state and refreshes its TTL.
func (s *RedisStore) Update(ctx context.Context, state State) error {
	if err := validState(state); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	ok, err := s.client.SetXX(ctx, s.key(state.ID), data, s.ttl).Result()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session state by id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}
