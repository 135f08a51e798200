package form

import (
	"context"
	"time"
)

// Store persists session snapshots between requests.
type Store interface {
	// Create stores a new session state.
	Create(ctx context.Context, state State) error

	// Get retrieves a session state by id.
	Get(ctx context.Context, id string) (State, error)

	// Update replaces an existing session state.
	Update(ctx context.Context, state State) error

	// Delete removes a session state by id.
	Delete(ctx context.Context, id string) error
}

// DefaultTTL is how long an idle session is kept by the stores.
const DefaultTTL = 24 * time.Hour

func validState(state State) error {
	if state.ID == "" || state.Form == "" {
		return ErrInvalidState
	}
	return nil
}
