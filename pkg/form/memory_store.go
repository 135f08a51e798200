package form

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// MemoryStore implements Store using in-memory storage.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	ticker  *time.Ticker
	done    chan struct{}
	closer  sync.Once
}

// NewMemoryStore creates an in-memory session store. Entries idle longer than
// ttl are dropped; a cleanupInterval of zero disables the background sweep.
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	store := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop(store.ticker.C)
	}

	return store
}

// Create stores a new session state.
func (m *MemoryStore) Create(ctx context.Context, state State) error {
	if err := validState(state); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[state.ID] = memoryEntry{state: state.clone(), expiresAt: time.Now().Add(m.ttl)}
	return nil
}

// Get retrieves a session state by id.
func (m *MemoryStore) Get(ctx context.Context, id string) (State, error) {
	m.mu.RLock()
	entry, exists := m.entries[id]
	m.mu.RUnlock()

	if !exists {
		return State{}, ErrSessionNotFound
	}

	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return State{}, ErrSessionNotFound
	}

	return entry.state.clone(), nil
}

// Update replaces an existing session state and extends its lifetime.
func (m *MemoryStore) Update(ctx context.Context, state State) error {
	if err := validState(state); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.entries[state.ID]
	if !exists || time.Now().After(entry.expiresAt) {
		delete(m.entries, state.ID)
		return ErrSessionNotFound
	}

	m.entries[state.ID] = memoryEntry{state: state.clone(), expiresAt: time.Now().Add(m.ttl)}
	return nil
}

// Delete removes a session state by id.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[id]; !exists {
		return ErrSessionNotFound
	}
	delete(m.entries, id)
	return nil
}

// DeleteExpired removes all expired entries.
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, id)
		}
	}

	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close stops the cleanup goroutine.
func (m *MemoryStore) Close() error {
	m.closer.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
			close(m.done)
		}
	})
	return nil
}

func (m *MemoryStore) cleanupLoop(tick <-chan time.Time) {
	for {
		select {
		case <-tick:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
