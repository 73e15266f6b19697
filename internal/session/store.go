package session

import (
	"context"
	"sync"
	"time"
)

// Store persists session state between requests and guards the single
// in-flight generation per session.
type Store interface {
	// Load returns the zero (idle) State for unknown ids.
	Load(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, id string, s State) error
	// Lock reports false when the session already holds the generation lock.
	Lock(ctx context.Context, id string) (bool, error)
	Unlock(ctx context.Context, id string) error
}

type memoryEntry struct {
	state   State
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Used when no Redis is configured.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]memoryEntry
	locks  map[string]struct{}
	now    func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:    ttl,
		states: map[string]memoryEntry{},
		locks:  map[string]struct{}{},
		now:    time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.states[id]
	if !ok {
		return State{Phase: PhaseIdle}, nil
	}
	if m.ttl > 0 && m.now().After(e.expires) {
		delete(m.states, id)
		return State{Phase: PhaseIdle}, nil
	}
	return e.state.clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, id string, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = memoryEntry{state: s.clone(), expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Lock(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[id]; held {
		return false, nil
	}
	m.locks[id] = struct{}{}
	return true, nil
}

func (m *MemoryStore) Unlock(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, id)
	return nil
}
