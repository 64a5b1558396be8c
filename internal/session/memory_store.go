package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/GTDGit/catalog_assistant/internal/utils"
)

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Entries expire lazily once
// they have been idle for longer than the TTL.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore creates a MemoryStore with the given idle TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns a copy of the stored session so callers never share state.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	item, ok := m.items[id]
	if ok && m.now().After(item.expiresAt) {
		delete(m.items, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, utils.ErrSessionNotFound
	}

	var s Session
	if err := json.Unmarshal(item.data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Save stores the session and refreshes its TTL.
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = m.now()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	m.mu.Lock()
	m.items[s.ID] = memoryItem{data: data, expiresAt: s.UpdatedAt.Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
	return nil
}

// Sweep drops every expired session and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, item := range m.items {
		if now.After(item.expiresAt) {
			delete(m.items, id)
			removed++
		}
	}
	return removed
}
