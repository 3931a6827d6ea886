package conversation

import (
	"context"
	"sync"
)

// Role identifies who produced a history entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is a single exchanged message in a sender's history.
type Entry struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

const (
	// maxHistoryEntries is the length at which a history gets trimmed.
	maxHistoryEntries = 10
	// keepHistoryEntries is how many of the newest entries survive a trim.
	keepHistoryEntries = 5
)

// Store keeps a bounded ordered message history per sender. Histories are
// created on first append and live for the lifetime of the backing store;
// there is no time-based expiry.
type Store interface {
	// Append adds an entry to the sender's history, creating it if absent.
	Append(ctx context.Context, sender string, role Role, text string) error
	// Recent returns the sender's current (already-trimmed) history in
	// arrival order. An unknown sender yields an empty slice.
	Recent(ctx context.Context, sender string) ([]Entry, error)
}

// trimHistory applies the batch trim policy: once a history grows past
// maxHistoryEntries it is replaced by its newest keepHistoryEntries. This is
// deliberately not a sliding window; between trims the history grows freely.
func trimHistory(entries []Entry) []Entry {
	if len(entries) <= maxHistoryEntries {
		return entries
	}
	return entries[len(entries)-keepHistoryEntries:]
}

// MemoryStore is the default in-process Store. Appends for different senders
// never block each other beyond the map lock; concurrent appends for the same
// sender are serialized by the lock but interleaving across requests is still
// possible and accepted.
type MemoryStore struct {
	mu        sync.RWMutex
	histories map[string][]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{histories: make(map[string][]Entry)}
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, sender string, role Role, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[sender] = trimHistory(append(s.histories[sender], Entry{Role: role, Text: text}))
	return nil
}

// Recent implements Store.
func (s *MemoryStore) Recent(_ context.Context, sender string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.histories[sender]
	out := make([]Entry, len(history))
	copy(out, history)
	return out, nil
}
