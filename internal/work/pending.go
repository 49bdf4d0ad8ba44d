package work

import "sync"

// PendingStore keeps at most one incomplete entry per user while the bot
// waits for a client code. A new pending entry replaces any stale one for
// the same user; entries never expire on their own — they live until
// resolved, cancelled, or the process restarts.
type PendingStore struct {
	mu      sync.Mutex
	entries map[int64]*Entry
}

func NewPendingStore() *PendingStore {
	return &PendingStore{entries: make(map[int64]*Entry)}
}

// Put stores the pending entry for a user, replacing any previous one.
func (s *PendingStore) Put(userID int64, entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = entry
}

// Get returns the pending entry for a user, if any.
func (s *PendingStore) Get(userID int64) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[userID]
	return entry, ok
}

// Delete removes the pending entry for a user. Deleting a user with no
// pending entry is a no-op.
func (s *PendingStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}
