package roleplaysdk

import "sync"

// ──────────────────────────────────────────────
// TranscriptStore — pluggable conversation persistence
// ──────────────────────────────────────────────

// TranscriptStore persists conversation transcripts by conversation ID.
// The engine itself is stateless across process restarts; callers that
// need durable conversations load the transcript from a store and replay
// it through the analyzer and tracker.
//
// Implementations: InMemoryTranscriptStore (this package), Redis and MySQL
// backends in the store sub-module.
type TranscriptStore interface {
	// Append adds one entry to the end of the conversation.
	Append(conversationID string, entry TranscriptEntry) error

	// History returns entries in order. limit <= 0 means all entries from
	// offset onward.
	History(conversationID string, limit, offset int) ([]TranscriptEntry, error)

	// Length returns the number of entries in the conversation.
	Length(conversationID string) (int, error)

	// Clear removes the conversation entirely.
	Clear(conversationID string) error

	Close() error
}

// InMemoryTranscriptStore is a process-local TranscriptStore for tests and
// single-instance deployments.
type InMemoryTranscriptStore struct {
	mu   sync.RWMutex
	data map[string][]TranscriptEntry
}

// NewInMemoryTranscriptStore creates an empty in-memory store.
func NewInMemoryTranscriptStore() *InMemoryTranscriptStore {
	return &InMemoryTranscriptStore{
		data: make(map[string][]TranscriptEntry),
	}
}

func (s *InMemoryTranscriptStore) Append(conversationID string, entry TranscriptEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[conversationID] = append(s.data[conversationID], entry)
	return nil
}

func (s *InMemoryTranscriptStore) History(conversationID string, limit, offset int) ([]TranscriptEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.data[conversationID]
	if offset < 0 {
		offset = 0
	}
	if offset >= len(entries) {
		return []TranscriptEntry{}, nil
	}
	end := len(entries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]TranscriptEntry, end-offset)
	copy(out, entries[offset:end])
	return out, nil
}

func (s *InMemoryTranscriptStore) Length(conversationID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[conversationID]), nil
}

func (s *InMemoryTranscriptStore) Clear(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, conversationID)
	return nil
}

func (s *InMemoryTranscriptStore) Close() error {
	return nil
}

// Compile-time interface check.
var _ TranscriptStore = (*InMemoryTranscriptStore)(nil)
