package chat

import (
	"sync"
	"time"
)

// TranscriptStore keeps one transcript per visitor, keyed by an opaque
// token. Entries expire after the TTL so abandoned conversations do not
// accumulate.
type TranscriptStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*transcriptEntry
}

type transcriptEntry struct {
	transcript *Transcript
	lastSeen   time.Time
}

// NewTranscriptStore creates an empty store whose entries expire ttl
// after their last use.
func NewTranscriptStore(ttl time.Duration) *TranscriptStore {
	return &TranscriptStore{
		ttl:     ttl,
		entries: make(map[string]*transcriptEntry),
	}
}

// Get returns the transcript for token, creating a greeting-seeded one on
// first use. Each call refreshes the entry's expiry and prunes expired
// entries.
// PRE: token is non-empty
// POST: the same token always maps to the same live transcript
func (s *TranscriptStore) Get(token string) *Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.entries, key)
		}
	}

	e, ok := s.entries[token]
	if !ok {
		e = &transcriptEntry{transcript: NewTranscript()}
		s.entries[token] = e
	}
	e.lastSeen = now
	return e.transcript
}

// Len returns the number of live transcripts.
func (s *TranscriptStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
