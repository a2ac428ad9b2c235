package assistant

import (
	"sync"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	Role    string
	Content string
	At      time.Time
}

// Store keeps conversation transcripts in memory, keyed by conversation ID.
// Safe for concurrent use. Transcripts live until explicitly deleted.
type Store struct {
	mu    sync.RWMutex
	turns map[string][]Turn
	subs  map[string]map[chan Turn]struct{}
}

func NewStore() *Store {
	return &Store{
		turns: make(map[string][]Turn),
		subs:  make(map[string]map[chan Turn]struct{}),
	}
}

// Append records a turn and notifies any watchers of the conversation.
// Slow watchers miss turns rather than blocking the writer.
func (s *Store) Append(conversationID string, turn Turn) {
	if turn.At.IsZero() {
		turn.At = time.Now()
	}
	s.mu.Lock()
	s.turns[conversationID] = append(s.turns[conversationID], turn)
	for ch := range s.subs[conversationID] {
		select {
		case ch <- turn:
		default:
		}
	}
	s.mu.Unlock()
}

// History returns up to the last n turns, oldest first. The returned slice
// is a copy.
func (s *Store) History(conversationID string, n int) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.turns[conversationID]
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	out := make([]Turn, len(all))
	copy(out, all)
	return out
}

// Delete removes a conversation's transcript. Returns whether it existed.
// Watchers stay subscribed; they simply receive nothing further.
func (s *Store) Delete(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.turns[conversationID]
	delete(s.turns, conversationID)
	return ok
}

// Subscribe registers a watcher for new turns in a conversation. The caller
// must invoke the returned cancel func when done.
func (s *Store) Subscribe(conversationID string) (<-chan Turn, func()) {
	ch := make(chan Turn, 16)
	s.mu.Lock()
	if s.subs[conversationID] == nil {
		s.subs[conversationID] = make(map[chan Turn]struct{})
	}
	s.subs[conversationID][ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if set, ok := s.subs[conversationID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(s.subs, conversationID)
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel
}
