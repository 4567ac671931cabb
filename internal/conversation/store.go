package conversation

import (
	"sync"

	"github.com/charantamarapu/llama4aibot/internal/models"
)

// MaxTurns bounds how many turns are retained per user. Once the cap is
// reached the oldest turns are dropped first.
const MaxTurns = 10

type history struct {
	mu    sync.Mutex
	turns []models.Turn
}

// Store holds per-user conversation history in memory. State lives only for
// the lifetime of the process; nothing is persisted.
type Store struct {
	mu    sync.RWMutex
	users map[int64]*history
}

func NewStore() *Store {
	return &Store{users: make(map[int64]*history)}
}

// user returns the history entry for id, creating it if needed. The
// store-wide lock guards only the map access; each user's mutations are
// serialized on the entry's own mutex so users never block each other.
func (s *Store) user(id int64) *history {
	s.mu.RLock()
	h, ok := s.users[id]
	s.mu.RUnlock()
	if ok {
		return h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.users[id]; ok {
		return h
	}
	h = &history{}
	s.users[id] = h
	return h
}

// Append adds a turn to the user's history, dropping the oldest turns once
// the history would exceed MaxTurns.
func (s *Store) Append(userID int64, role, content string) {
	h := s.user(userID)
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, models.Turn{Role: role, Content: content})
	if len(h.turns) > MaxTurns {
		h.turns = append([]models.Turn(nil), h.turns[len(h.turns)-MaxTurns:]...)
	}
}

// History returns a copy of the user's turns, oldest first. Users that have
// never sent a message get an empty slice. Callers own the returned slice,
// so no lock is held while it is used.
func (s *Store) History(userID int64) []models.Turn {
	h := s.user(userID)
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]models.Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Clear resets the user's history to empty. Idempotent; safe to call for
// users with no prior entries.
func (s *Store) Clear(userID int64) {
	h := s.user(userID)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}
