package store

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/sweeper/internal/mines"
)

var ErrNotFound = errors.New("game session not found")

// Entry is one live game session. The session itself is only reachable
// through Do, which serializes actions on it. GameID names the current
// board and changes on every restart; ID stays fixed for the session.
type Entry struct {
	ID string

	mu         sync.Mutex
	session    *mines.Session
	gameID     string
	startedAt  time.Time
	endedAt    *time.Time
	lastAccess time.Time
}

// Do runs fn with exclusive access to the session, stamps the end time the
// first time the session is seen in a terminal state, and returns the state
// as fn left it.
func (e *Entry) Do(fn func(s *mines.Session) error) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := fn(e.session)
	now := time.Now().UTC()
	if !e.session.CanMutate() && e.endedAt == nil {
		e.endedAt = &now
	}
	e.lastAccess = now
	return e.snapshot(), err
}

// Restart swaps in a fresh board under a new game id and resets the
// timestamps.
func (e *Entry) Restart(rnd *rand.Rand) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.session.Restart(rnd); err != nil {
		return Snapshot{}, err
	}
	e.gameID = uuid.NewString()
	e.startedAt = time.Now().UTC()
	e.endedAt = nil
	e.lastAccess = e.startedAt
	return e.snapshot(), nil
}

// Snapshot is a consistent copy of an entry taken under its lock.
type Snapshot struct {
	ID        string
	GameID    string
	View      mines.BoardView
	Revealed  int
	StartedAt time.Time
	EndedAt   *time.Time
}

func (e *Entry) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastAccess = time.Now().UTC()
	return e.snapshot()
}

func (e *Entry) snapshot() Snapshot {
	snap := Snapshot{
		ID:        e.ID,
		GameID:    e.gameID,
		View:      e.session.View(),
		Revealed:  e.session.Board().RevealedCount(),
		StartedAt: e.startedAt,
	}
	if e.endedAt != nil {
		ended := *e.endedAt
		snap.EndedAt = &ended
	}
	return snap
}

// expired reports whether the entry has sat untouched for idleTTL, or has
// been finished for finishedTTL. A zero TTL disables that rule.
func (e *Entry) expired(now time.Time, idleTTL, finishedTTL time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idleTTL > 0 && now.Sub(e.lastAccess) >= idleTTL {
		return true
	}
	return finishedTTL > 0 && e.endedAt != nil && now.Sub(*e.endedAt) >= finishedTTL
}

// Store keeps live sessions in memory. Nothing survives a restart; entries
// leave through Delete or Sweep.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func New() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

func (s *Store) Create(session *mines.Session) *Entry {
	now := time.Now().UTC()
	e := &Entry{
		ID:         uuid.NewString(),
		session:    session,
		gameID:     uuid.NewString(),
		startedAt:  now,
		lastAccess: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e
	return e
}

func (s *Store) Get(id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep drops expired entries and returns how many were removed.
func (s *Store) Sweep(now time.Time, idleTTL, finishedTTL time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.entries {
		if e.expired(now, idleTTL, finishedTTL) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}
