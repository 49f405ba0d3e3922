package ledger

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrLedgerNotFound indicates the session ledger does not exist or expired.
var ErrLedgerNotFound = errors.New("ledger not found")

type entry struct {
	ledger    *Ledger
	expiresAt time.Time
}

// Store owns the per-session ledgers. Each interactive session holds one
// ledger addressed by an opaque id; access slides the expiry forward.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*entry
}

// NewStore constructs a session store with the given ledger lifetime.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create registers a fresh empty ledger and returns its session id.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{ledger: New(), expiresAt: s.now().Add(s.ttl)}
	s.sweepLocked()
	return id
}

// Get resolves a session ledger and extends its lifetime.
func (s *Store) Get(id string) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrLedgerNotFound
	}
	now := s.now()
	if e.expiresAt.Before(now) {
		delete(s.sessions, id)
		return nil, ErrLedgerNotFound
	}
	e.expiresAt = now.Add(s.ttl)
	return e.ledger, nil
}

// Delete discards a session ledger. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) sweepLocked() {
	now := s.now()
	for id, e := range s.sessions {
		if e.expiresAt.Before(now) {
			delete(s.sessions, id)
		}
	}
}
