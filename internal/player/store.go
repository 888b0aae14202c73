package player

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kapu/slack-pool-bot-go/internal/backend"
)

// ErrNotFound is returned by Get for ids the cache has never seen.
var ErrNotFound = errors.New("player not found")

// ProfileSource fetches a single fresh profile from the backend. Satisfied
// by *backend.Client.
type ProfileSource interface {
	Player(ctx context.Context, id string) (*backend.Profile, error)
}

// Store is the process-lifetime player cache: read-preferring, written
// through after every backend mutation, rebuilt from the roster on restart.
// Insertion order is retained so leaderboard ties break deterministically.
//
// All writes happen from the single message-processing goroutine; the mutex
// only guards against incidental reads from elsewhere (startup, logging).
type Store struct {
	mu     sync.RWMutex
	source ProfileSource

	records map[string]*Record
	order   []string
}

func NewStore(source ProfileSource) *Store {
	return &Store{
		source:  source,
		records: make(map[string]*Record),
	}
}

// Get returns a copy of the cached record. Mutations must go through Apply
// or UpsertFromBackend so the write-through contract stays auditable.
func (s *Store) Get(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *rec, nil
}

// Put stores a full record, keeping the first-seen insertion position.
func (s *Store) Put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(rec)
}

func (s *Store) put(rec Record) {
	if _, ok := s.records[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	clone := rec
	s.records[rec.ID] = &clone
}

// UpsertFromBackend fetches the player's current profile and merges it over
// the cached record (creating one for an unseen id). This is the only path
// that takes a cache entry from empty or stale to fresh.
func (s *Store) UpsertFromBackend(ctx context.Context, id string) (Record, error) {
	profile, err := s.source.Player(ctx, id)
	if err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		rec = &Record{ID: id}
		s.records[id] = rec
		s.order = append(s.order, id)
	}
	rec.MergeProfile(profile)
	return *rec, nil
}

// Apply merges field updates without a backend round trip. Use it when a
// write endpoint already returned the new state.
func (s *Store) Apply(id string, mutate func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	mutate(rec)
	return nil
}

// Identity is the chat-side half of a record, as learned from the roster.
type Identity struct {
	ID     string
	Name   string
	Joined string
	IsBot  bool
}

// Prime seeds the cache from the workspace roster merged with the backend's
// player list. Bots are skipped. Members without a backend profile are
// cached identity-only and returned so the caller can register them.
func (s *Store) Prime(roster []Identity, profiles []backend.Profile) []Identity {
	byID := make(map[string]*backend.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].SlackID] = &profiles[i]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var missing []Identity
	for _, ident := range roster {
		if ident.IsBot {
			continue
		}
		rec := Record{
			ID:     ident.ID,
			Name:   ident.Name,
			Joined: ident.Joined,
		}
		if profile, ok := byID[ident.ID]; ok {
			rec.MergeProfile(profile)
		} else {
			missing = append(missing, ident)
		}
		s.put(rec)
	}
	return missing
}

// Len reports how many players are cached.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// each visits records in insertion order while holding the read lock.
func (s *Store) each(visit func(*Record)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		visit(s.records[id])
	}
}
