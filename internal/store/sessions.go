package store

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"easyapp_server/internal/metrics"
)

var ErrSessionNotFound = errors.New("session not found")

const DefaultSessionCapacity = 1024

// Sessions maps session ids to their stores. The least recently used session is dropped once
// capacity is reached, which ends it.
type Sessions struct {
	cache *lru.Cache[string, *Store]
}

func NewSessions(capacity int) (*Sessions, error) {
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	cache, err := lru.NewWithEvict[string, *Store](capacity, func(id string, _ *Store) {
		log.Printf("Session %s ended", id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &Sessions{cache: cache}, nil
}

// Create starts a new session with an Empty store.
func (s *Sessions) Create() (string, *Store) {
	id := uuid.NewString()
	st := New()
	s.cache.Add(id, st)
	metrics.SetActiveSessions(s.cache.Len())
	return id, st
}

func (s *Sessions) Get(id string) (*Store, error) {
	st, ok := s.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return st, nil
}

// Delete ends a session. It reports whether the session existed.
func (s *Sessions) Delete(id string) bool {
	removed := s.cache.Remove(id)
	metrics.SetActiveSessions(s.cache.Len())
	return removed
}

func (s *Sessions) Len() int {
	return s.cache.Len()
}
