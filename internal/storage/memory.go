// Package storage keeps checklist sessions, either in memory or as one
// YAML file per session on disk.
package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.SessionStore = (*MemoryStore)(nil)
	_ domain.SessionStore = (*FileStore)(nil)
)

var errNoID = errors.New("session has no ID")

// MemoryStore holds sessions in a map. Safe for concurrent use. The store
// keeps its own copies: changing a loaded session has no effect until it
// is saved again.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]*domain.Session
	log  *logger.Logger
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	if log == nil {
		log = logger.New(logger.LevelOff, nil)
	}
	return &MemoryStore{byID: make(map[string]*domain.Session), log: log}
}

// Save stores a copy of session, replacing any earlier version.
func (s *MemoryStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return errNoID
	}
	s.put(session)
	s.log.Debug("session %s saved: %s, %d/%d steps", session.ID, session.Status, session.Done(), len(session.Steps))
	return nil
}

// Load returns a copy of the session with the given ID.
func (s *MemoryStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.byID[id]; ok {
		return copySession(sess), nil
	}
	return nil, domain.ErrNotFound
}

// Delete drops a session.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

// ListActive returns the active sessions, oldest first.
func (s *MemoryStore) ListActive(ctx context.Context) ([]*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.where(func(sess *domain.Session) bool {
		return sess.Status == domain.SessionActive
	}), nil
}

// finished lists the completed and abandoned sessions last updated before
// cutoff.
func (s *MemoryStore) finished(cutoff time.Time) []*domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.where(func(sess *domain.Session) bool {
		return sess.Status != domain.SessionActive && sess.UpdatedAt.Before(cutoff)
	})
}

// where returns copies of the matching sessions ordered by start time.
// Callers hold the lock.
func (s *MemoryStore) where(keep func(*domain.Session) bool) []*domain.Session {
	var out []*domain.Session
	for _, sess := range s.byID {
		if keep(sess) {
			out = append(out, copySession(sess))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

func (s *MemoryStore) put(session *domain.Session) {
	s.mu.Lock()
	s.byID[session.ID] = copySession(session)
	s.mu.Unlock()
}

func copySession(s *domain.Session) *domain.Session {
	c := *s
	c.Steps = append([]string(nil), s.Steps...)
	c.StepStates = append([]domain.StepState(nil), s.StepStates...)
	return &c
}
