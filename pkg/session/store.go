// pkg/session/store.go

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quotation-billing/pkg/invoice"
	"go.uber.org/zap"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store keeps sessions in memory and forgets them after they have been
// idle for longer than the TTL. Sessions are never shared between users.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	ttl      time.Duration
	defaults invoice.Details
	now      func() time.Time
	logger   *zap.Logger
}

// NewStore creates a store. New sessions start with defaults filled in.
// A ttl of zero keeps sessions until they are ended explicitly.
func NewStore(ttl time.Duration, defaults invoice.Details, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		defaults: defaults,
		now:      time.Now,
		logger:   logger,
	}
}

// Create starts a new session with an empty ledger.
func (s *Store) Create() *Session {
	sess := newSession(s.defaults, s.now())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("session started", zap.String("session_id", sess.ID.String()))
	return sess
}

// Get returns a live session and marks it as used.
func (s *Store) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	now := s.now()
	if s.expired(sess, now) {
		s.End(id)
		return nil, ErrNotFound
	}
	sess.touch(now)
	return sess, nil
}

// End discards a session and its temporary files.
func (s *Store) End(id uuid.UUID) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.release()
		s.logger.Info("session ended", zap.String("session_id", id.String()))
	}
	return ok
}

// Len reports the number of sessions held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep ends every expired session and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.RLock()
	stale := make([]uuid.UUID, 0)
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range stale {
		if s.End(id) {
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until ctx is done.
func (s *Store) Run(ctx context.Context, every time.Duration) {
	if s.ttl <= 0 || every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

// Close ends every session.
func (s *Store) Close() {
	s.mu.RLock()
	ids := make([]uuid.UUID, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		s.End(id)
	}
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.idleSince()) > s.ttl
}
