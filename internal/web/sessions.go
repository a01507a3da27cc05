package web

import (
	"context"
	"sync"
	"time"

	"quickcore/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MachineFactory builds a fresh state machine for a new browser session
type MachineFactory func() *session.Machine

type sessionEntry struct {
	machine  *session.Machine
	lastSeen time.Time
}

// SessionStore keeps one state machine per browser session, in memory only.
type SessionStore struct {
	newMachine MachineFactory
	ttl        time.Duration
	now        func() time.Time
	logger     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewSessionStore creates an empty store. A ttl of zero keeps sessions forever.
func NewSessionStore(newMachine MachineFactory, ttl time.Duration, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{
		newMachine: newMachine,
		ttl:        ttl,
		now:        time.Now,
		logger:     logger,
		sessions:   make(map[string]*sessionEntry),
	}
}

// Acquire returns the machine for id, creating a new session (and id) when id is unknown.
func (s *SessionStore) Acquire(id string) (string, *session.Machine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[id]; ok {
		entry.lastSeen = s.now()
		return id, entry.machine
	}

	id = uuid.NewString()
	entry := &sessionEntry{machine: s.newMachine(), lastSeen: s.now()}
	s.sessions[id] = entry
	activeSessions.Set(float64(len(s.sessions)))
	s.logger.Debug("Session created", zap.String("session_id", id))
	return id, entry.machine
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the ttl. Sessions with an attempt in flight are kept.
func (s *SessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for id, entry := range s.sessions {
		if entry.lastSeen.After(cutoff) || entry.machine.Snapshot().Loading {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	activeSessions.Set(float64(len(s.sessions)))

	if evicted > 0 {
		s.logger.Info("Expired sessions evicted", zap.Int("count", evicted), zap.Int("remaining", len(s.sessions)))
	}
	return evicted
}

// RunJanitor sweeps periodically until ctx is done.
func (s *SessionStore) RunJanitor(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}
	interval := s.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
