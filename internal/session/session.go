// Package session tracks live SSH game sessions so the server can end them
// and wait for them on shutdown.
package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Session is one connected player.
type Session struct {
	ID      uuid.UUID
	User    string
	Started time.Time

	cancel context.CancelFunc
}

// Registry holds the live sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	logger   *log.Logger
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		logger:   logger,
	}
}

// Register adds a session for user. The returned context is cancelled when
// parent is done, when Shutdown runs or when the session is unregistered.
func (r *Registry) Register(parent context.Context, user string) (*Session, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		ID:      uuid.New(),
		User:    user,
		Started: time.Now(),
		cancel:  cancel,
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info("session registered", "id", s.ID, "user", user, "live", n)
	return s, ctx
}

// Unregister removes a session and releases its context.
func (r *Registry) Unregister(id uuid.UUID) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return
	}
	s.cancel()
	r.logger.Info("session ended", "id", id, "user", s.User,
		"duration", time.Since(s.Started).Round(time.Second), "live", n)
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Shutdown cancels every live session and waits for all of them to
// unregister, or until timeout. It reports whether the registry drained.
func (r *Registry) Shutdown(timeout time.Duration) bool {
	r.mu.RLock()
	for _, s := range r.sessions {
		s.cancel()
	}
	r.mu.RUnlock()

	// Wait for all sessions to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		remaining := r.Count()
		if remaining == 0 {
			return true
		}
		select {
		case <-deadline:
			r.logger.Warn("sessions still open after drain timeout", "remaining", remaining)
			return false
		case <-ticker.C:
		}
	}
}
