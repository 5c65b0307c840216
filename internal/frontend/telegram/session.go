package telegram

import (
	"sync"

	"github.com/vadimtrunov/StreamShelf/internal/browse"
)

// sessionManager manages per-user browsing sessions and access control.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[int64]*browse.Session
	allowed  map[int64]bool // nil or empty = allow all
}

// newSessionManager creates a session manager.
// If allowedUserIDs is empty, all users are allowed.
func newSessionManager(allowedUserIDs []int64) *sessionManager {
	allowed := make(map[int64]bool, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = true
	}
	return &sessionManager{
		sessions: make(map[int64]*browse.Session),
		allowed:  allowed,
	}
}

// isAllowed checks if a user is authorized to use the bot.
func (sm *sessionManager) isAllowed(userID int64) bool {
	if len(sm.allowed) == 0 {
		return true
	}
	return sm.allowed[userID]
}

// getOrCreate returns an existing session or creates a new one using the factory.
func (sm *sessionManager) getOrCreate(userID int64, factory func() *browse.Session) *browse.Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s, ok := sm.sessions[userID]; ok {
		return s
	}
	s := factory()
	sm.sessions[userID] = s
	return s
}

// reset drops a user's session so the next message starts fresh.
func (sm *sessionManager) reset(userID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, userID)
}
