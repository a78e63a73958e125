package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coursecraft/instructor-console/internal/models"
	"github.com/coursecraft/instructor-console/internal/notify"
	"github.com/coursecraft/instructor-console/internal/store"
)

// DefaultSessionTTL is how long an idle session survives
const DefaultSessionTTL = 2 * time.Hour

// Session is one instructor's editing context: their backend token, their
// course tree store, their notification relay and the editor over them.
// One store per session keeps the single-writer contract; two sessions never
// share state.
type Session struct {
	ID       string
	Token    string
	User     models.User
	Editor   *Editor
	lastSeen time.Time
}

// APIFactory builds the entity API for a new session. The token source
// yields that session's bearer token; onUnauthorized fires when the remote
// backend rejects the token, at which point the session must die.
type APIFactory func(tokenSource func() string, onUnauthorized func()) EntityAPI

// SessionManager owns every live session and expires idle ones
type SessionManager struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	ttl        time.Duration
	maxHistory int
	factory    APIFactory
	logger     *zap.Logger
}

// NewSessionManager creates a session manager.
// maxHistory bounds each session store's undo stack; zero keeps the default.
func NewSessionManager(ttl time.Duration, maxHistory int, factory APIFactory, logger *zap.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		sessions:   make(map[string]*Session),
		ttl:        ttl,
		maxHistory: maxHistory,
		factory:    factory,
		logger:     logger,
	}
}

// Create mints a session for an authenticated instructor.
// The session's API client forwards the backend token on every call; any 401
// from the backend destroys the session (the global logout side effect).
func (m *SessionManager) Create(user models.User, token string) *Session {
	id := uuid.New().String()

	sess := &Session{
		ID:       id,
		Token:    token,
		User:     user,
		lastSeen: time.Now(),
	}

	var opts []store.Option
	if m.maxHistory > 0 {
		opts = append(opts, store.WithMaxHistory(m.maxHistory))
	}
	st := store.New(opts...)
	relay := notify.NewRelay()

	api := m.factory(
		func() string { return sess.Token },
		func() { m.Destroy(id) },
	)
	sess.Editor = NewEditor(api, st, relay, m.logger.With(zap.String("session_id", id)))

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = sess

	m.logger.Info("session created",
		zap.String("session_id", id),
		zap.Int("user_id", user.ID),
	)
	return sess
}

// Get returns a live session and refreshes its idle timer.
// Expired sessions are removed and reported as missing.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(sess.lastSeen) > m.ttl {
		delete(m.sessions, id)
		return nil, false
	}
	sess.lastSeen = time.Now()
	return sess, true
}

// Destroy removes a session. Safe to call for unknown IDs.
func (m *SessionManager) Destroy(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		m.logger.Info("session destroyed", zap.String("session_id", id))
	}
}

// Len reports the number of live sessions
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run sweeps expired sessions until the context ends
func (m *SessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *SessionManager) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, sess := range m.sessions {
		if now.Sub(sess.lastSeen) > m.ttl {
			delete(m.sessions, id)
			m.logger.Info("session expired", zap.String("session_id", id))
		}
	}
}
