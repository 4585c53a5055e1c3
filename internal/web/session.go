package web

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/justestif/go-mood-journal/internal/likes"
)

const (
	sessionCookieName = "session_id"
	sessionTTL        = 24 * time.Hour
)

// Session is an anonymous browser session holding the liked tracks.
type Session struct {
	ID        string
	Likes     *likes.Set
	CreatedAt time.Time
}

// SessionStore manages sessions in memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create generates a new empty session.
func (s *SessionStore) Create() (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        id,
		Likes:     likes.NewSet(),
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[id] = session
	s.mu.Unlock()

	return session, nil
}

// Get retrieves a live session by ID.
func (s *SessionStore) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || s.now().Sub(session.CreatedAt) > sessionTTL {
		return nil
	}
	return session
}

// GetFromRequest extracts the session from the request cookie.
func (s *SessionStore) GetFromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	return s.Get(cookie.Value)
}

// GetOrCreate returns the request's session, starting a new one and setting
// its cookie when there is none.
func (s *SessionStore) GetOrCreate(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if session := s.GetFromRequest(r); session != nil {
		return session, nil
	}
	session, err := s.Create()
	if err != nil {
		return nil, err
	}
	setCookie(w, session)
	return session, nil
}

func (s *SessionStore) pruneLocked() {
	for id, session := range s.sessions {
		if s.now().Sub(session.CreatedAt) > sessionTTL {
			delete(s.sessions, id)
		}
	}
}

// generateSessionID creates a cryptographically random session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func setCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}
