package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/RezaEskandarii/jobconsole/internal/console"
	"github.com/google/uuid"
)

const sessionCookieName = "console_session"

type session struct {
	page     *console.Page
	lastSeen time.Time
}

// sessionStore keeps one console page per browser session.
type sessionStore struct {
	newPage func() *console.Page
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	pages map[string]*session
}

func newSessionStore(newPage func() *console.Page, ttl time.Duration) *sessionStore {
	return &sessionStore{
		newPage: newPage,
		ttl:     ttl,
		now:     time.Now,
		pages:   make(map[string]*session),
	}
}

// page returns the caller's page, creating a session when there is none. fresh is
// true when the page has never been mounted.
func (s *sessionStore) page(w http.ResponseWriter, r *http.Request) (p *console.Page, fresh bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(now)

	if c, err := r.Cookie(sessionCookieName); err == nil {
		if sess, ok := s.pages[c.Value]; ok {
			sess.lastSeen = now
			return sess.page, false
		}
	}

	id := uuid.NewString()
	sess := &session{page: s.newPage(), lastSeen: now}
	s.pages[id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess.page, true
}

// existing returns the caller's page without creating one.
func (s *sessionStore) existing(r *http.Request) (*console.Page, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.pages[c.Value]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.page, true
}

func (s *sessionStore) drop(r *http.Request) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.pages, c.Value)
	s.mu.Unlock()
}

func (s *sessionStore) evictLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.pages {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.pages, id)
		}
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}
