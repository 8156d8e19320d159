package analysis

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/asanchez/divicast/internal/models"
)

// sessionStore keeps per-UI-session state with TTL eviction. Sessions are
// process-local and disposable: eviction simply returns a session to empty.
type sessionStore struct {
	cache *gocache.Cache
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{cache: gocache.New(ttl, 2*ttl)}
}

// get returns the session for id, creating it when absent, and refreshes
// its TTL.
func (s *sessionStore) get(id string) *session {
	if v, ok := s.cache.Get(id); ok {
		sess := v.(*session)
		s.cache.SetDefault(id, sess)
		return sess
	}
	sess := &session{id: id, state: models.SessionEmpty, updatedAt: time.Now().UTC()}
	s.cache.SetDefault(id, sess)
	return sess
}

// peek returns the session for id without creating one.
func (s *sessionStore) peek(id string) *session {
	if v, ok := s.cache.Get(id); ok {
		return v.(*session)
	}
	return nil
}

// session holds one UI session's visible analysis state. All transitions go
// through the mutex so the view never observes a half-updated mix of two
// requests' records; requestID comparison enforces last-request-wins.
type session struct {
	mu        sync.Mutex
	id        string
	state     models.SessionState
	month     string
	year      int
	summary   *models.AnalysisSummary
	errMsg    string
	requestID string // most recently issued request
	updatedAt time.Time
}

// beginLoading records a newly issued request and moves the session to
// loading, clearing any prior result.
func (s *session) beginLoading(requestID, month string, year int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestID = requestID
	s.state = models.SessionLoading
	s.month = month
	s.year = year
	s.summary = nil
	s.errMsg = ""
	s.updatedAt = time.Now().UTC()
}

// applyResult publishes a validated summary. Returns false when the result
// belongs to a superseded request and was discarded.
func (s *session) applyResult(requestID string, summary *models.AnalysisSummary) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if requestID != s.requestID {
		return false
	}
	s.state = models.SessionReady
	s.summary = summary
	s.errMsg = ""
	s.updatedAt = time.Now().UTC()
	return true
}

// applyFailure publishes the generic error state. Returns false when the
// failure belongs to a superseded request and was discarded.
func (s *session) applyFailure(requestID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if requestID != s.requestID {
		return false
	}
	s.state = models.SessionError
	s.summary = nil
	s.errMsg = models.UserFacingError
	s.updatedAt = time.Now().UTC()
	return true
}

// reset returns the session to the empty state.
func (s *session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestID = ""
	s.state = models.SessionEmpty
	s.month = ""
	s.year = 0
	s.summary = nil
	s.errMsg = ""
	s.updatedAt = time.Now().UTC()
}

// snapshot returns an immutable view of the session. The summary pointer is
// shared; summaries are never mutated once published.
func (s *session) snapshot() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.Session{
		ID:        s.id,
		State:     s.state,
		Month:     s.month,
		Year:      s.year,
		Summary:   s.summary,
		Error:     s.errMsg,
		UpdatedAt: s.updatedAt,
	}
}
