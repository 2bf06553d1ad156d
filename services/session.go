package services

import (
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"parking-dashboard/models"
)

// SessionStore keeps each browser session's feedback submissions in memory.
// Lists are append-only and expire ttl after the session's last submission.
type SessionStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	cache *cache.Cache
}

// NewSessionStore creates a store whose entries expire after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:   ttl,
		cache: cache.New(ttl, 2*ttl),
	}
}

// AppendFeedback records message for the session and returns the number of
// submissions the session now holds. Blank messages are ignored.
func (s *SessionStore) AppendFeedback(sessionID, message string, at time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.feedbackLocked(sessionID)
	message = strings.TrimSpace(message)
	if message == "" {
		return len(list)
	}

	next := make([]models.Feedback, len(list), len(list)+1)
	copy(next, list)
	next = append(next, models.Feedback{Message: message, SubmittedAt: at})
	s.cache.Set(sessionKey(sessionID), next, s.ttl)
	return len(next)
}

// Feedback returns a copy of the session's submissions, oldest first.
func (s *SessionStore) Feedback(sessionID string) []models.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Feedback(nil), s.feedbackLocked(sessionID)...)
}

// Sessions returns the number of live sessions.
func (s *SessionStore) Sessions() int {
	return s.cache.ItemCount()
}

func (s *SessionStore) feedbackLocked(sessionID string) []models.Feedback {
	v, ok := s.cache.Get(sessionKey(sessionID))
	if !ok {
		return nil
	}
	list, _ := v.([]models.Feedback)
	return list
}

func sessionKey(id string) string {
	return "feedback:" + id
}
