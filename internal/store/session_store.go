package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Baotq1406/Flashcards-ENG/internal/domain"
	"github.com/Baotq1406/Flashcards-ENG/internal/platform/blobstore"
)

// sessionsKey is the blob key the study-session history is persisted under.
const sessionsKey = "study_sessions"

// SessionStore keeps the append-only study-session history. Unlike cards
// there is no seed data: an absent or corrupt blob just means an empty
// history.
type SessionStore struct {
	mu       sync.RWMutex
	sessions []domain.StudySession
	blob     blobstore.Store
	logger   *slog.Logger
}

// NewSessionStore creates a SessionStore backed by blob.
func NewSessionStore(blob blobstore.Store, logger *slog.Logger) (*SessionStore, error) {
	if blob == nil {
		panic("blob cannot be nil for SessionStore")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &SessionStore{
		blob:   blob,
		logger: logger.With(slog.String("component", "session_store")),
	}

	raw, ok, err := blob.Get(sessionsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.sessions); err != nil {
			s.logger.Warn("persisted sessions are unparseable, starting empty",
				slog.String("error", err.Error()))
			s.sessions = nil
		}
	}

	return s, nil
}

// Append records a finished study session and persists the history.
func (s *SessionStore) Append(session domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = append(s.sessions, session)

	data, err := json.Marshal(s.sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}
	if err := s.blob.Set(sessionsKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist sessions: %w", err)
	}
	return nil
}

// All returns a snapshot copy of the history, oldest first.
func (s *SessionStore) All() []domain.StudySession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.StudySession, len(s.sessions))
	copy(out, s.sessions)
	return out
}
