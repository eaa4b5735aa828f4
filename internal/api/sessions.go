package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Baotq1406/Flashcards-ENG/internal/service/quiz"
	"github.com/Baotq1406/Flashcards-ENG/internal/service/study"
)

// SessionRegistry tracks the live study and quiz sessions by id. Quiz
// sessions get a ticker goroutine driving their countdown; the engine's
// own phase guard makes ticks after an answer harmless, so the ticker only
// stops when the session is removed.
type SessionRegistry struct {
	mu           sync.Mutex
	study        map[string]*study.Session
	quiz         map[string]*quizEntry
	tickInterval time.Duration
}

type quizEntry struct {
	session *quiz.Session
	stop    chan struct{}
}

// NewSessionRegistry creates an empty registry with a one-second quiz tick.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		study:        make(map[string]*study.Session),
		quiz:         make(map[string]*quizEntry),
		tickInterval: time.Second,
	}
}

// AddStudy registers a study session and returns its id.
func (r *SessionRegistry) AddStudy(s *study.Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.study[id] = s
	r.mu.Unlock()
	return id
}

// Study returns the study session with the given id.
func (r *SessionRegistry) Study(id string) (*study.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.study[id]
	return s, ok
}

// RemoveStudy drops a study session from the registry.
func (r *SessionRegistry) RemoveStudy(id string) {
	r.mu.Lock()
	delete(r.study, id)
	r.mu.Unlock()
}

// AddQuiz registers a quiz session, starts its countdown ticker, and
// returns its id.
func (r *SessionRegistry) AddQuiz(s *quiz.Session) string {
	id := uuid.NewString()
	entry := &quizEntry{session: s, stop: make(chan struct{})}

	r.mu.Lock()
	r.quiz[id] = entry
	interval := r.tickInterval
	r.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-entry.stop:
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()

	return id
}

// Quiz returns the quiz session with the given id.
func (r *SessionRegistry) Quiz(id string) (*quiz.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.quiz[id]
	if !ok {
		return nil, false
	}
	return entry.session, true
}

// RemoveQuiz stops a quiz session's ticker and drops it from the registry.
func (r *SessionRegistry) RemoveQuiz(id string) {
	r.mu.Lock()
	entry, ok := r.quiz[id]
	if ok {
		delete(r.quiz, id)
	}
	r.mu.Unlock()

	if ok {
		close(entry.stop)
	}
}

// Close stops every quiz ticker. Called on server shutdown.
func (r *SessionRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.quiz {
		close(entry.stop)
		delete(r.quiz, id)
	}
	for id := range r.study {
		delete(r.study, id)
	}
}
