// Package study implements the self-paced study walk: a fixed ordered deck,
// a current position, and per-card correct/incorrect marking that feeds the
// card store's counters.
package study

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Baotq1406/Flashcards-ENG/internal/domain"
	"github.com/Baotq1406/Flashcards-ENG/internal/store"
)

// ErrNothingToStudy is returned when a session is started with no cards.
var ErrNothingToStudy = errors.New("no cards to study")

// CardReviewer records a review result against the card collection.
// *store.CardStore satisfies it.
type CardReviewer interface {
	RecordReview(id string, correct bool) (domain.Card, error)
}

// Session is one study run over a fixed ordered deck. Navigation is
// clamped to the deck bounds; marking a card updates its counters through
// the reviewer and then advances.
type Session struct {
	mu        sync.Mutex
	deck      []domain.Card
	idx       int
	showBack  bool
	studied   map[string]struct{}
	correct   int
	incorrect int
	startTime time.Time
	reviewer  CardReviewer
	logger    *slog.Logger
}

// State is a snapshot of the session for rendering.
type State struct {
	Card         domain.Card
	Index        int
	Total        int
	ShowBack     bool
	StudiedCount int
	Completed    bool
}

// NewSession starts a study session over deck.
// Returns ErrNothingToStudy when deck is empty.
func NewSession(reviewer CardReviewer, deck []domain.Card, logger *slog.Logger) (*Session, error) {
	if reviewer == nil {
		panic("reviewer cannot be nil for study.Session")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if len(deck) == 0 {
		return nil, ErrNothingToStudy
	}

	cards := make([]domain.Card, len(deck))
	copy(cards, deck)

	return &Session{
		deck:      cards,
		studied:   make(map[string]struct{}),
		startTime: time.Now().UTC(),
		reviewer:  reviewer,
		logger:    logger.With(slog.String("component", "study_session")),
	}, nil
}

// State returns the current card and progress.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	current := s.deck[s.idx]
	_, studied := s.studied[current.ID]
	return State{
		Card:         current,
		Index:        s.idx,
		Total:        len(s.deck),
		ShowBack:     s.showBack,
		StudiedCount: len(s.studied),
		Completed:    s.idx == len(s.deck)-1 && studied,
	}
}

// Flip toggles between the card's front and back. Purely presentational;
// nothing is scored.
func (s *Session) Flip() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showBack = !s.showBack
	return s.stateLocked()
}

// Next moves forward one card, stopping at the last index.
func (s *Session) Next() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked()
	return s.stateLocked()
}

// Previous moves back one card, stopping at the first index.
func (s *Session) Previous() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx > 0 {
		s.idx--
		s.showBack = false
	}
	return s.stateLocked()
}

// MarkCorrect scores the card with the given id as answered correctly and
// advances. Unknown ids are ignored.
func (s *Session) MarkCorrect(id string) (State, error) {
	return s.mark(id, true)
}

// MarkIncorrect scores the card with the given id as answered incorrectly
// and advances. Unknown ids are ignored.
func (s *Session) MarkIncorrect(id string) (State, error) {
	return s.mark(id, false)
}

func (s *Session) mark(id string, correct bool) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.reviewer.RecordReview(id, correct)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			// Stale reference: ignore rather than fail the session.
			s.logger.Warn("mark ignored for unknown card", slog.String("card_id", id))
			return s.stateLocked(), nil
		}
		return s.stateLocked(), err
	}

	s.studied[id] = struct{}{}
	if correct {
		s.correct++
	} else {
		s.incorrect++
	}

	s.advanceLocked()
	return s.stateLocked(), nil
}

func (s *Session) advanceLocked() {
	if s.idx < len(s.deck)-1 {
		s.idx++
		s.showBack = false
	}
}

// Finish closes the session and returns its history record. The caller is
// responsible for persisting it.
func (s *Session) Finish() domain.StudySession {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := domain.NewStudySession("default")
	record.StartTime = s.startTime
	end := time.Now().UTC()
	record.EndTime = &end
	record.CardsStudied = len(s.studied)
	record.CorrectAnswers = s.correct
	record.IncorrectAnswers = s.incorrect
	return *record
}
