// Package quiz implements the timed multiple-choice quiz: randomized
// question selection, same-category distractor options, per-question
// countdown, and aggregate scoring.
package quiz

import (
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/Baotq1406/Flashcards-ENG/internal/domain"
	"github.com/Baotq1406/Flashcards-ENG/internal/store"
)

// MinCards is the smallest deck a quiz can be built from: one correct
// answer plus up to three distractors.
const MinCards = 4

// Quiz errors surfaced to callers.
var (
	// ErrInsufficientCards is returned when a quiz is started with fewer
	// than MinCards cards.
	ErrInsufficientCards = errors.New("need at least 4 cards to start a quiz")

	// ErrQuestionOpen is returned by Next while the current question is
	// still unanswered.
	ErrQuestionOpen = errors.New("current question has not been answered")

	// ErrAlreadyAnswered is returned by Answer once the current question
	// has been revealed.
	ErrAlreadyAnswered = errors.New("current question has already been answered")

	// ErrSessionCompleted is returned by Answer and Next after the last
	// question has been passed.
	ErrSessionCompleted = errors.New("quiz session is completed")

	// ErrSessionNotCompleted is returned by Result before completion.
	ErrSessionNotCompleted = errors.New("quiz session is not completed yet")
)

// Phase is the lifecycle position of a session.
type Phase string

// Session phases: open (question on screen, timer running), revealed
// (answer shown, timer stopped), completed (aggregate available).
const (
	PhaseOpen      Phase = "open"
	PhaseRevealed  Phase = "revealed"
	PhaseCompleted Phase = "completed"
)

// CardReviewer records a review result against the card collection.
// *store.CardStore satisfies it.
type CardReviewer interface {
	RecordReview(id string, correct bool) (domain.Card, error)
}

// Question is one multiple-choice prompt, derived from a card for the
// lifetime of a single session.
type Question struct {
	Card       domain.Card
	Options    []string
	UserAnswer *string
	IsCorrect  *bool
}

// Config bounds a quiz session.
type Config struct {
	// MaxQuestions caps the question count; the session takes
	// min(MaxQuestions, deck size) cards.
	MaxQuestions int

	// QuestionSeconds is the per-question countdown start value.
	QuestionSeconds int
}

// DefaultConfig matches the classic quiz: up to five questions, thirty
// seconds each.
func DefaultConfig() Config {
	return Config{MaxQuestions: 5, QuestionSeconds: 30}
}

// Result is the aggregate of a completed session.
type Result struct {
	CorrectCount int
	Total        int
	// Accuracy is CorrectCount/Total as a rounded percentage.
	Accuracy int
}

// State is a snapshot of a session for rendering.
type State struct {
	Phase    Phase
	Index    int
	Total    int
	TimeLeft int
	Question Question
}

// Session is one quiz run. All methods are safe for concurrent use; timer
// ticks arriving after a question leaves the open phase are ignored.
type Session struct {
	mu        sync.Mutex
	source    []domain.Card
	questions []Question
	idx       int
	phase     Phase
	timeLeft  int
	cfg       Config
	rng       *rand.Rand
	reviewer  CardReviewer
	logger    *slog.Logger
}

// NewSession builds a randomized quiz from cards.
// The rng drives every shuffle; pass a seeded source for deterministic
// question order in tests, or nil for a time-seeded one.
// Returns ErrInsufficientCards when fewer than MinCards cards are given.
func NewSession(
	reviewer CardReviewer,
	cards []domain.Card,
	cfg Config,
	rng *rand.Rand,
	logger *slog.Logger,
) (*Session, error) {
	if reviewer == nil {
		panic("reviewer cannot be nil for quiz.Session")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.MaxQuestions <= 0 || cfg.QuestionSeconds <= 0 {
		cfg = DefaultConfig()
	}
	if len(cards) < MinCards {
		return nil, ErrInsufficientCards
	}

	source := make([]domain.Card, len(cards))
	copy(source, cards)

	s := &Session{
		source:   source,
		cfg:      cfg,
		rng:      rng,
		reviewer: reviewer,
		logger:   logger.With(slog.String("component", "quiz_session")),
	}
	s.generateLocked()
	return s, nil
}

// generateLocked builds a fresh question set from the source deck.
// Callers must hold s.mu (or be the constructor).
func (s *Session) generateLocked() {
	deck := make([]domain.Card, len(s.source))
	copy(deck, s.source)
	s.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	count := s.cfg.MaxQuestions
	if len(deck) < count {
		count = len(deck)
	}

	s.questions = make([]Question, 0, count)
	for _, card := range deck[:count] {
		s.questions = append(s.questions, Question{
			Card:    card,
			Options: s.buildOptions(card),
		})
	}

	s.idx = 0
	s.phase = PhaseOpen
	s.timeLeft = s.cfg.QuestionSeconds
}

// buildOptions assembles the shuffled option set for one card: its back
// text plus up to three distinct same-category distractors. With fewer than
// three candidates the set is legitimately smaller than four.
func (s *Session) buildOptions(card domain.Card) []string {
	var candidates []string
	for _, other := range s.source {
		if other.ID == card.ID || other.Category != card.Category {
			continue
		}
		candidates = append(candidates, other.Back)
	}
	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	options := []string{card.Back}
	seen := map[string]struct{}{card.Back: {}}
	for _, back := range candidates {
		if len(options) == MinCards {
			break
		}
		if _, dup := seen[back]; dup {
			continue
		}
		seen[back] = struct{}{}
		options = append(options, back)
	}

	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// Answer submits a choice for the current question. Correctness is exact
// string equality with the card's back text. The card's counters are
// updated through the reviewer exactly once, immediately.
func (s *Session) Answer(choice string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseCompleted:
		return s.stateLocked(), ErrSessionCompleted
	case PhaseRevealed:
		return s.stateLocked(), ErrAlreadyAnswered
	}

	s.answerLocked(choice)
	return s.stateLocked(), nil
}

// answerLocked scores the current question and moves to revealed.
// Callers must hold s.mu with phase == PhaseOpen.
func (s *Session) answerLocked(choice string) {
	q := &s.questions[s.idx]
	correct := choice == q.Card.Back
	q.UserAnswer = &choice
	q.IsCorrect = &correct

	if _, err := s.reviewer.RecordReview(q.Card.ID, correct); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			// The card was deleted mid-quiz; the question still scores.
			s.logger.Warn("review ignored for unknown card",
				slog.String("card_id", q.Card.ID))
		} else {
			s.logger.Error("failed to record review",
				slog.String("card_id", q.Card.ID),
				slog.String("error", err.Error()))
		}
	}

	s.phase = PhaseRevealed
}

// Tick advances the countdown by one unit. It only acts while the current
// question is open; late ticks after an answer are no-ops. Reaching zero
// auto-submits an empty answer, which can never match a card's back text.
func (s *Session) Tick() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseOpen {
		return s.stateLocked()
	}

	s.timeLeft--
	if s.timeLeft <= 0 {
		s.timeLeft = 0
		s.logger.Debug("question timed out",
			slog.Int("question", s.idx),
			slog.String("card_id", s.questions[s.idx].Card.ID))
		s.answerLocked("")
	}
	return s.stateLocked()
}

// Next moves past a revealed question: on to the next with a fresh
// countdown, or into the completed phase after the last one.
func (s *Session) Next() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseCompleted:
		return s.stateLocked(), ErrSessionCompleted
	case PhaseOpen:
		return s.stateLocked(), ErrQuestionOpen
	}

	if s.idx < len(s.questions)-1 {
		s.idx++
		s.phase = PhaseOpen
		s.timeLeft = s.cfg.QuestionSeconds
	} else {
		s.phase = PhaseCompleted
		s.timeLeft = 0
	}
	return s.stateLocked(), nil
}

// Restart regenerates a fresh randomized session from the same source
// deck: new question selection, new distractors, counters back to zero.
func (s *Session) Restart() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generateLocked()
	return s.stateLocked()
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		Phase:    s.phase,
		Index:    s.idx,
		Total:    len(s.questions),
		TimeLeft: s.timeLeft,
		Question: s.questions[s.idx],
	}
}

// Questions returns a copy of the full question list, including answers
// recorded so far. Used for the results breakdown.
func (s *Session) Questions() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Result returns the aggregate score.
// Returns ErrSessionNotCompleted until the session is completed.
func (s *Session) Result() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseCompleted {
		return Result{}, ErrSessionNotCompleted
	}

	correct := 0
	for _, q := range s.questions {
		if q.IsCorrect != nil && *q.IsCorrect {
			correct++
		}
	}

	total := len(s.questions)
	return Result{
		CorrectCount: correct,
		Total:        total,
		Accuracy:     int(math.Round(float64(correct) / float64(total) * 100)),
	}, nil
}
