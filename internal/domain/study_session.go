package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StudySession-specific validation errors
var (
	// ErrSessionIDEmpty is returned when a study session ID is empty.
	ErrSessionIDEmpty = errors.New("study session ID cannot be empty")

	// ErrSessionCountsNegative is returned when any session counter is negative.
	ErrSessionCountsNegative = errors.New("study session counters cannot be negative")
)

// StudySession is a historical record of one completed study run: how many
// cards were studied and how the answers split. It is persisted as history
// only; nothing in the engines reads it back.
type StudySession struct {
	ID               string     `json:"id"`
	DeckID           string     `json:"deckId"`
	StartTime        time.Time  `json:"startTime"`
	EndTime          *time.Time `json:"endTime,omitempty"`
	CardsStudied     int        `json:"cardsStudied"`
	CorrectAnswers   int        `json:"correctAnswers"`
	IncorrectAnswers int        `json:"incorrectAnswers"`
}

// NewStudySession creates a session record starting now for the given deck.
func NewStudySession(deckID string) *StudySession {
	return &StudySession{
		ID:        uuid.NewString(),
		DeckID:    deckID,
		StartTime: time.Now().UTC(),
	}
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.ID == "" {
		return ErrSessionIDEmpty
	}

	if s.CardsStudied < 0 || s.CorrectAnswers < 0 || s.IncorrectAnswers < 0 {
		return ErrSessionCountsNegative
	}

	return nil
}
