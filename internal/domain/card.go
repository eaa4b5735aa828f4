package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card's front text is empty.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when a card's back text is empty.
	ErrCardBackEmpty = errors.New("card back cannot be empty")

	// ErrCardCategoryEmpty is returned when a card's category is empty.
	ErrCardCategoryEmpty = errors.New("card category cannot be empty")

	// ErrCardDifficultyInvalid is returned when a card's difficulty is not
	// one of easy, medium, or hard.
	ErrCardDifficultyInvalid = errors.New("card difficulty must be easy, medium, or hard")

	// ErrCardCountNegative is returned when a review counter is negative.
	ErrCardCountNegative = errors.New("card review counters cannot be negative")
)

// Difficulty represents how hard a card is for the user.
type Difficulty string

// Possible difficulty values
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Card represents a single flashcard: a front/back text pair with a
// category, a difficulty, and accumulated review counters.
//
// The JSON field names match the persisted blob layout; LastReviewed is
// omitted entirely when the card has never been reviewed.
type Card struct {
	ID             string     `json:"id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Category       string     `json:"category"`
	Difficulty     Difficulty `json:"difficulty"`
	CorrectCount   int        `json:"correctCount"`
	IncorrectCount int        `json:"incorrectCount"`
	LastReviewed   *time.Time `json:"lastReviewed,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// NewCard creates a new Card with the given content fields.
// It generates a unique ID, stamps CreatedAt, and initializes both review
// counters to zero. Returns an error if validation fails.
func NewCard(front, back, category string, difficulty Difficulty) (*Card, error) {
	card := &Card{
		ID:         uuid.NewString(),
		Front:      front,
		Back:       back,
		Category:   category,
		Difficulty: difficulty,
		CreatedAt:  time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == "" {
		return ErrCardIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if c.Back == "" {
		return ErrCardBackEmpty
	}

	if c.Category == "" {
		return ErrCardCategoryEmpty
	}

	if !c.Difficulty.Valid() {
		return ErrCardDifficultyInvalid
	}

	if c.CorrectCount < 0 || c.IncorrectCount < 0 {
		return ErrCardCountNegative
	}

	return nil
}

// RecordReview returns a copy of the card with the matching counter
// incremented and LastReviewed stamped to reviewedAt. The receiver is not
// mutated; counters only ever increase.
func (c Card) RecordReview(correct bool, reviewedAt time.Time) Card {
	if correct {
		c.CorrectCount++
	} else {
		c.IncorrectCount++
	}
	t := reviewedAt.UTC()
	c.LastReviewed = &t
	return c
}
