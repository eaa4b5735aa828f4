package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewCard(t *testing.T) {
	t.Parallel()

	card, err := NewCard("Hello", "Xin chào", "English-Vietnamese", DifficultyEasy)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.ID == "" {
		t.Error("Expected non-empty ID")
	}

	if card.Front != "Hello" || card.Back != "Xin chào" {
		t.Errorf("Unexpected content: front=%q back=%q", card.Front, card.Back)
	}

	if card.CorrectCount != 0 || card.IncorrectCount != 0 {
		t.Errorf("Expected zero counters, got correct=%d incorrect=%d",
			card.CorrectCount, card.IncorrectCount)
	}

	if card.LastReviewed != nil {
		t.Error("Expected nil LastReviewed for a new card")
	}

	if card.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Validation failures
	if _, err := NewCard("", "back", "cat", DifficultyEasy); err != ErrCardFrontEmpty {
		t.Errorf("Expected error %v, got %v", ErrCardFrontEmpty, err)
	}

	if _, err := NewCard("front", "", "cat", DifficultyEasy); err != ErrCardBackEmpty {
		t.Errorf("Expected error %v, got %v", ErrCardBackEmpty, err)
	}

	if _, err := NewCard("front", "back", "", DifficultyEasy); err != ErrCardCategoryEmpty {
		t.Errorf("Expected error %v, got %v", ErrCardCategoryEmpty, err)
	}

	if _, err := NewCard("front", "back", "cat", "impossible"); err != ErrCardDifficultyInvalid {
		t.Errorf("Expected error %v, got %v", ErrCardDifficultyInvalid, err)
	}
}

func TestCardIDsUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		card, err := NewCard("front", "back", "cat", DifficultyMedium)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if seen[card.ID] {
			t.Fatalf("Duplicate ID generated: %s", card.ID)
		}
		seen[card.ID] = true
	}
}

func TestCardRecordReview(t *testing.T) {
	t.Parallel()

	card, err := NewCard("Hello", "Xin chào", "English-Vietnamese", DifficultyEasy)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	reviewedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	updated := card.RecordReview(true, reviewedAt)
	if updated.CorrectCount != 1 || updated.IncorrectCount != 0 {
		t.Errorf("Expected correct=1 incorrect=0, got correct=%d incorrect=%d",
			updated.CorrectCount, updated.IncorrectCount)
	}
	if updated.LastReviewed == nil || !updated.LastReviewed.Equal(reviewedAt) {
		t.Errorf("Expected LastReviewed %v, got %v", reviewedAt, updated.LastReviewed)
	}

	// Original copy must be untouched.
	if card.CorrectCount != 0 || card.LastReviewed != nil {
		t.Error("RecordReview mutated its receiver")
	}

	updated = updated.RecordReview(false, reviewedAt.Add(time.Minute))
	if updated.CorrectCount != 1 || updated.IncorrectCount != 1 {
		t.Errorf("Expected correct=1 incorrect=1, got correct=%d incorrect=%d",
			updated.CorrectCount, updated.IncorrectCount)
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	t.Parallel()

	reviewedAt := time.Date(2026, 2, 14, 9, 30, 45, 0, time.UTC)
	card := Card{
		ID:             "card-1",
		Front:          "Hello",
		Back:           "Xin chào",
		Category:       "English-Vietnamese",
		Difficulty:     DifficultyEasy,
		CorrectCount:   3,
		IncorrectCount: 1,
		LastReviewed:   &reviewedAt,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded Card
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if decoded.ID != card.ID || decoded.Front != card.Front || decoded.Back != card.Back {
		t.Errorf("Round trip changed content fields: %+v", decoded)
	}
	if decoded.CorrectCount != 3 || decoded.IncorrectCount != 1 {
		t.Errorf("Round trip changed counters: %+v", decoded)
	}
	if decoded.LastReviewed == nil || !decoded.LastReviewed.Equal(reviewedAt) {
		t.Errorf("Round trip changed LastReviewed: %v", decoded.LastReviewed)
	}
	if !decoded.CreatedAt.Equal(card.CreatedAt) {
		t.Errorf("Round trip changed CreatedAt: %v", decoded.CreatedAt)
	}
}

func TestCardJSONOmitsLastReviewedWhenNeverReviewed(t *testing.T) {
	t.Parallel()

	card, err := NewCard("Hello", "Xin chào", "English-Vietnamese", DifficultyEasy)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, present := raw["lastReviewed"]; present {
		t.Error("Expected lastReviewed to be absent for a never-reviewed card")
	}
}
