package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Baotq1406/Flashcards-ENG/internal/domain"
	"github.com/Baotq1406/Flashcards-ENG/internal/platform/blobstore"
)

// flashcardsKey is the blob key the card collection is persisted under.
const flashcardsKey = "flashcards"

// CardStore owns the card collection. All reads return copies and every
// mutation rewrites the full collection to the blob store, so the persisted
// blob always matches memory.
type CardStore struct {
	mu     sync.RWMutex
	cards  []domain.Card
	blob   blobstore.Store
	now    func() time.Time
	logger *slog.Logger
}

// NewCardStore creates a CardStore backed by blob. It loads the persisted
// collection immediately; when the blob is absent or unparseable it falls
// back to the seed deck rather than failing.
func NewCardStore(blob blobstore.Store, logger *slog.Logger) (*CardStore, error) {
	if blob == nil {
		panic("blob cannot be nil for CardStore")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &CardStore{
		blob:   blob,
		now:    time.Now,
		logger: logger.With(slog.String("component", "card_store")),
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load populates the in-memory collection from the blob store. Corrupt
// data is swallowed: the seed deck takes its place and the problem is only
// logged, never surfaced.
func (s *CardStore) load() error {
	raw, ok, err := s.blob.Get(flashcardsKey)
	if err != nil {
		return fmt.Errorf("failed to load cards: %w", err)
	}
	if !ok {
		s.logger.Info("no persisted cards found, using seed deck")
		s.cards = seedDeck(s.now())
		return nil
	}

	var cards []domain.Card
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		s.logger.Warn("persisted cards are unparseable, using seed deck",
			slog.String("error", err.Error()))
		s.cards = seedDeck(s.now())
		return nil
	}

	s.cards = cards
	return nil
}

// All returns a snapshot copy of the collection in stored order.
func (s *CardStore) All() []domain.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// GetByID returns the card with the given id.
// Returns ErrCardNotFound if no card has that id.
func (s *CardStore) GetByID(id string) (domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.cards {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Card{}, ErrCardNotFound
}

// Add creates a card from the given content fields, assigns it a unique id
// and creation timestamp, appends it, and persists the collection.
func (s *CardStore) Add(front, back, category string, difficulty domain.Difficulty) (domain.Card, error) {
	card, err := domain.NewCard(front, back, category, difficulty)
	if err != nil {
		return domain.Card{}, fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cards = append(s.cards, *card)
	if err := s.persistLocked(); err != nil {
		return domain.Card{}, err
	}

	s.logger.Debug("card added",
		slog.String("card_id", card.ID),
		slog.String("category", card.Category))
	return *card, nil
}

// Update replaces the card with the matching id and persists. The stored
// CreatedAt is kept regardless of what the replacement carries. An unknown
// id is a deliberate no-op, not an error.
func (s *CardStore) Update(card domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.cards {
		if existing.ID == card.ID {
			card.CreatedAt = existing.CreatedAt
			s.cards[i] = card
			return s.persistLocked()
		}
	}

	s.logger.Warn("update ignored for unknown card", slog.String("card_id", card.ID))
	return nil
}

// Delete removes the card with the matching id and persists. An unknown id
// is a no-op.
func (s *CardStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.cards {
		if existing.ID == id {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			return s.persistLocked()
		}
	}

	s.logger.Warn("delete ignored for unknown card", slog.String("card_id", id))
	return nil
}

// RecordReview increments the card's correct or incorrect counter, stamps
// its last-reviewed time, and persists. Returns the updated card, or
// ErrCardNotFound when the id is unknown (callers treat that as a no-op).
func (s *CardStore) RecordReview(id string, correct bool) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.cards {
		if existing.ID == id {
			updated := existing.RecordReview(correct, s.now())
			s.cards[i] = updated
			if err := s.persistLocked(); err != nil {
				return domain.Card{}, err
			}
			return updated, nil
		}
	}
	return domain.Card{}, ErrCardNotFound
}

// persistLocked writes the full collection to the blob store.
// Callers must hold s.mu.
func (s *CardStore) persistLocked() error {
	data, err := json.Marshal(s.cards)
	if err != nil {
		return fmt.Errorf("failed to marshal cards: %w", err)
	}
	if err := s.blob.Set(flashcardsKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist cards: %w", err)
	}
	return nil
}

// seedDeck is the default collection a fresh (or corrupted) store starts
// with.
func seedDeck(now time.Time) []domain.Card {
	now = now.UTC()
	seed := []struct {
		id, front, back string
		difficulty      domain.Difficulty
	}{
		{"1", "Hello", "Xin chào", domain.DifficultyEasy},
		{"2", "Thank you", "Cám ơn", domain.DifficultyEasy},
		{"3", "Goodbye", "Tạm biệt", domain.DifficultyEasy},
		{"4", "Beautiful", "Đẹp", domain.DifficultyMedium},
		{"5", "Delicious", "Ngon", domain.DifficultyMedium},
	}

	cards := make([]domain.Card, 0, len(seed))
	for _, c := range seed {
		cards = append(cards, domain.Card{
			ID:         c.id,
			Front:      c.front,
			Back:       c.back,
			Category:   "English-Vietnamese",
			Difficulty: c.difficulty,
			CreatedAt:  now,
		})
	}
	return cards
}
