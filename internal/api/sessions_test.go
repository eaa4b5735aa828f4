package api

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Baotq1406/Flashcards-ENG/internal/platform/blobstore"
	"github.com/Baotq1406/Flashcards-ENG/internal/service/quiz"
	"github.com/Baotq1406/Flashcards-ENG/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryTickerTimesOutQuestion(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cards, err := store.NewCardStore(blobstore.NewMemStore(), log)
	require.NoError(t, err)

	cfg := quiz.Config{MaxQuestions: 5, QuestionSeconds: 3}
	session, err := quiz.NewSession(cards, cards.All(), cfg, nil, log)
	require.NoError(t, err)

	registry := NewSessionRegistry()
	registry.tickInterval = time.Millisecond
	defer registry.Close()

	id := registry.AddQuiz(session)

	// With no answer the countdown must run out and auto-score the
	// question incorrect.
	require.Eventually(t, func() bool {
		return session.State().Phase == quiz.PhaseRevealed
	}, time.Second, time.Millisecond)

	state := session.State()
	require.NotNil(t, state.Question.IsCorrect)
	assert.False(t, *state.Question.IsCorrect)

	stored, err := cards.GetByID(state.Question.Card.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.IncorrectCount)

	// Removal stops the ticker; the revealed phase guard kept the extra
	// ticks harmless in the meantime.
	registry.RemoveQuiz(id)
	_, ok := registry.Quiz(id)
	assert.False(t, ok)
	assert.Equal(t, 1, stored.IncorrectCount)
}

func TestRegistryStudyLifecycle(t *testing.T) {
	t.Parallel()

	registry := NewSessionRegistry()
	defer registry.Close()

	id := registry.AddStudy(nil)
	_, ok := registry.Study(id)
	assert.True(t, ok)

	registry.RemoveStudy(id)
	_, ok = registry.Study(id)
	assert.False(t, ok)
}
