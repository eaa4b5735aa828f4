package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Baotq1406/Flashcards-ENG/internal/api"
	"github.com/Baotq1406/Flashcards-ENG/internal/domain"
	"github.com/Baotq1406/Flashcards-ENG/internal/platform/blobstore"
	"github.com/Baotq1406/Flashcards-ENG/internal/service/quiz"
	"github.com/Baotq1406/Flashcards-ENG/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	server *httptest.Server
	cards  *store.CardStore
}

// newTestServer wires the full router over in-memory stores. The quiz rng
// is seeded so option ordering is deterministic.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	blob := blobstore.NewMemStore()

	cards, err := store.NewCardStore(blob, log)
	require.NoError(t, err)
	history, err := store.NewSessionStore(blob, log)
	require.NoError(t, err)

	registry := api.NewSessionRegistry()
	t.Cleanup(registry.Close)

	router := api.NewRouter(
		api.NewCardHandler(cards, log),
		api.NewStudyHandler(cards, history, registry, log),
		api.NewQuizHandler(cards, registry, quiz.DefaultConfig(), rand.New(rand.NewSource(1)), log),
	)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return &testServer{server: ts, cards: cards}
}

// do issues a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil.
func (ts *testServer) do(t *testing.T, method, path string, body, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.server.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestListCardsAndFilter(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	var cards []domain.Card
	resp := ts.do(t, http.MethodGet, "/api/cards", nil, &cards)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, cards, 5)

	resp = ts.do(t, http.MethodGet, "/api/cards?search=hello", nil, &cards)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, cards, 1)
	assert.Equal(t, "Hello", cards[0].Front)

	resp = ts.do(t, http.MethodGet, "/api/cards?category=Nope", nil, &cards)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, cards)
}

func TestCardCRUD(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	var created domain.Card
	resp := ts.do(t, http.MethodPost, "/api/cards", api.CardRequest{
		Front:      "Dog",
		Back:       "Con chó",
		Category:   "English-Vietnamese",
		Difficulty: "medium",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.ID)

	// Edit preserves counters and createdAt.
	var updated domain.Card
	resp = ts.do(t, http.MethodPut, "/api/cards/"+created.ID, api.CardRequest{
		Front:      "Dog",
		Back:       "Con chó",
		Category:   "English-Vietnamese",
		Difficulty: "hard",
	}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.DifficultyHard, updated.Difficulty)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	resp = ts.do(t, http.MethodDelete, "/api/cards/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Deleting again is still a success: lenient no-op.
	resp = ts.do(t, http.MethodDelete, "/api/cards/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateCardValidation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/api/cards", api.CardRequest{
		Front:      "Dog",
		Back:       "Con chó",
		Category:   "English-Vietnamese",
		Difficulty: "impossible",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateUnknownCardReturnsNotFound(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPut, "/api/cards/no-such-id", api.CardRequest{
		Front:      "x",
		Back:       "y",
		Category:   "z",
		Difficulty: "easy",
	}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategoriesEndpoint(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	var categories []string
	resp := ts.do(t, http.MethodGet, "/api/cards/categories", nil, &categories)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"English-Vietnamese"}, categories)
}

func TestStudyFlow(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	var state api.StudyStateResponse
	resp := ts.do(t, http.MethodPost, "/api/study/sessions", api.StartStudyRequest{}, &state)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, state.SessionID)
	assert.Equal(t, 5, state.Total)
	assert.Equal(t, 0, state.Index)

	base := "/api/study/sessions/" + state.SessionID

	resp = ts.do(t, http.MethodPost, base+"/flip", nil, &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, state.ShowBack)

	resp = ts.do(t, http.MethodPost, base+"/correct", api.MarkRequest{CardID: state.Card.ID}, &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, state.Index)
	assert.Equal(t, 1, state.StudiedCount)

	resp = ts.do(t, http.MethodPost, base+"/previous", nil, &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, state.Index)

	var record domain.StudySession
	resp = ts.do(t, http.MethodPost, base+"/finish", nil, &record)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, record.CardsStudied)
	assert.Equal(t, 1, record.CorrectAnswers)

	// The session is gone afterwards.
	resp = ts.do(t, http.MethodGet, base, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// And the run is in the history.
	var history []api.StudyHistoryEntry
	resp = ts.do(t, http.MethodGet, "/api/study/history", nil, &history)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, history, 1)
	assert.Equal(t, record.ID, history[0].ID)
}

func TestStudyStartFallsBackToFullDeck(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	var state api.StudyStateResponse
	resp := ts.do(t, http.MethodPost, "/api/study/sessions", api.StartStudyRequest{
		Search: "matches nothing at all",
	}, &state)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 5, state.Total, "empty filter result falls back to the full set")
}

func TestQuizFlow(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	var state api.QuizStateResponse
	resp := ts.do(t, http.MethodPost, "/api/quiz/sessions", nil, &state)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, state.SessionID)
	assert.Equal(t, "open", state.Phase)
	assert.Equal(t, 5, state.Total)
	assert.Equal(t, 30, state.TimeLeft)
	assert.Len(t, state.Question.Options, 4)
	assert.Empty(t, state.Question.CorrectAnswer, "correct answer must stay hidden while open")

	base := "/api/quiz/sessions/" + state.SessionID

	// Result is not available yet.
	resp = ts.do(t, http.MethodGet, base+"/result", nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	correct := 0
	for i := 0; i < 5; i++ {
		// Answer with the first option; reveal tells us whether it was right.
		choice := state.Question.Options[0]
		resp = ts.do(t, http.MethodPost, base+"/answer", api.AnswerRequest{Answer: choice}, &state)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "revealed", state.Phase)
		require.NotNil(t, state.Question.IsCorrect)
		assert.NotEmpty(t, state.Question.CorrectAnswer)
		if *state.Question.IsCorrect {
			correct++
		}

		// Double answering is rejected.
		resp = ts.do(t, http.MethodPost, base+"/answer", api.AnswerRequest{Answer: choice}, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		resp = ts.do(t, http.MethodPost, base+"/next", nil, &state)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, "completed", state.Phase)

	var result api.QuizResultResponse
	resp = ts.do(t, http.MethodGet, base+"/result", nil, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, correct, result.CorrectCount)
	assert.Equal(t, 5, result.Total)
	assert.Len(t, result.Breakdown, 5)

	// Restart yields a fresh open session.
	resp = ts.do(t, http.MethodPost, base+"/restart", nil, &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "open", state.Phase)
	assert.Equal(t, 0, state.Index)

	resp = ts.do(t, http.MethodDelete, base, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = ts.do(t, http.MethodGet, base, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQuizRequiresFourCards(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	// Shrink the deck below the quiz minimum.
	for _, id := range []string{"5", "4"} {
		resp := ts.do(t, http.MethodDelete, "/api/cards/"+id, nil, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	resp := ts.do(t, http.MethodPost, "/api/quiz/sessions", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestQuizAnswerUpdatesCardStats(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	var state api.QuizStateResponse
	resp := ts.do(t, http.MethodPost, "/api/quiz/sessions", nil, &state)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	base := "/api/quiz/sessions/" + state.SessionID
	resp = ts.do(t, http.MethodPost, base+"/answer", api.AnswerRequest{Answer: ""}, &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, state.Question.IsCorrect)
	assert.False(t, *state.Question.IsCorrect, "empty answer cannot be correct")

	// Find the prompted card and check its counter moved.
	var incorrectTotal int
	for _, c := range ts.cards.All() {
		incorrectTotal += c.IncorrectCount
	}
	assert.Equal(t, 1, incorrectTotal)
}
