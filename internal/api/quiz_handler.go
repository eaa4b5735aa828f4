package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/Baotq1406/Flashcards-ENG/internal/api/shared"
	"github.com/Baotq1406/Flashcards-ENG/internal/platform/logger"
	"github.com/Baotq1406/Flashcards-ENG/internal/service/quiz"
	"github.com/Baotq1406/Flashcards-ENG/internal/store"
)

// QuizHandler handles quiz session requests.
type QuizHandler struct {
	cards    *store.CardStore
	registry *SessionRegistry
	cfg      quiz.Config
	rngMu    sync.Mutex
	rng      *rand.Rand // nil means time-seeded per session
	logger   *slog.Logger
}

// NewQuizHandler creates a new QuizHandler. A non-nil rng makes question
// generation deterministic; production passes nil.
func NewQuizHandler(
	cards *store.CardStore,
	registry *SessionRegistry,
	cfg quiz.Config,
	rng *rand.Rand,
	log *slog.Logger,
) *QuizHandler {
	if cards == nil || registry == nil {
		panic("dependencies cannot be nil for QuizHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &QuizHandler{
		cards:    cards,
		registry: registry,
		cfg:      cfg,
		rng:      rng,
		logger:   log.With(slog.String("component", "quiz_handler")),
	}
}

// Start handles POST /api/quiz/sessions requests. The quiz always draws
// from the full card collection.
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	session, err := quiz.NewSession(h.cards, h.cards.All(), h.cfg, h.sessionRNG(), log)
	if err != nil {
		if errors.Is(err, quiz.ErrInsufficientCards) {
			shared.RespondWithError(w, r, http.StatusUnprocessableEntity,
				"You need at least 4 flashcards to take a quiz")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to start quiz", err)
		return
	}

	id := h.registry.AddQuiz(session)
	log.Debug("quiz session started", slog.String("session_id", id))
	shared.RespondWithJSON(w, r, http.StatusCreated, quizStateResponse(id, session.State()))
}

// Get handles GET /api/quiz/sessions/{id} requests.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, quizStateResponse(id, session.State()))
}

// Answer handles POST /api/quiz/sessions/{id}/answer requests.
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	session, id, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := session.Answer(req.Answer)
	if err != nil {
		h.respondQuizError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, quizStateResponse(id, state))
}

// Next handles POST /api/quiz/sessions/{id}/next requests.
func (h *QuizHandler) Next(w http.ResponseWriter, r *http.Request) {
	session, id, ok := h.lookup(w, r)
	if !ok {
		return
	}

	state, err := session.Next()
	if err != nil {
		h.respondQuizError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, quizStateResponse(id, state))
}

// Restart handles POST /api/quiz/sessions/{id}/restart requests.
func (h *QuizHandler) Restart(w http.ResponseWriter, r *http.Request) {
	session, id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, quizStateResponse(id, session.Restart()))
}

// Result handles GET /api/quiz/sessions/{id}/result requests.
func (h *QuizHandler) Result(w http.ResponseWriter, r *http.Request) {
	session, id, ok := h.lookup(w, r)
	if !ok {
		return
	}

	result, err := session.Result()
	if err != nil {
		h.respondQuizError(w, r, err)
		return
	}

	questions := session.Questions()
	breakdown := make([]QuizBreakdownEntry, 0, len(questions))
	for _, q := range questions {
		entry := QuizBreakdownEntry{
			Front:         q.Card.Front,
			CorrectAnswer: q.Card.Back,
			UserAnswer:    q.UserAnswer,
		}
		if q.IsCorrect != nil {
			entry.IsCorrect = *q.IsCorrect
		}
		breakdown = append(breakdown, entry)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QuizResultResponse{
		SessionID:    id,
		CorrectCount: result.CorrectCount,
		Total:        result.Total,
		Accuracy:     result.Accuracy,
		Breakdown:    breakdown,
	})
}

// End handles DELETE /api/quiz/sessions/{id} requests: the session and its
// countdown ticker are discarded.
func (h *QuizHandler) End(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.registry.RemoveQuiz(id)
	w.WriteHeader(http.StatusNoContent)
}

// sessionRNG derives an independent generator for one session. rand.Rand is
// not safe for concurrent use, so the injected generator is only ever read
// under the lock to seed a session-private one. Nil stays nil: the session
// seeds itself from the clock.
func (h *QuizHandler) sessionRNG() *rand.Rand {
	if h.rng == nil {
		return nil
	}
	h.rngMu.Lock()
	defer h.rngMu.Unlock()
	return rand.New(rand.NewSource(h.rng.Int63()))
}

func (h *QuizHandler) lookup(w http.ResponseWriter, r *http.Request) (*quiz.Session, string, bool) {
	id := chi.URLParam(r, "id")
	session, ok := h.registry.Quiz(id)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Quiz session not found")
		return nil, "", false
	}
	return session, id, true
}

// respondQuizError maps quiz lifecycle errors to HTTP status codes.
func (h *QuizHandler) respondQuizError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, quiz.ErrAlreadyAnswered),
		errors.Is(err, quiz.ErrQuestionOpen),
		errors.Is(err, quiz.ErrSessionCompleted),
		errors.Is(err, quiz.ErrSessionNotCompleted):
		shared.RespondWithError(w, r, http.StatusConflict, err.Error())
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Quiz operation failed", err)
	}
}
