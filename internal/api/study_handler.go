package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Baotq1406/Flashcards-ENG/internal/api/shared"
	"github.com/Baotq1406/Flashcards-ENG/internal/domain"
	"github.com/Baotq1406/Flashcards-ENG/internal/platform/logger"
	"github.com/Baotq1406/Flashcards-ENG/internal/service/study"
	"github.com/Baotq1406/Flashcards-ENG/internal/store"
)

// StudyHandler handles study-mode session requests.
type StudyHandler struct {
	cards    *store.CardStore
	history  *store.SessionStore
	registry *SessionRegistry
	validate *validator.Validate
	logger   *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(
	cards *store.CardStore,
	history *store.SessionStore,
	registry *SessionRegistry,
	log *slog.Logger,
) *StudyHandler {
	if cards == nil || history == nil || registry == nil {
		panic("dependencies cannot be nil for StudyHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &StudyHandler{
		cards:    cards,
		history:  history,
		registry: registry,
		validate: validator.New(),
		logger:   log.With(slog.String("component", "study_handler")),
	}
}

// Start handles POST /api/study/sessions requests. The deck is the
// filtered card set, falling back to the full set when the filter matches
// nothing. With no cards at all there is nothing to study.
func (h *StudyHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StartStudyRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Category == "" {
		req.Category = domain.CategoryAll
	}

	all := h.cards.All()
	deck := domain.FilterCards(all, req.Search, req.Category)
	if len(deck) == 0 {
		deck = all
	}

	session, err := study.NewSession(h.cards, deck, h.logger)
	if err != nil {
		if errors.Is(err, study.ErrNothingToStudy) {
			shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "No cards to study")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to start study session", err)
		return
	}

	id := h.registry.AddStudy(session)
	log.Debug("study session started",
		slog.String("session_id", id),
		slog.Int("deck_size", len(deck)))
	shared.RespondWithJSON(w, r, http.StatusCreated, studyStateResponse(id, session.State()))
}

// Get handles GET /api/study/sessions/{id} requests.
func (h *StudyHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, studyStateResponse(id, session.State()))
}

// Flip handles POST /api/study/sessions/{id}/flip requests.
func (h *StudyHandler) Flip(w http.ResponseWriter, r *http.Request) {
	session, id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, studyStateResponse(id, session.Flip()))
}

// Next handles POST /api/study/sessions/{id}/next requests.
func (h *StudyHandler) Next(w http.ResponseWriter, r *http.Request) {
	session, id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, studyStateResponse(id, session.Next()))
}

// Previous handles POST /api/study/sessions/{id}/previous requests.
func (h *StudyHandler) Previous(w http.ResponseWriter, r *http.Request) {
	session, id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, studyStateResponse(id, session.Previous()))
}

// MarkCorrect handles POST /api/study/sessions/{id}/correct requests.
func (h *StudyHandler) MarkCorrect(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, true)
}

// MarkIncorrect handles POST /api/study/sessions/{id}/incorrect requests.
func (h *StudyHandler) MarkIncorrect(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, false)
}

func (h *StudyHandler) mark(w http.ResponseWriter, r *http.Request, correct bool) {
	session, id, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "cardId is required", err)
		return
	}

	var (
		state study.State
		err   error
	)
	if correct {
		state, err = session.MarkCorrect(req.CardID)
	} else {
		state, err = session.MarkIncorrect(req.CardID)
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to record answer", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, studyStateResponse(id, state))
}

// Finish handles POST /api/study/sessions/{id}/finish requests: the
// session is closed, removed from the registry, and its record appended to
// the persisted history.
func (h *StudyHandler) Finish(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	session, id, ok := h.lookup(w, r)
	if !ok {
		return
	}

	record := session.Finish()
	h.registry.RemoveStudy(id)

	if err := h.history.Append(record); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to save session history", err)
		return
	}

	log.Debug("study session finished",
		slog.String("session_id", id),
		slog.Int("cards_studied", record.CardsStudied))
	shared.RespondWithJSON(w, r, http.StatusOK, record)
}

// History handles GET /api/study/history requests.
func (h *StudyHandler) History(w http.ResponseWriter, r *http.Request) {
	sessions := h.history.All()
	entries := make([]StudyHistoryEntry, 0, len(sessions))
	for _, s := range sessions {
		entries = append(entries, StudyHistoryEntry{
			ID:               s.ID,
			StartTime:        s.StartTime,
			EndTime:          s.EndTime,
			CardsStudied:     s.CardsStudied,
			CorrectAnswers:   s.CorrectAnswers,
			IncorrectAnswers: s.IncorrectAnswers,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

func (h *StudyHandler) lookup(w http.ResponseWriter, r *http.Request) (*study.Session, string, bool) {
	id := chi.URLParam(r, "id")
	session, ok := h.registry.Study(id)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Study session not found")
		return nil, "", false
	}
	return session, id, true
}
