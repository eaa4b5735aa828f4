// Package api provides HTTP handlers for the API.
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
	"github.com/Baotq1406/Flashcards-ENG/internal/store"
)

// CardHandler handles card CRUD and listing requests.
type CardHandler struct {
	cards    *store.CardStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards *store.CardStore, log *slog.Logger) *CardHandler {
	if cards == nil {
		panic("cards cannot be nil for CardHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CardHandler{
		cards:    cards,
		validate: validator.New(),
		logger:   log.With(slog.String("component", "card_handler")),
	}
}

// List handles GET /api/cards requests. The optional search and category
// query parameters filter the collection; an empty search and category
// "all" (or none) return every card.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")
	if category == "" {
		category = domain.CategoryAll
	}

	cards := domain.FilterCards(h.cards.All(), search, category)
	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// Categories handles GET /api/cards/categories requests.
func (h *CardHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := domain.Categories(h.cards.All())
	if categories == nil {
		categories = []string{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// Create handles POST /api/cards requests.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	req, ok := h.decodeCardRequest(w, r)
	if !ok {
		return
	}

	card, err := h.cards.Add(req.Front, req.Back, req.Category, domain.Difficulty(req.Difficulty))
	if err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid card", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create card", err)
		return
	}

	log.Debug("card created", slog.String("card_id", card.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// Update handles PUT /api/cards/{id} requests. Content fields are replaced
// wholesale; review counters and the creation timestamp are preserved.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id := chi.URLParam(r, "id")
	req, ok := h.decodeCardRequest(w, r)
	if !ok {
		return
	}

	existing, err := h.cards.GetByID(id)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Card not found")
		return
	}

	existing.Front = req.Front
	existing.Back = req.Back
	existing.Category = req.Category
	existing.Difficulty = domain.Difficulty(req.Difficulty)

	if err := h.cards.Update(existing); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to update card", err)
		return
	}

	log.Debug("card updated", slog.String("card_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, existing)
}

// Delete handles DELETE /api/cards/{id} requests. Deleting an id that does
// not exist succeeds; the store treats it as a no-op.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.cards.Delete(id); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete card", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeCardRequest decodes and validates a card payload, writing the
// error response itself on failure.
func (h *CardHandler) decodeCardRequest(w http.ResponseWriter, r *http.Request) (CardRequest, bool) {
	var req CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return CardRequest{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid card fields", err)
		return CardRequest{}, false
	}
	return req, true
}
