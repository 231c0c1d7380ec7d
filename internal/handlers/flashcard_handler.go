package handlers

import (
	"errors"
	"net/http"
	"time"

	"mathquest/internal/service"
	"mathquest/internal/validation"
)

// FlashcardHandler serves the spaced-repetition review flow
type FlashcardHandler struct {
	srsService         *service.SRSService
	progressionService *service.ProgressionService
}

// NewFlashcardHandler creates a new flashcard handler
func NewFlashcardHandler(srsService *service.SRSService, progressionService *service.ProgressionService) *FlashcardHandler {
	return &FlashcardHandler{
		srsService:         srsService,
		progressionService: progressionService,
	}
}

// DueCards returns the cards due for review today, optionally by topic
func (h *FlashcardHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	topic := r.URL.Query().Get("topic")

	cards, err := h.srsService.GetDueCards(learner.ID, topic, time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load due cards", err)
		return
	}
	respondJSON(w, http.StatusOK, newDueCardViews(cards))
}

// CardStates returns the scheduling state of every catalog card
func (h *FlashcardHandler) CardStates(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	cards, err := h.srsService.GetCardStates(learner.ID, time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load card states", err)
		return
	}
	respondJSON(w, http.StatusOK, newDueCardViews(cards))
}

// Stats returns the learner's review statistics
func (h *FlashcardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	stats, err := h.srsService.GetStats(learner.ID, time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load review stats", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

type reviewRequest struct {
	Quality int `json:"quality"`
}

// Review grades a card and reschedules it, then pays the review XP. The XP
// award is idempotent per card per day even though regrading always moves
// the schedule.
func (h *FlashcardHandler) Review(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	cardID := r.PathValue("cardID")
	now := time.Now()

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	record, err := h.srsService.RecordReview(learner.ID, cardID, req.Quality, now)
	if err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.Is(err, service.ErrCardNotFound):
			respondError(w, http.StatusNotFound, err.Error(), "", nil)
		case errors.As(err, &vErr):
			respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		default:
			respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to record review", err)
		}
		return
	}

	result, err := h.progressionService.FlashcardReviewed(learner.ID, cardID, now)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to award review points", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"next_review": record.NextReviewDate,
		"interval":    record.Interval,
		"ease_factor": record.EaseFactor,
		"mastery":     service.MasteryLevel(*record),
		"result":      result,
	})
}
