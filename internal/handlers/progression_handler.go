package handlers

import (
	"errors"
	"net/http"
	"time"

	"mathquest/internal/service"
)

// ProgressionHandler serves the learner's XP, badge and challenge state
type ProgressionHandler struct {
	progressionService *service.ProgressionService
}

// NewProgressionHandler creates a new progression handler
func NewProgressionHandler(progressionService *service.ProgressionService) *ProgressionHandler {
	return &ProgressionHandler{progressionService: progressionService}
}

// Overview returns the full progression picture
func (h *ProgressionHandler) Overview(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	overview, err := h.progressionService.GetOverview(learner.ID, time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load progression", err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

func (h *ProgressionHandler) respondClaimError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrChallengeNotFound):
		respondError(w, http.StatusNotFound, err.Error(), "", nil)
	case errors.Is(err, service.ErrChallengeNotCompleted),
		errors.Is(err, service.ErrChallengeClaimed):
		respondError(w, http.StatusConflict, err.Error(), "", nil)
	default:
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}

// ClaimChallenge pays out a completed weekly challenge
func (h *ProgressionHandler) ClaimChallenge(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	challengeID := r.PathValue("challengeID")

	result, err := h.progressionService.ClaimWeeklyChallenge(learner.ID, challengeID, time.Now())
	if err != nil {
		h.respondClaimError(w, err, "Failed to claim challenge")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ClaimSideQuest pays out a completed side quest
func (h *ProgressionHandler) ClaimSideQuest(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	questID := r.PathValue("questID")

	result, err := h.progressionService.ClaimSideQuest(learner.ID, questID, time.Now())
	if err != nil {
		h.respondClaimError(w, err, "Failed to claim side quest")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
