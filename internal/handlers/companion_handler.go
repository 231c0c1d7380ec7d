package handlers

import (
	"errors"
	"net/http"
	"time"

	"mathquest/internal/content"
	"mathquest/internal/service"
)

// CompanionHandler serves the learner's companion and its shop
type CompanionHandler struct {
	companionService *service.CompanionService
}

// NewCompanionHandler creates a new companion handler
func NewCompanionHandler(companionService *service.CompanionService) *CompanionHandler {
	return &CompanionHandler{companionService: companionService}
}

type companionResponse struct {
	Name          string     `json:"name"`
	Items         []string   `json:"items"`
	UnlockedPerks []perkView `json:"unlocked_perks"`
	SpendableXP   int        `json:"spendable_xp"`
}

func newCompanionResponse(view *service.CompanionView) companionResponse {
	items := view.Items
	if items == nil {
		items = []string{}
	}
	return companionResponse{
		Name:          view.Name,
		Items:         items,
		UnlockedPerks: newPerkViews(view.UnlockedPerks),
		SpendableXP:   view.SpendableXP,
	}
}

// Get returns the companion state
func (h *CompanionHandler) Get(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	view, err := h.companionService.Get(learner.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load companion", err)
		return
	}
	respondJSON(w, http.StatusOK, newCompanionResponse(view))
}

// Shop returns the shop catalog annotated with ownership
func (h *CompanionHandler) Shop(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	view, err := h.companionService.Get(learner.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load companion", err)
		return
	}

	owned := make(map[string]bool, len(view.Items))
	for _, id := range view.Items {
		owned[id] = true
	}

	items := make([]shopItemView, 0, len(content.ShopItems))
	for _, item := range content.ShopItems {
		items = append(items, shopItemView{
			ID:    item.ID,
			Name:  item.Name,
			Price: item.Price,
			Owned: owned[item.ID],
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":        items,
		"spendable_xp": view.SpendableXP,
	})
}

type purchaseRequest struct {
	ItemID string `json:"item_id"`
}

// Purchase buys a shop item with spendable XP
func (h *CompanionHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	var req purchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	view, err := h.companionService.Purchase(learner.ID, req.ItemID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			respondError(w, http.StatusNotFound, err.Error(), "", nil)
		case errors.Is(err, service.ErrItemOwned),
			errors.Is(err, service.ErrInsufficientXP):
			respondError(w, http.StatusConflict, err.Error(), "", nil)
		default:
			respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to purchase item", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, newCompanionResponse(view))
}

type renameRequest struct {
	Name string `json:"name"`
}

// Rename changes the companion's display name
func (h *CompanionHandler) Rename(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	var req renameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	if err := h.companionService.Rename(learner.ID, req.Name); err != nil {
		if errors.Is(err, service.ErrInvalidComptName) {
			respondError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to rename companion", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
