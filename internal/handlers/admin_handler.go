package handlers

import (
	"fmt"
	"net/http"
	"time"

	"mathquest/internal/models"
	"mathquest/internal/repository"
	"mathquest/internal/service"
)

// AdminHandler handles admin-only maintenance routes. Every route assumes
// the RequireAdmin middleware already ran.
type AdminHandler struct {
	snapshotService    *service.SnapshotService
	emailService       *service.EmailService
	progressionService *service.ProgressionService
	srsService         *service.SRSService
	familyRepo         *repository.FamilyRepository
	learnerRepo        *repository.LearnerRepository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(snapshotService *service.SnapshotService, emailService *service.EmailService, progressionService *service.ProgressionService, srsService *service.SRSService, familyRepo *repository.FamilyRepository, learnerRepo *repository.LearnerRepository) *AdminHandler {
	return &AdminHandler{
		snapshotService:    snapshotService,
		emailService:       emailService,
		progressionService: progressionService,
		srsService:         srsService,
		familyRepo:         familyRepo,
		learnerRepo:        learnerRepo,
	}
}

// ExportSnapshot streams a study data snapshot as a download
func (h *AdminHandler) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("mathquest-snapshot-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.snapshotService.ExportToWriter(w); err != nil {
		// Headers are already sent; log and give up on this response
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Snapshot export failed", err)
	}
}

// ImportSnapshot restores a study data snapshot from the request body
func (h *AdminHandler) ImportSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.snapshotService.ImportFromReader(r.Body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "Snapshot import failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ResetLearnerData wipes one learner's study data
func (h *AdminHandler) ResetLearnerData(w http.ResponseWriter, r *http.Request) {
	learnerID, err := pathID(r, "learnerID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid learner id", "", nil)
		return
	}

	learner, err := h.learnerRepo.GetLearnerByID(learnerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load learner", err)
		return
	}
	if learner == nil {
		respondError(w, http.StatusNotFound, "Learner not found", "", nil)
		return
	}

	if err := h.snapshotService.Reset(learnerID); err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to reset learner data", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// SendFamilyDigest emails the weekly progress digest to every guardian in
// a family
func (h *AdminHandler) SendFamilyDigest(w http.ResponseWriter, r *http.Request) {
	familyID, err := pathID(r, "familyID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid family id", "", nil)
		return
	}

	if !h.emailService.IsEnabled() {
		respondError(w, http.StatusBadRequest, "Email service is not configured", "", nil)
		return
	}

	family, err := h.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load family", err)
		return
	}
	if family == nil {
		respondError(w, http.StatusNotFound, "Family not found", "", nil)
		return
	}

	learners, err := h.learnerRepo.GetFamilyLearners(familyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load learners", err)
		return
	}

	summaries, err := h.buildDigest(learners, time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to build digest", err)
		return
	}

	members, err := h.familyRepo.GetFamilyMembers(familyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load family members", err)
		return
	}

	sent := 0
	for _, member := range members {
		if err := h.emailService.SendWeeklyDigestEmail(r.Context(), member.Email, member.Name, summaries); err != nil {
			respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to send digest email", err)
			return
		}
		sent++
	}
	respondJSON(w, http.StatusOK, map[string]int{"sent": sent})
}

func (h *AdminHandler) buildDigest(learners []models.Learner, now time.Time) ([]models.LearnerWithProgress, error) {
	summaries := make([]models.LearnerWithProgress, 0, len(learners))
	for _, learner := range learners {
		due, err := h.srsService.GetDueCards(learner.ID, "", now)
		if err != nil {
			return nil, err
		}
		headline, err := h.progressionService.Headline(learner, len(due))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, headline)
	}
	return summaries, nil
}
