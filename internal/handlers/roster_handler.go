package handlers

import (
	"errors"
	"net/http"
	"time"

	"mathquest/internal/security"
	"mathquest/internal/service"
)

// RosterHandler handles family, learner and invitation requests
type RosterHandler struct {
	rosterService      *service.RosterService
	progressionService *service.ProgressionService
	srsService         *service.SRSService
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(rosterService *service.RosterService, progressionService *service.ProgressionService, srsService *service.SRSService) *RosterHandler {
	return &RosterHandler{
		rosterService:      rosterService,
		progressionService: progressionService,
		srsService:         srsService,
	}
}

func rosterStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFamilyMember):
		return http.StatusForbidden
	case errors.Is(err, service.ErrLearnerNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrUsernameNotAllowed),
		errors.Is(err, service.ErrInvitationInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *RosterHandler) respondRosterError(w http.ResponseWriter, err error, logMsg string) {
	status := rosterStatus(err)
	if status == http.StatusInternalServerError {
		respondError(w, status, ErrInternalServerError, logMsg, err)
		return
	}
	respondError(w, status, err.Error(), "", nil)
}

// ListFamilies returns the guardian's families
func (h *RosterHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	families, err := h.rosterService.GetUserFamilies(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load families", err)
		return
	}
	respondJSON(w, http.StatusOK, newFamilyViews(families))
}

type createFamilyRequest struct {
	Name string `json:"name"`
}

// CreateFamily creates an additional family for the guardian
func (h *RosterHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	family, err := h.rosterService.CreateFamily(req.Name, user.ID)
	if err != nil {
		h.respondRosterError(w, err, "Failed to create family")
		return
	}
	respondJSON(w, http.StatusCreated, newFamilyView(family))
}

// ListFamilyLearners returns the family roster with headline progression
func (h *RosterHandler) ListFamilyLearners(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	familyID, err := pathID(r, "familyID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid family id", "", nil)
		return
	}

	learners, err := h.rosterService.GetFamilyLearners(familyID, user.ID)
	if err != nil {
		h.respondRosterError(w, err, "Failed to load learners")
		return
	}

	now := time.Now()
	views := make([]learnerProgressView, 0, len(learners))
	for _, learner := range learners {
		due, err := h.srsService.GetDueCards(learner.ID, "", now)
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load due cards", err)
			return
		}
		headline, err := h.progressionService.Headline(learner, len(due))
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load progression", err)
			return
		}
		views = append(views, newLearnerProgressView(headline))
	}
	respondJSON(w, http.StatusOK, views)
}

type createLearnerRequest struct {
	Name        string `json:"name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	AvatarColor string `json:"avatar_color"`
	Grade       string `json:"grade"`
}

// CreateLearner adds a learner profile. The generated password is returned
// once so the guardian can hand it to the learner.
func (h *RosterHandler) CreateLearner(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	familyID, err := pathID(r, "familyID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid family id", "", nil)
		return
	}

	var req createLearnerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	learner, err := h.rosterService.CreateLearner(familyID, user.ID, req.Name, req.Username, req.Password, req.AvatarColor, req.Grade)
	if err != nil {
		h.respondRosterError(w, err, "Failed to create learner")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"learner":  newLearnerView(learner),
		"password": learner.Password,
	})
}

// GetLearner returns one learner profile
func (h *RosterHandler) GetLearner(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	learnerID, err := pathID(r, "learnerID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid learner id", "", nil)
		return
	}

	learner, err := h.rosterService.GetLearner(learnerID, user.ID)
	if err != nil {
		h.respondRosterError(w, err, "Failed to load learner")
		return
	}
	respondJSON(w, http.StatusOK, newLearnerView(learner))
}

type updateLearnerRequest struct {
	Name        string `json:"name"`
	AvatarColor string `json:"avatar_color"`
	Grade       string `json:"grade"`
}

// UpdateLearner updates a learner's profile fields
func (h *RosterHandler) UpdateLearner(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	learnerID, err := pathID(r, "learnerID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid learner id", "", nil)
		return
	}

	var req updateLearnerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	if err := h.rosterService.UpdateLearner(learnerID, user.ID, req.Name, req.AvatarColor, req.Grade); err != nil {
		h.respondRosterError(w, err, "Failed to update learner")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ResetLearnerPassword issues a fresh learner password
func (h *RosterHandler) ResetLearnerPassword(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	learnerID, err := pathID(r, "learnerID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid learner id", "", nil)
		return
	}

	password, err := h.rosterService.ResetLearnerPassword(learnerID, user.ID)
	if err != nil {
		h.respondRosterError(w, err, "Failed to reset learner password")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"password": password})
}

// DeleteLearner removes a learner and all their study data
func (h *RosterHandler) DeleteLearner(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	learnerID, err := pathID(r, "learnerID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid learner id", "", nil)
		return
	}

	if err := h.rosterService.DeleteLearner(learnerID, user.ID); err != nil {
		h.respondRosterError(w, err, "Failed to delete learner")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type inviteRequest struct {
	Email string `json:"email"`
}

// InviteGuardian emails an invitation to join the family
func (h *RosterHandler) InviteGuardian(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	familyID, err := pathID(r, "familyID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid family id", "", nil)
		return
	}

	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	invitation, err := h.rosterService.InviteGuardian(r.Context(), familyID, user, req.Email)
	if err != nil {
		h.respondRosterError(w, err, "Failed to send invitation")
		return
	}
	respondJSON(w, http.StatusCreated, newInvitationView(invitation))
}

// ListFamilyInvitations lists a family's invitations
func (h *RosterHandler) ListFamilyInvitations(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	familyID, err := pathID(r, "familyID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid family id", "", nil)
		return
	}

	invitations, err := h.rosterService.GetFamilyInvitations(familyID, user.ID)
	if err != nil {
		h.respondRosterError(w, err, "Failed to load invitations")
		return
	}

	views := make([]invitationView, 0, len(invitations))
	for i := range invitations {
		views = append(views, newInvitationView(&invitations[i]))
	}
	respondJSON(w, http.StatusOK, views)
}

type acceptInvitationRequest struct {
	Code string `json:"code"`
}

// AcceptInvitation redeems an invitation code for the guardian
func (h *RosterHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req acceptInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	family, err := h.rosterService.AcceptInvitation(req.Code, user.ID)
	if err != nil {
		h.respondRosterError(w, err, "Failed to accept invitation")
		return
	}
	respondJSON(w, http.StatusOK, newFamilyView(family))
}

type learnerLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LearnerLogin authenticates a learner and opens a learner session
func (h *RosterHandler) LearnerLogin(w http.ResponseWriter, r *http.Request) {
	var req learnerLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	learner, sessionID, err := h.rosterService.LearnerLogin(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLearnerLogin) {
			respondError(w, http.StatusUnauthorized, "Invalid username or password", "", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Learner login failed", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, LearnerSessionCookieName, sessionID, time.Now().Add(30*24*time.Hour)))
	respondJSON(w, http.StatusOK, newLearnerView(learner))
}

// LearnerLogout closes the learner session
func (h *RosterHandler) LearnerLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(LearnerSessionCookieName); err == nil {
		_ = h.rosterService.LearnerLogout(cookie.Value)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, LearnerSessionCookieName))
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// CurrentLearner returns the authenticated learner
func (h *RosterHandler) CurrentLearner(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())
	if learner == nil {
		respondError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}
	respondJSON(w, http.StatusOK, newLearnerView(learner))
}
