package handlers

import (
	"errors"
	"log"
	"net/http"

	"golang.org/x/oauth2"

	"mathquest/internal/security"
	"mathquest/internal/service"
)

// AuthHandler handles guardian authentication requests
type AuthHandler struct {
	authService  *service.AuthService
	emailService *service.EmailService
	csrf         *security.CSRFGenerator
	googleOAuth  *oauth2.Config
	appBaseURL   string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, csrf *security.CSRFGenerator, googleOAuth *oauth2.Config, appBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		emailService: emailService,
		csrf:         csrf,
		googleOAuth:  googleOAuth,
		appBaseURL:   appBaseURL,
	}
}

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	FamilyCode string `json:"family_code"`
}

// Register creates a guardian account and opens a session
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name, req.FamilyCode)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrEmailTaken) {
			status = http.StatusConflict
		}
		respondError(w, status, err.Error(), "", nil)
		return
	}

	if err := h.emailService.SendWelcomeEmail(r.Context(), user.Email, user.Name); err != nil {
		// Registration succeeded; a failed welcome email is not fatal
		log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
	}

	session, _, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Login after registration failed", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusCreated, newUserView(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a guardian and opens a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusOK, newUserView(user))
}

// Logout closes the guardian session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// CurrentUser returns the authenticated guardian
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}
	respondJSON(w, http.StatusOK, newUserView(user))
}

// CSRFToken issues a token bound to the caller's session cookie. Clients send
// it back in the X-CSRF-Token header on mutating requests.
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	sessionID := ""
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		sessionID = cookie.Value
	} else if cookie, err := r.Cookie(LearnerSessionCookieName); err == nil {
		sessionID = cookie.Value
	}
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	token, err := h.csrf.GenerateToken(sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to generate CSRF token", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}
