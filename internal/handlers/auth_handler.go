package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"studydesk/internal/models"
	"studydesk/internal/security"
	"studydesk/internal/service"
	"studydesk/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	emailService         *service.EmailService
	csrf                 *security.CSRFGenerator
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
	appBaseURL           string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, csrf *security.CSRFGenerator, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL, appBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		emailService:         emailService,
		csrf:                 csrf,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
		appBaseURL:           appBaseURL,
	}
}

// Register creates an account, seeds its default data and logs it in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		var verr validation.ValidationError
		switch {
		case errors.As(err, &verr):
			respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, err.Error(), "", nil)
		case errors.Is(err, service.ErrRegistrationClosed):
			respondWithError(w, http.StatusForbidden, err.Error(), "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Registration failed", err)
		}
		return
	}

	if h.emailService.IsEnabled() {
		go func() {
			if err := h.emailService.SendWelcomeEmail(context.Background(), user.Email, user.DisplayName); err != nil {
				log.Printf("Warning: failed to send welcome email to %s: %v", user.Email, err)
			}
		}()
	}

	// Log the new account in right away
	session, _, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Post-registration login failed", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	writeJSON(w, http.StatusCreated, h.authResponse(session.ID, user))
}

// Login authenticates credentials and opens a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, err.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Login failed", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	writeJSON(w, http.StatusOK, h.authResponse(session.ID, user))
}

// Logout closes the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			log.Printf("Warning: failed to delete session: %v", err)
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	writeJSON(w, http.StatusNoContent, nil)
}

// Me returns the authenticated account plus a fresh CSRF token. The
// front-end calls this on load to restore a session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	writeJSON(w, http.StatusOK, h.authResponse(cookie.Value, user))
}

// RequestPasswordReset sends a reset email. The response is the same
// whether or not the account exists.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), h.emailService, req.Email); err != nil {
		log.Printf("Warning: password reset request failed: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If an account exists for that address, a reset link has been sent",
	})
}

// ValidateResetToken lets the reset page check a token before showing the form
func (h *AuthHandler) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	valid, err := h.authService.ValidatePasswordResetToken(token)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Reset token lookup failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

// ConfirmPasswordReset sets a new password from a reset token
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	valid, err := h.authService.ValidatePasswordResetToken(req.Token)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Reset token lookup failed", err)
		return
	}
	if !valid {
		respondWithError(w, http.StatusBadRequest, "Invalid or expired reset token", "", nil)
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		var verr validation.ValidationError
		if errors.As(err, &verr) {
			respondWithError(w, http.StatusBadRequest, verr.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Password reset failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated, please log in again"})
}

// authResponse builds the user + CSRF token payload for a session
func (h *AuthHandler) authResponse(sessionID string, user *models.User) AuthResponse {
	token, err := h.csrf.GenerateToken(sessionID)
	if err != nil {
		log.Printf("Warning: failed to generate CSRF token: %v", err)
	}
	return AuthResponse{User: newUserView(user), CSRFToken: token}
}
