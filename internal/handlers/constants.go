package handlers

const (
	SessionCookieName = "studydesk_session"
	CSRFTokenHeader   = "X-CSRF-Token"

	ErrInvalidRequestBody  = "Invalid request body"
	ErrUnauthorized        = "Authentication required"
	ErrInternalServerError = "Internal server error"
)
