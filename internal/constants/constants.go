package constants

// Context keys shared between middleware and handlers.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyEvent     = "event"
	ContextKeyRequestID = "request_id"
)

// Session settings.
const (
	SessionCookieName     = "ong_session"
	SessionKeyAccessToken = "access_token"
)

const HeaderRequestID = "X-Request-ID"

// Validation limits.
const (
	MinPasswordLength  = 6
	MaxSearchLength    = 100
	DefaultMaxUploadMB = 10
)

// Multipart form field carrying the event image.
const EventImageField = "image"
