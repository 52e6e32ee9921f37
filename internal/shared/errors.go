package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrAuthFailed        = fmt.Errorf("authentication failed")
	ErrForbidden         = fmt.Errorf("permission denied")
	ErrUnauthorized      = fmt.Errorf("unauthorized")
	ErrNotAuthenticated  = fmt.Errorf("not authenticated")
	ErrRefreshFailed     = fmt.Errorf("session refresh failed")
	ErrSessionExpired    = fmt.Errorf("session expired")
	ErrIncompleteSession = fmt.Errorf("session requires both token and user")

	// API and transport errors
	ErrTransport          = fmt.Errorf("transport failure")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrMalformedResponse  = fmt.Errorf("malformed response")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSongNotFound       = fmt.Errorf("song not found")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
