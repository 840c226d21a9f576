package api

import (
	"errors"
	"fmt"
)

// AuthError indicates that the session credential was rejected (401).
// The poller stops surfacing data for a session that no longer exists.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// APIError is a non-2xx response that is not an authentication failure.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf(
		"unexpected status %d on %s %s: %s",
		e.StatusCode, e.Method, e.Path, e.Body,
	)
}

// ListOptions controls the notification list query.
type ListOptions struct {
	// Limit bounds the page size. Zero means the server default.
	Limit int

	// UnreadOnly restricts the page to unread notifications.
	UnreadOnly bool
}

// unreadCountResponse is the body of GET /notifications/unread-count.
type unreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}
