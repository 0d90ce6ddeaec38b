package testutil

import (
	"context"
	"net/http"

	"resona/internal/platform/middleware"
)

// WithUserID adds an authenticated user ID to the request context, the way
// the auth middleware would for a real request.
func WithUserID(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUserID, userID)
	return req.WithContext(ctx)
}

// WithSessionID adds a session ID to the request context.
func WithSessionID(req *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeySessionID, sessionID)
	return req.WithContext(ctx)
}

// WithAuth adds both user ID and session ID to the request context. This is
// the typical state for an authenticated request.
func WithAuth(req *http.Request, userID, sessionID string) *http.Request {
	return WithSessionID(WithUserID(req, userID), sessionID)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
