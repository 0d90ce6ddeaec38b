package identity

import (
	"resona/internal/platform/middleware"
)

// MiddlewareAdapter bridges the identity service to the HTTP auth middleware
// without the middleware importing jwt types.
type MiddlewareAdapter struct {
	svc *Service
}

func NewMiddlewareAdapter(svc *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{svc: svc}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	claims, err := a.svc.parse(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.TokenClaims{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		ClientID:  claims.ClientID,
	}, nil
}
