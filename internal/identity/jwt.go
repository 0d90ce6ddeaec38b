// Package identity validates handshake credentials for the realtime layer
// and the catch-up API. Token minting belongs to the session service and is
// out of scope here; this side only verifies.
package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
)

// Claims represents the JWT claims minted by the session service.
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	ClientID  string `json:"client_id"`
	jwt.RegisteredClaims
}

// Identity is a verified connection principal.
type Identity struct {
	UserID      domain.UserID
	SessionID   string
	DeviceLabel string
}

// Service verifies HS256 access tokens.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewService(signingKey, issuer, audience string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// Authenticate validates a raw token and resolves the connecting user.
// userAgent is only used for the human-readable device label.
func (s *Service) Authenticate(tokenString, userAgent string) (Identity, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return Identity{}, err
	}

	userID, err := domain.ParseUserID(claims.UserID)
	if err != nil {
		return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return Identity{
		UserID:      userID,
		SessionID:   claims.SessionID,
		DeviceLabel: ParseUserAgent(userAgent),
	}, nil
}

func (s *Service) parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}
