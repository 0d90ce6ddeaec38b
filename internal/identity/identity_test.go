package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	dErrors "resona/pkg/domain-errors"
)

const (
	testKey      = "test-signing-key"
	testIssuer   = "resona"
	testAudience = "resona-clients"
)

type IdentitySuite struct {
	suite.Suite
	svc *Service
}

func (s *IdentitySuite) SetupTest() {
	s.svc = NewService(testKey, testIssuer, testAudience)
}

func TestIdentitySuite(t *testing.T) {
	suite.Run(t, new(IdentitySuite))
}

func (s *IdentitySuite) mintToken(userID string, key string, expiresIn time.Duration) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID,
		SessionID: uuid.NewString(),
		ClientID:  "web",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    testIssuer,
			Audience:  []string{testAudience},
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString([]byte(key))
	s.Require().NoError(err)
	return signed
}

func (s *IdentitySuite) TestAuthenticate() {
	s.Run("valid token yields identity", func() {
		userID := uuid.NewString()
		ident, err := s.svc.Authenticate(s.mintToken(userID, testKey, time.Hour), "")
		s.Require().NoError(err)
		s.Equal(userID, ident.UserID.String())
		s.Equal("Unknown Device", ident.DeviceLabel)
	})

	s.Run("expired token is unauthorized", func() {
		_, err := s.svc.Authenticate(s.mintToken(uuid.NewString(), testKey, -time.Minute), "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("wrong signing key is unauthorized", func() {
		_, err := s.svc.Authenticate(s.mintToken(uuid.NewString(), "other-key", time.Hour), "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("garbage user id claim is unauthorized", func() {
		_, err := s.svc.Authenticate(s.mintToken("not-a-uuid", testKey, time.Hour), "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("garbage token is unauthorized", func() {
		_, err := s.svc.Authenticate("nope", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *IdentitySuite) TestParseUserAgent() {
	s.Run("empty user agent returns unknown device", func() {
		s.Equal("Unknown Device", ParseUserAgent(""))
	})

	s.Run("chrome on desktop includes browser and OS", func() {
		ua := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
		label := ParseUserAgent(ua)
		s.Contains(label, "Chrome")
		s.Contains(label, "on")
	})

	s.Run("firefox on linux includes browser and OS", func() {
		ua := "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
		label := ParseUserAgent(ua)
		s.Contains(label, "Firefox")
		s.Contains(label, "on")
	})
}
