package httpapi

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	activityhandler "resona/internal/activity/handler"
	activityservice "resona/internal/activity/service"
	activitystore "resona/internal/activity/store"
	"resona/internal/catalog"
	notificationhandler "resona/internal/notification/handler"
	notificationservice "resona/internal/notification/service"
	notificationstore "resona/internal/notification/store"
	"resona/internal/platform/middleware"
	presencehandler "resona/internal/presence/handler"
	presenceservice "resona/internal/presence/service"
	presencestore "resona/internal/presence/store"
	"resona/internal/social"
	"resona/pkg/domain"
)

type staticValidator struct {
	userID string
	err    error
}

func (v staticValidator) ValidateToken(string) (*middleware.TokenClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &middleware.TokenClaims{UserID: v.userID}, nil
}

func newTestRouter(t *testing.T, validator middleware.TokenValidator) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	graph := social.NewInMemory()

	return NewRouter(Deps{
		WS:            http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusSwitchingProtocols) }),
		Notifications: notificationhandler.New(notificationservice.New(notificationstore.NewInMemory()), logger),
		Activity:      activityhandler.New(activityservice.New(activitystore.NewInMemory(), graph, catalog.NewInMemory()), logger),
		Presence:      presencehandler.New(presenceservice.New(presencestore.NewInMemory()), logger),
		Validator:     validator,
		Logger:        logger,
	})
}

func TestAPIRequiresAuth(t *testing.T) {
	router := newTestRouter(t, staticValidator{err: errors.New("bad token")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIWithValidToken(t *testing.T) {
	user := domain.NewUserID()
	router := newTestRouter(t, staticValidator{userID: user.String()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/activity", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, staticValidator{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthzFailing(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	graph := social.NewInMemory()
	router := NewRouter(Deps{
		WS:            http.NotFoundHandler(),
		Notifications: notificationhandler.New(notificationservice.New(notificationstore.NewInMemory()), logger),
		Activity:      activityhandler.New(activityservice.New(activitystore.NewInMemory(), graph, catalog.NewInMemory()), logger),
		Presence:      presencehandler.New(presenceservice.New(presencestore.NewInMemory()), logger),
		Validator:     staticValidator{},
		Health:        func(*http.Request) error { return errors.New("redis down") },
		Logger:        logger,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsExposed(t *testing.T) {
	router := newTestRouter(t, staticValidator{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
