// Package httpapi composes the public HTTP surface: the websocket endpoint,
// the authenticated REST API, and the operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	activityhandler "resona/internal/activity/handler"
	notificationhandler "resona/internal/notification/handler"
	"resona/internal/platform/middleware"
	presencehandler "resona/internal/presence/handler"
)

// Deps collects everything the router mounts. The websocket handler is a
// plain http.Handler so this package stays ignorant of the transport.
type Deps struct {
	WS            http.Handler
	Notifications *notificationhandler.Handler
	Activity      *activityhandler.Handler
	Presence      *presencehandler.Handler
	Validator     middleware.TokenValidator
	Health        func(r *http.Request) error
	Logger        *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Handle("/ws", d.WS)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.RequireAuth(d.Validator, d.Logger))
		d.Notifications.Register(api)
		d.Activity.Register(api)
		d.Presence.Register(api)
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if d.Health != nil {
			if err := d.Health(req); err != nil {
				d.Logger.ErrorContext(req.Context(), "health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
