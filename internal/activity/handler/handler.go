// Package handler exposes the paginated activity feed read endpoint.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"resona/internal/activity/service"
	"resona/internal/platform/middleware"
	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
	"resona/pkg/pagination"
	"resona/pkg/platform/httputil"
)

type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the activity routes. The router must already enforce
// authentication; the viewer comes from the request context.
func (h *Handler) Register(r chi.Router) {
	r.Get("/activity", h.handleFeed)
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	viewer, err := authedUser(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	params := pagination.ParseParams(r.URL.Query())

	page, err := h.svc.Feed(r.Context(), viewer, params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "activity feed failed",
			"error", err, "user_id", viewer.String(), "request_id", middleware.GetRequestID(r.Context()))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func authedUser(r *http.Request) (domain.UserID, error) {
	raw := middleware.GetUserID(r.Context())
	if raw == "" {
		return domain.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "missing authenticated user")
	}
	id, err := domain.ParseUserID(raw)
	if err != nil {
		return domain.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid authenticated user")
	}
	return id, nil
}
