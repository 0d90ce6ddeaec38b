// Package handler exposes the presence snapshot read endpoint.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"resona/internal/platform/middleware"
	"resona/internal/presence/service"
	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
	"resona/pkg/platform/httputil"
)

type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/presence/{userID}", h.handleSnapshot)
}

// handleSnapshot reports the current presence of any user. A user the
// service has never seen reads as offline.
func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, err := domain.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return
	}

	snap, err := h.svc.Snapshot(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "presence snapshot failed",
			"error", err, "user_id", userID.String(), "request_id", middleware.GetRequestID(r.Context()))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}
