// Package handler exposes the notification catch-up surface: paginated
// reads, bulk mark-read, bulk delete. Clients that missed live pushes
// reconcile here.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"resona/internal/notification/service"
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

// Register mounts the notification routes. The router must already enforce
// authentication; handlers read the recipient from the request context.
func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.handleList)
	r.Put("/notifications/read", h.handleMarkRead)
	r.Delete("/notifications", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	recipient, err := authedUser(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	params := pagination.ParseParams(r.URL.Query())

	page, err := h.svc.List(r.Context(), recipient, unreadOnly, params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list notifications failed",
			"error", err, "user_id", recipient.String(), "request_id", middleware.GetRequestID(r.Context()))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

type markReadRequest struct {
	IDs []domain.NotificationID `json:"ids"`
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	recipient, err := authedUser(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	updated, err := h.svc.MarkRead(r.Context(), recipient, req.IDs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

type deleteRequest struct {
	IDs []domain.NotificationID `json:"ids"`
	All bool                    `json:"all"`
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	recipient, err := authedUser(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.All && len(req.IDs) > 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "provide ids or all, not both"))
		return
	}

	var deleted int
	if req.All {
		deleted, err = h.svc.DeleteAll(r.Context(), recipient)
	} else {
		deleted, err = h.svc.Delete(r.Context(), recipient, req.IDs)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func authedUser(r *http.Request) (domain.UserID, error) {
	raw := middleware.GetUserID(r.Context())
	if raw == "" {
		return domain.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	userID, err := domain.ParseUserID(raw)
	if err != nil {
		return domain.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid authenticated user")
	}
	return userID, nil
}
