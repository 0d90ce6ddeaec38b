// Package ws is the websocket transport: it owns the handshake, the
// per-connection read loop, and the single-writer outbound queue. Everything
// semantic happens in the router; this package only moves frames.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"nhooyr.io/websocket"

	"resona/internal/identity"
	"resona/internal/platform/middleware"
	presencesvc "resona/internal/presence/service"
	"resona/internal/realtime"
	"resona/internal/realtime/registry"
	"resona/internal/realtime/router"
)

const defaultSendBuffer = 64

type Handler struct {
	identity   *identity.Service
	registry   *registry.Registry
	router     *router.Router
	presence   *presencesvc.Service
	logger     *slog.Logger
	sendBuffer int
}

type Option func(*Handler)

// WithSendBuffer sets the per-connection outbound queue depth.
func WithSendBuffer(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

func New(ident *identity.Service, reg *registry.Registry, rt *router.Router, presence *presencesvc.Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		identity:   ident,
		registry:   reg,
		router:     rt,
		presence:   presence,
		logger:     logger,
		sendBuffer: defaultSendBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades, authenticates, registers, and then pumps inbound
// frames into the router until the transport dies.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sock, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket accept failed", "error", err)
		return
	}

	ident, err := h.identity.Authenticate(bearerToken(r), r.UserAgent())
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket auth failed",
			"error", err, "request_id", middleware.GetRequestID(r.Context()))
		// Never registered; policy violation is terminal.
		_ = sock.Close(websocket.StatusPolicyViolation, "authentication failed")
		return
	}

	c := newConn(sock, ident.UserID, ident.DeviceLabel, h.sendBuffer)
	go c.writeLoop()

	// Presence is durable before anyone can observe the connection.
	ctx := r.Context()
	if _, err := h.presence.MarkOnline(ctx, ident.UserID); err != nil {
		h.logger.ErrorContext(ctx, "online presence write failed",
			"error", err, "user_id", ident.UserID.String())
		c.Close(realtime.CloseInternalError)
		return
	}
	h.registry.Register(c)

	h.logger.InfoContext(ctx, "connection established",
		"user_id", ident.UserID.String(), "device", ident.DeviceLabel)

	h.readLoop(c, r)

	// Teardown writes must survive the request context.
	h.router.Disconnected(context.WithoutCancel(ctx), c)
	c.Close(realtime.CloseNormal)
	h.logger.InfoContext(ctx, "connection closed", "user_id", ident.UserID.String())
}

func (h *Handler) readLoop(c *conn, r *http.Request) {
	ctx := r.Context()
	for {
		msgType, frame, err := c.ws.Read(ctx)
		if err != nil {
			// Normal closure and network death end up here alike.
			return
		}
		if msgType != websocket.MessageText {
			continue
		}
		h.router.Dispatch(ctx, c, frame)
	}
}

// bearerToken pulls the credential from the Authorization header or, for
// browser clients that cannot set headers on a websocket, the token query
// parameter.
func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
