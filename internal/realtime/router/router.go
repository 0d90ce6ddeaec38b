// Package router is the single dispatch path from inbound envelopes to the
// domain services. Every message type goes through the same table; there is
// no side channel.
//
// Dispatch is asynchronous: each accepted message runs in its own goroutine,
// so a slow persistence call never stalls the connection's read loop.
// Per-user delivery order is the transport's single-writer queue's problem,
// not the router's.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"resona/internal/activity"
	activitysvc "resona/internal/activity/service"
	"resona/internal/notification"
	notificationsvc "resona/internal/notification/service"
	"resona/internal/platform/metrics"
	"resona/internal/presence"
	presencesvc "resona/internal/presence/service"
	"resona/internal/realtime"
	"resona/internal/realtime/envelope"
	"resona/internal/realtime/fanout"
	"resona/internal/realtime/registry"
	"resona/internal/social"
	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
)

// Publisher mirrors the persisted activity stream to an external feed.
// Implementations must be fail-open; the router ignores publish errors.
type Publisher interface {
	Publish(ctx context.Context, event activity.Event)
}

type handlerFunc func(ctx context.Context, conn realtime.Conn, raw json.RawMessage) error

type Router struct {
	registry      *registry.Registry
	fanout        *fanout.Engine
	presence      *presencesvc.Service
	notifications *notificationsvc.Service
	activities    *activitysvc.Service
	graph         social.Resolver
	feed          Publisher // nil when no feed is configured
	metrics       *metrics.Metrics
	logger        *slog.Logger

	handlers map[envelope.Type]handlerFunc
	inflight sync.WaitGroup
}

type Option func(*Router)

// WithFeed mirrors persisted activity events to pub after each successful
// activity write.
func WithFeed(pub Publisher) Option {
	return func(r *Router) { r.feed = pub }
}

func New(
	reg *registry.Registry,
	engine *fanout.Engine,
	presence *presencesvc.Service,
	notifications *notificationsvc.Service,
	activities *activitysvc.Service,
	graph social.Resolver,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts ...Option,
) *Router {
	r := &Router{
		registry:      reg,
		fanout:        engine,
		presence:      presence,
		notifications: notifications,
		activities:    activities,
		graph:         graph,
		metrics:       m,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.handlers = map[envelope.Type]handlerFunc{
		envelope.TypeAuth:            r.handleAuth,
		envelope.TypePresence:        r.handlePresence,
		envelope.TypeNotification:    r.handleNotification,
		envelope.TypeActivity:        r.handleActivity,
		envelope.TypeDisconnect:      r.handleDisconnect,
		envelope.TypePlaylistUpdate:  r.handlePlaylistUpdate,
		envelope.TypeMessengerInvite: r.handleMessengerInvite,
	}
	return r
}

// Dispatch routes one raw inbound frame from conn. Malformed JSON and
// unknown types are logged and dropped without a reply; anything routable is
// handled asynchronously. Dispatch itself never fails the connection.
func (r *Router) Dispatch(ctx context.Context, conn realtime.Conn, raw []byte) {
	var in envelope.Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		r.logger.WarnContext(ctx, "dropping malformed frame",
			"error", err, "user_id", conn.UserID().String())
		return
	}
	if !envelope.Known(in.Type) {
		r.logger.WarnContext(ctx, "dropping unknown message type",
			"type", string(in.Type), "user_id", conn.UserID().String())
		return
	}

	handler := r.handlers[in.Type]
	r.metrics.MessagesDispatched.WithLabelValues(string(in.Type)).Inc()

	// Handlers outlive the read loop's context: closing the connection must
	// not cancel a persistence write already in flight.
	hctx := context.WithoutCancel(ctx)

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		err := r.invoke(hctx, handler, conn, in.Data)
		if err == nil {
			return
		}
		r.metrics.HandlerFailures.WithLabelValues(string(in.Type)).Inc()
		r.logger.ErrorContext(hctx, "message handler failed",
			"error", err, "type", string(in.Type), "user_id", conn.UserID().String())
		r.replyError(hctx, conn, err)
	}()
}

// Wait blocks until every in-flight handler has finished. Used on shutdown
// so persisted-but-unpushed work is not abandoned mid-write.
func (r *Router) Wait() {
	r.inflight.Wait()
}

// Disconnected handles a transport that dropped without a goodbye. The
// unregister is owner-checked: if this connection was already superseded,
// presence belongs to the replacement and nothing is written.
func (r *Router) Disconnected(ctx context.Context, conn realtime.Conn) {
	if !r.registry.Unregister(conn) {
		return
	}
	p, err := r.presence.MarkOffline(ctx, conn.UserID())
	if err != nil {
		r.logger.ErrorContext(ctx, "offline presence write failed",
			"error", err, "user_id", conn.UserID().String())
		return
	}
	if err := r.pushPresence(ctx, conn.UserID(), p); err != nil {
		r.logger.WarnContext(ctx, "offline presence fan-out failed",
			"error", err, "user_id", conn.UserID().String())
	}
}

// invoke runs one handler, converting a panic into an internal error so a
// broken handler never takes down the process or the connection.
func (r *Router) invoke(ctx context.Context, h handlerFunc, conn realtime.Conn, raw json.RawMessage) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = dErrors.New(dErrors.CodeInternal, fmt.Sprintf("handler panic: %v", rec))
		}
	}()
	return h(ctx, conn, raw)
}

// replyError sends the error envelope to the origin connection only. A reply
// that cannot be delivered is dropped; the connection's own teardown handles
// dead transports.
func (r *Router) replyError(ctx context.Context, conn realtime.Conn, cause error) {
	payload, err := json.Marshal(envelope.NewError(cause))
	if err != nil {
		return
	}
	if err := conn.Send(ctx, payload); err != nil {
		r.logger.WarnContext(ctx, "error reply not delivered",
			"error", err, "user_id", conn.UserID().String())
	}
}

// --- Handlers --------------------------------------------------------------

// handleAuth refreshes presence for an already-authenticated connection.
// Repeats are harmless: the registry entry is unchanged and lastSeen moves
// forward.
func (r *Router) handleAuth(ctx context.Context, conn realtime.Conn, raw json.RawMessage) error {
	d, err := envelope.DecodeAuth(raw)
	if err != nil {
		return err
	}
	if !d.UserID.IsNil() && d.UserID != conn.UserID() {
		return dErrors.New(dErrors.CodeForbidden, "auth payload does not match connection identity")
	}

	p, err := r.presence.MarkOnline(ctx, conn.UserID())
	if err != nil {
		return err
	}
	return r.pushPresence(ctx, conn.UserID(), p)
}

// handlePresence persists the sender's current activity and tells their
// followers. The sender is excluded from the audience; they already know.
func (r *Router) handlePresence(ctx context.Context, conn realtime.Conn, raw json.RawMessage) error {
	d, err := envelope.DecodePresence(raw)
	if err != nil {
		return err
	}

	var act *presence.Activity
	if d.Activity != nil {
		act = &presence.Activity{Type: d.Activity.Type, Name: d.Activity.Name}
	}
	p, err := r.presence.UpdateActivity(ctx, conn.UserID(), act)
	if err != nil {
		return err
	}
	return r.pushPresence(ctx, conn.UserID(), p)
}

func (r *Router) handleNotification(ctx context.Context, conn realtime.Conn, raw json.RawMessage) error {
	d, err := envelope.DecodeNotification(raw)
	if err != nil {
		return err
	}

	n, err := r.notifications.Create(ctx, d.Recipient, notification.Kind(d.Kind), d.Message, d.Metadata)
	if err != nil {
		return err
	}
	return r.fanout.PushOne(ctx, d.Recipient, envelope.Outbound{Type: envelope.TypeNotification, Data: n})
}

func (r *Router) handleActivity(ctx context.Context, conn realtime.Conn, raw json.RawMessage) error {
	d, err := envelope.DecodeActivity(raw)
	if err != nil {
		return err
	}

	actor := conn.UserID()
	e, err := r.activities.Record(ctx, actor, activity.Kind(d.Kind), d.TargetID, d.Metadata)
	if err != nil {
		return err
	}
	if r.feed != nil {
		r.feed.Publish(ctx, e)
	}

	followers, err := r.graph.Followers(ctx, actor)
	if err != nil {
		return err
	}

	// Live payload carries the actor's display fields so clients render
	// without a second lookup.
	profile, err := r.graph.Profile(ctx, actor)
	if err != nil {
		r.logger.WarnContext(ctx, "actor profile lookup failed",
			"error", err, "user_id", actor.String())
		profile = social.Profile{ID: actor}
	}
	payload := activity.Enriched{Event: e, ActorProfile: profile}

	return r.fanout.Push(ctx, followers, envelope.Outbound{Type: envelope.TypeActivity, Data: payload})
}

// handleDisconnect is the orderly goodbye. Offline presence is persisted
// before followers hear about it, and the unregister is owner-checked so a
// stale goodbye cannot evict a replacement connection.
func (r *Router) handleDisconnect(ctx context.Context, conn realtime.Conn, raw json.RawMessage) error {
	if _, err := envelope.DecodeDisconnect(raw); err != nil {
		return err
	}

	p, err := r.presence.MarkOffline(ctx, conn.UserID())
	if err != nil {
		return err
	}
	r.registry.Unregister(conn)
	return r.pushPresence(ctx, conn.UserID(), p)
}

func (r *Router) handlePlaylistUpdate(ctx context.Context, conn realtime.Conn, raw json.RawMessage) error {
	d, err := envelope.DecodePlaylistUpdate(raw)
	if err != nil {
		return err
	}

	// Membership changes are durable before anyone hears about them.
	switch d.Change {
	case envelope.PlaylistChangeInvite, envelope.PlaylistChangeRemoval:
		kind := notification.KindPlaylistInvite
		message := "You were invited to a playlist"
		if d.Change == envelope.PlaylistChangeRemoval {
			kind = notification.KindPlaylistRemoval
			message = "You were removed from a playlist"
		}
		meta := notification.MustMetadata(notification.PlaylistMetadata{
			PlaylistID: d.PlaylistID,
			Actor:      conn.UserID(),
		})
		if _, err := r.notifications.Create(ctx, d.Member, kind, message, meta); err != nil {
			return err
		}
	}

	members, err := r.graph.Collaborators(ctx, d.PlaylistID)
	if err != nil {
		return err
	}
	return r.fanout.Push(ctx, members, envelope.Outbound{Type: envelope.TypePlaylistUpdate, Data: d})
}

func (r *Router) handleMessengerInvite(ctx context.Context, conn realtime.Conn, raw json.RawMessage) error {
	d, err := envelope.DecodeMessengerInvite(raw)
	if err != nil {
		return err
	}

	meta := notification.MustMetadata(notification.MessengerInviteMetadata{From: conn.UserID()})
	message := d.Message
	if message == "" {
		message = "wants to listen together"
	}
	n, err := r.notifications.Create(ctx, d.Target, notification.KindMessengerInvite, message, meta)
	if err != nil {
		return err
	}
	return r.fanout.PushOne(ctx, d.Target, envelope.Outbound{Type: envelope.TypeMessengerInvite, Data: n})
}

// pushPresence fans a persisted presence snapshot out to the user's
// followers, excluding the user themselves.
func (r *Router) pushPresence(ctx context.Context, userID domain.UserID, p presence.Presence) error {
	followers, err := r.graph.Followers(ctx, userID)
	if err != nil {
		return err
	}
	targets := make([]domain.UserID, 0, len(followers))
	for _, f := range followers {
		if f != userID {
			targets = append(targets, f)
		}
	}
	return r.fanout.Push(ctx, targets, envelope.Outbound{Type: envelope.TypePresence, Data: p})
}
