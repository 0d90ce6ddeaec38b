// Package fanout pushes one outbound envelope to many users at once.
//
// The engine is deliberately dumb: it serializes the envelope once, asks the
// registry who is reachable, and pushes. It never persists anything and never
// retries; durability is the caller's job, done before Push is invoked.
package fanout

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"resona/internal/platform/metrics"
	"resona/internal/realtime"
	"resona/internal/realtime/envelope"
	"resona/pkg/domain"
	dErrors "resona/pkg/domain-errors"
)

const defaultConcurrency = 32

// Lookuper is the read-side slice of the connection registry the engine needs.
type Lookuper interface {
	Lookup(userID domain.UserID) (realtime.Conn, bool)
}

type Engine struct {
	registry    Lookuper
	metrics     *metrics.Metrics
	logger      *slog.Logger
	concurrency int
}

type Option func(*Engine)

// WithConcurrency caps how many sends run at once per Push call.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func New(registry Lookuper, m *metrics.Metrics, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		registry:    registry,
		metrics:     m,
		logger:      logger,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Push serializes env once and delivers it to every target with a live
// connection. Unreachable targets are counted and skipped; a failed send to
// one target never blocks or aborts delivery to the rest. The only error
// Push returns is a serialization failure, which means nobody was sent
// anything.
func (e *Engine) Push(ctx context.Context, targets []domain.UserID, env envelope.Outbound) error {
	if len(targets) == 0 {
		return nil
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "serialize outbound envelope")
	}

	ctx, span := otel.Tracer("resona").Start(ctx, "fanout.Push",
		trace.WithAttributes(
			attribute.String("envelope.type", string(env.Type)),
			attribute.Int("fanout.targets", len(targets)),
		))
	defer span.End()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	var missed int64
	for _, target := range targets {
		conn, ok := e.registry.Lookup(target)
		if !ok {
			e.metrics.FanoutMissed.Inc()
			missed++
			continue
		}
		g.Go(func() error {
			if err := conn.Send(ctx, payload); err != nil {
				// The transport's own teardown path unregisters dead
				// connections; the engine just reports and moves on.
				e.logger.WarnContext(ctx, "fanout send failed",
					"error", err, "user_id", conn.UserID().String(), "type", string(env.Type))
				e.metrics.FanoutMissed.Inc()
				return nil
			}
			e.metrics.FanoutPushed.Inc()
			return nil
		})
	}
	_ = g.Wait()

	span.SetAttributes(attribute.Int64("fanout.unreachable", missed))
	return nil
}

// PushOne delivers env to a single user. Same semantics as Push.
func (e *Engine) PushOne(ctx context.Context, target domain.UserID, env envelope.Outbound) error {
	return e.Push(ctx, []domain.UserID{target}, env)
}
