package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the realtime layer.
type Metrics struct {
	ConnectionsLive    prometheus.Gauge
	MessagesDispatched *prometheus.CounterVec
	HandlerFailures    *prometheus.CounterVec
	FanoutPushed       prometheus.Counter
	FanoutMissed       prometheus.Counter
	FeedPublishErrors  prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ConnectionsLive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "resona_connections_live",
			Help: "Current number of registered live connections",
		}),
		MessagesDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "resona_messages_dispatched_total",
			Help: "Total inbound envelopes dispatched, by message type",
		}, []string{"type"}),
		HandlerFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "resona_handler_failures_total",
			Help: "Total non-terminal handler failures, by message type",
		}, []string{"type"}),
		FanoutPushed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resona_fanout_pushed_total",
			Help: "Total events pushed to a reachable connection",
		}),
		FanoutMissed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resona_fanout_missed_total",
			Help: "Total fan-out targets that had no live connection",
		}),
		FeedPublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resona_feed_publish_errors_total",
			Help: "Total activity feed publish failures (fail-open)",
		}),
	}
}

// NewForTesting creates metrics on a private registry so parallel tests do
// not collide on promauto's default registerer.
func NewForTesting() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		ConnectionsLive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "resona_connections_live",
			Help: "Current number of registered live connections",
		}),
		MessagesDispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resona_messages_dispatched_total",
			Help: "Total inbound envelopes dispatched, by message type",
		}, []string{"type"}),
		HandlerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "resona_handler_failures_total",
			Help: "Total non-terminal handler failures, by message type",
		}, []string{"type"}),
		FanoutPushed: factory.NewCounter(prometheus.CounterOpts{
			Name: "resona_fanout_pushed_total",
			Help: "Total events pushed to a reachable connection",
		}),
		FanoutMissed: factory.NewCounter(prometheus.CounterOpts{
			Name: "resona_fanout_missed_total",
			Help: "Total fan-out targets that had no live connection",
		}),
		FeedPublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "resona_feed_publish_errors_total",
			Help: "Total activity feed publish failures (fail-open)",
		}),
	}
}
