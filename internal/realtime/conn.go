// Package realtime defines the contracts shared by the connection registry,
// message router, and fan-out engine.
package realtime

import (
	"context"
	"time"

	"resona/pkg/domain"
)

// CloseReason classifies why the server is closing a connection. The
// websocket transport maps these onto close codes.
type CloseReason int

const (
	// ClosePolicyViolation: handshake authentication failed. Terminal; the
	// connection was never registered.
	ClosePolicyViolation CloseReason = iota
	// CloseSuperseded: a newer connection for the same user replaced this one.
	CloseSuperseded
	// CloseInternalError: the server hit a fault it cannot recover for this
	// connection.
	CloseInternalError
	// CloseNormal: orderly shutdown.
	CloseNormal
)

// Conn is one live, ordered, reliable transport to a single user. The
// registry is the only writer of the user->Conn mapping; everything else
// holds a Conn only long enough to send.
//
// Send must preserve the order in which it accepts payloads for this
// connection. It must be safe for concurrent use: handlers dispatch
// asynchronously and several may push to the same target at once.
type Conn interface {
	UserID() domain.UserID
	ConnectedAt() time.Time
	DeviceLabel() string

	Send(ctx context.Context, payload []byte) error
	// Close tears down the transport. Safe to call more than once.
	Close(reason CloseReason)
}
