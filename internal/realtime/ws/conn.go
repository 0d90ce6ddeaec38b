package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"resona/internal/realtime"
	"resona/pkg/domain"
)

// errSlowConsumer marks a connection dropped because its send buffer filled.
var errSlowConsumer = errors.New("send buffer full")

// conn adapts one accepted websocket to realtime.Conn. All outbound frames
// go through sendq and a single writer goroutine, which is what preserves
// per-connection delivery order under concurrent fan-out.
type conn struct {
	ws          *websocket.Conn
	userID      domain.UserID
	deviceLabel string
	connectedAt time.Time

	sendq chan []byte
	done  chan struct{}
	once  sync.Once
}

func newConn(ws *websocket.Conn, userID domain.UserID, deviceLabel string, sendBuffer int) *conn {
	return &conn{
		ws:          ws,
		userID:      userID,
		deviceLabel: deviceLabel,
		connectedAt: time.Now(),
		sendq:       make(chan []byte, sendBuffer),
		done:        make(chan struct{}),
	}
}

func (c *conn) UserID() domain.UserID  { return c.userID }
func (c *conn) ConnectedAt() time.Time { return c.connectedAt }
func (c *conn) DeviceLabel() string    { return c.deviceLabel }

// Send queues payload for the writer goroutine. A consumer that cannot keep
// up with its own buffer loses the connection rather than backpressuring the
// fan-out path.
func (c *conn) Send(_ context.Context, payload []byte) error {
	select {
	case <-c.done:
		return errors.New("connection closed")
	default:
	}
	select {
	case c.sendq <- payload:
		return nil
	case <-c.done:
		return errors.New("connection closed")
	default:
		c.Close(realtime.CloseInternalError)
		return errSlowConsumer
	}
}

// writeLoop is the only goroutine that writes to the websocket.
func (c *conn) writeLoop() {
	for {
		select {
		case payload := <-c.sendq:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := c.ws.Write(ctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				c.Close(realtime.CloseInternalError)
				return
			}
		case <-c.done:
			return
		}
	}
}

// Close tears the transport down exactly once. The websocket close frame
// carries a status mapped from the reason; the peer's read then fails and
// its own teardown runs.
func (c *conn) Close(reason realtime.CloseReason) {
	c.once.Do(func() {
		close(c.done)
		status, msg := closeStatus(reason)
		_ = c.ws.Close(status, msg)
	})
}

func closeStatus(reason realtime.CloseReason) (websocket.StatusCode, string) {
	switch reason {
	case realtime.ClosePolicyViolation:
		return websocket.StatusPolicyViolation, "authentication failed"
	case realtime.CloseSuperseded:
		return websocket.StatusGoingAway, "superseded by a newer connection"
	case realtime.CloseInternalError:
		return websocket.StatusInternalError, ""
	default:
		return websocket.StatusNormalClosure, ""
	}
}
