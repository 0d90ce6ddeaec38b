// Package realtimetest provides in-memory fakes for realtime tests.
package realtimetest

import (
	"context"
	"sync"
	"time"

	"resona/internal/realtime"
	"resona/pkg/domain"
)

// Conn is an in-memory realtime.Conn that records sends and closes.
type Conn struct {
	userID      domain.UserID
	connectedAt time.Time

	mu       sync.Mutex
	sent     [][]byte
	closed   bool
	closedAs realtime.CloseReason
	sendErr  error
}

func NewConn(userID domain.UserID) *Conn {
	return &Conn{userID: userID, connectedAt: time.Now()}
}

func (c *Conn) UserID() domain.UserID  { return c.userID }
func (c *Conn) ConnectedAt() time.Time { return c.connectedAt }
func (c *Conn) DeviceLabel() string    { return "test device" }

func (c *Conn) Send(_ context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	c.sent = append(c.sent, buf)
	return nil
}

func (c *Conn) Close(reason realtime.CloseReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.closedAs = reason
	}
}

// FailSends makes every subsequent Send return err.
func (c *Conn) FailSends(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendErr = err
}

// Reset discards recorded sends so a test can assert on a later phase only.
func (c *Conn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = nil
}

// Sent returns a copy of every payload accepted so far, in order.
func (c *Conn) Sent() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) CloseReason() realtime.CloseReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closedAs
}
