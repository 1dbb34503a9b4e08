package chatserver

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Protocol identifies which framing a connection uses once classified by
// the first read. It is assigned exactly once and never changes.
type Protocol int

const (
	// ProtocolUnknown is the zero value before the first read classifies
	// the connection.
	ProtocolUnknown Protocol = iota
	// ProtocolPlain is the line-delimited UTF-8 protocol.
	ProtocolPlain
	// ProtocolWebSocket is RFC 6455 data framing.
	ProtocolWebSocket
)

// connection holds per-connection state owned exclusively by the
// Manager. Handlers never see this type directly; they interact with it
// only through the Manager's Session methods.
type connection struct {
	id   uuid.UUID
	conn net.Conn

	protocol Protocol // assigned once by the server loop, read-only after

	mu         sync.Mutex
	lastActive time.Time
	closed     bool
}

func newConnection(id uuid.UUID, nc net.Conn, now time.Time) *connection {
	return &connection{
		id:         id,
		conn:       nc,
		lastActive: now,
	}
}

// touch updates last_active to now. Safe for concurrent use.
func (c *connection) touch(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActive = now
}

// idleSince reports how long it has been since the last successful read, as
// of now.
func (c *connection) idleSince(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.lastActive)
}

// write writes raw bytes to the underlying transport, re-framed by the
// caller for WebSocket connections. Writes to an already-closed connection
// are silently dropped.
func (c *connection) write(b []byte) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil
	}
	_, err := c.conn.Write(b)
	return err
}

// close cancels the transport exactly once. Idempotent.
func (c *connection) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	_ = c.conn.Close()
}
