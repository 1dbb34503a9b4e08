// Package chatserver implements the connection manager (C6) and the
// dual-protocol server loop (C7) described by the spec: it accepts TCP
// connections, classifies each as plain-text or WebSocket on the first
// read, and drives the send/broadcast/disconnect lifecycle shared by every
// dispatched command.
package chatserver

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tripwire/ircd/internal/registry"
	"github.com/tripwire/ircd/internal/wsframe"
)

// Manager owns the ConnectionTable and the UserRegistry (data model
// invariant 1: a connection id is present in one if and only if it is
// present in the other). It implements commands.Session; handlers borrow it
// for the duration of a single Dispatch call and never retain a reference.
//
// Connections map is a sync.Map rather than a mutex-guarded map because the
// Manager is its only writer (insert on accept, remove on disconnect) while
// Broadcast ranges over a live snapshot concurrently with reads from other
// goroutines — the same shape as the teacher's alert Broadcaster.
type Manager struct {
	logger *slog.Logger
	users  *registry.Users

	conns sync.Map // map[uuid.UUID]*connection

	cleanupMu sync.Mutex // serializes cleanup ticks so they never overlap
}

// NewManager creates a Manager backed by logger and an empty user registry.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger: logger,
		users:  registry.New(),
	}
}

// register inserts a freshly accepted connection and its default
// "Anonymous" nickname atomically with respect to invariant 1.
func (m *Manager) register(c *connection) {
	m.conns.Store(c.id, c)
	m.users.Set(c.id, registry.Anonymous)
}

// touch updates the connection's last_active timestamp to now. No-op for an
// unknown id.
func (m *Manager) touch(id uuid.UUID, now time.Time) {
	if v, ok := m.conns.Load(id); ok {
		v.(*connection).touch(now)
	}
}

// Send implements commands.Session. It appends a newline, encodes per the
// connection's protocol, and writes. A no-op if id is unknown.
func (m *Manager) Send(id uuid.UUID, text string) {
	v, ok := m.conns.Load(id)
	if !ok {
		return
	}
	c := v.(*connection)
	line := text + "\n"

	var err error
	switch c.protocol {
	case ProtocolWebSocket:
		err = c.write(wsframe.Encode(line))
	default:
		err = c.write([]byte(line))
	}
	if err != nil {
		m.logger.Warn("chatserver: send failed", slog.String("conn_id", id.String()), slog.Any("error", err))
	}
}

// Broadcast implements commands.Session. It iterates a snapshot of
// currently live connection ids and calls Send for each; delivery order
// across recipients is unspecified.
func (m *Manager) Broadcast(text string) {
	m.conns.Range(func(key, _ any) bool {
		m.Send(key.(uuid.UUID), text)
		return true
	})
}

// Disconnect implements commands.Session. It cancels the transport and
// removes id from both the ConnectionTable and the UserRegistry. Idempotent.
func (m *Manager) Disconnect(id uuid.UUID) {
	v, loaded := m.conns.LoadAndDelete(id)
	if !loaded {
		return
	}
	m.users.Remove(id)
	v.(*connection).close()
}

// SetNick implements commands.Session.
func (m *Manager) SetNick(id uuid.UUID, nick string) {
	m.users.Set(id, nick)
}

// GetNick implements commands.Session.
func (m *Manager) GetNick(id uuid.UUID) string {
	return m.users.Get(id)
}

// Count returns the number of currently live connections, for the admin
// /stats endpoint.
func (m *Manager) Count() int {
	n := 0
	m.conns.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// RunCleanup blocks, waking every tick to evict connections idle longer
// than ttl, until stop is closed. Ticks never overlap: if an eviction pass
// is still running when the next tick fires, that tick is simply the next
// loop iteration after the previous pass completes (time.Ticker does not
// queue missed ticks, and the pass itself runs on the same goroutine as the
// wait, so there is no concurrent second pass to skip).
func (m *Manager) RunCleanup(tick, ttl time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			m.evictIdle(now, ttl)
		}
	}
}

func (m *Manager) evictIdle(now time.Time, ttl time.Duration) {
	m.cleanupMu.Lock()
	defer m.cleanupMu.Unlock()

	var stale []uuid.UUID
	m.conns.Range(func(key, value any) bool {
		c := value.(*connection)
		if c.idleSince(now) > ttl {
			stale = append(stale, key.(uuid.UUID))
		}
		return true
	})

	for _, id := range stale {
		m.logger.Info("chatserver: evicting idle connection", slog.String("conn_id", id.String()))
		m.Disconnect(id)
	}
}
