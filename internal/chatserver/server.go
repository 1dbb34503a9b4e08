package chatserver

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripwire/ircd/internal/commands"
	"github.com/tripwire/ircd/internal/handshake"
	"github.com/tripwire/ircd/internal/logsink"
	"github.com/tripwire/ircd/internal/wsframe"
)

// readBufSize is the per-read buffer used once a connection is
// WebSocketReady; the spec assumes one frame arrives per read.
const readBufSize = 1024

// Server drives the dual-protocol accept loop (C7): it accepts TCP
// connections, classifies each on the first read as plain or WebSocket, and
// dispatches decoded lines/frames through the command registry.
type Server struct {
	listener net.Listener
	manager  *Manager
	registry *commands.Registry
	sink     *logsink.Sink
	logger   *slog.Logger
}

// NewServer listens on addr and returns a Server ready to Run.
func NewServer(addr string, manager *Manager, registry *commands.Registry, sink *logsink.Sink, logger *slog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		listener: ln,
		manager:  manager,
		registry: registry,
		sink:     sink,
		logger:   logger,
	}, nil
}

// Addr returns the listener's bound address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops accepting new connections. In-flight connections run to
// completion on their own goroutines.
func (s *Server) Close() error {
	return s.listener.Close()
}

// Run accepts connections until the listener is closed, spawning one
// goroutine per connection. It returns nil when Close causes Accept to
// fail with net.ErrClosed, and the Accept error otherwise.
func (s *Server) Run() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.handleConn(conn)
	}
}

// handleConn drives one connection through the state machine in spec §4.7:
// Accepted -> classify -> (WebSocketReady | PlainReady) -> dispatch loop ->
// Closed.
func (s *Server) handleConn(nc net.Conn) {
	id := uuid.New()
	now := time.Now()
	c := newConnection(id, nc, now)
	s.manager.register(c)

	first := make([]byte, handshake.MaxFirstRead)
	n, err := nc.Read(first)
	if err != nil {
		s.manager.Disconnect(id)
		return
	}
	s.manager.touch(id, time.Now())
	first = first[:n]

	if handshake.IsUpgradeRequest(string(first)) {
		s.admitWebSocket(c, first)
		return
	}

	c.protocol = ProtocolPlain
	s.runPlainLoop(c, first)
}

// admitWebSocket completes the RFC 6455 opening handshake (C3) and, on
// success, transitions the connection to WebSocketReady and begins
// frame-reading. A missing key or a failed write is a HandshakeError:
// disconnect before any read path is installed.
func (s *Server) admitWebSocket(c *connection, request []byte) {
	key, ok := handshake.ParseKey(string(request))
	if !ok {
		s.logger.Warn("chatserver: handshake missing Sec-WebSocket-Key", slog.String("conn_id", c.id.String()))
		s.manager.Disconnect(c.id)
		return
	}

	accept := handshake.AcceptKey(key)
	if err := c.write(handshake.Response(accept)); err != nil {
		s.logger.Warn("chatserver: handshake response write failed", slog.String("conn_id", c.id.String()), slog.Any("error", err))
		s.manager.Disconnect(c.id)
		return
	}

	c.protocol = ProtocolWebSocket
	s.runWebSocketLoop(c)
}

// runPlainLoop reads CRLF/LF-terminated command lines. firstRead is
// re-processed as the start of the stream so bytes already consumed by
// classification are not lost (spec §9, "first-read reprocessing").
func (s *Server) runPlainLoop(c *connection, firstRead []byte) {
	reader := bufio.NewReader(io.MultiReader(bytes.NewReader(firstRead), c.conn))

	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			s.manager.touch(c.id, time.Now())
			s.dispatchLine(c, line)
			if c.isClosed() {
				return
			}
		}
		if err != nil {
			s.manager.Disconnect(c.id)
			return
		}
	}
}

// runWebSocketLoop reads one frame per Read call and decodes it via
// wsframe.Decode, per the spec's "one frame per read" assumption.
func (s *Server) runWebSocketLoop(c *connection) {
	buf := make([]byte, readBufSize)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			s.manager.Disconnect(c.id)
			return
		}
		s.manager.touch(c.id, time.Now())

		payload, isClose := wsframe.Decode(buf[:n])
		if isClose {
			s.manager.Disconnect(c.id)
			return
		}
		if payload == "" {
			continue // malformed/unmasked frame: decoder already logged nothing, dispatch skipped
		}

		s.dispatchLine(c, payload)
		if c.isClosed() {
			return
		}
	}
}

// dispatchLine trims a decoded line, appends it to the log sink, tokenizes
// it, and dispatches it through the command registry.
func (s *Server) dispatchLine(c *connection, line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	if err := s.sink.Append(trimmed); err != nil {
		s.logger.Error("chatserver: log sink append failed", slog.Any("error", err))
	}

	tokens := commands.Tokenize(trimmed)
	s.registry.Dispatch(c.id, tokens[0], tokens, s.manager)
}

// isClosed reports whether the connection has already been disconnected
// (e.g. by a QUIT handler mid-dispatch), so the read loop can stop without
// attempting another read on a closed socket.
func (c *connection) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
