// Package handshake classifies a connection's first read as either a
// WebSocket upgrade request or a plain-protocol command line, and computes
// the RFC 6455 opening handshake response for the former.
package handshake

import (
	"encoding/base64"
	"strings"

	"github.com/tripwire/ircd/internal/digest"
)

// GUID is the fixed value RFC 6455 §4.1 mandates for deriving
// Sec-WebSocket-Accept from Sec-WebSocket-Key.
const GUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// MaxFirstRead bounds the first read used to classify a new connection.
const MaxFirstRead = 1024

// secWebSocketKeyHeader is the exact header name (RFC casing) scanned for in
// the upgrade request.
const secWebSocketKeyHeader = "Sec-WebSocket-Key:"

// IsUpgradeRequest reports whether the decoded first-read text begins with
// an HTTP GET request line, the signal this server uses to distinguish a
// WebSocket upgrade from the plain line-oriented protocol.
func IsUpgradeRequest(text string) bool {
	return strings.HasPrefix(text, "GET ")
}

// ParseKey scans the CRLF-delimited header lines of an HTTP upgrade request
// for a Sec-WebSocket-Key line and returns its trimmed value. ok is false
// when no such header is present.
func ParseKey(request string) (key string, ok bool) {
	lines := strings.Split(request, "\r\n")
	for _, line := range lines {
		if strings.HasPrefix(line, secWebSocketKeyHeader) {
			value := strings.TrimSpace(strings.TrimPrefix(line, secWebSocketKeyHeader))
			if value == "" {
				return "", false
			}
			return value, true
		}
	}
	return "", false
}

// AcceptKey computes base64(SHA1(key || GUID)), the value returned in the
// Sec-WebSocket-Accept response header (RFC 6455 §4.2.2).
func AcceptKey(key string) string {
	sum := digest.SHA1([]byte(key + GUID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Response builds the literal bytes of the 101 Switching Protocols response
// for the given accept key.
func Response(acceptKey string) []byte {
	return []byte(
		"HTTP/1.1 101 Switching Protocols\r\n" +
			"Upgrade: websocket\r\n" +
			"Connection: Upgrade\r\n" +
			"Sec-WebSocket-Accept: " + acceptKey + "\r\n\r\n",
	)
}
