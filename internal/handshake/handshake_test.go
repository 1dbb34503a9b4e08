package handshake_test

import (
	"testing"

	"github.com/tripwire/ircd/internal/handshake"
)

// TestAcceptKey_RFCVector is the handshake test vector from RFC 6455 §1.3:
// accept for Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ== must equal
// s3pPLMBiTxaQ9kYGzzhZRbK+xOo=.
func TestAcceptKey_RFCVector(t *testing.T) {
	got := handshake.AcceptKey("dGhlIHNhbXBsZSBub25jZQ==")
	want := "s3pPLMBiTxaQ9kYGzzhZRbK+xOo="
	if got != want {
		t.Errorf("AcceptKey() = %q, want %q", got, want)
	}
}

func TestIsUpgradeRequest(t *testing.T) {
	if !handshake.IsUpgradeRequest("GET / HTTP/1.1\r\nHost: x\r\n\r\n") {
		t.Error("expected GET request to be classified as an upgrade request")
	}
	if handshake.IsUpgradeRequest("NICK alice\n") {
		t.Error("expected a plain command line not to be classified as an upgrade request")
	}
}

func TestParseKey_Present(t *testing.T) {
	req := "GET /chat HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
		"Sec-WebSocket-Version: 13\r\n\r\n"

	key, ok := handshake.ParseKey(req)
	if !ok {
		t.Fatal("expected key to be found")
	}
	if key != "dGhlIHNhbXBsZSBub25jZQ==" {
		t.Errorf("ParseKey() = %q", key)
	}
}

func TestParseKey_Missing(t *testing.T) {
	req := "GET /chat HTTP/1.1\r\nHost: example.com\r\n\r\n"
	_, ok := handshake.ParseKey(req)
	if ok {
		t.Error("expected no key to be found")
	}
}

func TestResponse_Format(t *testing.T) {
	resp := string(handshake.Response("s3pPLMBiTxaQ9kYGzzhZRbK+xOo="))
	want := "HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: s3pPLMBiTxaQ9kYGzzhZRbK+xOo=\r\n\r\n"
	if resp != want {
		t.Errorf("Response() = %q, want %q", resp, want)
	}
}
