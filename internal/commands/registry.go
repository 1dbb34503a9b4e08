// Package commands implements the case-insensitive command-dispatch
// registry and the three built-in chat commands (NICK, MSG, QUIT).
package commands

import (
	"strings"

	"github.com/google/uuid"
)

// Session is the capability a handler borrows for the duration of one
// dispatch call. It is owned by the connection manager; handlers do not
// retain references to it beyond Execute returning.
type Session interface {
	// Send delivers text privately to the connection identified by id.
	// It is a no-op if id is not a live connection.
	Send(id uuid.UUID, text string)
	// Broadcast delivers text to every currently live connection,
	// including the caller.
	Broadcast(text string)
	// Disconnect terminates the connection identified by id. Idempotent.
	Disconnect(id uuid.UUID)
	// SetNick records nick as the nickname for id.
	SetNick(id uuid.UUID, nick string)
	// GetNick returns the nickname recorded for id, or "Anonymous".
	GetNick(id uuid.UUID) string
}

// Handler is the single-method capability every chat command implements.
type Handler interface {
	Execute(id uuid.UUID, tokens []string, sess Session)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(id uuid.UUID, tokens []string, sess Session)

// Execute calls f(id, tokens, sess).
func (f HandlerFunc) Execute(id uuid.UUID, tokens []string, sess Session) {
	f(id, tokens, sess)
}

// Registry is a case-insensitive command name → Handler lookup. It is
// populated once at startup and is immutable thereafter, so Dispatch
// requires no locking.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates a Registry with the three built-in commands already
// registered.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register("NICK", HandlerFunc(nickHandler))
	r.Register("MSG", HandlerFunc(msgHandler))
	r.Register("QUIT", HandlerFunc(quitHandler))
	return r
}

// Register uppercases name and inserts handler into the registry, replacing
// any existing handler for that name.
func (r *Registry) Register(name string, handler Handler) {
	r.handlers[strings.ToUpper(name)] = handler
}

// Dispatch uppercases name, looks up its handler, and invokes it. On a
// lookup miss it sends "Unknown command" privately to id and leaves the
// connection open.
func (r *Registry) Dispatch(id uuid.UUID, name string, tokens []string, sess Session) {
	handler, ok := r.handlers[strings.ToUpper(name)]
	if !ok {
		sess.Send(id, "Unknown command")
		return
	}
	handler.Execute(id, tokens, sess)
}

// Tokenize splits a decoded message line on the first space, producing at
// most two elements: the command name and the unsplit remainder (which may
// itself contain further spaces).
func Tokenize(line string) []string {
	idx := strings.IndexByte(line, ' ')
	if idx < 0 {
		return []string{line}
	}
	return []string{line[:idx], line[idx+1:]}
}
