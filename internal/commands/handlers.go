package commands

import "github.com/google/uuid"

// nickHandler implements NICK: tokens[1] (if present) becomes the caller's
// new nickname, else it resets to "Anonymous". Replies privately.
func nickHandler(id uuid.UUID, tokens []string, sess Session) {
	nick := "Anonymous"
	if len(tokens) > 1 && tokens[1] != "" {
		nick = tokens[1]
	}
	sess.SetNick(id, nick)
	sess.Send(id, "Your nickname is now "+nick)
}

// msgHandler implements MSG: broadcasts "<nick>: <payload>" to every live
// connection, including the originator.
func msgHandler(id uuid.UUID, tokens []string, sess Session) {
	payload := "(empty)"
	if len(tokens) > 1 && tokens[1] != "" {
		payload = tokens[1]
	}
	nick := sess.GetNick(id)
	sess.Broadcast(nick + ": " + payload)
}

// quitHandler implements QUIT: sends a farewell to the originator, then
// disconnects it. The farewell is sent before Disconnect is invoked so it is
// flushed to the transport first.
func quitHandler(id uuid.UUID, _ []string, sess Session) {
	sess.Send(id, "Goodbye!")
	sess.Disconnect(id)
}
