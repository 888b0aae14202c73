package command

// Message is an immutable snapshot of one inbound chat event. Callback
// chaining derives new values via WithText; nothing mutates a message in
// place once dispatched.
type Message struct {
	Text    string
	User    string
	Channel string
	Subtype string

	// UserName is only populated on membership events that carry a
	// profile, e.g. channel_join.
	UserName string
}

// WithText returns a copy carrying the synthesized text, same author and
// channel. This is how a follow-up command inherits its implicit subject.
func (m Message) WithText(text string) Message {
	m.Text = text
	m.Subtype = ""
	return m
}

// Reply is a handler's outcome: optional text for the originating channel
// plus follow-up command terms to run against a synthesized message.
type Reply struct {
	Text      string
	Callbacks []string

	// Origin, when set, is the message the callbacks derive from instead
	// of the inbound one. Relay commands set it so the chain runs as the
	// player they recorded for, not as the relaying bot.
	Origin *Message
}
