package command

import (
	"context"
	"strings"
)

// Processor is the common capability of commands and reactions.
type Processor interface {
	Process(ctx context.Context, msg Message) (Reply, error)
}

// Handler is a command keyed by an explicit term.
type Handler interface {
	Processor
	Term() string
	Help() string
	// Matches tests the mention-stripped text.
	Matches(text string) bool
}

// Reaction is triggered by message metadata rather than a command term.
type Reaction interface {
	Processor
	Matches(msg Message) bool
}

// baseCommand provides the default exact, case-sensitive first-token match.
type baseCommand struct {
	term string
	help string
}

func (b baseCommand) Term() string { return b.term }
func (b baseCommand) Help() string { return b.help }

func (b baseCommand) Matches(text string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && fields[0] == b.term
}

// Registry owns the ordered handler lists. Registration order is a de facto
// priority: dispatch is strictly first-match-wins, and the handler set is
// closed once the bot starts.
type Registry struct {
	parse     *Parser
	nfcBots   map[string]bool
	commands  []Handler
	reactions []Reaction
}

func NewRegistry(parse *Parser, nfcBots []string) *Registry {
	allow := make(map[string]bool, len(nfcBots))
	for _, id := range nfcBots {
		allow[id] = true
	}
	return &Registry{parse: parse, nfcBots: allow}
}

func (r *Registry) Register(h Handler)          { r.commands = append(r.commands, h) }
func (r *Registry) RegisterReaction(h Reaction) { r.reactions = append(r.reactions, h) }

// Commands exposes the registered handlers in order, for help listings.
func (r *Registry) Commands() []Handler { return r.commands }

// Dispatch matches the message to at most one handler. Messages addressing
// the bot are matched against commands on their mention-stripped text (which
// is returned as the normalized message); everything else is offered to the
// reaction handlers. A miss on both lists means no reply at all.
func (r *Registry) Dispatch(msg Message) (Processor, Message, bool) {
	if text, ok := r.commandText(msg); ok {
		if h := r.MatchCommand(text); h != nil {
			normalized := msg
			normalized.Text = text
			return h, normalized, true
		}
		return nil, Message{}, false
	}
	for _, re := range r.reactions {
		if re.Matches(msg) {
			return re, msg, true
		}
	}
	return nil, Message{}, false
}

// MatchCommand scans command handlers in registration order and returns the
// first whose predicate accepts the text.
func (r *Registry) MatchCommand(text string) Handler {
	for _, h := range r.commands {
		if h.Matches(text) {
			return h
		}
	}
	return nil
}

// commandText reports whether the message addresses the bot, returning the
// stripped command line. Relay bots on the allowlist are treated as if they
// had mentioned the bot.
func (r *Registry) commandText(msg Message) (string, bool) {
	if r.nfcBots[msg.User] {
		return strings.TrimSpace(r.parse.StripMention(msg.Text)), true
	}
	if strings.HasPrefix(strings.TrimSpace(msg.Text), r.parse.BotMention()) {
		return strings.TrimSpace(r.parse.StripMention(msg.Text)), true
	}
	return "", false
}
