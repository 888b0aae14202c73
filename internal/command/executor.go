package command

import (
	"context"

	"go.uber.org/zap"
)

// Sink receives the replies. Satisfied by slackrt.Sink.
type Sink interface {
	Send(ctx context.Context, channel, text string) error
}

// Executor runs a matched handler and unwinds its callback chain. Replies
// reach the sink in production order: primary reply first, then callbacks in
// listed order, depth-first.
//
// The chain is bounded two ways: a depth limit and a visited set of command
// terms per top-level dispatch. A follow-up resolves to a bare command term,
// so chained handlers must cope with only their term as input (they fall
// back to the message author as the implicit subject).
type Executor struct {
	registry *Registry
	sink     Sink
	log      *zap.Logger

	maxDepth int
	fallback string
}

func NewExecutor(registry *Registry, sink Sink, maxDepth int, fallback string, log *zap.Logger) *Executor {
	if maxDepth <= 0 {
		maxDepth = 2
	}
	if fallback == "" {
		fallback = fallbackReply
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{registry: registry, sink: sink, log: log, maxDepth: maxDepth, fallback: fallback}
}

// Run dispatches and fully processes one inbound message, including its
// callback chain. Unmatched messages are a silent no-op.
func (e *Executor) Run(ctx context.Context, msg Message) {
	proc, normalized, ok := e.registry.Dispatch(msg)
	if !ok {
		return
	}
	visited := make(map[string]bool)
	if h, isCommand := proc.(Handler); isCommand {
		visited[h.Term()] = true
	}
	e.execute(ctx, proc, normalized, 0, visited)
}

func (e *Executor) execute(ctx context.Context, proc Processor, msg Message, depth int, visited map[string]bool) {
	reply, err := proc.Process(ctx, msg)
	if err != nil {
		e.log.Warn("handler_error",
			zap.String("user", msg.User),
			zap.String("channel", msg.Channel),
			zap.Error(err))
		reply = Reply{Text: e.fallback}
	}

	if reply.Text != "" {
		if err := e.sink.Send(ctx, msg.Channel, reply.Text); err != nil {
			e.log.Error("send_reply", zap.String("channel", msg.Channel), zap.Error(err))
		}
	}

	origin := msg
	if reply.Origin != nil {
		origin = *reply.Origin
	}
	for _, term := range reply.Callbacks {
		if depth+1 > e.maxDepth {
			e.log.Warn("callback_depth_exceeded", zap.String("term", term), zap.Int("depth", depth+1))
			continue
		}
		if visited[term] {
			e.log.Warn("callback_repeated", zap.String("term", term))
			continue
		}
		visited[term] = true

		handler := e.registry.MatchCommand(term)
		if handler == nil {
			e.log.Warn("callback_unmatched", zap.String("term", term))
			continue
		}
		e.execute(ctx, handler, origin.WithText(term), depth+1, visited)
	}
}
