package slackrt

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket/wsjson"
)

// Sink is the outbound side of the chat transport.
type Sink interface {
	Send(ctx context.Context, channel, text string) error
}

type transportMode string

const (
	transportHTTP transportMode = "http"
	transportWS   transportMode = "ws"
	transportAuto transportMode = "auto"
)

// NewSink builds a Sink for the configured transport. In auto mode the
// websocket is preferred while connected, with a single HTTP fallback.
func NewSink(mode string, c *Client, s *Socket, logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch transportMode(mode) {
	case transportWS:
		return &wsSink{socket: s}
	case transportAuto:
		return &autoSink{ws: &wsSink{socket: s}, http: &httpSink{c: c}, logger: logger}
	default:
		return &httpSink{c: c}
	}
}

type httpSink struct{ c *Client }

func (h *httpSink) Send(ctx context.Context, channel, text string) error {
	if h == nil || h.c == nil {
		return errors.New("http sink not available")
	}
	return h.c.PostMessage(ctx, channel, text)
}

// wsSink writes message frames directly on the RTM socket. Callers send
// sequentially from the processing loop, so no write lock is needed.
type wsSink struct{ socket *Socket }

func (w *wsSink) Send(ctx context.Context, channel, text string) error {
	if w == nil || w.socket == nil {
		return errors.New("ws sink not available")
	}
	conn := w.socket.connection()
	if conn == nil || w.socket.State() != StateConnected {
		return errors.New("ws not connected")
	}
	frame := OutboundMessage{
		ID:      uuid.NewString(),
		Type:    "message",
		Channel: channel,
		Text:    text,
	}
	dctx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	return wsjson.Write(dctx, conn, &frame)
}

type autoSink struct {
	ws     *wsSink
	http   *httpSink
	logger *zap.Logger
}

func (a *autoSink) Send(ctx context.Context, channel, text string) error {
	if a.ws != nil && a.ws.socket != nil && a.ws.socket.State() == StateConnected {
		if err := a.ws.Send(ctx, channel, text); err == nil {
			return nil
		}
		a.logger.Warn("egress_fallback", zap.String("channel", channel))
	}
	return a.http.Send(ctx, channel, text)
}
