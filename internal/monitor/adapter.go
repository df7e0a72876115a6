package monitor

import (
	"log/slog"

	"github.com/cazacugmihai/CopyQ/internal/clip"
	"github.com/cazacugmihai/CopyQ/internal/message"
	"github.com/cazacugmihai/CopyQ/internal/snapshot"
	"github.com/cazacugmihai/CopyQ/internal/wire"
)

// Adapter translates between the engine and the server channel: it frames
// outbound change notifications and dispatches inbound messages to either
// a settings update or a content push.
type Adapter struct {
	wc     *wire.Conn
	engine *Engine
}

// NewAdapter wraps wc. Bind the engine afterwards via setEngine (done by
// monitor.New, which owns the construction order).
func NewAdapter(wc *wire.Conn) *Adapter {
	return &Adapter{wc: wc}
}

func (a *Adapter) setEngine(e *Engine) { a.engine = e }

// Close closes the underlying channel, unblocking the read loop.
func (a *Adapter) Close() error { return a.wc.Close() }

// Notify implements Notifier: one changed-content event framed onto the
// channel.
func (a *Adapter) Notify(buf clip.Buffer, s snapshot.Snapshot) error {
	kind := message.KindClipboard
	if buf == clip.Selection {
		kind = message.KindSelection
	}
	return a.wc.WriteMsg(&message.Message{Kind: kind, Items: message.FromSnapshot(s)})
}

// ReadLoop reads framed messages until the transport fails and delivers
// them on msgs, which it closes on exit. A malformed frame aborts only the
// current read — the loop keeps listening. Run in its own goroutine; the
// event loop consumes msgs so every message is still handled
// run-to-completion.
func (a *Adapter) ReadLoop(msgs chan<- *message.Message) {
	defer close(msgs)
	for {
		msg, err := a.wc.ReadMsg()
		if err != nil {
			if wire.IsProtocol(err) {
				slog.Error("cannot read message from server", "err", err)
				continue
			}
			return
		}
		msgs <- msg
	}
}

// Dispatch routes one inbound message: a settings message reconfigures the
// engine and triggers an immediate re-check of both buffers; anything else
// is a content push.
func (a *Adapter) Dispatch(msg *message.Message) {
	settings, err := msg.Settings()
	if err != nil {
		slog.Error("malformed settings message", "err", err)
		return
	}
	if settings != nil {
		a.engine.ApplySettings(settings)
		a.engine.Recheck()
		return
	}

	s, err := msg.Snapshot()
	if err != nil {
		slog.Error("malformed content push", "err", err)
		return
	}
	if len(s) == 0 {
		return
	}
	a.engine.OnPush(s)
}
