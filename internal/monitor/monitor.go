package monitor

import (
	"context"
	"log/slog"

	"github.com/cazacugmihai/CopyQ/internal/clip"
	"github.com/cazacugmihai/CopyQ/internal/guard"
	"github.com/cazacugmihai/CopyQ/internal/message"
	"github.com/cazacugmihai/CopyQ/internal/wire"
)

// Monitor ties the engine, the adapter, and the OS backend together under
// one cooperative event loop. Every event handler runs to completion on
// the loop goroutine before the next is dispatched, so engine state needs
// no locking.
type Monitor struct {
	backend clip.Backend
	guard   guard.Guard
	engine  *Engine
	adapter *Adapter
	inbound chan *message.Message
}

// New wires a monitor over an established server channel. cfg is the
// initial configuration; the server normally overrides it with a settings
// message right after connecting.
func New(backend clip.Backend, g guard.Guard, wc *wire.Conn, cfg Config) *Monitor {
	a := NewAdapter(wc)
	e := NewEngine(backend, g, a)
	e.cfg = cfg
	a.setEngine(e)
	return &Monitor{
		backend: backend,
		guard:   g,
		engine:  e,
		adapter: a,
		inbound: make(chan *message.Message, 8),
	}
}

// Run drives the event loop until the server closes the channel or ctx is
// cancelled. Pending debounced writes are not flushed on exit.
func (m *Monitor) Run(ctx context.Context) error {
	defer m.adapter.Close()
	go m.adapter.ReadLoop(m.inbound)

	clipCh := m.backend.Watch(clip.Clipboard)
	selCh := m.backend.Watch(clip.Selection)

	for {
		// Clipboard changes outrank selection changes: a pending
		// clipboard event is always handled first, so a mirror write it
		// causes is not evaluated as stale selection content.
		select {
		case <-clipCh:
			m.engine.CheckBuffer(clip.Clipboard)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clipCh:
			m.engine.CheckBuffer(clip.Clipboard)
		case <-selCh:
			m.checkSelection(clipCh)
		case <-m.guard.Retry():
			m.guard.Fired()
			m.checkSelection(clipCh)
		case <-m.engine.DebounceC():
			m.engine.DebounceFired()
		case msg, ok := <-m.inbound:
			if !ok {
				slog.Info("server closed connection")
				return nil
			}
			m.adapter.Dispatch(msg)
		}
	}
}

// checkSelection evaluates a selection change, flushing any clipboard
// event observed in the same instant first.
func (m *Monitor) checkSelection(clipCh <-chan struct{}) {
	select {
	case <-clipCh:
		m.engine.CheckBuffer(clip.Clipboard)
	default:
	}
	m.engine.CheckBuffer(clip.Selection)
}
