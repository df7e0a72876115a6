// Package monitor implements the clipboard-change watcher core: the
// deduplicating sync engine, the channel adapter that speaks the server
// protocol, and the single-threaded event loop that drives both.
package monitor

import (
	"log/slog"
	"time"

	"github.com/cazacugmihai/CopyQ/internal/clip"
	"github.com/cazacugmihai/CopyQ/internal/guard"
	"github.com/cazacugmihai/CopyQ/internal/message"
	"github.com/cazacugmihai/CopyQ/internal/snapshot"
)

// DebounceInterval is the quiet period that coalesces bursts of server
// pushes into a single effective clipboard write.
const DebounceInterval = 500 * time.Millisecond

// Config holds the monitor options a settings message can set.
type Config struct {
	// Formats is the accepted format allow-list; empty accepts all.
	Formats []string
	// CheckClipboard reports primary-buffer changes to the server.
	CheckClipboard bool
	// CopyClipboard mirrors primary-buffer changes to the selection.
	CopyClipboard bool
	// CheckSelection reports selection-buffer changes to the server.
	CheckSelection bool
	// CopySelection mirrors selection-buffer changes to the clipboard.
	CopySelection bool
}

// Notifier receives changed-content events for delivery to the server.
type Notifier interface {
	Notify(buf clip.Buffer, s snapshot.Snapshot) error
}

// Engine is the synchronization state machine. It owns the last-seen
// fingerprint, the configuration flags, and the single pending push
// awaiting debounce expiry. All methods must be called from the event-loop
// goroutine; the engine does no locking by construction.
type Engine struct {
	backend  clip.Backend
	guard    guard.Guard
	notifier Notifier

	cfg      Config
	lastHash uint64

	// pending is the most recent server push not yet written; a newer
	// push discards an older unfired one.
	pending        snapshot.Snapshot
	debounce       *time.Timer
	debounceActive bool
	interval       time.Duration
}

// NewEngine creates an engine with a stopped debounce timer.
func NewEngine(backend clip.Backend, g guard.Guard, n Notifier) *Engine {
	t := time.NewTimer(DebounceInterval)
	if !t.Stop() {
		<-t.C
	}
	return &Engine{
		backend:  backend,
		guard:    g,
		notifier: n,
		debounce: t,
		interval: DebounceInterval,
	}
}

// DebounceC returns the debounce timer channel for the event loop.
func (e *Engine) DebounceC() <-chan time.Time { return e.debounce.C }

// CheckBuffer evaluates an external change to buf: reads the buffer,
// filters it against the accepted formats, deduplicates by fingerprint,
// and reports and/or mirrors the content per configuration. Echoes of the
// engine's own writes and changes to unwatched buffers are ignored.
func (e *Engine) CheckBuffer(buf clip.Buffer) {
	switch buf {
	case clip.Clipboard:
		if (!e.cfg.CheckClipboard && !e.cfg.CopyClipboard) || e.backend.Owns(buf) {
			return
		}
	case clip.Selection:
		if (!e.cfg.CheckSelection && !e.cfg.CopySelection) || e.backend.Owns(buf) {
			return
		}
		// wait while selection is incomplete, i.e. mouse button or
		// shift key is pressed
		if e.guard.Forming() {
			slog.Debug("selection still forming, deferring")
			return
		}
	default:
		return
	}

	data, err := e.backend.Read(buf)
	if err != nil {
		slog.Error("cannot access clipboard data", "buffer", buf.String(), "err", err)
		return
	}

	data = snapshot.Restrict(data, e.cfg.Formats)
	if len(data) == 0 {
		return
	}

	newHash := snapshot.Hash(data)
	if newHash == e.lastHash {
		return
	}
	e.lastHash = newHash

	report, mirror := e.cfg.CheckClipboard, e.cfg.CopyClipboard
	if buf == clip.Selection {
		report, mirror = e.cfg.CheckSelection, e.cfg.CopySelection
	}

	if report {
		logSnapshot("buffer changed", buf, data)
		if err := e.notifier.Notify(buf, data); err != nil {
			slog.Error("cannot send message to server", "err", err)
		}
	}
	if mirror && (buf == clip.Selection || e.backend.SupportsSelection()) {
		if err := e.backend.Write(buf.Opposite(), data.Clone()); err != nil {
			slog.Error("mirror write failed", "buffer", buf.Opposite().String(), "err", err)
		}
	}
}

// OnPush stores a server push, replacing any unfired pending one, and
// applies it immediately unless the debounce timer is running.
func (e *Engine) OnPush(s snapshot.Snapshot) {
	e.pending = s
	if e.debounceActive {
		return
	}
	e.applyPending()
}

// DebounceFired handles debounce expiry: the latest deferred push, if any,
// is applied now. A push is authoritative, so the apply skips the dedup
// check entirely.
func (e *Engine) DebounceFired() {
	e.debounceActive = false
	if e.pending != nil {
		e.applyPending()
	}
}

func (e *Engine) applyPending() {
	s := e.pending
	e.pending = nil

	e.lastHash = snapshot.Hash(s)
	logSnapshot("applying server push", clip.Clipboard, s)
	if err := e.backend.Write(clip.Clipboard, s); err != nil {
		slog.Error("clipboard write failed", "err", err)
	}
	if e.backend.SupportsSelection() {
		if err := e.backend.Write(clip.Selection, s.Clone()); err != nil {
			slog.Error("selection write failed", "err", err)
		}
	}

	e.debounceActive = true
	e.debounce.Reset(e.interval)
}

// ApplySettings performs a partial configuration update: only fields
// present in the mapping change. The last-seen hash is bootstrapped from
// _last_hash only while nothing has been observed yet, so a restarted
// monitor neither re-broadcasts the content the server already has nor
// misses a change that happened while it was down.
func (e *Engine) ApplySettings(s *message.Settings) {
	if e.lastHash == snapshot.UnknownHash && s.LastHash != nil {
		e.lastHash = *s.LastHash
	}
	if s.Formats != nil {
		e.cfg.Formats = message.SplitFormats(*s.Formats)
	}
	if s.CheckClipboard != nil {
		e.cfg.CheckClipboard = *s.CheckClipboard
	}
	if s.CopyClipboard != nil {
		e.cfg.CopyClipboard = *s.CopyClipboard
	}
	if s.CheckSelection != nil {
		e.cfg.CheckSelection = *s.CheckSelection
	}
	if s.CopySelection != nil {
		e.cfg.CopySelection = *s.CopySelection
	}
	slog.Debug("settings applied",
		"formats", e.cfg.Formats,
		"check_clipboard", e.cfg.CheckClipboard,
		"copy_clipboard", e.cfg.CopyClipboard,
		"check_selection", e.cfg.CheckSelection,
		"copy_selection", e.cfg.CopySelection,
	)
}

// Recheck re-evaluates both buffers against current state, selection
// first, so a settings change takes effect without waiting for the next
// OS event.
func (e *Engine) Recheck() {
	if e.backend.SupportsSelection() {
		e.CheckBuffer(clip.Selection)
	}
	e.CheckBuffer(clip.Clipboard)
}
