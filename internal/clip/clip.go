// Package clip provides a unified interface to the system clipboard buffers
// across platforms. Build constraints select the appropriate implementation:
//
//	clip_darwin.go   — macOS via golang.design/x/clipboard + cgo changeCount
//	clip_windows.go  — Windows via golang.design/x/clipboard + AddClipboardFormatListener
//	clip_linux.go    — Linux via golang.design/x/clipboard, polling; X11 PRIMARY
//	                   selection through xclip/xsel when available
//	clip_other.go    — headless / container stub
//
// Only Linux/X11 exposes the secondary selection buffer; elsewhere
// SupportsSelection reports false and selection operations are no-ops.
package clip

import "github.com/cazacugmihai/CopyQ/internal/snapshot"

// Buffer identifies one of the system buffers the monitor watches.
type Buffer int

const (
	// Clipboard is the primary system clipboard (explicit copy/paste).
	Clipboard Buffer = iota
	// Selection is the X11 PRIMARY selection (most recent mouse selection).
	Selection
)

func (b Buffer) String() string {
	if b == Selection {
		return "selection"
	}
	return "clipboard"
}

// Opposite returns the other buffer, for mirror writes.
func (b Buffer) Opposite() Buffer {
	if b == Clipboard {
		return Selection
	}
	return Clipboard
}

// Backend is the interface that all platform clipboard implementations satisfy.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Read returns the current contents of buf. Returns an empty snapshot
	// if the buffer is empty or holds only unsupported formats, and an
	// error if the buffer cannot be accessed right now (locked by another
	// application, display gone).
	Read(buf Buffer) (snapshot.Snapshot, error)

	// Write replaces the contents of buf.
	Write(buf Buffer, s snapshot.Snapshot) error

	// Owns reports whether the current contents of buf were put there by
	// this process. Used to recognise change notifications that merely
	// echo our own writes.
	Owns(buf Buffer) bool

	// SupportsSelection reports whether the platform exposes a secondary
	// selection buffer.
	SupportsSelection() bool

	// Watch returns a channel that receives a signal whenever buf changes.
	// The channel is never closed. On platforms without native change
	// notification this is implemented via polling. The caller reads the
	// buffer itself when it receives from the channel. Watch(Selection)
	// on a platform without a selection buffer returns a channel that
	// never fires.
	Watch(buf Buffer) <-chan struct{}

	// Close releases any resources held by the backend.
	Close()
}
