//go:build darwin

package clip

// #cgo CFLAGS: -x objective-c
// #cgo LDFLAGS: -framework Cocoa
// #import <Cocoa/Cocoa.h>
//
// NSInteger copyq_changeCount() {
//     return [[NSPasteboard generalPasteboard] changeCount];
// }
import "C"

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.design/x/clipboard"

	"github.com/cazacugmihai/CopyQ/internal/snapshot"
)

const darwinPollInterval = 100 * time.Millisecond

type darwinBackend struct {
	lastChange C.NSInteger
	clipCh     chan struct{}
	selCh      chan struct{}
	done       chan struct{}

	mu      sync.Mutex
	ownDone <-chan struct{}
}

// New returns the macOS clipboard backend. NSPasteboard has no change
// notification, so changeCount is polled. macOS has no secondary selection
// buffer.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard init failed", "err", err)
		return &headlessBackend{clipCh: make(chan struct{}), selCh: make(chan struct{})}
	}
	b := &darwinBackend{
		lastChange: C.copyq_changeCount(),
		clipCh:     make(chan struct{}, 1),
		selCh:      make(chan struct{}),
		done:       make(chan struct{}),
	}
	go b.poll()
	return b
}

func (b *darwinBackend) Name() string            { return "macOS NSPasteboard" }
func (b *darwinBackend) SupportsSelection() bool { return false }

func (b *darwinBackend) poll() {
	t := time.NewTicker(darwinPollInterval)
	defer t.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-t.C:
			cc := C.copyq_changeCount()
			if cc != b.lastChange {
				b.lastChange = cc
				select {
				case b.clipCh <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (b *darwinBackend) Read(buf Buffer) (snapshot.Snapshot, error) {
	if buf == Selection {
		return nil, nil
	}
	s := snapshot.Snapshot{}
	if text := clipboard.Read(clipboard.FmtText); text != nil {
		s["text/plain"] = text
	}
	if img := clipboard.Read(clipboard.FmtImage); img != nil {
		s["image/png"] = img
	}
	return s, nil
}

func (b *darwinBackend) Write(buf Buffer, s snapshot.Snapshot) error {
	if buf == Selection {
		return nil
	}
	var last <-chan struct{}
	for name, data := range s {
		switch name {
		case "text/plain":
			last = clipboard.Write(clipboard.FmtText, data)
		case "image/png":
			last = clipboard.Write(clipboard.FmtImage, data)
		default:
			return fmt.Errorf("unsupported format: %s", name)
		}
	}
	if last != nil {
		b.mu.Lock()
		b.ownDone = last
		b.mu.Unlock()
	}
	return nil
}

func (b *darwinBackend) Owns(buf Buffer) bool {
	if buf == Selection {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ownDone == nil {
		return false
	}
	select {
	case <-b.ownDone:
		b.ownDone = nil
		return false
	default:
		return true
	}
}

func (b *darwinBackend) Watch(buf Buffer) <-chan struct{} {
	if buf == Selection {
		return b.selCh
	}
	return b.clipCh
}

func (b *darwinBackend) Close() { close(b.done) }
