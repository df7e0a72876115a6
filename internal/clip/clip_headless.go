package clip

import "github.com/cazacugmihai/CopyQ/internal/snapshot"

// headlessBackend is a no-op clipboard backend for environments without a
// display server (headless Linux servers, containers, etc.).
// It never produces Watch events and silently discards writes.
type headlessBackend struct {
	clipCh chan struct{}
	selCh  chan struct{}
}

func (b *headlessBackend) Name() string                             { return "headless (no-op)" }
func (b *headlessBackend) Read(Buffer) (snapshot.Snapshot, error)   { return nil, nil }
func (b *headlessBackend) Write(Buffer, snapshot.Snapshot) error    { return nil }
func (b *headlessBackend) Owns(Buffer) bool                         { return false }
func (b *headlessBackend) SupportsSelection() bool                  { return false }
func (b *headlessBackend) Close()                                   {}

func (b *headlessBackend) Watch(buf Buffer) <-chan struct{} {
	if buf == Selection {
		return b.selCh
	}
	return b.clipCh
}
