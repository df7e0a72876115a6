package monitor

import (
	"sync/atomic"
	"time"

	"github.com/cazacugmihai/CopyQ/internal/clip"
	"github.com/cazacugmihai/CopyQ/internal/snapshot"
)

type bufferWrite struct {
	buf  clip.Buffer
	data snapshot.Snapshot
}

// fakeBackend is an in-memory clip.Backend for engine and loop tests.
type fakeBackend struct {
	contents    map[clip.Buffer]snapshot.Snapshot
	owns        map[clip.Buffer]bool
	supportsSel bool
	readErr     error
	writes      []bufferWrite
	clipCh      chan struct{}
	selCh       chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		contents: make(map[clip.Buffer]snapshot.Snapshot),
		owns:     make(map[clip.Buffer]bool),
		clipCh:   make(chan struct{}, 1),
		selCh:    make(chan struct{}, 1),
	}
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Read(buf clip.Buffer) (snapshot.Snapshot, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.contents[buf], nil
}

func (f *fakeBackend) Write(buf clip.Buffer, s snapshot.Snapshot) error {
	f.contents[buf] = s
	f.owns[buf] = true
	f.writes = append(f.writes, bufferWrite{buf: buf, data: s})
	return nil
}

func (f *fakeBackend) Owns(buf clip.Buffer) bool { return f.owns[buf] }

func (f *fakeBackend) SupportsSelection() bool { return f.supportsSel }

func (f *fakeBackend) Watch(buf clip.Buffer) <-chan struct{} {
	if buf == clip.Selection {
		return f.selCh
	}
	return f.clipCh
}

func (f *fakeBackend) Close() {}

// place simulates an external application changing a buffer.
func (f *fakeBackend) place(buf clip.Buffer, s snapshot.Snapshot) {
	f.contents[buf] = s
	f.owns[buf] = false
}

// writesTo returns the writes made to buf.
func (f *fakeBackend) writesTo(buf clip.Buffer) []snapshot.Snapshot {
	var out []snapshot.Snapshot
	for _, w := range f.writes {
		if w.buf == buf {
			out = append(out, w.data)
		}
	}
	return out
}

// fakeGuard is a scripted guard.Guard. forming is atomic so loop tests can
// flip it from the test goroutine.
type fakeGuard struct {
	forming atomic.Bool
	retryCh chan time.Time
	fired   int
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{retryCh: make(chan time.Time, 1)}
}

func (g *fakeGuard) Forming() bool           { return g.forming.Load() }
func (g *fakeGuard) Retry() <-chan time.Time { return g.retryCh }
func (g *fakeGuard) Fired()                  { g.fired++ }
func (g *fakeGuard) Close()                  {}

type notification struct {
	buf  clip.Buffer
	data snapshot.Snapshot
}

// fakeNotifier records emitted change notifications.
type fakeNotifier struct {
	events []notification
	err    error
}

func (n *fakeNotifier) Notify(buf clip.Buffer, s snapshot.Snapshot) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, notification{buf: buf, data: s})
	return nil
}
