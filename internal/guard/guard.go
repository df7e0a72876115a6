// Package guard defers selection-change handling while the user is still
// dragging a selection.
//
// On X11 a selection-changed notification arrives while the mouse button or
// shift key is still held; acting on it would capture a half-formed
// selection. The active guard polls the pointer/modifier state once per
// query and, while the selection is forming, arms a one-shot retry timer so
// the caller can re-evaluate shortly after. Platforms without an X display
// get the null guard, which never defers.
package guard

import "time"

// RetryInterval is the one-shot delay before a deferred selection change is
// re-evaluated.
const RetryInterval = 100 * time.Millisecond

// Guard reports whether a selection is still being formed.
type Guard interface {
	// Forming polls the pointer/modifier state once. While true the caller
	// must not evaluate the selection; a retry tick will follow on Retry().
	// Repeated calls while the retry timer is armed return true without
	// re-polling.
	Forming() bool

	// Retry returns the channel that ticks when a deferred evaluation
	// should be retried. A nil channel (null guard) never ticks.
	Retry() <-chan time.Time

	// Fired must be called once per tick received from Retry, before the
	// deferred evaluation runs, so the next Forming call polls again.
	Fired()

	// Close releases any OS resources held by the guard.
	Close()
}

// NullGuard is the no-op guard for platforms without a selection buffer.
// It never defers.
type NullGuard struct{}

func (NullGuard) Forming() bool           { return false }
func (NullGuard) Retry() <-chan time.Time { return nil }
func (NullGuard) Fired()                  {}
func (NullGuard) Close()                  {}
