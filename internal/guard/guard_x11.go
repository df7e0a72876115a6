//go:build linux && cgo

package guard

// #cgo LDFLAGS: -lX11
// #include <X11/Xlib.h>
//
// static int copyq_pointer_held(Display *dsp) {
//     Window root, child;
//     int rx, ry, wx, wy;
//     unsigned int state;
//     XQueryPointer(dsp, DefaultRootWindow(dsp), &root, &child,
//                   &rx, &ry, &wx, &wy, &state);
//     return (state & (Button1Mask | ShiftMask)) != 0;
// }
import "C"

import (
	"os"
	"time"
)

// X11Guard polls the X server pointer state to detect a selection still
// being dragged (button 1 or shift held).
type X11Guard struct {
	dsp   *C.Display
	timer *time.Timer
	armed bool
}

// New returns an X11Guard when an X display is reachable, otherwise the
// null guard.
func New() Guard {
	if os.Getenv("DISPLAY") == "" {
		return NullGuard{}
	}
	t := time.NewTimer(RetryInterval)
	if !t.Stop() {
		<-t.C
	}
	return &X11Guard{timer: t}
}

func (g *X11Guard) Forming() bool {
	if g.armed {
		return true
	}

	if g.dsp == nil {
		// opened lazily; fail open when the display cannot be acquired
		g.dsp = C.XOpenDisplay(nil)
		if g.dsp == nil {
			return false
		}
	}

	if C.copyq_pointer_held(g.dsp) == 0 {
		return false
	}
	g.armed = true
	g.timer.Reset(RetryInterval)
	return true
}

func (g *X11Guard) Retry() <-chan time.Time { return g.timer.C }

// Fired must be called when the retry timer ticks, before re-evaluating,
// so the next Forming call polls the X server again.
func (g *X11Guard) Fired() { g.armed = false }

func (g *X11Guard) Close() {
	if g.dsp != nil {
		C.XCloseDisplay(g.dsp)
		g.dsp = nil
	}
}
