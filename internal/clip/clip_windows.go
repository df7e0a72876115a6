//go:build windows

package clip

// #cgo LDFLAGS: -luser32
//
// #include <windows.h>
// #include <stdlib.h>
//
// static HWND copyq_create_listener_window();
// static void copyq_pump_messages(HWND hwnd, int* changed);
//
// static LRESULT CALLBACK copyq_wnd_proc(HWND hwnd, UINT msg, WPARAM wp, LPARAM lp) {
//     if (msg == WM_CLIPBOARDUPDATE) {
//         PostMessage(hwnd, WM_USER + 1, 0, 0);
//         return 0;
//     }
//     return DefWindowProc(hwnd, msg, wp, lp);
// }
//
// static HWND copyq_create_listener_window() {
//     WNDCLASS wc = {0};
//     wc.lpfnWndProc   = copyq_wnd_proc;
//     wc.hInstance     = GetModuleHandle(NULL);
//     wc.lpszClassName = "CopyQMonitorClipboard";
//     RegisterClass(&wc);
//     HWND hwnd = CreateWindowEx(0, "CopyQMonitorClipboard", NULL, 0,
//         0, 0, 0, 0, HWND_MESSAGE, NULL, GetModuleHandle(NULL), NULL);
//     AddClipboardFormatListener(hwnd);
//     return hwnd;
// }
//
// static void copyq_pump_messages(HWND hwnd, int* changed) {
//     MSG msg;
//     *changed = 0;
//     while (PeekMessage(&msg, hwnd, 0, 0, PM_REMOVE)) {
//         if (msg.message == WM_USER + 1) { *changed = 1; }
//         TranslateMessage(&msg);
//         DispatchMessage(&msg);
//     }
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

type windowsBackend struct {
	hwnd   C.HWND
	clipCh chan struct{}
	selCh  chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	ownDone <-chan struct{}
}

// New returns the Windows clipboard backend using AddClipboardFormatListener.
// Windows has no secondary selection buffer.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard init failed", "err", err)
		return &headlessBackend{clipCh: make(chan struct{}), selCh: make(chan struct{})}
	}
	hwnd := C.copyq_create_listener_window()
	b := &windowsBackend{
		hwnd:   hwnd,
		clipCh: make(chan struct{}, 1),
		selCh:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	go b.pump()
	return b
}

func (b *windowsBackend) Name() string            { return "Windows Clipboard" }
func (b *windowsBackend) SupportsSelection() bool { return false }

func (b *windowsBackend) pump() {
	t := time.NewTicker(50 * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-t.C:
			var changed C.int
			C.copyq_pump_messages(b.hwnd, &changed)
			if changed != 0 {
				select {
				case b.clipCh <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (b *windowsBackend) Read(buf Buffer) (snapshot.Snapshot, error) {
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

func (b *windowsBackend) Write(buf Buffer, s snapshot.Snapshot) error {
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

func (b *windowsBackend) Owns(buf Buffer) bool {
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

func (b *windowsBackend) Watch(buf Buffer) <-chan struct{} {
	if buf == Selection {
		return b.selCh
	}
	return b.clipCh
}

func (b *windowsBackend) Close() { close(b.done) }
