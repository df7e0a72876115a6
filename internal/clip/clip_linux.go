//go:build linux

package clip

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.design/x/clipboard"

	"github.com/cazacugmihai/CopyQ/internal/snapshot"
)

const linuxPollInterval = 250 * time.Millisecond

type linuxBackend struct {
	clipCh chan struct{}
	selCh  chan struct{}
	done   chan struct{}

	// selTool is the path of xclip or xsel, or "" when the PRIMARY
	// selection is unavailable.
	selTool string

	mu           sync.Mutex
	lastText     []byte
	lastImg      []byte
	lastSel      []byte
	ownClipDone  <-chan struct{} // from clipboard.Write; closed when ownership is lost
	ownSelBytes  []byte          // last selection content we wrote
	ownSelActive bool
}

// New returns the Linux clipboard backend, or a headless no-op backend if
// the display environment is unavailable (e.g. a headless server without
// X11 or Wayland). clipboard.Init is called here rather than in init() so
// that constructing the backend is the only place a missing display can
// surface.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return &headlessBackend{clipCh: make(chan struct{}), selCh: make(chan struct{})}
	}
	b := &linuxBackend{
		clipCh:  make(chan struct{}, 1),
		selCh:   make(chan struct{}, 1),
		done:    make(chan struct{}),
		selTool: findSelectionTool(),
	}
	go b.pollClipboard()
	if b.SupportsSelection() {
		go b.pollSelection()
	}
	return b
}

// findSelectionTool locates xclip or xsel. The PRIMARY selection needs X11;
// under pure Wayland neither tool can serve it.
func findSelectionTool() string {
	if os.Getenv("DISPLAY") == "" {
		return ""
	}
	for _, tool := range []string{"xclip", "xsel"} {
		if path, err := exec.LookPath(tool); err == nil {
			return path
		}
	}
	return ""
}

func (b *linuxBackend) Name() string { return "Linux clipboard (poll)" }

func (b *linuxBackend) SupportsSelection() bool { return b.selTool != "" }

func (b *linuxBackend) pollClipboard() {
	t := time.NewTicker(linuxPollInterval)
	defer t.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-t.C:
			text := clipboard.Read(clipboard.FmtText)
			img := clipboard.Read(clipboard.FmtImage)
			b.mu.Lock()
			changed := !bytes.Equal(text, b.lastText) || !bytes.Equal(img, b.lastImg)
			if changed {
				b.lastText = text
				b.lastImg = img
			}
			b.mu.Unlock()
			if changed {
				signal(b.clipCh)
			}
		}
	}
}

func (b *linuxBackend) pollSelection() {
	t := time.NewTicker(linuxPollInterval)
	defer t.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-t.C:
			sel, err := b.readSelection()
			if err != nil {
				continue
			}
			b.mu.Lock()
			changed := !bytes.Equal(sel, b.lastSel)
			if changed {
				b.lastSel = sel
				if b.ownSelActive && !bytes.Equal(sel, b.ownSelBytes) {
					// someone else took the selection
					b.ownSelActive = false
				}
			}
			b.mu.Unlock()
			if changed {
				signal(b.selCh)
			}
		}
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (b *linuxBackend) Read(buf Buffer) (snapshot.Snapshot, error) {
	if buf == Selection {
		if !b.SupportsSelection() {
			return nil, nil
		}
		sel, err := b.readSelection()
		if err != nil {
			return nil, err
		}
		if len(sel) == 0 {
			return snapshot.Snapshot{}, nil
		}
		return snapshot.Snapshot{"text/plain": sel}, nil
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

func (b *linuxBackend) Write(buf Buffer, s snapshot.Snapshot) error {
	if buf == Selection {
		if !b.SupportsSelection() {
			return nil
		}
		text, ok := s["text/plain"]
		if !ok {
			// the PRIMARY selection shim is text-only
			return nil
		}
		if err := b.writeSelection(text); err != nil {
			return err
		}
		b.mu.Lock()
		b.ownSelBytes = text
		b.ownSelActive = true
		b.mu.Unlock()
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
		b.ownClipDone = last
		b.mu.Unlock()
	}
	return nil
}

func (b *linuxBackend) Owns(buf Buffer) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if buf == Selection {
		return b.ownSelActive
	}
	if b.ownClipDone == nil {
		return false
	}
	select {
	case <-b.ownClipDone:
		// ownership was taken by another application
		b.ownClipDone = nil
		return false
	default:
		return true
	}
}

func (b *linuxBackend) readSelection() ([]byte, error) {
	cmd := selectionReadCmd(b.selTool)
	out, err := cmd.Output()
	if err != nil {
		// xclip exits non-zero when the selection is empty; treat as empty
		if _, ok := err.(*exec.ExitError); ok {
			return nil, nil
		}
		return nil, fmt.Errorf("read selection: %w", err)
	}
	return out, nil
}

func (b *linuxBackend) writeSelection(data []byte) error {
	cmd := selectionWriteCmd(b.selTool)
	cmd.Stdin = bytes.NewReader(data)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	return nil
}

func selectionReadCmd(tool string) *exec.Cmd {
	if isXsel(tool) {
		return exec.Command(tool, "--primary", "--output")
	}
	return exec.Command(tool, "-selection", "primary", "-o")
}

func selectionWriteCmd(tool string) *exec.Cmd {
	if isXsel(tool) {
		return exec.Command(tool, "--primary", "--input")
	}
	return exec.Command(tool, "-selection", "primary", "-i")
}

func isXsel(tool string) bool { return strings.HasSuffix(tool, "xsel") }

func (b *linuxBackend) Watch(buf Buffer) <-chan struct{} {
	if buf == Selection {
		return b.selCh
	}
	return b.clipCh
}

func (b *linuxBackend) Close() { close(b.done) }
