package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/cazacugmihai/CopyQ/internal/clip"
	"github.com/cazacugmihai/CopyQ/internal/message"
	"github.com/cazacugmihai/CopyQ/internal/snapshot"
)

func startMonitor(t *testing.T, m *Monitor) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()
	return done
}

func waitExit(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not exit")
		return nil
	}
}

func TestRunExitsWhenServerCloses(t *testing.T) {
	m, server, _, _ := newTestMonitor(t)
	done := startMonitor(t, m)

	server.Close()

	if err := waitExit(t, done); err != nil {
		t.Fatalf("Run = %v, want nil on clean disconnect", err)
	}
}

func TestRunReportsClipboardChange(t *testing.T) {
	m, server, b, _ := newTestMonitor(t)
	m.engine.cfg.CheckClipboard = true
	msgs := readMessages(server)
	done := startMonitor(t, m)

	b.place(clip.Clipboard, snapshot.Snapshot{"text/plain": []byte("copied")})
	b.clipCh <- struct{}{}

	got := waitMessage(t, msgs)
	if got.Kind != message.KindClipboard {
		t.Fatalf("kind = %q, want clipboard", got.Kind)
	}

	server.Close()
	_ = waitExit(t, done)
}

func TestRunClipboardOutranksSelection(t *testing.T) {
	m, server, b, _ := newTestMonitor(t)
	m.engine.cfg.CheckClipboard = true
	m.engine.cfg.CheckSelection = true
	b.supportsSel = true
	msgs := readMessages(server)

	b.place(clip.Clipboard, snapshot.Snapshot{"text/plain": []byte("clip")})
	b.place(clip.Selection, snapshot.Snapshot{"text/plain": []byte("sel")})
	// both events pending before the loop starts
	b.selCh <- struct{}{}
	b.clipCh <- struct{}{}
	done := startMonitor(t, m)

	first := waitMessage(t, msgs)
	second := waitMessage(t, msgs)
	if first.Kind != message.KindClipboard || second.Kind != message.KindSelection {
		t.Fatalf("order = %q,%q, want clipboard,selection", first.Kind, second.Kind)
	}

	server.Close()
	_ = waitExit(t, done)
}

func TestRunGuardRetryReevaluatesSelection(t *testing.T) {
	m, server, b, g := newTestMonitor(t)
	m.engine.cfg.CheckSelection = true
	b.supportsSel = true
	msgs := readMessages(server)

	g.forming.Store(true)
	b.place(clip.Selection, snapshot.Snapshot{"text/plain": []byte("dragged")})
	done := startMonitor(t, m)

	b.selCh <- struct{}{}
	// deliver nothing while forming, then release and tick the retry
	select {
	case <-msgs:
		t.Fatal("selection reported while still forming")
	case <-time.After(50 * time.Millisecond):
	}

	g.forming.Store(false)
	g.retryCh <- time.Now()

	got := waitMessage(t, msgs)
	back, _ := got.Snapshot()
	if got.Kind != message.KindSelection || string(back["text/plain"]) != "dragged" {
		t.Fatalf("retry delivered %q/%q, want selection/dragged", got.Kind, back["text/plain"])
	}

	server.Close()
	_ = waitExit(t, done)
}

func TestRunAppliesInboundPush(t *testing.T) {
	m, server, b, _ := newTestMonitor(t)
	done := startMonitor(t, m)

	push := &message.Message{Items: []message.Item{message.NewItem("text/plain", []byte("from-server"))}}
	if err := server.WriteMsg(push); err != nil {
		t.Fatalf("WriteMsg: %v", err)
	}

	// WriteMsg over a pipe returns only once the read loop holds the whole
	// frame, so the push is ahead of the close in the inbound channel.
	server.Close()
	if err := waitExit(t, done); err != nil {
		t.Fatalf("Run = %v", err)
	}

	writes := b.writesTo(clip.Clipboard)
	if len(writes) != 1 || string(writes[0]["text/plain"]) != "from-server" {
		t.Fatalf("clipboard writes = %v, want from-server", writes)
	}
}
