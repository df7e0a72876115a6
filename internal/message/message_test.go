package message

import (
	"reflect"
	"testing"

	"github.com/cazacugmihai/CopyQ/internal/snapshot"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := snapshot.Snapshot{
		"text/plain": []byte("hello"),
		"image/png":  {0x89, 0x50, 0x4e, 0x47},
	}

	m := &Message{Kind: KindClipboard, Items: FromSnapshot(s)}
	raw, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := back.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("round trip = %v, want %v", got, s)
	}
	if back.Kind != KindClipboard {
		t.Fatalf("Kind = %q, want %q", back.Kind, KindClipboard)
	}
}

func TestSettingsRecognition(t *testing.T) {
	check := true
	hash := uint64(42)
	m, err := NewSettingsMessage(&Settings{CheckClipboard: &check, LastHash: &hash})
	if err != nil {
		t.Fatalf("NewSettingsMessage: %v", err)
	}

	s, err := m.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if s == nil {
		t.Fatal("settings message not recognised")
	}
	if s.CheckClipboard == nil || !*s.CheckClipboard {
		t.Fatal("check_clipboard not carried")
	}
	if s.LastHash == nil || *s.LastHash != 42 {
		t.Fatal("_last_hash not carried")
	}
	if s.Formats != nil || s.CopyClipboard != nil {
		t.Fatal("absent fields must stay nil")
	}
}

func TestContentPushIsNotSettings(t *testing.T) {
	m := &Message{Items: []Item{NewItem("text/plain", []byte("x"))}}
	s, err := m.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if s != nil {
		t.Fatal("content push misread as settings")
	}
}

func TestSplitFormats(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"text/plain", []string{"text/plain"}},
		{"text/plain;text/html", []string{"text/plain", "text/html"}},
		{"text/plain, image/png\ttext/html", []string{"text/plain", "image/png", "text/html"}},
		{"  ;, ", nil},
		{"", nil},
	}
	for _, c := range cases {
		got := SplitFormats(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("SplitFormats(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
