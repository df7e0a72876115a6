package monitor

import (
	"context"
	"log/slog"

	"github.com/cazacugmihai/CopyQ/internal/clip"
	"github.com/cazacugmihai/CopyQ/internal/snapshot"
)

// logSnapshot logs a buffer event at DEBUG (buffer, format names) and, at
// the same level, a text preview up to 120 chars or the byte size for
// binary entries. Content never reaches INFO — the monitor may see
// passwords.
func logSnapshot(event string, buf clip.Buffer, s snapshot.Snapshot) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	slog.Debug(event, "buffer", buf.String(), "formats", s.Formats())
	for _, name := range s.Formats() {
		if name == "text/plain" {
			preview := string(s[name])
			if len(preview) > 120 {
				preview = preview[:120] + "…"
			}
			slog.Debug("item", "format", name, "preview", preview)
		} else {
			slog.Debug("item", "format", name, "size_bytes", len(s[name]))
		}
	}
}
