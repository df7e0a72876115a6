// Package message defines the payloads exchanged between the clipboard
// monitor and the CopyQ server over the local IPC channel.
//
// Payloads are JSON records framed by the wire package. Item data is always
// base64-encoded so that binary content (images, etc.) is safe to embed in
// JSON strings. Two payload shapes share the channel: change notifications
// carry a buffer kind plus the changed items; server pushes carry items
// only, and may instead carry a single reserved settings item that
// reconfigures the monitor.
package message

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/cazacugmihai/CopyQ/internal/snapshot"
)

// SettingsFormat is the reserved format name whose presence marks a message
// as a monitor settings update rather than a content push.
const SettingsFormat = "application/x-copyq-settings"

// Kind identifies which system buffer a change notification refers to.
type Kind string

const (
	KindClipboard Kind = "clipboard"
	KindSelection Kind = "selection"
)

// Item is a single clipboard representation with a format (MIME) name.
// Data is always base64-encoded.
type Item struct {
	Format string `json:"format"`
	Data   string `json:"data"`
}

// NewItem creates an Item from raw bytes.
func NewItem(format string, data []byte) Item {
	return Item{
		Format: format,
		Data:   base64.StdEncoding.EncodeToString(data),
	}
}

// Decode returns the raw bytes of the item payload.
func (it Item) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(it.Data)
}

// Message is the top-level payload envelope.
type Message struct {
	// Kind is set on outbound change notifications; pushes from the
	// server leave it empty.
	Kind  Kind   `json:"kind,omitempty"`
	Items []Item `json:"items,omitempty"`
}

// Encode serialises the message to JSON.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode deserialises a message from raw JSON bytes.
func Decode(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("message decode: %w", err)
	}
	return &m, nil
}

// FromSnapshot converts a snapshot to items, one per format, in sorted
// format order.
func FromSnapshot(s snapshot.Snapshot) []Item {
	items := make([]Item, 0, len(s))
	for _, name := range s.Formats() {
		items = append(items, NewItem(name, s[name]))
	}
	return items
}

// Snapshot converts the message items back to a snapshot. The reserved
// settings item, if present, is skipped.
func (m *Message) Snapshot() (snapshot.Snapshot, error) {
	s := make(snapshot.Snapshot, len(m.Items))
	for _, it := range m.Items {
		if it.Format == SettingsFormat {
			continue
		}
		data, err := it.Decode()
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", it.Format, err)
		}
		s[it.Format] = data
	}
	return s, nil
}

// Settings is the monitor configuration mapping carried by a settings
// message. All fields are optional; absent fields leave the current value
// unchanged.
type Settings struct {
	LastHash       *uint64 `json:"_last_hash,omitempty"`
	Formats        *string `json:"formats,omitempty"`
	CheckClipboard *bool   `json:"check_clipboard,omitempty"`
	CopyClipboard  *bool   `json:"copy_clipboard,omitempty"`
	CheckSelection *bool   `json:"check_selection,omitempty"`
	CopySelection  *bool   `json:"copy_selection,omitempty"`
}

// Settings extracts the settings mapping carried by the reserved settings
// item, or nil if the message is a plain content push.
func (m *Message) Settings() (*Settings, error) {
	for _, it := range m.Items {
		if it.Format != SettingsFormat {
			continue
		}
		raw, err := it.Decode()
		if err != nil {
			return nil, fmt.Errorf("settings item: %w", err)
		}
		var s Settings
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("settings decode: %w", err)
		}
		return &s, nil
	}
	return nil, nil
}

// NewSettingsMessage builds a settings message carrying s as the reserved
// settings item.
func NewSettingsMessage(s *Settings) (*Message, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("settings encode: %w", err)
	}
	return &Message{Items: []Item{NewItem(SettingsFormat, raw)}}, nil
}

var formatSep = regexp.MustCompile(`[;,\s]+`)

// SplitFormats splits a format list on semicolons, commas, and whitespace,
// dropping empty entries.
func SplitFormats(list string) []string {
	var out []string
	for _, f := range formatSep.Split(list, -1) {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
