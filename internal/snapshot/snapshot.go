// Package snapshot holds an immutable capture of clipboard contents keyed
// by format name, plus the fingerprint used to deduplicate change events.
//
// A fingerprint is a dedup heuristic, not an integrity check: two captures
// with identical content for the formats under consideration must hash
// identically regardless of enumeration order, and the zero value is
// reserved to mean "nothing observed yet".
package snapshot

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// UnknownHash is the reserved fingerprint meaning no content has been
// observed. Hash returns it for empty input.
const UnknownHash uint64 = 0

// Snapshot maps a format name (MIME type) to its raw payload.
// A nil or empty Snapshot represents an empty clipboard.
type Snapshot map[string][]byte

// Formats returns the format names present in s, sorted.
func (s Snapshot) Formats() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for name, data := range s {
		b := make([]byte, len(data))
		copy(b, data)
		out[name] = b
	}
	return out
}

// Restrict returns the subset of s whose format names appear in formats.
// An empty formats list means no filter: s is returned unchanged.
func Restrict(s Snapshot, formats []string) Snapshot {
	if len(formats) == 0 {
		return s
	}
	out := make(Snapshot, len(formats))
	for _, name := range formats {
		if data, ok := s[name]; ok {
			out[name] = data
		}
	}
	return out
}

// Hash returns a stable fingerprint of s. Format names are sorted before
// hashing so the result does not depend on map iteration order, and each
// entry contributes its name, a separator, and its payload so that
// ("ab","c") and ("a","bc") cannot collide trivially. Empty input returns
// UnknownHash.
func Hash(s Snapshot) uint64 {
	if len(s) == 0 {
		return UnknownHash
	}
	d := xxhash.New()
	for _, name := range s.Formats() {
		_, _ = d.WriteString(name)
		_, _ = d.Write([]byte{0})
		_, _ = d.Write(s[name])
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
