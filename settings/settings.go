// Package settings persists the editor preference toggles.
package settings

import (
	"errors"
	"sort"
)

// Keys are shared with older clients reading the same store, so they keep
// their historical names.
const (
	KeyVisualEditorEnabled = "kUserDefaultsNewEditorEnabled"
	KeyNativeEditorEnabled = "kUserDefaultsNativeEditorEnabled"
	KeyNewEditorAvailable  = "kUserDefaultsNewEditorAvailable"
)

var ErrUnknownKey = errors.New("unknown setting key")

type definition struct {
	fallback bool
	gate     Flag
}

// definitions is the default policy for every known key. A gated key reads
// as false while its flag is off.
var definitions = map[string]definition{
	KeyVisualEditorEnabled: {fallback: true},
	KeyNativeEditorEnabled: {fallback: false, gate: FlagNativeEditor},
	KeyNewEditorAvailable:  {fallback: false},
}

// Keys returns every known key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(definitions))
	for k := range definitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Known reports whether key has an entry in the default table.
func Known(key string) bool {
	_, ok := definitions[key]
	return ok
}

// Default returns the value a key reads as when nothing is stored and its
// gate is open. Unknown keys default to false.
func Default(key string) bool {
	return definitions[key].fallback
}

func resolve(stored, ok, fallback bool) bool {
	if !ok {
		return fallback
	}
	return stored
}

// Store reads and writes boolean settings over a Backend.
type Store struct {
	backend Backend
	flags   FlagResolver
}

// NewStore returns a Store over backend. A nil resolver disables every flag.
func NewStore(backend Backend, flags FlagResolver) *Store {
	if flags == nil {
		flags = Flags{}
	}
	return &Store{backend: backend, flags: flags}
}

// Get resolves key through its gate, the backend, and its default. Unknown
// keys default to false.
func (s *Store) Get(key string) bool {
	def := definitions[key]
	if def.gate != "" && !s.flags.Enabled(def.gate) {
		return false
	}
	stored, ok := s.backend.Bool(key)
	return resolve(stored, ok, Default(key))
}

// Set persists value for key. Gates mask reads only; writes always land.
func (s *Store) Set(key string, value bool) {
	s.backend.SetBool(key, value)
}

func (s *Store) VisualEditorEnabled() bool {
	return s.Get(KeyVisualEditorEnabled)
}

func (s *Store) SetVisualEditorEnabled(enabled bool) {
	s.Set(KeyVisualEditorEnabled, enabled)
}

func (s *Store) NativeEditorEnabled() bool {
	return s.Get(KeyNativeEditorEnabled)
}

func (s *Store) SetNativeEditorEnabled(enabled bool) {
	s.Set(KeyNativeEditorEnabled, enabled)
}

// Snapshot resolves every known key.
func (s *Store) Snapshot() map[string]bool {
	out := make(map[string]bool, len(definitions))
	for k := range definitions {
		out[k] = s.Get(k)
	}
	return out
}
