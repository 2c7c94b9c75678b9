package settings

import "sync"

// Backend is the key-value storage beneath a Store. Bool reports ok=false
// when nothing is stored for key. SetBool has no error path: backends that
// can fail log the failure themselves.
type Backend interface {
	Bool(key string) (value bool, ok bool)
	SetBool(key string, value bool)
}

// MemoryBackend keeps values in process memory.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]bool
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]bool)}
}

func (m *MemoryBackend) Bool(key string) (bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryBackend) SetBool(key string, value bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}
