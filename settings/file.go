package settings

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileBackend stores values as a JSON object on disk.
type FileBackend struct {
	mu       sync.RWMutex
	filePath string
	values   map[string]bool
	logger   *zap.Logger
}

// OpenFile loads the settings document at filePath, or starts empty if the
// file does not exist. Returns an error only on unexpected I/O or a corrupt
// document.
func OpenFile(filePath string, logger *zap.Logger) (*FileBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &FileBackend{
		filePath: filePath,
		values:   make(map[string]bool),
		logger:   logger,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return b, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &b.values); err != nil {
		return nil, err
	}
	if b.values == nil {
		b.values = make(map[string]bool)
	}
	return b, nil
}

func (b *FileBackend) Bool(key string) (bool, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[key]
	return v, ok
}

// SetBool updates the in-memory value and rewrites the file. A failed write
// is logged; the in-memory value still changes.
func (b *FileBackend) SetBool(key string, value bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = value
	if err := b.writeAtomic(); err != nil {
		b.logger.Error("settings write failed",
			zap.String("path", b.filePath),
			zap.String("key", key),
			zap.Error(err))
	}
}

// writeAtomic writes to a temp file then renames it over filePath.
// Caller must hold b.mu.
func (b *FileBackend) writeAtomic() error {
	if err := os.MkdirAll(filepath.Dir(b.filePath), 0755); err != nil {
		return err
	}

	tmp := b.filePath + ".tmp"
	data, err := json.MarshalIndent(b.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, b.filePath)
}
