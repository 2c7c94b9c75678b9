package settings

import (
	"fmt"

	"go.uber.org/zap"
)

// Backend kinds accepted by OpenBackend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// OpenBackend opens the backend of the given kind at path. The returned
// close function releases it.
func OpenBackend(kind, path string, logger *zap.Logger) (Backend, func() error, error) {
	noop := func() error { return nil }
	switch kind {
	case BackendMemory:
		return NewMemoryBackend(), noop, nil
	case BackendFile:
		b, err := OpenFile(path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open settings file %s: %w", path, err)
		}
		return b, noop, nil
	case BackendSQLite:
		b, err := OpenSQLite(path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open settings database %s: %w", path, err)
		}
		return b, b.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown settings backend %q", kind)
	}
}
