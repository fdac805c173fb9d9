// Package storage provides the key-value stores behind the trigger registry.
// Every backend satisfies onyxtypes.KVStore and keeps values as opaque bytes.
package storage

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// Backend names accepted by Open and the store.backend setting.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Open creates the named backend. path is a directory for the file backend and a
// database file for sqlite; the memory backend ignores it.
func Open(backend, path string) (onyxtypes.KVStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want %s, %s or %s)", backend, BackendMemory, BackendFile, BackendSQLite)
	}
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid store key %q", key)
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
