package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/logger"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/storage"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// SQLiteFileName is the database file created inside store.path for the sqlite backend.
const SQLiteFileName = "onyx.db"

// StorageService opens the configured KVStore backend.
type StorageService struct {
	initialized bool
	config      *ConfigurationService
	store       onyxtypes.KVStore
	backend     string
	path        string
}

// NewStorageService creates a storage service reading its settings from config.
func NewStorageService(config *ConfigurationService) *StorageService {
	return &StorageService{config: config}
}

// NewStorageServiceWithStore wraps an already opened store, mostly for tests.
func NewStorageServiceWithStore(store onyxtypes.KVStore) *StorageService {
	return &StorageService{
		initialized: true,
		store:       store,
		backend:     backendOf(store),
	}
}

func backendOf(store onyxtypes.KVStore) string {
	switch store.(type) {
	case *storage.FileStore:
		return storage.BackendFile
	case *storage.SQLiteStore:
		return storage.BackendSQLite
	default:
		return storage.BackendMemory
	}
}

// Name returns the service name "storage" for registration.
func (s *StorageService) Name() string {
	return "storage"
}

// Initialize opens the backend named by store.backend at store.path.
func (s *StorageService) Initialize() error {
	if s.initialized {
		return nil
	}
	if s.config == nil {
		return fmt.Errorf("storage service requires a configuration service")
	}

	cfg, err := s.config.Config()
	if err != nil {
		return err
	}

	path := cfg.StorePath
	if cfg.StoreBackend == storage.BackendSQLite {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
		path = filepath.Join(path, SQLiteFileName)
	}

	store, err := storage.Open(cfg.StoreBackend, path)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}

	s.store = store
	s.backend = cfg.StoreBackend
	s.path = path
	s.initialized = true
	logger.ServiceOperation(s.Name(), "initialize", "backend", s.backend, "path", s.path)
	return nil
}

// Store returns the opened store.
func (s *StorageService) Store() (onyxtypes.KVStore, error) {
	if !s.initialized {
		return nil, fmt.Errorf("storage service not initialized")
	}
	return s.store, nil
}

// Backend returns the backend name and location in use.
func (s *StorageService) Backend() (string, string) {
	return s.backend, s.path
}

// Watch reports external changes to stored keys until ctx is cancelled. Only the
// file backend can be watched; other backends return an error. A non-positive
// debounce uses storage.DefaultWatchDebounce.
func (s *StorageService) Watch(ctx context.Context, debounce time.Duration, onChange func(key string)) error {
	if !s.initialized {
		return fmt.Errorf("storage service not initialized")
	}
	fileStore, ok := s.store.(*storage.FileStore)
	if !ok {
		return fmt.Errorf("store backend %s does not support watching", s.backend)
	}
	return fileStore.Watch(ctx, debounce, onChange)
}

// Close releases the store.
func (s *StorageService) Close() error {
	if !s.initialized || s.store == nil {
		return nil
	}
	s.initialized = false
	return s.store.Close()
}
