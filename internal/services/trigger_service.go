package services

import (
	"context"
	"fmt"
	"time"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/logger"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/triggers"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// Preparation is everything produced for one outgoing request.
type Preparation struct {
	Detected     []onyxtypes.DetectedTrigger `json:"detected"`
	Prompt       triggers.AssembledPrompt    `json:"prompt"`
	SystemPrompt string                      `json:"systemPrompt"`
}

// TriggerService owns the trigger engine: registry, detector, assembler and parser.
type TriggerService struct {
	initialized bool
	storage     *StorageService
	config      *ConfigurationService

	registry  *triggers.Registry
	detector  *triggers.Detector
	assembler *triggers.Assembler
	parser    *triggers.Parser
}

// NewTriggerService creates a trigger service. config may be nil, in which case the
// engine defaults apply.
func NewTriggerService(storage *StorageService, config *ConfigurationService) *TriggerService {
	return &TriggerService{
		storage: storage,
		config:  config,
	}
}

// Name returns the service name "triggers" for registration.
func (t *TriggerService) Name() string {
	return "triggers"
}

// Initialize loads the built-in catalog and the custom entries from the store.
func (t *TriggerService) Initialize() error {
	if t.initialized {
		return nil
	}
	if t.storage == nil {
		return fmt.Errorf("trigger service requires a storage service")
	}

	store, err := t.storage.Store()
	if err != nil {
		return err
	}
	builtins, err := triggers.BuiltinTriggers()
	if err != nil {
		return fmt.Errorf("failed to load built-in triggers: %w", err)
	}

	var assemblerOpts []triggers.AssemblerOption
	if t.config != nil {
		if cfg, err := t.config.Config(); err == nil {
			assemblerOpts = append(assemblerOpts, triggers.WithMaxMemoryItems(cfg.MemoryMaxItems))
		}
	}

	t.registry = triggers.NewRegistry(store, builtins, triggers.WithObserver(logRegistryEvent))
	if err := t.registry.Load(); err != nil {
		logger.Warn("Custom triggers could not be loaded", "error", err)
	}
	t.detector = triggers.NewDetector(t.registry, triggers.DefaultPatternCacheSize)
	t.assembler = triggers.NewAssembler(assemblerOpts...)
	t.parser = triggers.NewParser(t.registry)

	t.initialized = true
	logger.ServiceOperation(t.Name(), "initialize", "builtins", len(builtins))
	return nil
}

// Registry returns the trigger registry.
func (t *TriggerService) Registry() (*triggers.Registry, error) {
	if !t.initialized {
		return nil, fmt.Errorf("trigger service not initialized")
	}
	return t.registry, nil
}

// Detect returns the enabled triggers mentioned in text.
func (t *TriggerService) Detect(text string) ([]onyxtypes.DetectedTrigger, error) {
	if !t.initialized {
		return nil, fmt.Errorf("trigger service not initialized")
	}
	return t.detector.Detect(text), nil
}

// Prepare detects triggers in the user message and assembles the system prompt.
// With no triggers the base prompt is returned unchanged.
func (t *TriggerService) Prepare(basePrompt, message string, memory onyxtypes.MemoryContext) (Preparation, error) {
	if !t.initialized {
		return Preparation{}, fmt.Errorf("trigger service not initialized")
	}

	detected := t.detector.Detect(message)
	prompt := t.assembler.Assemble(detected, memory)
	logger.ServiceOperation(t.Name(), "prepare", "detected", len(detected))

	return Preparation{
		Detected:     detected,
		Prompt:       prompt,
		SystemPrompt: triggers.SystemPrompt(basePrompt, prompt),
	}, nil
}

// Parse splits an AI reply into clean content and tagged segments.
func (t *TriggerService) Parse(reply string) (onyxtypes.ParseResult, error) {
	if !t.initialized {
		return onyxtypes.ParseResult{}, fmt.Errorf("trigger service not initialized")
	}
	return t.parser.Parse(reply), nil
}

// WatchStore invalidates the registry whenever the custom trigger record changes on
// disk. It returns once the watcher is running; watching stops with ctx.
func (t *TriggerService) WatchStore(ctx context.Context, debounce time.Duration) error {
	if !t.initialized {
		return fmt.Errorf("trigger service not initialized")
	}
	return t.storage.Watch(ctx, debounce, func(key string) {
		if key != triggers.DefaultStoreKey {
			return
		}
		t.registry.Invalidate()
		logger.Info("Custom triggers reloaded", "key", key)
	})
}

// logRegistryEvent records registry activity at debug level; failed reads of the
// custom entries are warnings.
func logRegistryEvent(event triggers.RegistryEvent) {
	if event.Err != nil {
		logger.Warn("Custom triggers unavailable, using built-ins only", "operation", event.Op, "error", event.Err)
		return
	}
	logger.RegistryOperation(event.Op, event.Name, "count", event.Count)
}
