package onyxtypes

import "context"

// KVStore is the persistence collaborator for the trigger registry.
// Get returns ok=false, with no error, when the key has never been written.
type KVStore interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Service defines the interface for Onyx services that provide specific functionality.
// Services are registered once at startup and initialized before use.
type Service interface {
	// Name returns the unique identifier for this service.
	Name() string

	// Initialize sets up the service.
	Initialize() error
}

// ServiceRegistry manages the registration and retrieval of services.
type ServiceRegistry interface {
	GetService(name string) (Service, error)
	RegisterService(service Service) error
}

// CompletionRequest is a single-shot request to an AI provider.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserMessage  string
	MaxTokens    int
}

// LLMClient defines the transport to an AI completion provider.
// It is an external collaborator of the trigger engine: the engine only produces the
// system prompt and consumes the returned text.
type LLMClient interface {
	// SendCompletion sends one request and returns the complete reply text.
	SendCompletion(ctx context.Context, req CompletionRequest) (string, error)

	// GetProviderName returns the provider name (e.g., "openai", "anthropic").
	GetProviderName() string

	// IsConfigured returns true if the client has valid configuration and can make requests.
	IsConfigured() bool
}
