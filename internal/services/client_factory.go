package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/logger"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// ClientFactoryService creates LLM clients and caches them by client ID.
type ClientFactoryService struct {
	initialized bool
	config      *ConfigurationService
	clients     map[string]onyxtypes.LLMClient
	baseURLs    map[string]string
	mutex       sync.RWMutex
}

// NewClientFactoryService creates a new ClientFactoryService instance. config is used
// to resolve API keys and may be nil when keys are always passed explicitly.
func NewClientFactoryService(config *ConfigurationService) *ClientFactoryService {
	return &ClientFactoryService{
		config:   config,
		clients:  make(map[string]onyxtypes.LLMClient),
		baseURLs: make(map[string]string),
	}
}

// Name returns the service name "client_factory" for registration.
func (f *ClientFactoryService) Name() string {
	return "client_factory"
}

// Initialize sets up the ClientFactoryService for operation.
func (f *ClientFactoryService) Initialize() error {
	logger.ServiceOperation("client_factory", "initialize", "starting")
	f.initialized = true
	logger.ServiceOperation("client_factory", "initialize", "completed")
	return nil
}

// SetBaseURL overrides the endpoint used for new clients of a provider.
func (f *ClientFactoryService) SetBaseURL(provider, url string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.baseURLs[provider] = url
}

// GetClientForProvider returns an LLM client for the specified provider and API key.
func (f *ClientFactoryService) GetClientForProvider(provider, apiKey string) (onyxtypes.LLMClient, error) {
	client, _, err := f.GetClientWithID(provider, apiKey)
	return client, err
}

// GetClient resolves the provider's API key from configuration and returns its client.
func (f *ClientFactoryService) GetClient(provider string) (onyxtypes.LLMClient, error) {
	if !f.initialized {
		return nil, fmt.Errorf("client factory service not initialized")
	}
	if f.config == nil {
		return nil, fmt.Errorf("client factory has no configuration to resolve API keys")
	}
	apiKey, err := f.config.GetAPIKey(provider)
	if err != nil {
		return nil, err
	}
	return f.GetClientForProvider(provider, apiKey)
}

// GetClientWithID returns both an LLM client and its client ID for the specified
// provider and API key. Clients are cached under the ID.
func (f *ClientFactoryService) GetClientWithID(provider, apiKey string) (onyxtypes.LLMClient, string, error) {
	if !f.initialized {
		return nil, "", fmt.Errorf("client factory service not initialized")
	}

	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return nil, "", fmt.Errorf("provider cannot be empty")
	}

	if apiKey == "" {
		return nil, "", fmt.Errorf("API key cannot be empty for provider '%s'", provider)
	}

	clientID := f.generateClientID(provider, apiKey)

	f.mutex.RLock()
	if client, exists := f.clients[clientID]; exists {
		f.mutex.RUnlock()
		logger.Debug("Returning cached provider client", "provider", provider, "clientID", clientID)
		return client, clientID, nil
	}
	f.mutex.RUnlock()

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if client, exists := f.clients[clientID]; exists {
		return client, clientID, nil
	}

	baseURL := f.baseURLs[provider]
	var client onyxtypes.LLMClient
	switch provider {
	case "openai":
		c := NewOpenAIClient(apiKey)
		if baseURL != "" {
			c.SetBaseURL(baseURL)
		}
		client = c
	case "anthropic":
		c := NewAnthropicClient(apiKey)
		if baseURL != "" {
			c.SetBaseURL(baseURL)
		}
		client = c
	case "gemini":
		c := NewGeminiClient(apiKey)
		if baseURL != "" {
			c.SetBaseURL(baseURL)
		}
		client = c
	default:
		return nil, "", fmt.Errorf("unsupported provider '%s'. Supported providers: %s", provider, strings.Join(SupportedProviders, ", "))
	}

	f.clients[clientID] = client

	logger.Debug("Created new provider client", "provider", provider, "clientID", clientID)
	return client, clientID, nil
}

// GetClientByID retrieves a cached LLM client by its client ID.
// Client ID format: "provider:hashed-api-key" (e.g., "openai:a1b2c3d4")
func (f *ClientFactoryService) GetClientByID(clientID string) (onyxtypes.LLMClient, error) {
	if !f.initialized {
		return nil, fmt.Errorf("client factory service not initialized")
	}

	parts := strings.Split(clientID, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid client ID format: %s (expected 'provider:hash')", clientID)
	}

	f.mutex.RLock()
	defer f.mutex.RUnlock()
	if client, exists := f.clients[clientID]; exists {
		return client, nil
	}

	return nil, fmt.Errorf("client with ID '%s' not found in cache", clientID)
}

// generateClientID hashes the API key so IDs can be logged safely.
// Format: "provider:first 8 hex chars of sha256(key)".
func (f *ClientFactoryService) generateClientID(provider, apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return fmt.Sprintf("%s:%s", provider, hex.EncodeToString(hash[:])[:8])
}
