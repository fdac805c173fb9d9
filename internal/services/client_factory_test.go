package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClientFactory(t *testing.T) *ClientFactoryService {
	t.Helper()
	factory := NewClientFactoryService(nil)
	require.NoError(t, factory.Initialize())
	return factory
}

func TestClientFactoryService_NotInitialized(t *testing.T) {
	factory := NewClientFactoryService(nil)
	assert.Equal(t, "client_factory", factory.Name())

	_, err := factory.GetClientForProvider("openai", "sk-test")
	assert.Error(t, err)
	_, err = factory.GetClientByID("openai:abcd1234")
	assert.Error(t, err)
	_, err = factory.GetClient("openai")
	assert.Error(t, err)
}

func TestClientFactoryService_GetClientForProvider(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
		errMsg   string
	}{
		{"openai", "openai", ""},
		{"Anthropic", "anthropic", ""},
		{"gemini", "gemini", ""},
		{"cohere", "", "unsupported provider"},
		{"", "", "provider cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			factory := newTestClientFactory(t)
			client, err := factory.GetClientForProvider(tt.provider, "sk-test")
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, client.GetProviderName())
			assert.True(t, client.IsConfigured())
		})
	}
}

func TestClientFactoryService_EmptyAPIKey(t *testing.T) {
	factory := newTestClientFactory(t)
	_, err := factory.GetClientForProvider("openai", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key cannot be empty")
}

func TestClientFactoryService_Caching(t *testing.T) {
	factory := newTestClientFactory(t)

	first, id, err := factory.GetClientWithID("openai", "sk-one")
	require.NoError(t, err)
	assert.Regexp(t, `^openai:[0-9a-f]{8}$`, id)
	assert.NotContains(t, id, "sk-one")

	second, secondID, err := factory.GetClientWithID("openai", "sk-one")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, id, secondID)

	other, otherID, err := factory.GetClientWithID("openai", "sk-two")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.NotEqual(t, id, otherID)

	byID, err := factory.GetClientByID(id)
	require.NoError(t, err)
	assert.Same(t, first, byID)
}

func TestClientFactoryService_GetClientByIDErrors(t *testing.T) {
	factory := newTestClientFactory(t)

	for _, id := range []string{"", "openai", ":abc", "openai:", "a:b:c"} {
		_, err := factory.GetClientByID(id)
		assert.Error(t, err, id)
	}

	_, err := factory.GetClientByID("openai:00000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestClientFactoryService_GetClientUsesConfiguration(t *testing.T) {
	t.Setenv("ONYX_GEMINI_API_KEY", "gm-test")

	config := NewConfigurationService(WithConfigDir(t.TempDir()), WithWorkDir(t.TempDir()))
	require.NoError(t, config.Initialize())
	factory := NewClientFactoryService(config)
	require.NoError(t, factory.Initialize())

	client, err := factory.GetClient("gemini")
	require.NoError(t, err)
	assert.Equal(t, "gemini", client.GetProviderName())
}
