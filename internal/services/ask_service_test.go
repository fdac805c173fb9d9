package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/testutils"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// MockLLMClient returns a canned reply and records the last request.
type MockLLMClient struct {
	reply      string
	err        error
	configured bool
	last       onyxtypes.CompletionRequest
	calls      int
}

func (m *MockLLMClient) SendCompletion(_ context.Context, req onyxtypes.CompletionRequest) (string, error) {
	m.calls++
	m.last = req
	return m.reply, m.err
}

func (m *MockLLMClient) GetProviderName() string {
	return "mock"
}

func (m *MockLLMClient) IsConfigured() bool {
	return m.configured
}

func newTestAskService(t *testing.T) *AskService {
	t.Helper()
	factory := newTestClientFactory(t)
	service := NewAskService(newTestTriggerService(t), factory, nil)
	service.mode = testutils.FixedMode(true)
	require.NoError(t, service.Initialize())
	testutils.ResetTestCounters()
	return service
}

func TestAskService_Initialize(t *testing.T) {
	service := NewAskService(nil, nil, nil)
	assert.Equal(t, "ask", service.Name())
	assert.Error(t, service.Initialize())

	_, err := service.Ask(context.Background(), AskRequest{Message: "hi"})
	assert.Error(t, err)
}

func TestAskService_AskWithClient(t *testing.T) {
	service := newTestAskService(t)
	client := &MockLLMClient{
		configured: true,
		reply:      "🔴 reason Trigger Active | Mode: Reasoning and Analysis\n<reason>Six times seven.</reason>\nThe answer is 42.",
	}

	result, err := service.AskWithClient(context.Background(), client, "test-model", 512, AskRequest{
		Message: "Please reason carefully.",
		Memory:  testutils.SampleMemory(),
	})
	require.NoError(t, err)

	assert.Equal(t, "turn_00000001", result.TurnID)
	assert.Equal(t, "mock", result.Provider)
	assert.Equal(t, "test-model", result.Model)
	assert.Equal(t, "The answer is 42.", result.Result.CleanContent)
	require.Len(t, result.Result.TaggedSegments, 1)
	assert.Equal(t, "reason", result.Result.TaggedSegments[0].Tag)
	assert.Positive(t, result.Elapsed)

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "Please reason carefully.", client.last.UserMessage)
	assert.Equal(t, 512, client.last.MaxTokens)
	assert.Contains(t, client.last.SystemPrompt, DefaultBasePrompt)
	assert.Contains(t, client.last.SystemPrompt, "🔴 reason Trigger Active")
	assert.Contains(t, client.last.SystemPrompt, "INTERNAL MEMORY CONTEXT")
}

func TestAskService_NoTriggerUsesBasePrompt(t *testing.T) {
	service := newTestAskService(t)
	client := &MockLLMClient{configured: true, reply: "Hello there, nice to meet you."}

	result, err := service.AskWithClient(context.Background(), client, "m", 0, AskRequest{
		Message:    "hello",
		BasePrompt: "Be brief.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Be brief.", client.last.SystemPrompt)
	assert.Empty(t, result.Preparation.Detected)
	assert.Equal(t, "Hello there, nice to meet you.", result.Result.CleanContent)
	assert.Empty(t, result.Result.TaggedSegments)
}

func TestAskService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		client  *MockLLMClient
		message string
		errMsg  string
	}{
		{"empty message", &MockLLMClient{configured: true}, "  ", "message cannot be empty"},
		{"unconfigured client", &MockLLMClient{}, "hello", "not configured"},
		{"transport error", &MockLLMClient{configured: true, err: errors.New("connection reset")}, "hello", "connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestAskService(t)
			_, err := service.AskWithClient(context.Background(), tt.client, "m", 0, AskRequest{Message: tt.message})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestAskService_ResolveFromConfiguration(t *testing.T) {
	config := NewConfigurationService(WithConfigDir(t.TempDir()), WithWorkDir(t.TempDir()))
	require.NoError(t, config.Initialize())
	require.NoError(t, config.SetConfigValue(KeyProvider, "anthropic"))
	require.NoError(t, config.SetConfigValue(KeyModel, "claude-custom"))

	service := NewAskService(newTestTriggerService(t), newTestClientFactory(t), config)
	require.NoError(t, service.Initialize())

	provider, model, maxTokens, err := service.resolve(AskRequest{})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", provider)
	assert.Equal(t, "claude-custom", model)
	assert.Equal(t, 4096, maxTokens)

	provider, model, _, err = service.resolve(AskRequest{Provider: "gemini"})
	require.NoError(t, err)
	assert.Equal(t, "gemini", provider)
	assert.Equal(t, defaultModels["gemini"], model)
}

func TestAskService_AskWithoutAPIKey(t *testing.T) {
	t.Setenv("ONYX_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	config := NewConfigurationService(WithConfigDir(t.TempDir()), WithWorkDir(t.TempDir()))
	require.NoError(t, config.Initialize())
	factory := NewClientFactoryService(config)
	require.NoError(t, factory.Initialize())

	service := NewAskService(newTestTriggerService(t), factory, config)
	require.NoError(t, service.Initialize())

	_, err := service.Ask(context.Background(), AskRequest{Message: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not configured")
}
