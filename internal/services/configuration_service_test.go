package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/storage"
)

func newTestConfiguration(t *testing.T) (*ConfigurationService, string, string) {
	t.Helper()
	configDir := t.TempDir()
	workDir := t.TempDir()
	return NewConfigurationService(WithConfigDir(configDir), WithWorkDir(workDir)), configDir, workDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestConfigurationService_Name(t *testing.T) {
	assert.Equal(t, "configuration", NewConfigurationService().Name())
}

func TestConfigurationService_NotInitialized(t *testing.T) {
	service := NewConfigurationService()

	_, err := service.Config()
	assert.Error(t, err)
	_, err = service.GetAPIKey("openai")
	assert.Error(t, err)
	_, err = service.GetConfigValue(KeyProvider)
	assert.Error(t, err)
	assert.Error(t, service.SetConfigValue(KeyProvider, "gemini"))
}

func TestConfigurationService_Defaults(t *testing.T) {
	service, configDir, _ := newTestConfiguration(t)
	require.NoError(t, service.Initialize())

	cfg, err := service.Config()
	require.NoError(t, err)
	assert.Equal(t, storage.BackendFile, cfg.StoreBackend)
	assert.Equal(t, filepath.Join(configDir, "store"), cfg.StorePath)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, defaultModels["openai"], cfg.Model)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.Equal(t, 20, cfg.MemoryMaxItems)
	assert.True(t, cfg.RenderMarkdown)
	assert.Equal(t, "auto", cfg.RenderStyle)
	assert.NoError(t, service.ValidateConfiguration())
}

func TestConfigurationService_ConfigFile(t *testing.T) {
	service, configDir, _ := newTestConfiguration(t)
	writeFile(t, filepath.Join(configDir, "config.yaml"), `
store:
  backend: sqlite
provider: anthropic
model: claude-test
memory:
  max_items: 5
`)
	require.NoError(t, service.Initialize())

	cfg, err := service.Config()
	require.NoError(t, err)
	assert.Equal(t, storage.BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "claude-test", cfg.Model)
	assert.Equal(t, 5, cfg.MemoryMaxItems)

	paths, err := service.GetConfigPaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configDir, "config.yaml"), paths.ConfigFile)
}

func TestConfigurationService_ExplicitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "provider: gemini\n")

	service := NewConfigurationService(WithConfigDir(t.TempDir()), WithWorkDir(t.TempDir()), WithConfigFile(path))
	require.NoError(t, service.Initialize())

	cfg, err := service.Config()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, defaultModels["gemini"], cfg.Model)
}

func TestConfigurationService_DotEnvPriority(t *testing.T) {
	service, configDir, workDir := newTestConfiguration(t)
	writeFile(t, filepath.Join(configDir, ".env"), "ONYX_PROVIDER=anthropic\nONYX_MAX_TOKENS=100\n")
	writeFile(t, filepath.Join(workDir, ".env"), "ONYX_PROVIDER=gemini\n")

	require.NoError(t, service.Initialize())

	cfg, err := service.Config()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider, "local .env overrides config .env")
	assert.Equal(t, 100, cfg.MaxTokens)

	paths, err := service.GetConfigPaths()
	require.NoError(t, err)
	assert.True(t, paths.ConfigEnvLoaded)
	assert.True(t, paths.LocalEnvLoaded)
}

func TestConfigurationService_OSEnvironmentWins(t *testing.T) {
	t.Setenv("ONYX_PROVIDER", "anthropic")

	service, _, workDir := newTestConfiguration(t)
	writeFile(t, filepath.Join(workDir, ".env"), "ONYX_PROVIDER=gemini\n")
	require.NoError(t, service.Initialize())

	cfg, err := service.Config()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
}

func TestConfigurationService_GetAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		dotenv string
		want   string
		errMsg string
	}{
		{
			name: "prefixed key preferred",
			env:  map[string]string{"ONYX_OPENAI_API_KEY": "sk-onyx", "OPENAI_API_KEY": "sk-plain"},
			want: "sk-onyx",
		},
		{
			name: "plain key",
			env:  map[string]string{"ONYX_OPENAI_API_KEY": "", "OPENAI_API_KEY": "sk-plain"},
			want: "sk-plain",
		},
		{
			name:   "dotenv key",
			env:    map[string]string{"ONYX_OPENAI_API_KEY": "", "OPENAI_API_KEY": ""},
			dotenv: "OPENAI_API_KEY=sk-dotenv\n",
			want:   "sk-dotenv",
		},
		{
			name:   "missing",
			env:    map[string]string{"ONYX_OPENAI_API_KEY": "", "OPENAI_API_KEY": ""},
			errMsg: "API key not configured for provider openai",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			service, _, workDir := newTestConfiguration(t)
			if tt.dotenv != "" {
				writeFile(t, filepath.Join(workDir, ".env"), tt.dotenv)
			}
			require.NoError(t, service.Initialize())

			key, err := service.GetAPIKey("openai")
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestConfigurationService_ValidateConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  interface{}
		errMsg string
	}{
		{"bad backend", KeyStoreBackend, "postgres", "unknown store backend"},
		{"bad provider", KeyProvider, "cohere", "unsupported provider"},
		{"bad max tokens", KeyMaxTokens, 0, "max_tokens must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newTestConfiguration(t)
			require.NoError(t, service.Initialize())
			require.NoError(t, service.SetConfigValue(tt.key, tt.value))

			err := service.ValidateConfiguration()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
