package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/logger"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/storage"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/triggers"
)

// EnvPrefix is the prefix for every Onyx environment variable.
const EnvPrefix = "ONYX"

// Configuration keys.
const (
	KeyStoreBackend   = "store.backend"
	KeyStorePath      = "store.path"
	KeyProvider       = "provider"
	KeyModel          = "model"
	KeyMaxTokens      = "max_tokens"
	KeyMemoryMaxItems = "memory.max_items"
	KeyRenderMarkdown = "render.markdown"
	KeyRenderWidth    = "render.width"
	KeyRenderStyle    = "render.style"
)

// SupportedProviders lists the provider names accepted by the client factory.
var SupportedProviders = []string{"openai", "anthropic", "gemini"}

// defaultModels maps each provider to the model used when none is configured.
var defaultModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-3-5-haiku-latest",
	"gemini":    "gemini-2.0-flash",
}

// Config is the resolved configuration snapshot.
type Config struct {
	StoreBackend   string
	StorePath      string
	Provider       string
	Model          string
	MaxTokens      int
	MemoryMaxItems int
	RenderMarkdown bool
	RenderWidth    int
	RenderStyle    string
}

// ConfigPaths represents configuration file paths and their loading status
type ConfigPaths struct {
	ConfigDir       string // Configuration directory path
	ConfigFile      string // config.yaml actually read, if any
	ConfigEnvPath   string // Config .env file path
	ConfigEnvLoaded bool   // Whether config .env was loaded
	LocalEnvPath    string // Local .env file path
	LocalEnvLoaded  bool   // Whether local .env was loaded
}

// ConfigurationService provides configuration management for Onyx.
// Priority (highest to lowest): flags > OS environment > local .env > config .env > config.yaml > defaults.
type ConfigurationService struct {
	initialized bool
	v           *viper.Viper
	configDir   string
	workDir     string
	configFile  string
	dotenv      map[string]string
	paths       ConfigPaths
}

// ConfigurationOption customizes a ConfigurationService.
type ConfigurationOption func(*ConfigurationService)

// WithConfigDir overrides the user configuration directory.
func WithConfigDir(dir string) ConfigurationOption {
	return func(c *ConfigurationService) {
		c.configDir = dir
	}
}

// WithWorkDir overrides the directory searched for a local .env and config.yaml.
func WithWorkDir(dir string) ConfigurationOption {
	return func(c *ConfigurationService) {
		c.workDir = dir
	}
}

// WithConfigFile points at an explicit config file, as given by --config.
func WithConfigFile(path string) ConfigurationOption {
	return func(c *ConfigurationService) {
		c.configFile = path
	}
}

// WithViper uses an existing viper instance, typically one with CLI flags bound.
func WithViper(v *viper.Viper) ConfigurationOption {
	return func(c *ConfigurationService) {
		c.v = v
	}
}

// NewConfigurationService creates a new ConfigurationService instance.
func NewConfigurationService(opts ...ConfigurationOption) *ConfigurationService {
	c := &ConfigurationService{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the service name "configuration" for registration.
func (c *ConfigurationService) Name() string {
	return "configuration"
}

// Initialize loads defaults, config.yaml and .env files.
func (c *ConfigurationService) Initialize() error {
	if c.initialized {
		return nil
	}

	if c.v == nil {
		c.v = viper.New()
	}
	if c.configDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			c.configDir = filepath.Join(dir, "onyx")
		}
	}
	if c.workDir == "" {
		c.workDir = "."
	}

	c.setDefaults()

	c.v.SetEnvPrefix(EnvPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()

	if err := c.readConfigFile(); err != nil {
		return err
	}
	if err := c.loadDotEnvFiles(); err != nil {
		return err
	}

	c.initialized = true
	logger.ServiceOperation(c.Name(), "initialize", "config_dir", c.configDir, "config_file", c.paths.ConfigFile)
	return nil
}

func (c *ConfigurationService) setDefaults() {
	c.v.SetDefault(KeyStoreBackend, storage.BackendFile)
	c.v.SetDefault(KeyStorePath, filepath.Join(c.configDir, "store"))
	c.v.SetDefault(KeyProvider, "openai")
	c.v.SetDefault(KeyModel, "")
	c.v.SetDefault(KeyMaxTokens, 4096)
	c.v.SetDefault(KeyMemoryMaxItems, triggers.DefaultMaxMemoryItems)
	c.v.SetDefault(KeyRenderMarkdown, true)
	c.v.SetDefault(KeyRenderWidth, 80)
	c.v.SetDefault(KeyRenderStyle, "auto")
}

func (c *ConfigurationService) readConfigFile() error {
	c.paths.ConfigDir = c.configDir

	if c.configFile != "" {
		c.v.SetConfigFile(c.configFile)
	} else {
		c.v.SetConfigName("config")
		c.v.SetConfigType("yaml")
		if c.configDir != "" {
			c.v.AddConfigPath(c.configDir)
		}
		c.v.AddConfigPath(c.workDir)
	}

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	c.paths.ConfigFile = c.v.ConfigFileUsed()
	return nil
}

// loadDotEnvFiles reads the config-dir .env then the local .env. Later files win, and
// values already present in the OS environment are never overridden.
func (c *ConfigurationService) loadDotEnvFiles() error {
	c.dotenv = make(map[string]string)

	if c.configDir != "" {
		c.paths.ConfigEnvPath = filepath.Join(c.configDir, ".env")
		loaded, err := c.mergeDotEnv(c.paths.ConfigEnvPath)
		if err != nil {
			return fmt.Errorf("failed to load config .env: %w", err)
		}
		c.paths.ConfigEnvLoaded = loaded
	}

	c.paths.LocalEnvPath = filepath.Join(c.workDir, ".env")
	loaded, err := c.mergeDotEnv(c.paths.LocalEnvPath)
	if err != nil {
		return fmt.Errorf("failed to load local .env: %w", err)
	}
	c.paths.LocalEnvLoaded = loaded

	prefix := EnvPrefix + "_"
	for name, value := range c.dotenv {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, prefix))
		if mapped, ok := dotEnvKeys[key]; ok {
			c.v.Set(mapped, value)
		}
	}
	return nil
}

// dotEnvKeys maps ONYX_* variable suffixes to configuration keys.
var dotEnvKeys = map[string]string{
	"store_backend":    KeyStoreBackend,
	"store_path":       KeyStorePath,
	"provider":         KeyProvider,
	"model":            KeyModel,
	"max_tokens":       KeyMaxTokens,
	"memory_max_items": KeyMemoryMaxItems,
	"render_markdown":  KeyRenderMarkdown,
	"render_width":     KeyRenderWidth,
	"render_style":     KeyRenderStyle,
}

func (c *ConfigurationService) mergeDotEnv(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return false, err
	}
	for name, value := range values {
		c.dotenv[name] = value
	}
	return true, nil
}

// Config returns the resolved configuration.
func (c *ConfigurationService) Config() (Config, error) {
	if !c.initialized {
		return Config{}, fmt.Errorf("configuration service not initialized")
	}

	cfg := Config{
		StoreBackend:   strings.ToLower(c.v.GetString(KeyStoreBackend)),
		StorePath:      c.v.GetString(KeyStorePath),
		Provider:       strings.ToLower(c.v.GetString(KeyProvider)),
		Model:          c.v.GetString(KeyModel),
		MaxTokens:      c.v.GetInt(KeyMaxTokens),
		MemoryMaxItems: c.v.GetInt(KeyMemoryMaxItems),
		RenderMarkdown: c.v.GetBool(KeyRenderMarkdown),
		RenderWidth:    c.v.GetInt(KeyRenderWidth),
		RenderStyle:    c.v.GetString(KeyRenderStyle),
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	return cfg, nil
}

// GetAPIKey retrieves an API key for a specific provider.
// ONYX_<PROVIDER>_API_KEY is preferred over <PROVIDER>_API_KEY; the OS environment is
// consulted before .env files.
func (c *ConfigurationService) GetAPIKey(provider string) (string, error) {
	if !c.initialized {
		return "", fmt.Errorf("configuration service not initialized")
	}

	upper := strings.ToUpper(provider)
	providerKey := fmt.Sprintf("%s_%s_API_KEY", EnvPrefix, upper)
	legacyKey := fmt.Sprintf("%s_API_KEY", upper)

	for _, name := range []string{providerKey, legacyKey} {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value, nil
		}
	}
	for _, name := range []string{providerKey, legacyKey} {
		if value := strings.TrimSpace(c.dotenv[name]); value != "" {
			return value, nil
		}
	}

	return "", fmt.Errorf("API key not configured for provider %s (expected %s or %s)", provider, providerKey, legacyKey)
}

// GetConfigValue retrieves a configuration value by key.
// Returns empty string if the configuration value doesn't exist (no error).
func (c *ConfigurationService) GetConfigValue(key string) (string, error) {
	if !c.initialized {
		return "", fmt.Errorf("configuration service not initialized")
	}
	return c.v.GetString(key), nil
}

// SetConfigValue sets a configuration value, overriding every other source.
func (c *ConfigurationService) SetConfigValue(key string, value interface{}) error {
	if !c.initialized {
		return fmt.Errorf("configuration service not initialized")
	}
	c.v.Set(key, value)
	return nil
}

// ValidateConfiguration checks the store backend and provider names.
func (c *ConfigurationService) ValidateConfiguration() error {
	cfg, err := c.Config()
	if err != nil {
		return err
	}

	switch cfg.StoreBackend {
	case storage.BackendMemory, storage.BackendFile, storage.BackendSQLite:
	default:
		return fmt.Errorf("unknown store backend %q (expected memory, file or sqlite)", cfg.StoreBackend)
	}

	if _, ok := defaultModels[cfg.Provider]; !ok {
		return fmt.Errorf("unsupported provider %q (expected %s)", cfg.Provider, strings.Join(SupportedProviders, ", "))
	}

	if cfg.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", cfg.MaxTokens)
	}

	if !IsMarkdownStyle(cfg.RenderStyle) {
		return fmt.Errorf("unknown render style %q (expected %s)", cfg.RenderStyle, strings.Join(MarkdownStyles, ", "))
	}
	return nil
}

// GetConfigPaths returns where configuration was looked for and what was loaded.
func (c *ConfigurationService) GetConfigPaths() (ConfigPaths, error) {
	if !c.initialized {
		return ConfigPaths{}, fmt.Errorf("configuration service not initialized")
	}
	return c.paths, nil
}
