package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/logger"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/services"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// app holds the initialized services for one command invocation.
type app struct {
	registry  *services.Registry
	config    *services.ConfigurationService
	storage   *services.StorageService
	triggers  *services.TriggerService
	renderer  *services.SegmentRendererService
	markdown  *services.MarkdownService
	clipboard *services.ClipboardService
	factory   *services.ClientFactoryService
	ask       *services.AskService
	cfg       services.Config
	out       io.Writer
}

// openApp registers and initializes every service in dependency order and makes the
// registry global for the lifetime of the command.
func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	configOpts := []services.ConfigurationOption{services.WithViper(opts.viper)}
	if opts.configFile != "" {
		configOpts = append(configOpts, services.WithConfigFile(opts.configFile))
	}

	a := &app{out: cmd.OutOrStdout()}
	a.config = services.NewConfigurationService(configOpts...)
	a.storage = services.NewStorageService(a.config)
	a.triggers = services.NewTriggerService(a.storage, a.config)
	a.renderer = services.NewSegmentRendererService(a.out)
	a.markdown = services.NewMarkdownService()
	a.clipboard = services.NewClipboardService()
	a.factory = services.NewClientFactoryService(a.config)
	a.ask = services.NewAskService(a.triggers, a.factory, a.config)

	a.registry = services.NewRegistry()
	for _, service := range []onyxtypes.Service{
		a.config, a.storage, a.triggers, a.renderer, a.markdown, a.clipboard, a.factory, a.ask,
	} {
		if err := a.registry.RegisterService(service); err != nil {
			return nil, err
		}
	}
	services.SetGlobalRegistry(a.registry)

	if err := a.registry.InitializeAll(); err != nil {
		_ = a.storage.Close()
		return nil, err
	}
	if err := a.config.ValidateConfiguration(); err != nil {
		_ = a.storage.Close()
		return nil, err
	}

	cfg, err := a.config.Config()
	if err != nil {
		_ = a.storage.Close()
		return nil, err
	}
	a.cfg = cfg
	a.renderer.SetWidth(cfg.RenderWidth)
	if err := a.markdown.Configure(cfg.RenderStyle, cfg.RenderWidth); err != nil {
		logger.Debug("Keeping default markdown settings", "error", err)
	}

	backend, path := a.storage.Backend()
	logger.Debug("Services ready", "backend", backend, "path", path, "provider", cfg.Provider)
	return a, nil
}

// Close releases the store.
func (a *app) Close() {
	if err := a.storage.Close(); err != nil {
		logger.Warn("Failed to close store", "error", err)
	}
}

// bindFlag binds a persistent flag to a configuration key, exiting on programmer error.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
		os.Exit(1)
	}
}

// loadMemory reads a memory context from a YAML or JSON file.
func loadMemory(path string) (onyxtypes.MemoryContext, error) {
	var memory onyxtypes.MemoryContext
	if path == "" {
		return memory, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return memory, fmt.Errorf("failed to read memory file: %w", err)
	}
	if err := yaml.Unmarshal(data, &memory); err != nil {
		return memory, fmt.Errorf("failed to parse memory file %s: %w", path, err)
	}
	return memory, nil
}

// readInput reads a file, or the command's standard input when path is "-" or empty.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" || path == "" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
