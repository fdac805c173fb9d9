package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/logger"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/testutils"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// DefaultBasePrompt is the system prompt used when no trigger is detected, and the
// base the directives are appended to otherwise.
const DefaultBasePrompt = "You are Onyx, a helpful assistant. Answer clearly and accurately."

// AskRequest is one user turn.
type AskRequest struct {
	Message    string
	Provider   string // empty uses the configured provider
	Model      string // empty uses the configured model
	BasePrompt string // empty uses DefaultBasePrompt
	Memory     onyxtypes.MemoryContext
}

// AskResult is everything produced by one turn.
type AskResult struct {
	TurnID      string                `json:"turnId"`
	Provider    string                `json:"provider"`
	Model       string                `json:"model"`
	Preparation Preparation           `json:"preparation"`
	Raw         string                `json:"raw"`
	Result      onyxtypes.ParseResult `json:"result"`
	StartedAt   time.Time             `json:"startedAt"`
	Elapsed     time.Duration         `json:"elapsed"`
}

// AskService runs a full turn: detect triggers, assemble the system prompt, call the
// provider once, and parse the tagged reply.
type AskService struct {
	initialized bool
	triggers    *TriggerService
	factory     *ClientFactoryService
	config      *ConfigurationService
	mode        testutils.Mode
}

// NewAskService creates an ask service over its collaborators.
func NewAskService(triggers *TriggerService, factory *ClientFactoryService, config *ConfigurationService) *AskService {
	return &AskService{
		triggers: triggers,
		factory:  factory,
		config:   config,
		mode:     testutils.EnvMode{},
	}
}

// Name returns the service name "ask" for registration.
func (a *AskService) Name() string {
	return "ask"
}

// Initialize checks that the collaborators are present.
func (a *AskService) Initialize() error {
	if a.triggers == nil || a.factory == nil {
		return fmt.Errorf("ask service requires trigger and client factory services")
	}
	a.initialized = true
	logger.ServiceOperation(a.Name(), "initialize", "completed")
	return nil
}

// Ask resolves a client from the factory and runs the turn.
func (a *AskService) Ask(ctx context.Context, req AskRequest) (AskResult, error) {
	if !a.initialized {
		return AskResult{}, fmt.Errorf("ask service not initialized")
	}

	provider, model, maxTokens, err := a.resolve(req)
	if err != nil {
		return AskResult{}, err
	}

	client, err := a.factory.GetClient(provider)
	if err != nil {
		return AskResult{}, fmt.Errorf("failed to get %s client: %w", provider, err)
	}

	return a.AskWithClient(ctx, client, model, maxTokens, req)
}

// AskWithClient runs the turn against an explicit client.
func (a *AskService) AskWithClient(ctx context.Context, client onyxtypes.LLMClient, model string, maxTokens int, req AskRequest) (AskResult, error) {
	if !a.initialized {
		return AskResult{}, fmt.Errorf("ask service not initialized")
	}
	if strings.TrimSpace(req.Message) == "" {
		return AskResult{}, fmt.Errorf("message cannot be empty")
	}
	if !client.IsConfigured() {
		return AskResult{}, fmt.Errorf("%s client is not configured", client.GetProviderName())
	}

	base := req.BasePrompt
	if base == "" {
		base = DefaultBasePrompt
	}

	result := AskResult{
		TurnID:    testutils.GenerateTurnID(a.mode),
		Provider:  client.GetProviderName(),
		Model:     model,
		StartedAt: testutils.GetCurrentTime(a.mode),
	}

	prep, err := a.triggers.Prepare(base, req.Message, req.Memory)
	if err != nil {
		return AskResult{}, err
	}
	result.Preparation = prep

	log := logger.NewStyledLogger("Ask")
	log.Debug("Sending turn", "turn", result.TurnID, "provider", result.Provider, "model", model, "triggers", len(prep.Detected))

	raw, err := client.SendCompletion(ctx, onyxtypes.CompletionRequest{
		Model:        model,
		SystemPrompt: prep.SystemPrompt,
		UserMessage:  req.Message,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		return AskResult{}, fmt.Errorf("turn %s failed: %w", result.TurnID, err)
	}
	result.Raw = raw

	parsed, err := a.triggers.Parse(raw)
	if err != nil {
		return AskResult{}, err
	}
	result.Result = parsed
	result.Elapsed = testutils.GetCurrentTime(a.mode).Sub(result.StartedAt)

	log.Debug("Turn complete", "turn", result.TurnID, "segments", len(parsed.TaggedSegments), "clean_length", len(parsed.CleanContent))
	return result, nil
}

func (a *AskService) resolve(req AskRequest) (string, string, int, error) {
	provider := strings.ToLower(req.Provider)
	model := req.Model
	maxTokens := 0

	if a.config != nil {
		cfg, err := a.config.Config()
		if err != nil {
			return "", "", 0, err
		}
		if provider == "" {
			provider = cfg.Provider
		}
		if model == "" {
			if provider == cfg.Provider {
				model = cfg.Model
			} else {
				model = defaultModels[provider]
			}
		}
		maxTokens = cfg.MaxTokens
	}

	if provider == "" {
		return "", "", 0, fmt.Errorf("no provider configured")
	}
	if model == "" {
		model = defaultModels[provider]
	}
	if model == "" {
		return "", "", 0, fmt.Errorf("no model configured for provider %s", provider)
	}
	return provider, model, maxTokens, nil
}
