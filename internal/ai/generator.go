package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"easyapp_server/internal/ai/prompts"
	"easyapp_server/internal/metrics"
	"easyapp_server/internal/types"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

var (
	// ErrConfiguration marks errors caused by missing or invalid generator settings.
	ErrConfiguration = errors.New("generator is not configured")
	// ErrMissingCredential is returned before any network activity when no API key is set.
	ErrMissingCredential = fmt.Errorf("%w: missing API key for the generative model service", ErrConfiguration)
	// ErrModelCall wraps transport and service side failures of the model call.
	ErrModelCall = errors.New("generative model call failed")
)

// Model sends one prompt plus the inline icon to a hosted model and returns the raw JSON text.
type Model interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, icon types.InlineImage) (string, error)
}

// ProviderConfig selects and configures the hosted model.
type ProviderConfig struct {
	Provider string // gemini (default) or openai
	APIKey   string
	Model    string
	BaseURL  string
}

// Generator turns a GenerationRequest into ProjectFiles with a single model round trip.
// The provider client is created on first use so a missing credential only fails the attempt.
type Generator struct {
	cfg ProviderConfig

	mu    sync.Mutex
	model Model
}

func NewGenerator(cfg ProviderConfig) *Generator {
	if cfg.Provider == "" {
		cfg.Provider = ProviderGemini
	}
	return &Generator{cfg: cfg}
}

// NewGeneratorWithModel uses an already configured model.
func NewGeneratorWithModel(model Model) *Generator {
	return &Generator{cfg: ProviderConfig{Provider: model.Name()}, model: model}
}

// Provider returns the configured provider name.
func (g *Generator) Provider() string {
	return g.cfg.Provider
}

func (g *Generator) resolveModel(ctx context.Context) (Model, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.model != nil {
		return g.model, nil
	}
	if strings.TrimSpace(g.cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}

	var (
		model Model
		err   error
	)
	switch strings.ToLower(g.cfg.Provider) {
	case ProviderGemini:
		model, err = NewGeminiModel(ctx, g.cfg)
	case ProviderOpenAI:
		model, err = NewOpenAIModel(g.cfg)
	default:
		return nil, fmt.Errorf("%w: unknown model provider %q", ErrConfiguration, g.cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	g.model = model
	return model, nil
}

// Generate composes the prompt, calls the model exactly once and parses the result.
// Failures are returned as-is; nothing is retried.
func (g *Generator) Generate(ctx context.Context, req types.GenerationRequest) (types.ProjectFiles, error) {
	model, err := g.resolveModel(ctx)
	if err != nil {
		metrics.IncError("ai", "configure")
		return types.ProjectFiles{}, err
	}

	fullPrompt := prompts.GetAppGenerationPrompt(req)
	log.Printf("Generating project files for app %q via %s (%d reference files, prompt %d bytes, icon %s %d bytes)",
		req.AppName, model.Name(), len(req.ReferenceFiles), len(fullPrompt), req.Icon.MIMEType, len(req.Icon.Data))

	metrics.IncModelRequest(model.Name(), g.cfg.Model)
	llmOutput, err := model.GenerateJSON(ctx, fullPrompt, req.Icon)
	if err != nil {
		metrics.IncError("ai", "model_call")
		return types.ProjectFiles{}, fmt.Errorf("%w: %w", ErrModelCall, err)
	}

	files, err := ParseProjectFiles(llmOutput)
	if err != nil {
		metrics.IncError("ai", "parse_response")
		log.Printf("Failed to parse model output for app %q: %v. Raw output: %s", req.AppName, err, llmOutput)
		return types.ProjectFiles{}, err
	}

	log.Printf("Parsed %d project files for app %q", len(types.ProjectFilePaths), req.AppName)
	return files, nil
}
