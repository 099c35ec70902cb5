package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"easyapp_server/internal/types"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiModel calls the Gemini API with a text part and an inline image part, asking for JSON
// that follows ResponseSchema.
type GeminiModel struct {
	client *genai.Client
	model  string
}

func NewGeminiModel(ctx context.Context, cfg ProviderConfig) (*GeminiModel, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiModel{client: client, model: model}, nil
}

func (m *GeminiModel) Name() string {
	return ProviderGemini
}

func (m *GeminiModel) GenerateJSON(ctx context.Context, prompt string, icon types.InlineImage) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(icon.Data, icon.MIMEType),
		}, genai.RoleUser),
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema().GenAISchema(),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}
	return resp.Text(), nil
}
