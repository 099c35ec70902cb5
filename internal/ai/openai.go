package ai

import (
	"context"
	"errors"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"easyapp_server/internal/types"
)

const systemPrompt = "You are a helpful AI assistant that generates Android project files based on user prompts and specific formatting instructions."

// OpenAIModel sends the prompt and the icon as a data URL in one user message and requests a
// strict json_schema response.
type OpenAIModel struct {
	client *openai.Client
	model  string
}

func NewOpenAIModel(cfg ProviderConfig) (*OpenAIModel, error) {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIModel{client: openai.NewClientWithConfig(config), model: model}, nil
}

func (m *OpenAIModel) Name() string {
	return ProviderOpenAI
}

func (m *OpenAIModel) GenerateJSON(ctx context.Context, prompt string, icon types.InlineImage) (string, error) {
	schema := ResponseSchema().JSONSchema()
	resp, err := m.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: m.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{Type: openai.ChatMessagePartTypeText, Text: prompt},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL:    "data:" + icon.MIMEType + ";base64," + icon.Base64(),
								Detail: openai.ImageURLDetailAuto,
							},
						},
					},
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:   SchemaName,
					Schema: &schema,
					Strict: true,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		log.Printf("OpenAI usage for failed request: %+v", resp.Usage)
		return "", errors.New("openai returned empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
