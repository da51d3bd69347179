package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// #region client-struct
// OpenAIClient generates completions through the OpenAI chat API.
type OpenAIClient struct {
	client      *openai.Client
	temperature float32
}

// #endregion client-struct

// #region constructor
// NewOpenAIClient builds a client. baseURL may be empty for the public API.
func NewOpenAIClient(apiKey, baseURL string, temperature float32) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		temperature: temperature,
	}, nil
}

// #endregion constructor

// #region generate
// Generate sends the fixed system prompt plus the user prompt and returns the
// trimmed first choice.
func (o *OpenAIClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: o.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion: %w", ErrEmptyResponse)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// #endregion generate
