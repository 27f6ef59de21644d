package model

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ChatModel is a single-turn chat completion call. Both the classifier and
// the response generator go through this interface so tests can substitute
// a deterministic fake for the remote provider.
type ChatModel interface {
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}

// OpenAIChat is a ChatModel over an OpenAI-compatible chat endpoint
// (Groq serves the same API shape).
type OpenAIChat struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIChat(baseURL, apiKey, model string, timeout time.Duration) *OpenAIChat {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIChat{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

func (c *OpenAIChat) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices for model %s", c.model)
	}
	return resp.Choices[0].Message.Content, nil
}
