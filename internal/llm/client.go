// Package llm asks a chat-completion model for a map style.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/joeblew999/plat-style/internal/style"
)

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = errors.New("missing OpenAI API key")

// Generator produces an untrusted style description for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, overrides style.Overrides) (style.Raw, error)
}

// Config holds the model settings.
type Config struct {
	APIKey      string
	BaseURL     string // empty selects the OpenAI default
	Model       string
	Temperature float32
	MaxTokens   int
}

// Client is a Generator backed by the OpenAI chat completions API.
type Client struct {
	api *openai.Client
	cfg Config
}

// New creates a client. A missing key is reported on first use, not here,
// so a server can start without one.
func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 300
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &Client{api: openai.NewClientWithConfig(oc), cfg: cfg}
}

// Generate sends the prompt and overrides to the model. A transport
// failure is returned as an error; a response without choices is Absent.
func (c *Client) Generate(ctx context.Context, prompt string, overrides style.Overrides) (style.Raw, error) {
	if c.cfg.APIKey == "" {
		return style.Absent, ErrMissingCredential
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserMessage(prompt, overrides)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return style.Absent, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return style.Absent, nil
	}
	return style.Text(resp.Choices[0].Message.Content), nil
}
