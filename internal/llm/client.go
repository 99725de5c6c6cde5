// Package llm wraps the chat-completion service behind a single-call
// client. One round-trip, no retry, no streaming.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Completer produces a text completion for a composed prompt.
type Completer interface {
	Complete(ctx context.Context, systemInstruction string, messages []Message) (string, error)
}

// Client calls the Anthropic Messages API. Model, token budget and
// temperature are fixed at construction, not per request.
type Client struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewClient builds a Client. The API key is not validated here; a missing
// key surfaces as a failed call at request time.
func NewClient(apiKey, model string, maxTokens int, temperature float64) *Client {
	return &Client{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		maxTokens:   int64(maxTokens),
		temperature: temperature,
	}
}

// Complete sends one request and returns the concatenated text blocks.
func (c *Client) Complete(ctx context.Context, systemInstruction string, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty")
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		Messages:    make([]anthropic.MessageParam, 0, len(messages)),
	}
	if systemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemInstruction}}
	}
	for _, msg := range messages {
		switch msg.Role {
		case "assistant":
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("completion call: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from completion service")
	}
	return text.String(), nil
}
