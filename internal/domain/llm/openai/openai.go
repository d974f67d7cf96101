// Package openai adapts the OpenAI chat completion API (and compatible
// endpoints) to the llm.Provider interface.
package openai

import (
	"context"

	sdk "github.com/sashabaranov/go-openai"

	"mars-assistant-go/internal/domain/llm"
	platformerrors "mars-assistant-go/internal/platform/errors"
)

func init() {
	llm.Register("openai", func(config *llm.Config) (llm.Provider, error) {
		return NewProvider(config)
	})
}

// Provider calls an OpenAI-compatible chat completion endpoint.
type Provider struct {
	client      *sdk.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewProvider validates the credentials and builds the API client.
func NewProvider(config *llm.Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, platformerrors.New(platformerrors.KindConfig, "llm.openai",
			"API key is required")
	}

	clientConfig := sdk.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	model := config.ModelName
	if model == "" {
		model = sdk.GPT4o
	}

	return &Provider{
		client:      sdk.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: float32(config.Temperature),
		maxTokens:   config.MaxTokens,
	}, nil
}

// Chat sends one completion request with the registered tool schemas
// attached and converts the reply back to domain types.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message, tools []llm.Tool) (*llm.Response, error) {
	request := sdk.ChatCompletionRequest{
		Model:       p.model,
		Messages:    toAPIMessages(messages),
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Tools:       toAPITools(tools),
	}

	resp, err := p.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindLLM, "llm.chat",
			"chat completion request failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, platformerrors.New(platformerrors.KindLLM, "llm.chat",
			"chat completion returned no choices")
	}

	choice := resp.Choices[0].Message
	return &llm.Response{
		Content:   choice.Content,
		ToolCalls: fromAPIToolCalls(choice.ToolCalls),
	}, nil
}

// Cleanup releases backend resources. The API client holds none.
func (p *Provider) Cleanup() error { return nil }

func toAPIMessages(messages []llm.Message) []sdk.ChatCompletionMessage {
	converted := make([]sdk.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msg := sdk.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, sdk.ToolCall{
				ID:   tc.ID,
				Type: sdk.ToolType(tc.Type),
				Function: sdk.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		converted = append(converted, msg)
	}
	return converted
}

func toAPITools(tools []llm.Tool) []sdk.Tool {
	if len(tools) == 0 {
		return nil
	}
	converted := make([]sdk.Tool, 0, len(tools))
	for _, t := range tools {
		converted = append(converted, sdk.Tool{
			Type: sdk.ToolType(t.Type),
			Function: &sdk.FunctionDefinition{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  t.Function.Parameters,
			},
		})
	}
	return converted
}

func fromAPIToolCalls(calls []sdk.ToolCall) []llm.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	converted := make([]llm.ToolCall, 0, len(calls))
	for _, c := range calls {
		converted = append(converted, llm.ToolCall{
			ID:   c.ID,
			Type: string(c.Type),
			Function: llm.FunctionCall{
				Name:      c.Function.Name,
				Arguments: c.Function.Arguments,
			},
		})
	}
	return converted
}
