// Package llm abstracts the chat backend behind a provider registry so
// the dispatch engine never depends on a concrete API client.
package llm

import (
	"context"
	"fmt"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// FunctionCall names the skill the model wants to run, with its
// arguments as a raw JSON string.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// Message is one turn of the conversation.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// Function describes one callable skill to the model.
type Function struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Tool wraps a function schema in the tool envelope the chat APIs expect.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Response is the model's reply to one Chat call: either final content,
// or a batch of tool calls to execute, or both.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// Config holds the chat backend settings.
type Config struct {
	ModelName   string  `yaml:"model_name"`
	BaseURL     string  `yaml:"url"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Provider is a chat backend capable of tool calling.
type Provider interface {
	// Chat sends the full conversation plus the available tools and
	// returns the model's next turn.
	Chat(ctx context.Context, messages []Message, tools []Tool) (*Response, error)

	// Cleanup releases backend resources.
	Cleanup() error
}

// Factory creates a chat provider for a config.
type Factory func(config *Config) (Provider, error)

var factories = make(map[string]Factory)

// Register registers a chat provider factory.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create creates a chat provider by registered name.
func Create(name string, config *Config) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create llm provider %s: %w", name, err)
	}

	return provider, nil
}
