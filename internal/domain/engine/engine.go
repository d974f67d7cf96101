// Package engine turns a transcribed command into a spoken reply: it
// drives the chat backend, executes the tool calls the model asks for,
// and keeps the conversation history consistent.
package engine

import (
	"context"

	"github.com/bytedance/sonic"

	"mars-assistant-go/internal/domain/llm"
	"mars-assistant-go/internal/domain/memory"
	"mars-assistant-go/internal/domain/skills"
	"mars-assistant-go/internal/platform/logging"
)

// Spoken fallbacks. The first covers a failed initial request, the
// second a failure while feeding tool results back to the model.
const (
	apologyRequest    = "I'm sorry, sir — I encountered an error reaching the AI service."
	apologyToolResult = "I encountered an issue processing the tool result, sir."
	apologyToolLoop   = "I got stuck in a loop of tool calls and had to stop, sir."
)

const defaultMaxToolRounds = 8

// Config tunes one engine instance.
type Config struct {
	// SystemPrompt is prepended to every request, outside the rolling
	// history so trimming can never drop it.
	SystemPrompt string

	// MaxToolRounds caps how many times one command may bounce between
	// the model and the skills before the engine gives up.
	MaxToolRounds int
}

// Engine dispatches commands through the chat backend.
type Engine struct {
	config       Config
	provider     llm.Provider
	registry     *skills.Registry
	conversation *memory.Conversation
	logger       *logging.Logger
}

// New wires the chat backend, skill registry, and history together.
func New(config Config, provider llm.Provider, registry *skills.Registry, conversation *memory.Conversation, logger *logging.Logger) *Engine {
	if config.MaxToolRounds <= 0 {
		config.MaxToolRounds = defaultMaxToolRounds
	}
	return &Engine{
		config:       config,
		provider:     provider,
		registry:     registry,
		conversation: conversation,
		logger:       logger,
	}
}

// Dispatch produces the assistant's reply to one command. Tool turns are
// kept in a working transcript for the duration of the command; only the
// user turn and the final reply enter the rolling history. Dispatch
// always returns something speakable.
func (e *Engine) Dispatch(ctx context.Context, userText string) string {
	e.conversation.AddUser(userText)

	messages := make([]llm.Message, 0, e.conversation.Len()+1)
	if e.config.SystemPrompt != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: e.config.SystemPrompt})
	}
	messages = append(messages, e.conversation.Messages()...)

	tools := e.registry.Schemas()
	reply := e.converse(ctx, messages, tools)

	e.conversation.AddAssistant(reply)
	return reply
}

func (e *Engine) converse(ctx context.Context, messages []llm.Message, tools []llm.Tool) string {
	for round := 0; round <= e.config.MaxToolRounds; round++ {
		response, err := e.provider.Chat(ctx, messages, tools)
		if err != nil {
			e.logger.ErrorTag("LLM", "chat request failed: %v", err)
			if round == 0 {
				return apologyRequest
			}
			return apologyToolResult
		}

		if len(response.ToolCalls) == 0 {
			return response.Content
		}

		e.logger.InfoTag("LLM", "model requested %d tool call(s), round %d/%d",
			len(response.ToolCalls), round+1, e.config.MaxToolRounds)

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})
		for _, call := range response.ToolCalls {
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: call.ID,
				Content:    e.runTool(ctx, call),
			})
		}
	}

	e.logger.WarnTag("LLM", "tool round limit of %d reached, giving up", e.config.MaxToolRounds)
	return apologyToolLoop
}

// runTool decodes the model-supplied arguments and executes the skill.
// The arguments are model output, not trusted input: malformed JSON
// degrades to an empty argument set rather than failing the command.
func (e *Engine) runTool(ctx context.Context, call llm.ToolCall) string {
	args := map[string]any{}
	if call.Function.Arguments != "" {
		if err := sonic.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			e.logger.WarnTag("SKILL", "malformed arguments for %q: %v", call.Function.Name, err)
			args = map[string]any{}
		}
	}
	return e.registry.Execute(ctx, call.Function.Name, args)
}
