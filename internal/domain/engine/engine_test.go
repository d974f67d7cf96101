package engine

import (
	"context"
	"errors"
	"testing"

	"mars-assistant-go/internal/domain/llm"
	"mars-assistant-go/internal/domain/memory"
	"mars-assistant-go/internal/domain/skills"
	platformtesting "mars-assistant-go/internal/platform/testing"
)

// scriptedProvider answers Chat calls from a fixed script and records
// every request for later assertions.
type scriptedProvider struct {
	script   []func(messages []llm.Message) (*llm.Response, error)
	requests [][]llm.Message
}

func (p *scriptedProvider) Chat(_ context.Context, messages []llm.Message, _ []llm.Tool) (*llm.Response, error) {
	p.requests = append(p.requests, messages)
	step := len(p.requests) - 1
	if step >= len(p.script) {
		step = len(p.script) - 1
	}
	return p.script[step](messages)
}

func (p *scriptedProvider) Cleanup() error { return nil }

func answer(content string) func([]llm.Message) (*llm.Response, error) {
	return func([]llm.Message) (*llm.Response, error) {
		return &llm.Response{Content: content}, nil
	}
}

func toolCall(id, name, arguments string) func([]llm.Message) (*llm.Response, error) {
	return func([]llm.Message) (*llm.Response, error) {
		return &llm.Response{ToolCalls: []llm.ToolCall{{
			ID:       id,
			Type:     "function",
			Function: llm.FunctionCall{Name: name, Arguments: arguments},
		}}}, nil
	}
}

func failure() func([]llm.Message) (*llm.Response, error) {
	return func([]llm.Message) (*llm.Response, error) {
		return nil, errors.New("backend unavailable")
	}
}

func newEngine(t *testing.T, provider llm.Provider, registry *skills.Registry) (*Engine, *memory.Conversation) {
	t.Helper()
	logger := platformtesting.SetupTestLogger(t)
	if registry == nil {
		registry = skills.NewRegistry(logger)
	}
	conversation := memory.New(20)
	eng := New(Config{SystemPrompt: "You are a helpful assistant.", MaxToolRounds: 3},
		provider, registry, conversation, logger)
	return eng, conversation
}

func TestDispatch_PlainAnswer(t *testing.T) {
	provider := &scriptedProvider{script: []func([]llm.Message) (*llm.Response, error){
		answer("It is sunny."),
	}}
	eng, conversation := newEngine(t, provider, nil)

	got := eng.Dispatch(context.Background(), "how is the weather")
	if got != "It is sunny." {
		t.Errorf("Dispatch = %q", got)
	}

	history := conversation.Messages()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want user turn plus reply", len(history))
	}
	if history[0].Role != llm.RoleUser || history[1].Role != llm.RoleAssistant {
		t.Errorf("history roles = %s, %s", history[0].Role, history[1].Role)
	}

	// The system prompt rides outside the rolling history.
	if provider.requests[0][0].Role != llm.RoleSystem {
		t.Error("request must start with the system prompt")
	}
}

func TestDispatch_ToolCallFlow(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	registry := skills.NewRegistry(logger)
	registry.Register(skills.Skill{
		Name: "get_time",
		Handler: func(_ context.Context, _ map[string]any) (string, error) {
			return "10:30 AM", nil
		},
	})

	provider := &scriptedProvider{script: []func([]llm.Message) (*llm.Response, error){
		toolCall("call_1", "get_time", `{}`),
		answer("It is half past ten."),
	}}
	eng, conversation := newEngine(t, provider, registry)

	got := eng.Dispatch(context.Background(), "what time is it")
	if got != "It is half past ten." {
		t.Errorf("Dispatch = %q", got)
	}
	if len(provider.requests) != 2 {
		t.Fatalf("chat calls = %d, want 2", len(provider.requests))
	}

	// The second request must carry the assistant's tool request and the
	// linked tool result.
	followUp := provider.requests[1]
	last, secondLast := followUp[len(followUp)-1], followUp[len(followUp)-2]
	if secondLast.Role != llm.RoleAssistant || len(secondLast.ToolCalls) != 1 {
		t.Errorf("expected the assistant tool turn, got %+v", secondLast)
	}
	if last.Role != llm.RoleTool || last.ToolCallID != "call_1" || last.Content != "10:30 AM" {
		t.Errorf("expected the linked tool result, got %+v", last)
	}

	// Tool turns stay out of the rolling history.
	for _, m := range conversation.Messages() {
		if m.Role == llm.RoleTool || len(m.ToolCalls) > 0 {
			t.Errorf("tool turn leaked into history: %+v", m)
		}
	}
}

func TestDispatch_MalformedToolArguments(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	registry := skills.NewRegistry(logger)
	var received map[string]any
	registry.Register(skills.Skill{
		Name: "get_time",
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			received = args
			return "noon", nil
		},
	})

	provider := &scriptedProvider{script: []func([]llm.Message) (*llm.Response, error){
		toolCall("call_1", "get_time", `{not json`),
		answer("Noon."),
	}}
	eng, _ := newEngine(t, provider, registry)

	if got := eng.Dispatch(context.Background(), "time?"); got != "Noon." {
		t.Errorf("Dispatch = %q", got)
	}
	if received == nil || len(received) != 0 {
		t.Errorf("malformed arguments must degrade to an empty set, got %v", received)
	}
}

func TestDispatch_FirstCallFailure(t *testing.T) {
	provider := &scriptedProvider{script: []func([]llm.Message) (*llm.Response, error){
		failure(),
	}}
	eng, _ := newEngine(t, provider, nil)

	if got := eng.Dispatch(context.Background(), "hello"); got != apologyRequest {
		t.Errorf("Dispatch = %q, want the request apology", got)
	}
}

func TestDispatch_FollowUpFailure(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	registry := skills.NewRegistry(logger)
	registry.Register(skills.Skill{
		Name: "get_time",
		Handler: func(_ context.Context, _ map[string]any) (string, error) {
			return "noon", nil
		},
	})

	provider := &scriptedProvider{script: []func([]llm.Message) (*llm.Response, error){
		toolCall("call_1", "get_time", `{}`),
		failure(),
	}}
	eng, _ := newEngine(t, provider, registry)

	if got := eng.Dispatch(context.Background(), "time?"); got != apologyToolResult {
		t.Errorf("Dispatch = %q, want the tool-result apology", got)
	}
}

func TestDispatch_ToolRoundLimit(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	registry := skills.NewRegistry(logger)
	registry.Register(skills.Skill{
		Name: "get_time",
		Handler: func(_ context.Context, _ map[string]any) (string, error) {
			return "noon", nil
		},
	})

	// The model never stops asking for tools.
	provider := &scriptedProvider{script: []func([]llm.Message) (*llm.Response, error){
		toolCall("call_n", "get_time", `{}`),
	}}
	eng, _ := newEngine(t, provider, registry)

	got := eng.Dispatch(context.Background(), "time?")
	if got != apologyToolLoop {
		t.Errorf("Dispatch = %q, want the loop apology", got)
	}
	// MaxToolRounds of 3 allows four chat calls before the engine stops.
	if len(provider.requests) != 4 {
		t.Errorf("chat calls = %d, want 4", len(provider.requests))
	}
}

func TestDispatch_UnknownSkillIsRelayedToModel(t *testing.T) {
	provider := &scriptedProvider{script: []func([]llm.Message) (*llm.Response, error){
		toolCall("call_1", "teleport", `{}`),
		answer("I cannot do that."),
	}}
	eng, _ := newEngine(t, provider, nil)

	if got := eng.Dispatch(context.Background(), "beam me up"); got != "I cannot do that." {
		t.Errorf("Dispatch = %q", got)
	}

	followUp := provider.requests[1]
	last := followUp[len(followUp)-1]
	if last.Content != "Unknown skill: 'teleport'" {
		t.Errorf("tool result = %q", last.Content)
	}
}
