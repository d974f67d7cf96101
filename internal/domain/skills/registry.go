// Package skills holds the registry of callable abilities the model can
// invoke through tool calls.
package skills

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mars-assistant-go/internal/domain/llm"
	"mars-assistant-go/internal/platform/logging"
)

// Handler runs one skill invocation. Arguments arrive as the decoded
// JSON object from the model; missing keys are the handler's problem to
// default. The returned string goes back to the model verbatim.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Skill is one registered ability.
type Skill struct {
	Name        string
	Description string
	// Parameters is a JSON-schema object describing the arguments.
	Parameters map[string]any
	Handler    Handler
}

// Registry maps skill names to handlers and renders their schemas for
// the chat backend.
type Registry struct {
	mu     sync.RWMutex
	skills map[string]Skill
	logger *logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *logging.Logger) *Registry {
	return &Registry{skills: make(map[string]Skill), logger: logger}
}

// Register adds a skill, replacing any existing one with the same name.
// It reports whether a replacement happened so callers can treat silent
// shadowing as the bug it usually is.
func (r *Registry) Register(skill Skill) (replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced = r.skills[skill.Name]
	if replaced {
		r.logger.WarnTag("SKILL", "skill %q registered twice, replacing previous handler", skill.Name)
	}
	r.skills[skill.Name] = skill
	return replaced
}

// Names returns the registered skill names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.skills))
	for name := range r.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schemas renders every skill as a tool definition, in name order.
func (r *Registry) Schemas() []llm.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.skills))
	for name := range r.skills {
		names = append(names, name)
	}
	sort.Strings(names)

	tools := make([]llm.Tool, 0, len(names))
	for _, name := range names {
		skill := r.skills[name]
		parameters := skill.Parameters
		if parameters == nil {
			parameters = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		tools = append(tools, llm.Tool{
			Type: "function",
			Function: llm.Function{
				Name:        skill.Name,
				Description: skill.Description,
				Parameters:  parameters,
			},
		})
	}
	return tools
}

// Execute runs a skill and always comes back with a string: unknown
// names, handler errors, and handler panics all degrade to a message the
// model can relay, never a crash of the session loop.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (result string) {
	r.mu.RLock()
	skill, ok := r.skills[name]
	r.mu.RUnlock()

	if !ok {
		r.logger.WarnTag("SKILL", "model requested unregistered skill %q", name)
		return fmt.Sprintf("Unknown skill: '%s'", name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorTag("SKILL", "skill %q panicked: %v", name, rec)
			result = fmt.Sprintf("The %s skill failed unexpectedly.", name)
		}
	}()

	if args == nil {
		args = map[string]any{}
	}

	out, err := skill.Handler(ctx, args)
	if err != nil {
		// The raw error stays in the log; the model only sees an apology.
		r.logger.WarnTag("SKILL", "skill %q failed: %v", name, err)
		return fmt.Sprintf("I encountered an error while executing '%s', sir.", name)
	}

	r.logger.DebugTag("SKILL", "skill %q completed", name)
	return out
}
