package skills

import (
	"context"
	"errors"
	"strings"
	"testing"

	platformtesting "mars-assistant-go/internal/platform/testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(platformtesting.SetupTestLogger(t))
}

func TestRegistry_ExecuteKnownSkill(t *testing.T) {
	registry := newTestRegistry(t)
	registry.Register(Skill{
		Name:        "echo",
		Description: "repeats the input",
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			text, _ := args["text"].(string)
			return text, nil
		},
	})

	got := registry.Execute(context.Background(), "echo", map[string]any{"text": "hello"})
	if got != "hello" {
		t.Errorf("Execute = %q, want %q", got, "hello")
	}
}

func TestRegistry_UnknownSkill(t *testing.T) {
	registry := newTestRegistry(t)
	got := registry.Execute(context.Background(), "teleport", nil)
	if got != "Unknown skill: 'teleport'" {
		t.Errorf("Execute = %q", got)
	}
}

func TestRegistry_HandlerErrorBecomesApology(t *testing.T) {
	// Internal error detail never reaches the model, only a fixed apology
	// naming the skill.
	registry := newTestRegistry(t)
	registry.Register(Skill{
		Name: "flaky",
		Handler: func(_ context.Context, _ map[string]any) (string, error) {
			return "", errors.New("pq: password authentication failed for user admin")
		},
	})

	got := registry.Execute(context.Background(), "flaky", nil)
	if got != "I encountered an error while executing 'flaky', sir." {
		t.Errorf("Execute = %q", got)
	}
	if strings.Contains(got, "password") {
		t.Errorf("raw error text leaked into %q", got)
	}
}

func TestRegistry_HandlerPanicIsContained(t *testing.T) {
	registry := newTestRegistry(t)
	registry.Register(Skill{
		Name: "explosive",
		Handler: func(_ context.Context, _ map[string]any) (string, error) {
			panic("boom")
		},
	})

	got := registry.Execute(context.Background(), "explosive", nil)
	if !strings.Contains(got, "explosive") {
		t.Errorf("panic must degrade to a relayable message, got %q", got)
	}
}

func TestRegistry_RegisterReportsReplacement(t *testing.T) {
	registry := newTestRegistry(t)
	noop := func(_ context.Context, _ map[string]any) (string, error) { return "", nil }

	if replaced := registry.Register(Skill{Name: "clock", Handler: noop}); replaced {
		t.Error("first registration must not report a replacement")
	}
	if replaced := registry.Register(Skill{Name: "clock", Handler: noop}); !replaced {
		t.Error("second registration of the same name must report a replacement")
	}
}

func TestRegistry_SchemasSortedWithDefaultParameters(t *testing.T) {
	registry := newTestRegistry(t)
	noop := func(_ context.Context, _ map[string]any) (string, error) { return "", nil }
	registry.Register(Skill{Name: "weather", Handler: noop})
	registry.Register(Skill{Name: "clock", Handler: noop})

	schemas := registry.Schemas()
	if len(schemas) != 2 {
		t.Fatalf("len(Schemas) = %d, want 2", len(schemas))
	}
	if schemas[0].Function.Name != "clock" || schemas[1].Function.Name != "weather" {
		t.Errorf("schemas not in name order: %s, %s",
			schemas[0].Function.Name, schemas[1].Function.Name)
	}
	if schemas[0].Type != "function" {
		t.Errorf("Type = %q, want function", schemas[0].Type)
	}
	if schemas[0].Function.Parameters["type"] != "object" {
		t.Error("skills without a schema must get an empty object schema")
	}
}
