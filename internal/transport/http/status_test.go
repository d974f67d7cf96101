package httptransport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mars-assistant-go/internal/domain/events"
	"mars-assistant-go/internal/domain/skills"
	platformtesting "mars-assistant-go/internal/platform/testing"
)

func setupAPI(t *testing.T) (*events.Bus, http.Handler) {
	t.Helper()
	logger := platformtesting.SetupTestLogger(t)

	bus := events.New()
	tracker, err := NewTracker(bus)
	if err != nil {
		t.Fatalf("NewTracker() error: %v", err)
	}

	registry := skills.NewRegistry(logger)
	registry.Register(skills.Skill{Name: "get_current_time"})
	registry.Register(skills.Skill{Name: "get_weather"})

	router := Build(Options{Logger: logger})
	NewStatusService(tracker, registry).Register(router.API)

	return bus, router.Engine
}

func getJSON(t *testing.T, handler http.Handler, path string) map[string]any {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("GET %s -> %d", path, recorder.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding %s response: %v", path, err)
	}
	return body
}

func TestStatusEndpoint(t *testing.T) {
	bus, handler := setupAPI(t)

	bus.Publish(events.TopicState, "LISTENING_FOR_WAKE")
	bus.Publish(events.TopicWakeDetect)
	bus.Publish(events.TopicWakeDetect)
	bus.Publish(events.TopicVerified, false)
	bus.Publish(events.TopicReply, "what time is it", "It is noon.")

	body := getJSON(t, handler, "/api/status")
	if body["state"] != "LISTENING_FOR_WAKE" {
		t.Errorf("state = %v", body["state"])
	}
	if body["wake_count"].(float64) != 2 {
		t.Errorf("wake_count = %v", body["wake_count"])
	}
	if body["command_count"].(float64) != 1 {
		t.Errorf("command_count = %v", body["command_count"])
	}
	if body["reject_count"].(float64) != 1 {
		t.Errorf("reject_count = %v", body["reject_count"])
	}
}

func TestHistoryEndpoint(t *testing.T) {
	bus, handler := setupAPI(t)

	bus.Publish(events.TopicReply, "hello", "Hello, sir.")

	body := getJSON(t, handler, "/api/history")
	interactions := body["interactions"].([]any)
	if len(interactions) != 1 {
		t.Fatalf("len(interactions) = %d", len(interactions))
	}
	first := interactions[0].(map[string]any)
	if first["command"] != "hello" || first["reply"] != "Hello, sir." {
		t.Errorf("interaction = %v", first)
	}
}

func TestHistoryEndpoint_Bounded(t *testing.T) {
	bus, handler := setupAPI(t)

	for i := 0; i < historyLimit+10; i++ {
		bus.Publish(events.TopicReply, "cmd", "reply")
	}

	body := getJSON(t, handler, "/api/history")
	if got := len(body["interactions"].([]any)); got != historyLimit {
		t.Errorf("history length = %d, want %d", got, historyLimit)
	}
}

func TestSkillsEndpoint(t *testing.T) {
	_, handler := setupAPI(t)

	body := getJSON(t, handler, "/api/skills")
	names := body["skills"].([]any)
	if len(names) != 2 {
		t.Fatalf("len(skills) = %d", len(names))
	}
	if names[0] != "get_current_time" || names[1] != "get_weather" {
		t.Errorf("skills = %v", names)
	}
}
