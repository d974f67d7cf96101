package builtin

import (
	"mars-assistant-go/internal/domain/skills"
	"mars-assistant-go/internal/platform/config"
	"mars-assistant-go/internal/platform/logging"
)

// Register wires every shipped skill into the registry. The to-do store
// is optional: when the database cannot be opened the assistant still
// starts, just without list management.
func Register(registry *skills.Registry, cfg config.SkillsConfig, logger *logging.Logger) {
	registry.Register(Clock())
	registry.Register(SystemStatus())
	registry.Register(Weather(cfg.WeatherBaseURL, cfg.GeocodingBaseURL))

	store, err := NewTodoStore(cfg.TodoDSN)
	if err != nil {
		logger.WarnTag("SKILL", "todo skills disabled: %v", err)
		return
	}
	for _, skill := range TodoSkills(store) {
		registry.Register(skill)
	}
}
