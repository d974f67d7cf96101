// Package builtin provides the skills that ship with the assistant.
package builtin

import (
	"context"
	"fmt"
	"time"

	"mars-assistant-go/internal/domain/skills"
)

// Clock reports the current local time and date.
func Clock() skills.Skill {
	return skills.Skill{
		Name:        "get_current_time",
		Description: "Get the current local time and date.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: func(_ context.Context, _ map[string]any) (string, error) {
			now := time.Now()
			return fmt.Sprintf("It is %s on %s.",
				now.Format("3:04 PM"), now.Format("Monday, January 2, 2006")), nil
		},
	}
}
