package builtin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"mars-assistant-go/internal/domain/skills"
)

// SystemStatus reports CPU, memory, and disk usage of the host.
func SystemStatus() skills.Skill {
	return skills.Skill{
		Name:        "get_system_status",
		Description: "Get CPU load, memory usage, disk usage, and uptime of the machine the assistant runs on.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: systemStatusHandler,
	}
}

func systemStatusHandler(ctx context.Context, _ map[string]any) (string, error) {
	var parts []string

	if percents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(percents) > 0 {
		parts = append(parts, fmt.Sprintf("CPU load is %.0f%%", percents[0]))
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		parts = append(parts, fmt.Sprintf("memory usage is %.0f%% of %.1f GB",
			vm.UsedPercent, float64(vm.Total)/(1<<30)))
	}

	if usage, err := disk.UsageWithContext(ctx, "/"); err == nil {
		parts = append(parts, fmt.Sprintf("the root disk is %.0f%% full", usage.UsedPercent))
	}

	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		parts = append(parts, fmt.Sprintf("uptime is %s",
			(time.Duration(uptime)*time.Second).Round(time.Minute)))
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no system metrics available")
	}

	return strings.Join(parts, ", ") + ".", nil
}
