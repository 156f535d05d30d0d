package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/sentineledge/hostreport/internal/executor"
	"github.com/sentineledge/hostreport/pkg/models"
)

// ── macOS ────────────────────────────────────────────────────────────────

// SystemProfiler enumerates adapters and displays from system_profiler.
type SystemProfiler struct {
	run executor.Runner
}

func (s *SystemProfiler) query(ctx context.Context) (string, error) {
	out, err := s.run(ctx, "system_profiler", "SPDisplaysDataType")
	if err != nil {
		return "", fmt.Errorf("system_profiler: %w", err)
	}
	return out, nil
}

func (s *SystemProfiler) GPUs(ctx context.Context) ([]string, error) {
	out, err := s.query(ctx)
	if err != nil {
		return nil, err
	}
	var gpus []string
	for _, line := range nonEmptyLines(out) {
		if name, ok := strings.CutPrefix(line, "Chipset Model:"); ok {
			gpus = append(gpus, strings.TrimSpace(name))
		}
	}
	return gpus, nil
}

func (s *SystemProfiler) Monitors(ctx context.Context) ([]models.Monitor, error) {
	out, err := s.query(ctx)
	if err != nil {
		return nil, err
	}
	return parseSystemProfilerDisplays(out), nil
}

// parseSystemProfilerDisplays walks the indented "Displays:" sections. Each
// display is a "<name>:" line nested under one, followed by its properties.
func parseSystemProfilerDisplays(out string) []models.Monitor {
	var (
		monitors   []models.Monitor
		displaysAt = -1
		displayAt  = -1
		current    = -1
	)
	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		indent := len(raw) - len(strings.TrimLeft(raw, " \t"))

		if displaysAt >= 0 && indent <= displaysAt {
			displaysAt, displayAt, current = -1, -1, -1
		}
		if line == "Displays:" {
			displaysAt = indent
			continue
		}
		if displaysAt < 0 {
			continue
		}

		if strings.HasSuffix(line, ":") && !strings.Contains(line, ": ") &&
			(displayAt < 0 || indent <= displayAt) {
			displayAt = indent
			monitors = append(monitors, models.Monitor{Caption: strings.TrimSuffix(line, ":")})
			current = len(monitors) - 1
			continue
		}
		if current < 0 {
			continue
		}
		if res, ok := strings.CutPrefix(line, "Resolution:"); ok {
			fields := strings.Fields(res)
			if len(fields) >= 3 && fields[1] == "x" {
				if w, h, ok := parseResolution(fields[0] + "x" + fields[2]); ok {
					monitors[current].Width, monitors[current].Height = w, h
				}
			}
		}
	}
	return monitors
}
