package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/sentineledge/hostreport/internal/executor"
	"github.com/sentineledge/hostreport/pkg/models"
)

// ── Linux ────────────────────────────────────────────────────────────────

var displayClasses = []string{
	"vga compatible controller",
	"3d controller",
	"display controller",
}

// LSPCI enumerates graphics adapters from the PCI device list.
type LSPCI struct {
	run executor.Runner
}

func (l *LSPCI) GPUs(ctx context.Context) ([]string, error) {
	out, err := l.run(ctx, "lspci")
	if err != nil {
		return nil, fmt.Errorf("lspci: %w", err)
	}
	return parseLSPCI(out), nil
}

// parseLSPCI picks display-class devices out of lines such as
// "00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620 (rev 07)".
func parseLSPCI(out string) []string {
	var gpus []string
	for _, line := range nonEmptyLines(out) {
		_, rest, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		class, name, ok := strings.Cut(rest, ": ")
		if !ok || indexOf(displayClasses, strings.ToLower(class)) < 0 {
			continue
		}
		if i := strings.LastIndex(name, " (rev "); i >= 0 {
			name = name[:i]
		}
		if name = strings.TrimSpace(name); name != "" {
			gpus = append(gpus, name)
		}
	}
	return gpus
}

// XRandR enumerates connected outputs of the running X server.
type XRandR struct {
	run executor.Runner
}

func (x *XRandR) Monitors(ctx context.Context) ([]models.Monitor, error) {
	out, err := x.run(ctx, "xrandr", "--query")
	if err != nil {
		return nil, fmt.Errorf("xrandr: %w", err)
	}
	return parseXRandR(out), nil
}

// parseXRandR reads lines such as
// "HDMI-1 connected primary 1920x1080+0+0 (normal left inverted) 527mm x 296mm".
// A connected output without an active mode is reported with zero dimensions.
func parseXRandR(out string) []models.Monitor {
	var monitors []models.Monitor
	for _, line := range nonEmptyLines(out) {
		parts := strings.Fields(line)
		if len(parts) < 2 || parts[1] != "connected" {
			continue
		}
		m := models.Monitor{Caption: parts[0]}
		for _, p := range parts[2:] {
			if !strings.Contains(p, "+") {
				continue
			}
			if w, h, ok := parseResolution(p); ok {
				m.Width, m.Height = w, h
				break
			}
		}
		monitors = append(monitors, m)
	}
	return monitors
}
