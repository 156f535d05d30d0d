package system

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sentineledge/hostreport/internal/executor"
	"github.com/sentineledge/hostreport/pkg/models"
)

// ── Windows ──────────────────────────────────────────────────────────────

// WMIC enumerates adapters and monitors through the wmic utility.
type WMIC struct {
	run executor.Runner
}

func (w *WMIC) GPUs(ctx context.Context) ([]string, error) {
	out, err := w.run(ctx, "wmic", "path", "win32_videocontroller", "get", "name")
	if err != nil {
		return nil, fmt.Errorf("wmic win32_videocontroller: %w", err)
	}
	return parseWMICNames(out), nil
}

func (w *WMIC) Monitors(ctx context.Context) ([]models.Monitor, error) {
	out, err := w.run(ctx, "wmic", "desktopmonitor", "get", "caption,screenheight,screenwidth")
	if err != nil {
		return nil, fmt.Errorf("wmic desktopmonitor: %w", err)
	}
	return parseWMICMonitors(out), nil
}

// parseWMICNames returns one name per non-empty line after the header.
func parseWMICNames(out string) []string {
	var names []string
	for i, line := range nonEmptyLines(out) {
		if i == 0 && strings.EqualFold(line, "Name") {
			continue
		}
		names = append(names, line)
	}
	return names
}

// parseWMICMonitors parses a Caption/ScreenHeight/ScreenWidth table. The
// caption may contain spaces, so the two dimensions are read from the end of
// each row in the order the header lists them.
func parseWMICMonitors(out string) []models.Monitor {
	lines := nonEmptyLines(out)
	if len(lines) == 0 {
		return nil
	}

	// wmic sorts columns alphabetically, so height precedes width unless the
	// header says otherwise.
	heightFirst := true
	header := strings.Fields(strings.ToLower(lines[0]))
	h, w := indexOf(header, "screenheight"), indexOf(header, "screenwidth")
	if h >= 0 && w >= 0 {
		heightFirst = h < w
	} else {
		// no header row
		lines = append([]string{""}, lines...)
	}

	var monitors []models.Monitor
	for _, line := range lines[1:] {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		if len(parts) >= 3 {
			a, errA := strconv.Atoi(parts[len(parts)-2])
			b, errB := strconv.Atoi(parts[len(parts)-1])
			if errA == nil && errB == nil {
				m := models.Monitor{Caption: strings.Join(parts[:len(parts)-2], " ")}
				if heightFirst {
					m.Height, m.Width = a, b
				} else {
					m.Width, m.Height = a, b
				}
				monitors = append(monitors, m)
				continue
			}
		}
		// wmic leaves the dimensions blank for monitors it cannot query
		monitors = append(monitors, models.Monitor{Caption: strings.Join(parts, " ")})
	}
	return monitors
}

// ── Helpers ──────────────────────────────────────────────────────────────

func nonEmptyLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func indexOf(items []string, want string) int {
	for i, item := range items {
		if item == want {
			return i
		}
	}
	return -1
}

// parseResolution reads "1920x1080", "1920x1080+0+0" or "1920 x 1080".
func parseResolution(s string) (width, height int, ok bool) {
	s = strings.ReplaceAll(s, " ", "")
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	ws, hs, found := strings.Cut(s, "x")
	if !found {
		return 0, 0, false
	}
	width, errW := strconv.Atoi(ws)
	height, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil || width < 0 || height < 0 {
		return 0, 0, false
	}
	return width, height, true
}
