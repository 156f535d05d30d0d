// Package report renders a Snapshot as a webhook embed message.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sentineledge/hostreport/internal/system"
	"github.com/sentineledge/hostreport/pkg/models"
)

// Discord embed limits.
const (
	MaxTitleLen      = 256
	MaxFieldNameLen  = 256
	MaxFieldValueLen = 1024

	DefaultTitle = "Surface Information"

	embedColor = 0x5865F2
	gib        = 1 << 30
	notAvail   = "N/A"
)

type Options struct {
	Title    string
	Username string
}

// Format builds the message for snap. It accepts any snapshot, including
// the zero value, and always yields non-empty field values.
func Format(snap *models.Snapshot, opts Options) models.WebhookMessage {
	if snap == nil {
		snap = &models.Snapshot{}
	}
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	embed := models.Embed{
		Title: truncate(title, MaxTitleLen),
		Color: embedColor,
		Fields: []models.EmbedField{
			field("CPU", formatCPU(snap.CPU)),
			field("RAM", formatMemory(snap.Memory)),
			field("GPUs", formatGPUs(snap.GPUs)),
			field("Monitors", formatMonitors(snap.Monitors)),
			field("General Computer Information (GCI)", formatIdentity(snap)),
			field("OS Info", formatOS(snap.OS)),
		},
	}
	if !snap.CollectedAt.IsZero() {
		embed.Timestamp = snap.CollectedAt.UTC().Format(time.RFC3339)
	}
	if snap.Identity.RunID != uuid.Nil {
		embed.Footer = &models.EmbedFooter{Text: "run " + snap.Identity.RunID.String()}
	}

	return models.WebhookMessage{
		Username: opts.Username,
		Embeds:   []models.Embed{embed},
	}
}

func field(name, value string) models.EmbedField {
	if strings.TrimSpace(value) == "" {
		value = notAvail
	}
	return models.EmbedField{
		Name:  truncate(name, MaxFieldNameLen),
		Value: truncate(value, MaxFieldValueLen),
	}
}

// describe renders a failed query.
func describe(what string, err error) string {
	if err == nil || errors.Is(err, models.ErrNotAvailable) {
		return notAvail
	}
	return fmt.Sprintf("Error retrieving %s: %v", what, err)
}

func formatCPU(r models.Result[models.CPUInfo]) string {
	cpu, err := r.Get()
	if err != nil {
		return describe("CPU info", err)
	}
	return fmt.Sprintf("Physical cores: %s\nTotal cores: %d\nFrequency: %s\nUsage: %.1f%%",
		orUnknown(cpu.PhysicalCores), cpu.LogicalCores, formatMHz(cpu.FrequencyMHz), cpu.UsagePercent)
}

func formatMemory(r models.Result[models.MemoryInfo]) string {
	m, err := r.Get()
	if err != nil {
		return describe("RAM info", err)
	}
	return fmt.Sprintf("Total: %d GB\nAvailable: %d GB\nUsed: %d GB\nPercentage: %.1f%%",
		m.Total/gib, m.Available/gib, m.Used/gib, m.UsedPercent)
}

func formatGPUs(r models.Result[[]string]) string {
	gpus, err := r.Get()
	if err != nil {
		return "GPU: " + describe("GPU info", err)
	}
	lines := make([]string, 0, len(gpus))
	for _, gpu := range gpus {
		lines = append(lines, "GPU: "+gpu)
	}
	return strings.Join(lines, "\n")
}

func formatMonitors(r models.Result[[]models.Monitor]) string {
	monitors, err := r.Get()
	if err != nil {
		return describe("monitor info", err)
	}
	blocks := make([]string, 0, len(monitors))
	for _, m := range monitors {
		res := "unknown"
		if m.Width > 0 && m.Height > 0 {
			res = fmt.Sprintf("%dx%d", m.Width, m.Height)
		}
		blocks = append(blocks, fmt.Sprintf("Caption: %s\nResolution: %s", orNA(m.Caption), res))
	}
	return strings.Join(blocks, "\n\n")
}

func formatIdentity(snap *models.Snapshot) string {
	id := snap.Identity

	hwid := describe("hardware ID", id.HardwareID.Err)
	if id.HardwareID.OK() {
		hwid = id.HardwareID.Value.String()
	}
	runID := notAvail
	if id.RunID != uuid.Nil {
		runID = id.RunID.String()
	}
	uptime := describe("uptime", id.Uptime.Err)
	if id.Uptime.OK() {
		uptime = system.FormatUptime(id.Uptime.Value)
	}

	return strings.Join([]string{
		"HWID: " + hwid,
		"UUID: " + runID,
		"Desktop Name: " + stringOr(id.Hostname, "hostname"),
		"Local IP Address: " + stringOr(snap.LocalIP, "local IP address"),
		"Public IP Address: " + stringOr(snap.PublicIP, "public IP address"),
		"System Uptime: " + uptime,
	}, "\n")
}

func formatOS(r models.Result[models.OSInfo]) string {
	os, err := r.Get()
	if err != nil {
		return describe("OS info", err)
	}
	lines := []string{
		"Name: " + orNA(os.Name),
		"Version: " + orNA(os.Version),
	}
	if os.Platform != "" {
		lines = append(lines, "Platform: "+os.Platform)
	}
	lines = append(lines,
		"Architecture: "+orNA(os.Architecture),
		"Build: "+orNA(os.Build),
	)
	return strings.Join(lines, "\n")
}

func stringOr(r models.Result[string], what string) string {
	if !r.OK() {
		return describe(what, r.Err)
	}
	return orNA(r.Value)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvail
	}
	return s
}

func orUnknown(n int) string {
	if n <= 0 {
		return "unknown"
	}
	return fmt.Sprint(n)
}

func formatMHz(mhz float64) string {
	if mhz <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%.2f MHz", mhz)
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
