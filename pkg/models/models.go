package models

import (
	"time"

	"github.com/google/uuid"
)

type CPUInfo struct {
	PhysicalCores int     `json:"physical_cores"`
	LogicalCores  int     `json:"logical_cores"`
	FrequencyMHz  float64 `json:"frequency_mhz"` // 0 when the platform does not expose it
	UsagePercent  float64 `json:"usage_percent"`
}

type MemoryInfo struct {
	Total       uint64  `json:"total"`
	Available   uint64  `json:"available"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"used_percent"`
}

// Monitor is an attached display. Width and Height are 0 when the
// enumerator could not read the resolution.
type Monitor struct {
	Caption string `json:"caption"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type OSInfo struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Platform     string `json:"platform"`
	Architecture string `json:"architecture"`
	Build        string `json:"build"`
}

type Identity struct {
	HardwareID Result[uuid.UUID]
	RunID      uuid.UUID
	Hostname   Result[string]
	Uptime     Result[time.Duration]
}

// Snapshot is everything gathered about the host in one run.
type Snapshot struct {
	CPU         Result[CPUInfo]
	Memory      Result[MemoryInfo]
	GPUs        Result[[]string]
	LocalIP     Result[string]
	PublicIP    Result[string]
	Monitors    Result[[]Monitor]
	Identity    Identity
	OS          Result[OSInfo]
	CollectedAt time.Time
}
