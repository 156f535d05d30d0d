package system

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/sentineledge/hostreport/pkg/models"
)

// DefaultCPUSampleInterval is how long CPU utilisation is sampled for.
const DefaultCPUSampleInterval = time.Second

// PublicIPResolver looks up the address the host is seen from on the
// internet.
type PublicIPResolver interface {
	PublicIP(ctx context.Context) (string, error)
}

// Collector gathers a Snapshot. Every query is isolated: a failure is
// recorded on its own field and never stops the others.
type Collector struct {
	Log         logr.Logger
	Probe       Probe
	Devices     DeviceEnumerator
	Displays    DisplayEnumerator
	PublicIP    PublicIPResolver
	CPUInterval time.Duration
	Now         func() time.Time
}

func (c *Collector) Collect(ctx context.Context) *models.Snapshot {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	snap := &models.Snapshot{CollectedAt: now().UTC()}

	snap.CPU = record(c.Log, "cpu", models.From(c.cpu(ctx)))
	snap.Memory = record(c.Log, "memory", models.From(c.memory(ctx)))
	snap.GPUs = record(c.Log, "gpus", models.From(c.gpus(ctx)))
	snap.LocalIP = record(c.Log, "local ip", models.From(c.localIP(ctx)))
	snap.PublicIP = record(c.Log, "public ip", models.From(c.publicIP(ctx)))
	snap.Monitors = record(c.Log, "monitors", models.From(c.monitors(ctx)))
	snap.Identity = c.identity(ctx, now())
	snap.OS = record(c.Log, "os", models.From(c.os(ctx)))

	return snap
}

// record logs a failed query and hands the result back unchanged.
func record[T any](log logr.Logger, what string, r models.Result[T]) models.Result[T] {
	if !r.OK() {
		log.V(1).Info("query failed", "query", what, "reason", r.Err.Error())
	}
	return r
}

func (c *Collector) cpu(ctx context.Context) (models.CPUInfo, error) {
	if c.Probe == nil {
		return models.CPUInfo{}, models.ErrNotAvailable
	}

	logical, err := c.Probe.CPUCounts(ctx, true)
	if err != nil {
		return models.CPUInfo{}, fmt.Errorf("logical core count: %w", err)
	}

	interval := c.CPUInterval
	if interval <= 0 {
		interval = DefaultCPUSampleInterval
	}
	usage, err := c.Probe.CPUPercent(ctx, interval)
	if err != nil {
		return models.CPUInfo{}, fmt.Errorf("cpu utilisation: %w", err)
	}

	info := models.CPUInfo{
		LogicalCores: max(logical, 0),
		UsagePercent: clampPercent(usage),
	}

	// Physical core count and frequency are missing on some platforms and
	// inside many VMs; report them as unknown rather than failing the field.
	if physical, err := c.Probe.CPUCounts(ctx, false); err == nil {
		info.PhysicalCores = max(physical, 0)
	} else {
		c.Log.V(1).Info("physical core count unavailable", "reason", err.Error())
	}
	if mhz, err := c.Probe.CPUFrequency(ctx); err == nil && mhz > 0 {
		info.FrequencyMHz = mhz
	} else if err != nil {
		c.Log.V(1).Info("cpu frequency unavailable", "reason", err.Error())
	}

	return info, nil
}

func (c *Collector) memory(ctx context.Context) (models.MemoryInfo, error) {
	if c.Probe == nil {
		return models.MemoryInfo{}, models.ErrNotAvailable
	}
	vm, err := c.Probe.VirtualMemory(ctx)
	if err != nil {
		return models.MemoryInfo{}, err
	}
	if vm == nil {
		return models.MemoryInfo{}, models.ErrNotAvailable
	}
	return models.MemoryInfo{
		Total:       vm.Total,
		Available:   vm.Available,
		Used:        vm.Used,
		UsedPercent: clampPercent(vm.UsedPercent),
	}, nil
}

func (c *Collector) gpus(ctx context.Context) ([]string, error) {
	if c.Devices == nil {
		return nil, models.ErrNotAvailable
	}
	return c.Devices.GPUs(ctx)
}

func (c *Collector) monitors(ctx context.Context) ([]models.Monitor, error) {
	if c.Displays == nil {
		return nil, models.ErrNotAvailable
	}
	return c.Displays.Monitors(ctx)
}

func (c *Collector) localIP(ctx context.Context) (string, error) {
	if c.Probe == nil {
		return "", models.ErrNotAvailable
	}
	ifaces, err := c.Probe.Interfaces(ctx)
	if err != nil {
		return "", err
	}
	return firstIPv4(ifaces)
}

func (c *Collector) publicIP(ctx context.Context) (string, error) {
	if c.PublicIP == nil {
		return "", models.ErrNotAvailable
	}
	return c.PublicIP.PublicIP(ctx)
}

func (c *Collector) os(ctx context.Context) (models.OSInfo, error) {
	if c.Probe == nil {
		return models.OSInfo{}, models.ErrNotAvailable
	}
	info, err := c.Probe.HostInfo(ctx)
	if err != nil {
		return models.OSInfo{}, err
	}
	if info == nil {
		return models.OSInfo{}, models.ErrNotAvailable
	}
	return osInfoFrom(info), nil
}

func (c *Collector) identity(ctx context.Context, now time.Time) models.Identity {
	id := models.Identity{RunID: uuid.New()}
	if c.Probe == nil {
		id.HardwareID = models.Fail[uuid.UUID](models.ErrNotAvailable)
		id.Hostname = models.Fail[string](models.ErrNotAvailable)
		id.Uptime = models.Fail[time.Duration](models.ErrNotAvailable)
		return id
	}

	ifaces, err := c.Probe.Interfaces(ctx)
	if err != nil {
		id.HardwareID = models.Fail[uuid.UUID](err)
	} else {
		id.HardwareID = models.From(hardwareID(ifaces))
	}
	id.HardwareID = record(c.Log, "hardware id", id.HardwareID)

	id.Hostname = record(c.Log, "hostname", models.From(c.Probe.Hostname()))

	if boot, err := c.Probe.BootTime(ctx); err != nil {
		id.Uptime = models.Fail[time.Duration](err)
	} else {
		id.Uptime = models.Ok(max(now.Sub(boot), 0))
	}
	id.Uptime = record(c.Log, "uptime", id.Uptime)

	return id
}

func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
