package system

import (
	"context"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	psnet "github.com/shirou/gopsutil/v4/net"
)

// Probe is the set of host queries the collector depends on.
type Probe interface {
	CPUCounts(ctx context.Context, logical bool) (int, error)
	CPUFrequency(ctx context.Context) (float64, error)
	CPUPercent(ctx context.Context, interval time.Duration) (float64, error)
	VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	Interfaces(ctx context.Context) (psnet.InterfaceStatList, error)
	BootTime(ctx context.Context) (time.Time, error)
	HostInfo(ctx context.Context) (*host.InfoStat, error)
	Hostname() (string, error)
}

type gopsutilProbe struct{}

// NewProbe returns a Probe backed by gopsutil.
func NewProbe() Probe {
	return gopsutilProbe{}
}

func (gopsutilProbe) CPUCounts(ctx context.Context, logical bool) (int, error) {
	return cpu.CountsWithContext(ctx, logical)
}

func (gopsutilProbe) CPUFrequency(ctx context.Context) (float64, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return 0, err
	}
	if len(infos) == 0 {
		return 0, nil
	}
	return infos[0].Mhz, nil
}

func (gopsutilProbe) CPUPercent(ctx context.Context, interval time.Duration) (float64, error) {
	pcts, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, nil
	}
	return pcts[0], nil
}

func (gopsutilProbe) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

func (gopsutilProbe) Interfaces(ctx context.Context) (psnet.InterfaceStatList, error) {
	return psnet.InterfacesWithContext(ctx)
}

func (gopsutilProbe) BootTime(ctx context.Context) (time.Time, error) {
	secs, err := host.BootTimeWithContext(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(secs), 0), nil
}

func (gopsutilProbe) HostInfo(ctx context.Context) (*host.InfoStat, error) {
	return host.InfoWithContext(ctx)
}

func (gopsutilProbe) Hostname() (string, error) {
	return os.Hostname()
}
