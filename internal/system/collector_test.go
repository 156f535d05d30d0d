package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	psnet "github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentineledge/hostreport/pkg/models"
)

var (
	bootTime = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	nowTime  = bootTime.Add(49*time.Hour + 5*time.Minute)
)

type fakeProbe struct {
	err        error
	physical   int
	logical    int
	mhz        float64
	percent    float64
	memory     *mem.VirtualMemoryStat
	interfaces psnet.InterfaceStatList
	info       *host.InfoStat
	hostname   string
}

func (p *fakeProbe) CPUCounts(_ context.Context, logical bool) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	if logical {
		return p.logical, nil
	}
	return p.physical, nil
}

func (p *fakeProbe) CPUFrequency(context.Context) (float64, error) {
	return p.mhz, p.err
}

func (p *fakeProbe) CPUPercent(context.Context, time.Duration) (float64, error) {
	return p.percent, p.err
}

func (p *fakeProbe) VirtualMemory(context.Context) (*mem.VirtualMemoryStat, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.memory, nil
}

func (p *fakeProbe) Interfaces(context.Context) (psnet.InterfaceStatList, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.interfaces, nil
}

func (p *fakeProbe) BootTime(context.Context) (time.Time, error) {
	if p.err != nil {
		return time.Time{}, p.err
	}
	return bootTime, nil
}

func (p *fakeProbe) HostInfo(context.Context) (*host.InfoStat, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.info, nil
}

func (p *fakeProbe) Hostname() (string, error) {
	return p.hostname, p.err
}

type fakeResolver struct {
	ip  string
	err error
}

func (r fakeResolver) PublicIP(context.Context) (string, error) {
	return r.ip, r.err
}

type fakeEnumerator struct {
	gpus     []string
	monitors []models.Monitor
	err      error
}

func (e fakeEnumerator) GPUs(context.Context) ([]string, error) {
	return e.gpus, e.err
}

func (e fakeEnumerator) Monitors(context.Context) ([]models.Monitor, error) {
	return e.monitors, e.err
}

func healthyProbe() *fakeProbe {
	return &fakeProbe{
		physical: 4,
		logical:  8,
		mhz:      2400,
		percent:  12.5,
		memory: &mem.VirtualMemoryStat{
			Total:       16 << 30,
			Available:   6 << 30,
			Used:        10 << 30,
			UsedPercent: 62.5,
		},
		interfaces: psnet.InterfaceStatList{
			{Name: "lo", Flags: []string{"up", "loopback"}, Addrs: psnet.InterfaceAddrList{{Addr: "127.0.0.1/8"}}},
			{Name: "eth0", HardwareAddr: "00:1a:2b:3c:4d:5e", Flags: []string{"up"},
				Addrs: psnet.InterfaceAddrList{{Addr: "fe80::1/64"}, {Addr: "192.168.1.20/24"}}},
		},
		info: &host.InfoStat{
			OS:              "linux",
			Platform:        "ubuntu",
			PlatformVersion: "24.04",
			KernelVersion:   "6.8.0-45-generic",
			KernelArch:      "x86_64",
		},
		hostname: "build-01",
	}
}

func newCollector(t *testing.T, probe Probe, enum fakeEnumerator, resolver PublicIPResolver) *Collector {
	return &Collector{
		Log:         testr.New(t),
		Probe:       probe,
		Devices:     enum,
		Displays:    enum,
		PublicIP:    resolver,
		CPUInterval: time.Millisecond,
		Now:         func() time.Time { return nowTime },
	}
}

func TestCollect(t *testing.T) {
	enum := fakeEnumerator{
		gpus:     []string{"NVIDIA GeForce RTX 3070"},
		monitors: []models.Monitor{{Caption: "HDMI-1", Width: 1920, Height: 1080}},
	}
	c := newCollector(t, healthyProbe(), enum, fakeResolver{ip: "203.0.113.7"})

	snap := c.Collect(context.Background())
	require.NotNil(t, snap)
	assert.Equal(t, nowTime, snap.CollectedAt)

	cpu, err := snap.CPU.Get()
	require.NoError(t, err)
	assert.Equal(t, models.CPUInfo{PhysicalCores: 4, LogicalCores: 8, FrequencyMHz: 2400, UsagePercent: 12.5}, cpu)

	memory, err := snap.Memory.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(16<<30), memory.Total)
	assert.Equal(t, 62.5, memory.UsedPercent)

	assert.Equal(t, []string{"NVIDIA GeForce RTX 3070"}, snap.GPUs.Value)
	assert.Equal(t, enum.monitors, snap.Monitors.Value)
	assert.Equal(t, "192.168.1.20", snap.LocalIP.Value)
	assert.Equal(t, "203.0.113.7", snap.PublicIP.Value)

	assert.Equal(t, uuid.MustParse("00000000-0000-0000-0000-001a2b3c4d5e"), snap.Identity.HardwareID.Value)
	assert.NotEqual(t, uuid.Nil, snap.Identity.RunID)
	assert.Equal(t, "build-01", snap.Identity.Hostname.Value)
	assert.Equal(t, 49*time.Hour+5*time.Minute, snap.Identity.Uptime.Value)

	osInfo, err := snap.OS.Get()
	require.NoError(t, err)
	assert.Equal(t, "Linux", osInfo.Name)
	assert.Equal(t, "ubuntu 24.04", osInfo.Platform)
	assert.Equal(t, "x86_64", osInfo.Architecture)
}

func TestCollectIsolatesFailures(t *testing.T) {
	boom := errors.New("platform query failed")
	enum := fakeEnumerator{err: errors.New("wmic: not found")}
	c := newCollector(t, &fakeProbe{err: boom}, enum, fakeResolver{err: errors.New("dial tcp: timeout")})

	var snap *models.Snapshot
	require.NotPanics(t, func() { snap = c.Collect(context.Background()) })

	assert.ErrorIs(t, snap.CPU.Err, boom)
	assert.ErrorIs(t, snap.Memory.Err, boom)
	assert.ErrorIs(t, snap.LocalIP.Err, boom)
	assert.ErrorIs(t, snap.OS.Err, boom)
	assert.ErrorIs(t, snap.Identity.HardwareID.Err, boom)
	assert.ErrorIs(t, snap.Identity.Hostname.Err, boom)
	assert.ErrorIs(t, snap.Identity.Uptime.Err, boom)
	assert.EqualError(t, snap.GPUs.Err, "wmic: not found")
	assert.EqualError(t, snap.Monitors.Err, "wmic: not found")
	assert.EqualError(t, snap.PublicIP.Err, "dial tcp: timeout")
	assert.NotEqual(t, uuid.Nil, snap.Identity.RunID, "run id never depends on the host")
}

func TestCollectWithoutDependencies(t *testing.T) {
	c := &Collector{Log: logr.Discard()}
	snap := c.Collect(context.Background())

	for _, err := range []error{
		snap.CPU.Err, snap.Memory.Err, snap.GPUs.Err, snap.LocalIP.Err,
		snap.PublicIP.Err, snap.Monitors.Err, snap.OS.Err,
		snap.Identity.HardwareID.Err, snap.Identity.Hostname.Err, snap.Identity.Uptime.Err,
	} {
		assert.ErrorIs(t, err, models.ErrNotAvailable)
	}
}

func TestCollectClampsPercentages(t *testing.T) {
	probe := healthyProbe()
	probe.percent = 104.2
	probe.memory.UsedPercent = -3
	c := newCollector(t, probe, fakeEnumerator{}, fakeResolver{ip: "203.0.113.7"})

	snap := c.Collect(context.Background())
	assert.Equal(t, 100.0, snap.CPU.Value.UsagePercent)
	assert.Equal(t, 0.0, snap.Memory.Value.UsedPercent)
}

func TestCollectToleratesMissingCPUDetails(t *testing.T) {
	probe := &partialCPUProbe{fakeProbe: healthyProbe()}
	c := newCollector(t, probe, fakeEnumerator{}, nil)

	cpu, err := c.Collect(context.Background()).CPU.Get()
	require.NoError(t, err)
	assert.Equal(t, 8, cpu.LogicalCores)
	assert.Zero(t, cpu.PhysicalCores)
	assert.Zero(t, cpu.FrequencyMHz)
}

// partialCPUProbe mimics a VM that exposes neither physical cores nor
// frequency.
type partialCPUProbe struct {
	*fakeProbe
}

func (p *partialCPUProbe) CPUCounts(ctx context.Context, logical bool) (int, error) {
	if !logical {
		return 0, errors.New("not exposed")
	}
	return p.fakeProbe.CPUCounts(ctx, logical)
}

func (p *partialCPUProbe) CPUFrequency(context.Context) (float64, error) {
	return 0, errors.New("not exposed")
}

func TestHardwareIDStableRunIDFresh(t *testing.T) {
	c := newCollector(t, healthyProbe(), fakeEnumerator{}, nil)

	first := c.Collect(context.Background())
	second := c.Collect(context.Background())

	assert.Equal(t, first.Identity.HardwareID.Value, second.Identity.HardwareID.Value)
	assert.NotEqual(t, first.Identity.RunID, second.Identity.RunID)
}
