package collector

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"metrics-dashboard/internal/util"
)

// Collector is the contract any system-metric source must satisfy.
type Collector interface {
	Collect(ctx context.Context) Snapshot
}

type CPUStats struct {
	Percent float64 `json:"percent"`
	Count   int     `json:"count"`
}

type MemoryStats struct {
	Percent     float64 `json:"percent"`
	TotalGB     float64 `json:"total_gb"`
	AvailableGB float64 `json:"available_gb"`
	UsedGB      float64 `json:"used_gb"`
}

type DiskStats struct {
	Percent float64 `json:"percent"`
	TotalGB float64 `json:"total_gb"`
	FreeGB  float64 `json:"free_gb"`
}

type PlatformStats struct {
	System    string `json:"system"`
	Release   string `json:"release"`
	GoVersion string `json:"go_version"`
}

// Snapshot is one observation of host-level metrics. When collection fails
// the numeric fields are zeroed and Error carries the cause, so callers get
// a degraded snapshot rather than a failed request.
type Snapshot struct {
	CPU      CPUStats      `json:"cpu"`
	Memory   MemoryStats   `json:"memory"`
	Disk     DiskStats     `json:"disk"`
	Platform PlatformStats `json:"platform,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// SystemCollector reads CPU, memory and disk usage of the local host.
type SystemCollector struct {
	logger *util.MetricsLogger
	// diskPath is the mount point sampled for disk usage.
	diskPath string
}

func NewSystemCollector(logger *util.MetricsLogger) *SystemCollector {
	return &SystemCollector{logger: logger, diskPath: "/"}
}

// Collect gathers one snapshot. A sampling interval of 100ms matches what
// operators expect from a quick spot check without stalling the request.
func (c *SystemCollector) Collect(ctx context.Context) Snapshot {
	percents, err := cpu.PercentWithContext(ctx, 100*time.Millisecond, false)
	if err != nil || len(percents) == 0 {
		return c.degraded(err)
	}
	count, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return c.degraded(err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return c.degraded(err)
	}
	du, err := disk.UsageWithContext(ctx, c.diskPath)
	if err != nil {
		return c.degraded(err)
	}

	snap := Snapshot{
		CPU: CPUStats{Percent: percents[0], Count: count},
		Memory: MemoryStats{
			Percent:     vm.UsedPercent,
			TotalGB:     roundGB(vm.Total),
			AvailableGB: roundGB(vm.Available),
			UsedGB:      roundGB(vm.Used),
		},
		Disk: DiskStats{
			Percent: du.UsedPercent,
			TotalGB: roundGB(du.Total),
			FreeGB:  roundGB(du.Free),
		},
		Platform: PlatformStats{
			System:    runtime.GOOS,
			GoVersion: runtime.Version(),
		},
	}
	if info, err := host.InfoWithContext(ctx); err == nil {
		snap.Platform.System = info.OS
		snap.Platform.Release = info.KernelVersion
	}
	return snap
}

func (c *SystemCollector) degraded(err error) Snapshot {
	msg := "no cpu samples"
	if err != nil {
		msg = err.Error()
	}
	c.logger.LogEvent(util.LOG_LEVEL_ERROR, "Error collecting system metrics:", msg)
	return Snapshot{Error: msg}
}

func roundGB(bytes uint64) float64 {
	return math.Round(float64(bytes)/(1<<30)*100) / 100
}
