// Package sysinfo reports the host the tool runs on.
package sysinfo

import (
	"context"
	"math/bits"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

type SystemInfo struct {
	OS           string  `json:"os"`
	Architecture string  `json:"architecture"`
	WordSize     int     `json:"word_size"`
	CPUModel     string  `json:"cpu_model"`
	CPUCores     int     `json:"cpu_cores"`
	CPUThreads   int     `json:"cpu_threads"`
	TotalMemory  uint64  `json:"total_memory"`
	GoVersion    string  `json:"go_version"`
	Hostname     string  `json:"hostname"`
	Platform     string  `json:"platform"`
	LoadAverage  float64 `json:"load_average"`
}

// Collect gathers what it can. Queries that fail leave their fields zero.
func Collect(ctx context.Context) (*SystemInfo, error) {
	info := &SystemInfo{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		WordSize:     bits.UintSize,
		GoVersion:    runtime.Version(),
		CPUCores:     runtime.NumCPU(),
	}

	// Get CPU info
	if cpuInfo, err := cpu.InfoWithContext(ctx); err == nil && len(cpuInfo) > 0 {
		info.CPUModel = strings.TrimSpace(cpuInfo[0].ModelName)
	}

	// Get logical CPU count (threads)
	if threads, err := cpu.CountsWithContext(ctx, true); err == nil {
		info.CPUThreads = threads
	}

	// Get memory info
	if memInfo, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.TotalMemory = memInfo.Total
	}

	// Get host info
	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		info.Hostname = hostInfo.Hostname
		info.Platform = hostInfo.Platform
	}

	// Get load average
	if loadAvg, err := load.AvgWithContext(ctx); err == nil {
		info.LoadAverage = loadAvg.Load1
	}

	return info, ctx.Err()
}
