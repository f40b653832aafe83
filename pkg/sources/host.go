/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sources

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/carverauto/telemeter/pkg/logger"
	"github.com/carverauto/telemeter/pkg/sensor"
)

const (
	sysfsCPUPath        = "/sys/devices/system/cpu"
	defaultSampleWindow = 200 * time.Millisecond

	labelCPU  = "cpu"
	labelRAM  = "ram"
	labelSwap = "swap"
)

// HostProbe reads processor, memory, and storage usage through gopsutil.
type HostProbe struct {
	log    logger.Logger
	mounts []string
	window time.Duration

	usageCollector func(context.Context, time.Duration, bool) ([]float64, error)
	loadCollector  func(context.Context) (*load.AvgStat, error)
	infoCollector  func(context.Context) ([]cpu.InfoStat, error)
	countCollector func(context.Context, bool) (int, error)
	readFrequency  func(core int) (float64, bool)
	virtualMemory  func(context.Context) (*mem.VirtualMemoryStat, error)
	swapMemory     func(context.Context) (*mem.SwapMemoryStat, error)
	partitions     func(context.Context, bool) ([]disk.PartitionStat, error)
	diskUsage      func(context.Context, string) (*disk.UsageStat, error)
}

var _ sensor.HostProbe = (*HostProbe)(nil)

// NewHostProbe returns a probe reporting the given mount points as nvm
// entries, or every physical partition when mounts is empty.
func NewHostProbe(log logger.Logger, mounts []string) *HostProbe {
	return &HostProbe{
		log:            logger.Component(log, "host-probe"),
		mounts:         mounts,
		window:         defaultSampleWindow,
		usageCollector: cpu.PercentWithContext,
		loadCollector:  load.AvgWithContext,
		infoCollector:  cpu.InfoWithContext,
		countCollector: cpu.CountsWithContext,
		readFrequency:  readSysfsFrequency,
		virtualMemory:  mem.VirtualMemoryWithContext,
		swapMemory:     mem.SwapMemoryWithContext,
		partitions:     disk.PartitionsWithContext,
		diskUsage:      disk.UsageWithContext,
	}
}

// Processors reports a single aggregate entry under the cpu label.
func (h *HostProbe) Processors(ctx context.Context) (map[string]sensor.ProcessorEntry, error) {
	percent, err := h.usageCollector(ctx, h.window, false)
	if err != nil {
		return nil, fmt.Errorf("failed to collect cpu usage: %w", err)
	}

	entry := sensor.ProcessorEntry{}
	if len(percent) > 0 {
		entry.UsagePercent = percent[0]
	}

	if avg, err := h.loadCollector(ctx); err != nil {
		h.log.Debug().Err(err).Msg("Load average unavailable")
	} else {
		entry.LoadAverage = [3]float64{avg.Load1, avg.Load5, avg.Load15}
	}

	entry.ClockHz = h.clockHz(ctx)

	return map[string]sensor.ProcessorEntry{labelCPU: entry}, nil
}

// clockHz averages the current frequency of every logical core, using
// cpufreq sysfs where present and /proc/cpuinfo otherwise.
func (h *HostProbe) clockHz(ctx context.Context) float64 {
	count, err := h.countCollector(ctx, true)
	if err != nil || count <= 0 {
		return 0
	}

	fallback := make(map[int]float64)

	if stats, err := h.infoCollector(ctx); err == nil {
		for _, st := range stats {
			if st.Mhz > 0 {
				fallback[int(st.CPU)] = st.Mhz * 1_000_000
			}
		}
	}

	total := 0.0
	seen := 0

	for core := 0; core < count; core++ {
		hz, ok := h.readFrequency(core)
		if !ok {
			hz, ok = fallback[core]
		}

		if ok && hz > 0 {
			total += hz
			seen++
		}
	}

	if seen == 0 {
		return 0
	}

	return total / float64(seen)
}

func readSysfsFrequency(core int) (float64, bool) {
	path := filepath.Join(sysfsCPUPath, fmt.Sprintf("cpu%d/cpufreq/scaling_cur_freq", core))

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return 0, false
	}

	// scaling_cur_freq is reported in kHz.
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}

	return val * 1_000, true
}

// Memory reports physical memory under ram and, when configured, swap.
func (h *HostProbe) Memory(ctx context.Context) (map[string]sensor.MemoryEntry, error) {
	vm, err := h.virtualMemory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect memory: %w", err)
	}

	out := map[string]sensor.MemoryEntry{
		labelRAM: {Capacity: toInt64(vm.Total), Used: toInt64(vm.Used)},
	}

	if sw, err := h.swapMemory(ctx); err != nil {
		h.log.Debug().Err(err).Msg("Swap statistics unavailable")
	} else if sw.Total > 0 {
		out[labelSwap] = sensor.MemoryEntry{Capacity: toInt64(sw.Total), Used: toInt64(sw.Used)}
	}

	return out, nil
}

// Storage reports usage per mount point, labeled by the mount path.
func (h *HostProbe) Storage(ctx context.Context) (map[string]sensor.MemoryEntry, error) {
	mounts := h.mounts

	if len(mounts) == 0 {
		parts, err := h.partitions(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("failed to list partitions: %w", err)
		}

		for _, p := range parts {
			mounts = append(mounts, p.Mountpoint)
		}
	}

	out := make(map[string]sensor.MemoryEntry, len(mounts))

	for _, m := range mounts {
		usage, err := h.diskUsage(ctx, m)
		if err != nil {
			h.log.Warn().Err(err).Str("mount", m).Msg("Disk usage unavailable")
			continue
		}

		out[m] = sensor.MemoryEntry{Capacity: toInt64(usage.Total), Used: toInt64(usage.Used)}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no disk usage for %d mount points", len(mounts))
	}

	return out, nil
}

func toInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(v)
}
