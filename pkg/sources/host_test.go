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
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/telemeter/pkg/logger"
	"github.com/carverauto/telemeter/pkg/sensor"
)

var errCollector = errors.New("collector failed")

func stubProbe() *HostProbe {
	h := NewHostProbe(logger.NewTestLogger(), nil)

	h.usageCollector = func(context.Context, time.Duration, bool) ([]float64, error) {
		return []float64{42.5}, nil
	}
	h.loadCollector = func(context.Context) (*load.AvgStat, error) {
		return &load.AvgStat{Load1: 1.5, Load5: 1.0, Load15: 0.5}, nil
	}
	h.countCollector = func(context.Context, bool) (int, error) { return 2, nil }
	h.infoCollector = func(context.Context) ([]cpu.InfoStat, error) {
		return []cpu.InfoStat{{CPU: 0, Mhz: 1000}, {CPU: 1, Mhz: 2000}}, nil
	}
	h.readFrequency = func(core int) (float64, bool) {
		if core == 0 {
			return 1.2e9, true
		}

		return 0, false
	}
	h.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 8 << 30, Used: 2 << 30}, nil
	}
	h.swapMemory = func(context.Context) (*mem.SwapMemoryStat, error) {
		return &mem.SwapMemoryStat{}, nil
	}
	h.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{{Mountpoint: "/"}, {Mountpoint: "/boot"}}, nil
	}
	h.diskUsage = func(_ context.Context, path string) (*disk.UsageStat, error) {
		if path == "/boot" {
			return nil, errCollector
		}

		return &disk.UsageStat{Path: path, Total: 100 << 30, Used: 40 << 30}, nil
	}

	return h
}

func TestHostProbeProcessors(t *testing.T) {
	got, err := stubProbe().Processors(context.Background())
	require.NoError(t, err)
	require.Contains(t, got, "cpu")

	entry := got["cpu"]
	assert.InDelta(t, 42.5, entry.UsagePercent, 1e-9)
	assert.Equal(t, [3]float64{1.5, 1.0, 0.5}, entry.LoadAverage)
	// core 0 from sysfs, core 1 from cpuinfo
	assert.InDelta(t, 1.6e9, entry.ClockHz, 1)
}

func TestHostProbeProcessorsError(t *testing.T) {
	h := stubProbe()
	h.usageCollector = func(context.Context, time.Duration, bool) ([]float64, error) {
		return nil, errCollector
	}

	_, err := h.Processors(context.Background())
	require.ErrorIs(t, err, errCollector)
}

func TestHostProbeMemory(t *testing.T) {
	h := stubProbe()

	got, err := h.Memory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]sensor.MemoryEntry{"ram": {Capacity: 8 << 30, Used: 2 << 30}}, got)

	h.swapMemory = func(context.Context) (*mem.SwapMemoryStat, error) {
		return &mem.SwapMemoryStat{Total: 1 << 30, Used: 1 << 20}, nil
	}

	got, err = h.Memory(context.Background())
	require.NoError(t, err)
	assert.Contains(t, got, "swap")
}

func TestHostProbeStorage(t *testing.T) {
	got, err := stubProbe().Storage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]sensor.MemoryEntry{"/": {Capacity: 100 << 30, Used: 40 << 30}}, got)

	h := stubProbe()
	h.mounts = []string{"/boot"}

	_, err = h.Storage(context.Background())
	require.Error(t, err)
}

func TestHostProbeDrivesKeyedSensors(t *testing.T) {
	reg := sensor.Default(sensor.Deps{Logger: logger.NewTestLogger(), Host: stubProbe()})

	ram, err := reg.New(sensor.NameRAM)
	require.NoError(t, err)

	ctx := context.Background()
	ram.Start(ctx)
	require.True(t, ram.Active())

	snap, ok := ram.Data(ctx).(*sensor.Labeled[sensor.MemoryEntry])
	require.True(t, ok)

	entry, ok := snap.Get("ram")
	require.True(t, ok)
	assert.InDelta(t, 25.0, entry.Percent(), 1e-9)
}
