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

package sensor

import (
	"context"
	"time"

	"github.com/carverauto/telemeter/pkg/wire"
)

// ProcessorEntry is the usage of one processor package.
type ProcessorEntry struct {
	UsagePercent float64    `json:"usage_percent"`
	LoadAverage  [3]float64 `json:"load_average"`
	ClockHz      float64    `json:"clock_hz"`
}

func (e ProcessorEntry) normalize() ProcessorEntry {
	out := ProcessorEntry{UsagePercent: narrow(e.UsagePercent, 2), ClockHz: e.ClockHz}
	for i, l := range e.LoadAverage {
		out.LoadAverage[i] = narrow(l, 2)
	}

	return out
}

func (e ProcessorEntry) encode(w *wire.Writer) {
	w.Float32(float32(e.UsagePercent))

	for _, l := range e.LoadAverage {
		w.Float32(float32(l))
	}

	w.Float64(e.ClockHz)
}

func (ProcessorEntry) decode(r *wire.Reader) ProcessorEntry {
	e := ProcessorEntry{UsagePercent: float64(r.Float32())}
	for i := range e.LoadAverage {
		e.LoadAverage[i] = float64(r.Float32())
	}

	e.ClockHz = r.Float64()

	return e.normalize()
}

func (e ProcessorEntry) values() map[string]any {
	return map[string]any{
		"usage_percent": e.UsagePercent,
		"load_average":  e.LoadAverage[:],
		"clock_hz":      e.ClockHz,
	}
}

// MemoryEntry is the capacity and usage in bytes of one memory or
// storage device.
type MemoryEntry struct {
	Capacity int64 `json:"capacity"`
	Used     int64 `json:"used"`
}

func (e MemoryEntry) Free() int64 { return e.Capacity - e.Used }

func (e MemoryEntry) Percent() float64 {
	if e.Capacity <= 0 {
		return 0
	}

	return float64(e.Used) / float64(e.Capacity) * 100
}

func (e MemoryEntry) normalize() MemoryEntry { return e }

func (e MemoryEntry) encode(w *wire.Writer) {
	w.Int64(e.Capacity)
	w.Int64(e.Used)
}

func (MemoryEntry) decode(r *wire.Reader) MemoryEntry {
	return MemoryEntry{Capacity: r.Int64(), Used: r.Int64()}
}

func (e MemoryEntry) values() map[string]any {
	return map[string]any{
		"capacity": e.Capacity,
		"used":     e.Used,
		"free":     e.Free(),
		"percent":  round(e.Percent(), 1),
	}
}

// pull replaces the label map with what fetch returns, so labels the
// host no longer reports disappear.
func pull[R record[R]](ctx context.Context, k *keyed[R], fetch func(context.Context) (map[string]R, error)) {
	entries, err := fetch(ctx)
	if err != nil {
		k.log.Debug().Err(err).Str("sensor", k.name).Msg("Host probe failed")
		return
	}

	k.replace(entries)
}

// Processor reports per-package CPU usage from the HostProbe.
type Processor struct {
	keyed[ProcessorEntry]
	passive
}

func NewProcessor(deps Deps) *Processor {
	s := &Processor{}
	s.initKeyed(IDProcessor, NameProcessor, 5*time.Second, deps, s, "cpu", IconProcessor)

	return s
}

func (s *Processor) setup(context.Context) bool { return s.deps.Host != nil }

func (s *Processor) refresh(ctx context.Context) {
	if s.deps.Host != nil {
		pull(ctx, &s.keyed, s.deps.Host.Processors)
	}
}

// Memory backs both the ram and nvm kinds; they differ in the probe
// method they pull from.
type Memory struct {
	keyed[MemoryEntry]
	passive

	fetch func(HostProbe) func(context.Context) (map[string]MemoryEntry, error)
}

func NewRAM(deps Deps) *Memory {
	s := &Memory{fetch: func(p HostProbe) func(context.Context) (map[string]MemoryEntry, error) { return p.Memory }}
	s.initKeyed(IDRAM, NameRAM, 5*time.Second, deps, s, "ram", IconRAM)

	return s
}

func NewNVM(deps Deps) *Memory {
	s := &Memory{fetch: func(p HostProbe) func(context.Context) (map[string]MemoryEntry, error) { return p.Storage }}
	s.initKeyed(IDNVM, NameNVM, time.Minute, deps, s, "nvm", IconNVM)

	return s
}

func (s *Memory) setup(context.Context) bool { return s.deps.Host != nil }

func (s *Memory) refresh(ctx context.Context) {
	if s.deps.Host != nil {
		pull(ctx, &s.keyed, s.fetch(s.deps.Host))
	}
}
