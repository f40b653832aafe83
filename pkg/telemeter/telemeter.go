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

// Package telemeter aggregates sensors into a single report that can be
// packed for transport and rebuilt on the receiving side.
package telemeter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carverauto/telemeter/pkg/clock"
	"github.com/carverauto/telemeter/pkg/logger"
	"github.com/carverauto/telemeter/pkg/sensor"
)

var (
	// ErrMalformedWire is returned when a packed container cannot be parsed.
	ErrMalformedWire = errors.New("malformed telemetry container")
	// ErrRemoteTelemeter is returned when enabling sensors on a telemeter
	// rebuilt from the wire.
	ErrRemoteTelemeter = errors.New("telemeter is remote")
)

// Option configures a Telemeter.
type Option func(*Telemeter)

// WithLogger overrides the registry's logger.
func WithLogger(log logger.Logger) Option {
	return func(t *Telemeter) {
		if log != nil {
			t.log = log
		}
	}
}

// WithClock overrides the registry's clock for send and receipt times.
func WithClock(c clock.Clock) Option {
	return func(t *Telemeter) {
		if c != nil {
			t.clock = c
		}
	}
}

// Telemeter holds the sensors of one device, either live ones backed by
// local instruments or synthesized ones rebuilt from a received report.
type Telemeter struct {
	registry *sensor.Registry
	clock    clock.Clock
	log      logger.Logger
	deps     sensor.Deps

	sensors sync.Map // name -> sensor.Sensor
	remote  bool
	sentAt  time.Time
}

func newTelemeter(registry *sensor.Registry, remote bool, opts ...Option) *Telemeter {
	deps := registry.Deps()

	t := &Telemeter{
		registry: registry,
		clock:    deps.Clock,
		log:      deps.Logger,
		remote:   remote,
	}

	for _, opt := range opts {
		opt(t)
	}

	// sensors share the telemeter's clock and logger
	t.deps = deps
	t.deps.Clock = t.clock
	t.deps.Logger = t.log

	t.log = logger.Component(t.log, "telemeter")

	return t
}

// New returns a live telemeter with the time sensor enabled.
func New(registry *sensor.Registry, opts ...Option) *Telemeter {
	t := newTelemeter(registry, false, opts...)

	if err := t.Enable(context.Background(), sensor.NameTime); err != nil {
		t.log.Error().Err(err).Msg("Failed to enable time sensor")
	}

	return t
}

// Remote reports whether t was rebuilt from a packed report.
func (t *Telemeter) Remote() bool { return t.remote }

// SentAt is the send time carried by a packed report. It is zero for
// live telemeters.
func (t *Telemeter) SentAt() time.Time { return t.sentAt }

// Enable creates the named sensor if needed and starts it.
func (t *Telemeter) Enable(ctx context.Context, name string) error {
	if t.remote {
		return fmt.Errorf("%w: cannot enable %s", ErrRemoteTelemeter, name)
	}

	s, err := t.getOrCreate(name)
	if err != nil {
		return err
	}

	s.Start(ctx)

	t.log.Debug().Str("sensor", name).Bool("active", s.Active()).Msg("Sensor enabled")

	return nil
}

// Disable stops the named sensor and drops it.
func (t *Telemeter) Disable(name string) {
	v, ok := t.sensors.LoadAndDelete(name)
	if !ok {
		return
	}

	v.(sensor.Sensor).Stop()

	t.log.Debug().Str("sensor", name).Msg("Sensor disabled")
}

// StopAll disables every sensor except time.
func (t *Telemeter) StopAll() {
	t.sensors.Range(func(key, _ any) bool {
		if name := key.(string); name != sensor.NameTime {
			t.Disable(name)
		}

		return true
	})
}

// Synthesize registers an inactive placeholder for a sensor expected to
// arrive over the wire. It never starts local instrumentation.
func (t *Telemeter) Synthesize(name string) (sensor.Sensor, error) {
	id, ok := t.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", sensor.ErrUnknownSensor, name)
	}

	if v, ok := t.sensors.Load(name); ok {
		return v.(sensor.Sensor), nil
	}

	s, err := t.registry.NewWith(name, t.deps)
	if err != nil {
		return nil, err
	}

	s.MarkSynthesized()

	v, _ := t.sensors.LoadOrStore(name, s)

	t.log.Debug().Str("sensor", name).Int32("id", int32(id)).Msg("Sensor synthesized")

	return v.(sensor.Sensor), nil
}

// Sensor returns the named sensor if t holds it.
func (t *Telemeter) Sensor(name string) (sensor.Sensor, bool) {
	v, ok := t.sensors.Load(name)
	if !ok {
		return nil, false
	}

	return v.(sensor.Sensor), true
}

// Sensors returns the names of the held sensors in wire id order.
func (t *Telemeter) Sensors() []string {
	held := t.ordered()

	names := make([]string, 0, len(held))
	for _, s := range held {
		names = append(names, s.Name())
	}

	return names
}

// Read returns the named sensor's snapshot, or nil when the sensor is
// not held, inactive, or has no data.
func (t *Telemeter) Read(ctx context.Context, name string) any {
	s, ok := t.Sensor(name)
	if !ok || !s.Active() {
		return nil
	}

	return s.Data(ctx)
}

// ReadAll returns the snapshot of every active sensor holding data.
func (t *Telemeter) ReadAll(ctx context.Context) map[string]any {
	out := make(map[string]any)

	for _, s := range t.ordered() {
		if !s.Active() {
			continue
		}

		if v := s.Data(ctx); v != nil {
			out[s.Name()] = v
		}
	}

	return out
}

// Render maps every active sensor holding data to its display form in
// wire id order. When relativeTo is set, each sensor is compared with
// the same kind in relativeTo.
func (t *Telemeter) Render(ctx context.Context, relativeTo *Telemeter) []*sensor.Rendered {
	var out []*sensor.Rendered

	for _, s := range t.ordered() {
		if !s.Active() || s.Data(ctx) == nil {
			continue
		}

		var peer sensor.Sensor
		if relativeTo != nil {
			if p, ok := relativeTo.Sensor(s.Name()); ok {
				peer = p
			}
		}

		if r := s.Render(peer); r != nil {
			out = append(out, r)
		}
	}

	return out
}

// MarkReceived records on a remote telemeter how its report arrived:
// the relay hop, the link, and the distance between the receiver's fix
// and the location carried in the report.
func (t *Telemeter) MarkReceived(by, via string, receiver *sensor.LocationData) error {
	var sender *sensor.LocationData

	if s, ok := t.Sensor(sensor.NameLocation); ok {
		if loc, ok := s.(*sensor.Location); ok {
			sender = loc.Snapshot(context.Background())
		}
	}

	record := sensor.NewReceived(t.deps)
	record.UpdateData(by, via, receiver, sender)

	payload, ok := record.Pack()
	if !ok {
		return fmt.Errorf("%w: received record did not pack", ErrMalformedWire)
	}

	placeholder, err := t.Synthesize(sensor.NameReceived)
	if err != nil {
		return err
	}

	return placeholder.Unpack(payload)
}

func (t *Telemeter) getOrCreate(name string) (sensor.Sensor, error) {
	if v, ok := t.sensors.Load(name); ok {
		return v.(sensor.Sensor), nil
	}

	s, err := t.registry.NewWith(name, t.deps)
	if err != nil {
		return nil, err
	}

	v, _ := t.sensors.LoadOrStore(name, s)

	return v.(sensor.Sensor), nil
}

// ordered snapshots the sensor table sorted by wire id.
func (t *Telemeter) ordered() []sensor.Sensor {
	var held []sensor.Sensor

	t.sensors.Range(func(_, v any) bool {
		held = append(held, v.(sensor.Sensor))
		return true
	})

	sort.Slice(held, func(i, j int) bool { return held[i].ID() < held[j].ID() })

	return held
}
