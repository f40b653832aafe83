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

//go:generate mockgen -destination=mock_probes.go -package=sensor github.com/carverauto/telemeter/pkg/sensor HostProbe,BatteryProbe,LinkProbe

package sensor

import (
	"context"

	"github.com/carverauto/telemeter/pkg/clock"
	"github.com/carverauto/telemeter/pkg/logger"
)

// Permission names a host-granted capability gating a sensor kind.
type Permission string

const (
	PermissionLocation Permission = "location"
	PermissionMotion   Permission = "motion"
)

// Source is a push-based instrument. Subscribe registers handler for new
// readings and returns a cancel func releasing the subscription. Handlers
// run on whatever goroutine the instrument delivers on.
type Source[T any] interface {
	Subscribe(handler func(T)) (cancel func(), err error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(handler func(T)) (func(), error)

func (f SourceFunc[T]) Subscribe(handler func(T)) (func(), error) {
	return f(handler)
}

// HostProbe reads resource usage for the keyed processor, ram, and nvm
// kinds. Each call returns one record per label.
type HostProbe interface {
	Processors(ctx context.Context) (map[string]ProcessorEntry, error)
	Memory(ctx context.Context) (map[string]MemoryEntry, error)
	Storage(ctx context.Context) (map[string]MemoryEntry, error)
}

// BatteryProbe reads the device battery state.
type BatteryProbe interface {
	ReadBattery(ctx context.Context) (BatteryData, error)
}

// LinkProbe reads the quality of the physical link carrying telemetry.
type LinkProbe interface {
	ReadLink(ctx context.Context) (PhysicalLinkData, error)
}

// Hardware groups the push-based instruments. A nil source means the
// hardware is absent and the matching kind stays empty.
type Hardware struct {
	Location        Source[LocationData]
	Pressure        Source[float64]
	Temperature     Source[float64]
	Humidity        Source[float64]
	AmbientLight    Source[float64]
	Acceleration    Source[Vector3]
	Gravity         Source[Vector3]
	MagneticField   Source[Vector3]
	AngularVelocity Source[Vector3]
	Proximity       Source[bool]
}

// Deps carries the collaborators sensors are constructed with. Zero
// values are valid: the clock defaults to the wall clock, the logger to
// a no-op logger, a nil Permitted grants everything, and nil instruments
// leave their kinds empty.
type Deps struct {
	Clock     clock.Clock
	Logger    logger.Logger
	Permitted func(Permission) bool
	Hardware  Hardware
	Host      HostProbe
	Battery   BatteryProbe
	Link      LinkProbe
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = clock.Real()
	}

	if d.Logger == nil {
		d.Logger = logger.NewTestLogger()
	}

	return d
}

func (d Deps) permitted(p Permission) bool {
	if p == "" || d.Permitted == nil {
		return true
	}

	return d.Permitted(p)
}
