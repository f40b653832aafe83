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
	"errors"
	"time"
)

// ID is the stable wire identity of a sensor kind.
type ID int32

const (
	IDTime             ID = 0x01
	IDLocation         ID = 0x02
	IDPressure         ID = 0x03
	IDBattery          ID = 0x04
	IDPhysicalLink     ID = 0x05
	IDAcceleration     ID = 0x06
	IDTemperature      ID = 0x07
	IDHumidity         ID = 0x08
	IDMagneticField    ID = 0x09
	IDAmbientLight     ID = 0x0A
	IDGravity          ID = 0x0B
	IDAngularVelocity  ID = 0x0C
	IDProximity        ID = 0x0E
	IDInformation      ID = 0x0F
	IDReceived         ID = 0x10
	IDPowerConsumption ID = 0x11
	IDPowerProduction  ID = 0x12
	IDProcessor        ID = 0x13
	IDRAM              ID = 0x14
	IDNVM              ID = 0x15
	IDTank             ID = 0x16
	IDFuel             ID = 0x17
	IDCustom           ID = 0xFF
)

const (
	NameTime             = "time"
	NameLocation         = "location"
	NamePressure         = "pressure"
	NameBattery          = "battery"
	NamePhysicalLink     = "physical_link"
	NameAcceleration     = "acceleration"
	NameTemperature      = "temperature"
	NameHumidity         = "humidity"
	NameMagneticField    = "magnetic_field"
	NameAmbientLight     = "ambient_light"
	NameGravity          = "gravity"
	NameAngularVelocity  = "angular_velocity"
	NameProximity        = "proximity"
	NameInformation      = "information"
	NameReceived         = "received"
	NamePowerConsumption = "power_consumption"
	NamePowerProduction  = "power_production"
	NameProcessor        = "processor"
	NameRAM              = "ram"
	NameNVM              = "nvm"
	NameTank             = "tank"
	NameFuel             = "fuel"
	NameCustom           = "custom"
)

var (
	// ErrMalformedPayload is returned by Unpack when a payload cannot be decoded.
	ErrMalformedPayload = errors.New("malformed sensor payload")
	// ErrUnknownSensor is returned when a name or wire id is not in the registry.
	ErrUnknownSensor = errors.New("unknown sensor")
	// ErrDuplicateSensor is returned when a registry table repeats a name or id.
	ErrDuplicateSensor = errors.New("duplicate sensor registration")
)

// Sensor is the capability contract shared by every kind.
type Sensor interface {
	ID() ID
	Name() string

	// Staleness is the maximum snapshot age before a pull-based kind
	// refreshes on read. Zero disables read-triggered refresh.
	Staleness() time.Duration

	Active() bool

	// Synthesized reports whether the snapshot arrived over the wire.
	// Synthesized sensors never start or stop instrumentation.
	Synthesized() bool

	LastUpdate() time.Time
	LastRead() time.Time

	// Start acquires instrumentation once per active period. A sensor
	// lacking permission or hardware stays inactive without error.
	Start(ctx context.Context)
	Stop()

	// MarkSynthesized turns the sensor into a wire-fed placeholder.
	MarkSynthesized()

	// Data returns the latest snapshot, refreshing first when a
	// pull-based kind is stale. Nil means no data yet.
	Data(ctx context.Context) any

	// Pack encodes the current snapshot. ok is false with no snapshot.
	Pack() (payload []byte, ok bool)

	// Unpack replaces the snapshot with a decoded payload and marks the
	// sensor synthesized and active.
	Unpack(payload []byte) error

	// Render maps the snapshot to a display structure, optionally
	// relative to a peer's sensor of the same kind. Nil with no data.
	Render(relativeTo Sensor) *Rendered
}
