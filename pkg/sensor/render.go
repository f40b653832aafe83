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

import "time"

// Rendered is the display structure for one sensor: an icon token and a
// value map, plus relative values when rendered against a peer.
type Rendered struct {
	Name        string         `json:"name"`
	Icon        string         `json:"icon"`
	Values      map[string]any `json:"values"`
	Relative    map[string]any `json:"relative,omitempty"`
	Synthesized bool           `json:"synthesized"`
	Updated     time.Time      `json:"updated"`
}

// Icon tokens understood by the UI layer.
const (
	IconTime         = "clock"
	IconLocation     = "map-marker"
	IconPressure     = "weather-cloudy"
	IconBattery      = "battery"
	IconBatteryCharg = "battery-charging"
	IconLink         = "network-strength"
	IconAcceleration = "arrow-decision"
	IconTemperature  = "thermometer"
	IconHumidity     = "water-percent"
	IconMagnetic     = "magnet"
	IconLight        = "white-balance-sunny"
	IconGravity      = "arrow-down-thin"
	IconGyroscope    = "rotate-3d"
	IconProximity    = "signal-distance-variant"
	IconInformation  = "information-variant"
	IconReceived     = "arrow-down-bold-hexagon-outline"
	IconPowerUse     = "power-plug"
	IconPowerGen     = "solar-power"
	IconProcessor    = "chip"
	IconRAM          = "memory"
	IconNVM          = "harddisk"
	IconTank         = "storage-tank"
	IconFuel         = "fuel"
	IconCustom       = "ab-testing"
)

func newRendered(icon string, values map[string]any) *Rendered {
	return &Rendered{Icon: icon, Values: values}
}
