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

// BatteryData is the charge state. Temperature is nil when the battery
// does not report one; zero on the wire means absent, so a genuine 0 °C
// reading is indistinguishable from no reading.
type BatteryData struct {
	ChargePercent float64  `json:"charge_percent"`
	Charging      bool     `json:"charging"`
	Temperature   *float64 `json:"temperature,omitempty"`
}

// Battery pulls from a BatteryProbe whenever a read finds it stale.
type Battery struct {
	base[BatteryData]
	passive
}

func NewBattery(deps Deps) *Battery {
	s := &Battery{}
	s.init(IDBattery, NameBattery, 10*time.Second, deps, s)

	return s
}

func (s *Battery) Snapshot(ctx context.Context) *BatteryData { return s.current(ctx) }

// Update publishes a battery state directly.
func (s *Battery) Update(v BatteryData) {
	s.publish(quantizeBattery(v))
}

func (s *Battery) setup(context.Context) bool {
	return s.deps.Battery != nil
}

func (s *Battery) refresh(ctx context.Context) {
	if s.deps.Battery == nil {
		return
	}

	v, err := s.deps.Battery.ReadBattery(ctx)
	if err != nil {
		s.log.Debug().Err(err).Str("sensor", s.name).Msg("Battery read failed")
		return
	}

	s.Update(v)
}

func quantizeBattery(v BatteryData) *BatteryData {
	out := &BatteryData{
		ChargePercent: narrow(v.ChargePercent, 1),
		Charging:      v.Charging,
	}

	if v.Temperature != nil && *v.Temperature != 0 {
		t := narrow(*v.Temperature, 1)
		out.Temperature = &t
	}

	return out
}

func (*Battery) encode(w *wire.Writer, v *BatteryData) {
	w.Float32(float32(v.ChargePercent))
	w.Bool(v.Charging)

	var temp float32
	if v.Temperature != nil {
		temp = float32(*v.Temperature)
	}

	w.Float32(temp)
}

func (*Battery) decode(r *wire.Reader) (*BatteryData, time.Time, error) {
	percent := float64(r.Float32())
	charging := r.Bool()
	temp := float64(r.Float32())

	v := BatteryData{ChargePercent: percent, Charging: charging}
	if temp != 0 {
		v.Temperature = &temp
	}

	return quantizeBattery(v), time.Time{}, nil
}

func (*Battery) render(v, _ *BatteryData) *Rendered {
	icon := IconBattery
	if v.Charging {
		icon = IconBatteryCharg
	}

	values := map[string]any{
		"percent":  v.ChargePercent,
		"charging": v.Charging,
	}

	if v.Temperature != nil {
		values["temperature"] = *v.Temperature
	}

	return newRendered(icon, values)
}
