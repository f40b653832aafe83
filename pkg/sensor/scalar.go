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

// ScalarData is a single environmental reading in the kind's unit.
type ScalarData struct {
	Value float64 `json:"value"`
}

// Scalar backs the single-float push kinds: pressure (mbar), temperature
// (°C), relative humidity (%), and ambient light (lux). Values keep two
// decimals after float32 narrowing.
type Scalar struct {
	base[ScalarData]

	source func(Hardware) Source[float64]
	icon   string
	unit   string

	sub subscription
}

func newScalar(id ID, name, icon, unit string, staleness time.Duration, deps Deps, source func(Hardware) Source[float64]) *Scalar {
	s := &Scalar{source: source, icon: icon, unit: unit}
	s.init(id, name, staleness, deps, s)

	return s
}

func NewPressure(deps Deps) *Scalar {
	return newScalar(IDPressure, NamePressure, IconPressure, "mbar", 5*time.Second, deps,
		func(h Hardware) Source[float64] { return h.Pressure })
}

func NewTemperature(deps Deps) *Scalar {
	return newScalar(IDTemperature, NameTemperature, IconTemperature, "°C", 5*time.Second, deps,
		func(h Hardware) Source[float64] { return h.Temperature })
}

func NewHumidity(deps Deps) *Scalar {
	return newScalar(IDHumidity, NameHumidity, IconHumidity, "%", 5*time.Second, deps,
		func(h Hardware) Source[float64] { return h.Humidity })
}

func NewAmbientLight(deps Deps) *Scalar {
	return newScalar(IDAmbientLight, NameAmbientLight, IconLight, "lux", time.Second, deps,
		func(h Hardware) Source[float64] { return h.AmbientLight })
}

func (s *Scalar) Snapshot(ctx context.Context) *ScalarData { return s.current(ctx) }

// Unit is the display unit of the kind.
func (s *Scalar) Unit() string { return s.unit }

// Update publishes a reading as if the instrument had delivered it.
func (s *Scalar) Update(v float64) {
	s.publish(&ScalarData{Value: narrow(v, 2)})
}

func (s *Scalar) setup(context.Context) bool {
	return attach(&s.sub, &s.base, s.source(s.deps.Hardware), s.Update)
}

func (s *Scalar) teardown() {
	s.sub.release()
}

func (*Scalar) refresh(context.Context) {}

func (*Scalar) encode(w *wire.Writer, v *ScalarData) {
	w.Float32(float32(v.Value))
}

func (*Scalar) decode(r *wire.Reader) (*ScalarData, time.Time, error) {
	return &ScalarData{Value: narrow(float64(r.Float32()), 2)}, time.Time{}, nil
}

func (s *Scalar) render(v, relative *ScalarData) *Rendered {
	out := newRendered(s.icon, map[string]any{
		"value": v.Value,
		"unit":  s.unit,
	})

	if relative != nil {
		out.Relative = map[string]any{"delta": round(v.Value-relative.Value, 2)}
	}

	return out
}
