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

// Vector3 is a 3-axis reading.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector backs the 3-axis motion kinds: acceleration and gravity (m/s²),
// magnetic field (µT), and angular velocity (rad/s). The wire carries
// float32 per axis; in memory each axis is rounded to 6 decimals for
// stable display.
type Vector struct {
	base[Vector3]

	source func(Hardware) Source[Vector3]
	icon   string
	unit   string

	sub subscription
}

func newVector(id ID, name, icon, unit string, deps Deps, source func(Hardware) Source[Vector3]) *Vector {
	s := &Vector{source: source, icon: icon, unit: unit}
	s.permission = PermissionMotion
	s.init(id, name, time.Second, deps, s)

	return s
}

func NewAcceleration(deps Deps) *Vector {
	return newVector(IDAcceleration, NameAcceleration, IconAcceleration, "m/s²", deps,
		func(h Hardware) Source[Vector3] { return h.Acceleration })
}

func NewGravity(deps Deps) *Vector {
	return newVector(IDGravity, NameGravity, IconGravity, "m/s²", deps,
		func(h Hardware) Source[Vector3] { return h.Gravity })
}

func NewMagneticField(deps Deps) *Vector {
	return newVector(IDMagneticField, NameMagneticField, IconMagnetic, "µT", deps,
		func(h Hardware) Source[Vector3] { return h.MagneticField })
}

func NewAngularVelocity(deps Deps) *Vector {
	return newVector(IDAngularVelocity, NameAngularVelocity, IconGyroscope, "rad/s", deps,
		func(h Hardware) Source[Vector3] { return h.AngularVelocity })
}

func (s *Vector) Snapshot(ctx context.Context) *Vector3 { return s.current(ctx) }

// Update publishes a reading as if the instrument had delivered it.
func (s *Vector) Update(v Vector3) {
	s.publish(&Vector3{X: narrow(v.X, 6), Y: narrow(v.Y, 6), Z: narrow(v.Z, 6)})
}

func (s *Vector) setup(context.Context) bool {
	return attach(&s.sub, &s.base, s.source(s.deps.Hardware), s.Update)
}

func (s *Vector) teardown() {
	s.sub.release()
}

func (*Vector) refresh(context.Context) {}

func (*Vector) encode(w *wire.Writer, v *Vector3) {
	w.Float32(float32(v.X))
	w.Float32(float32(v.Y))
	w.Float32(float32(v.Z))
}

func (*Vector) decode(r *wire.Reader) (*Vector3, time.Time, error) {
	return &Vector3{
		X: narrow(float64(r.Float32()), 6),
		Y: narrow(float64(r.Float32()), 6),
		Z: narrow(float64(r.Float32()), 6),
	}, time.Time{}, nil
}

func (s *Vector) render(v, _ *Vector3) *Rendered {
	return newRendered(s.icon, map[string]any{
		"x":    v.X,
		"y":    v.Y,
		"z":    v.Z,
		"unit": s.unit,
	})
}
