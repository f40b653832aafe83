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

const (
	coordScale   = 1e6
	metricScale  = 1e2
	accuracyMaxM = 327.67
)

// LocationData is a position fix. Latitude and longitude keep 6 decimal
// digits (about 11 cm); altitude, speed, bearing, and accuracy keep 2.
type LocationData struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`
	Speed     float64   `json:"speed"`
	Bearing   float64   `json:"bearing"`
	Accuracy  float64   `json:"accuracy"`
	FixTime   time.Time `json:"fix_time"`
}

// Quantized returns the fix reduced to the precision carried on the wire.
func (l LocationData) Quantized() LocationData {
	accuracy := truncate(l.Accuracy, metricScale)
	if accuracy > accuracyMaxM {
		accuracy = accuracyMaxM
	}

	fix := l.FixTime
	if !fix.IsZero() {
		fix = fix.UTC().Truncate(time.Second)
	}

	return LocationData{
		Latitude:  truncate(l.Latitude, coordScale),
		Longitude: truncate(l.Longitude, coordScale),
		Altitude:  truncate(l.Altitude, metricScale),
		Speed:     truncate(l.Speed, metricScale),
		Bearing:   truncate(l.Bearing, metricScale),
		Accuracy:  accuracy,
		FixTime:   fix,
	}
}

// Location is fed by a push-based positioning source and gated on the
// location permission.
type Location struct {
	base[LocationData]

	sub subscription
}

func NewLocation(deps Deps) *Location {
	s := &Location{}
	s.permission = PermissionLocation
	s.init(IDLocation, NameLocation, 15*time.Second, deps, s)

	return s
}

func (s *Location) Snapshot(ctx context.Context) *LocationData { return s.current(ctx) }

// Update publishes a fix as if the positioning source had delivered it.
func (s *Location) Update(fix LocationData) {
	q := fix.Quantized()
	if q.FixTime.IsZero() {
		s.publish(&q)
		return
	}

	s.publishAt(&q, q.FixTime)
}

func (s *Location) setup(context.Context) bool {
	return attach(&s.sub, &s.base, s.deps.Hardware.Location, s.Update)
}

func (s *Location) teardown() {
	s.sub.release()
}

func (*Location) refresh(context.Context) {}

func (*Location) encode(w *wire.Writer, v *LocationData) {
	w.Int32(clampInt32(truncScaled(v.Latitude, coordScale)))
	w.Int32(clampInt32(truncScaled(v.Longitude, coordScale)))
	w.Int32(clampInt32(truncScaled(v.Altitude, metricScale)))
	w.Int32(clampInt32(truncScaled(v.Speed, metricScale)))
	w.Int32(clampInt32(truncScaled(v.Bearing, metricScale)))
	w.Int16(clampInt16(truncScaled(v.Accuracy, metricScale)))

	var fix int64
	if !v.FixTime.IsZero() {
		fix = v.FixTime.Unix()
	}

	w.Int64(fix)
}

func (*Location) decode(r *wire.Reader) (*LocationData, time.Time, error) {
	v := &LocationData{
		Latitude:  float64(r.Int32()) / coordScale,
		Longitude: float64(r.Int32()) / coordScale,
		Altitude:  float64(r.Int32()) / metricScale,
		Speed:     float64(r.Int32()) / metricScale,
		Bearing:   float64(r.Int32()) / metricScale,
		Accuracy:  float64(r.Int16()) / metricScale,
	}

	if fix := r.Int64(); fix != 0 {
		v.FixTime = time.Unix(fix, 0).UTC()
	}

	return v, v.FixTime, nil
}

func (*Location) render(v, relative *LocationData) *Rendered {
	out := newRendered(IconLocation, map[string]any{
		"latitude":  v.Latitude,
		"longitude": v.Longitude,
		"altitude":  v.Altitude,
		"speed":     v.Speed,
		"bearing":   v.Bearing,
		"accuracy":  v.Accuracy,
	})

	if d, ok := DistanceBetween(v, relative); ok {
		out.Relative = map[string]any{
			"geodesic":  round(d.Geodesic, 2),
			"euclidean": round(d.Euclidean, 6),
		}
	}

	return out
}
