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

// ProximityData reports whether something is near the device.
type ProximityData struct {
	Near bool `json:"near"`
}

type Proximity struct {
	base[ProximityData]

	sub subscription
}

func NewProximity(deps Deps) *Proximity {
	s := &Proximity{}
	s.init(IDProximity, NameProximity, time.Second, deps, s)

	return s
}

func (s *Proximity) Snapshot(ctx context.Context) *ProximityData { return s.current(ctx) }

func (s *Proximity) Update(near bool) {
	s.publish(&ProximityData{Near: near})
}

func (s *Proximity) setup(context.Context) bool {
	return attach(&s.sub, &s.base, s.deps.Hardware.Proximity, s.Update)
}

func (s *Proximity) teardown()             { s.sub.release() }
func (*Proximity) refresh(context.Context) {}

func (*Proximity) encode(w *wire.Writer, v *ProximityData) {
	w.Bool(v.Near)
}

func (*Proximity) decode(r *wire.Reader) (*ProximityData, time.Time, error) {
	return &ProximityData{Near: r.Bool()}, time.Time{}, nil
}

func (*Proximity) render(v, _ *ProximityData) *Rendered {
	return newRendered(IconProximity, map[string]any{"near": v.Near})
}
