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

// PhysicalLinkData describes the radio link. Zero doubles as the absent
// sentinel, so an RSSI of exactly 0 dBm cannot be told from no reading.
type PhysicalLinkData struct {
	RSSI float64 `json:"rssi"`
	SNR  float64 `json:"snr"`
	Q    float64 `json:"q"`
}

// PhysicalLink pulls from a LinkProbe supplied by the transport host.
type PhysicalLink struct {
	base[PhysicalLinkData]
	passive
}

func NewPhysicalLink(deps Deps) *PhysicalLink {
	s := &PhysicalLink{}
	s.init(IDPhysicalLink, NamePhysicalLink, 5*time.Second, deps, s)

	return s
}

func (s *PhysicalLink) Snapshot(ctx context.Context) *PhysicalLinkData { return s.current(ctx) }

func (s *PhysicalLink) Update(v PhysicalLinkData) {
	s.publish(&PhysicalLinkData{RSSI: narrow(v.RSSI, 2), SNR: narrow(v.SNR, 2), Q: narrow(v.Q, 2)})
}

func (s *PhysicalLink) setup(context.Context) bool {
	return s.deps.Link != nil
}

func (s *PhysicalLink) refresh(ctx context.Context) {
	if s.deps.Link == nil {
		return
	}

	v, err := s.deps.Link.ReadLink(ctx)
	if err != nil {
		s.log.Debug().Err(err).Str("sensor", s.name).Msg("Link read failed")
		return
	}

	s.Update(v)
}

func (*PhysicalLink) encode(w *wire.Writer, v *PhysicalLinkData) {
	w.Float32(float32(v.RSSI))
	w.Float32(float32(v.SNR))
	w.Float32(float32(v.Q))
}

func (*PhysicalLink) decode(r *wire.Reader) (*PhysicalLinkData, time.Time, error) {
	return &PhysicalLinkData{
		RSSI: narrow(float64(r.Float32()), 2),
		SNR:  narrow(float64(r.Float32()), 2),
		Q:    narrow(float64(r.Float32()), 2),
	}, time.Time{}, nil
}

func (*PhysicalLink) render(v, _ *PhysicalLinkData) *Rendered {
	values := map[string]any{}

	if v.RSSI != 0 {
		values["rssi"] = v.RSSI
	}

	if v.SNR != 0 {
		values["snr"] = v.SNR
	}

	if v.Q != 0 {
		values["q"] = v.Q
	}

	return newRendered(IconLink, values)
}
