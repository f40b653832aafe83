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

// ReceivedData records how a report reached this device: the last relay
// hop, the link it arrived on, and how far the sender was from the
// receiver. Distances are nil when either fix was unknown.
type ReceivedData struct {
	By        string   `json:"by"`
	Via       string   `json:"via"`
	Geodesic  *float64 `json:"geodesic,omitempty"`
	Euclidean *float64 `json:"euclidean,omitempty"`
}

type Received struct {
	base[ReceivedData]
	passive
}

func NewReceived(deps Deps) *Received {
	s := &Received{}
	s.init(IDReceived, NameReceived, 0, deps, s)

	return s
}

func (s *Received) Snapshot(ctx context.Context) *ReceivedData { return s.current(ctx) }

// UpdateData records the hop and link and, when both fixes are known,
// the distances between the receiver and the sender.
func (s *Received) UpdateData(by, via string, receiver, sender *LocationData) {
	v := &ReceivedData{By: by, Via: via}

	if d, ok := DistanceBetween(receiver, sender); ok {
		geodesic := round(d.Geodesic, 2)
		euclidean := round(d.Euclidean, 6)
		v.Geodesic = &geodesic
		v.Euclidean = &euclidean
	}

	s.publish(v)
}

func (*Received) encode(w *wire.Writer, v *ReceivedData) {
	w.Text(v.By)
	w.Text(v.Via)
	w.Float64(orNaN(v.Geodesic))
	w.Float64(orNaN(v.Euclidean))
}

func (*Received) decode(r *wire.Reader) (*ReceivedData, time.Time, error) {
	return &ReceivedData{
		By:        r.Text(),
		Via:       r.Text(),
		Geodesic:  optional(r.Float64()),
		Euclidean: optional(r.Float64()),
	}, time.Time{}, nil
}

func (*Received) render(v, _ *ReceivedData) *Rendered {
	values := map[string]any{
		"by":  v.By,
		"via": v.Via,
	}

	if v.Geodesic != nil {
		values["geodesic"] = *v.Geodesic
	}

	if v.Euclidean != nil {
		values["euclidean"] = *v.Euclidean
	}

	return newRendered(IconReceived, values)
}
