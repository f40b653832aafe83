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

// TimeData is the device's notion of the current time, to the second.
type TimeData struct {
	UTC time.Time
}

// Time reports the local clock. It is the one capability a live
// telemeter always carries.
type Time struct {
	base[TimeData]
	passive
}

func NewTime(deps Deps) *Time {
	s := &Time{}
	s.init(IDTime, NameTime, time.Second, deps, s)

	return s
}

// Snapshot returns the typed snapshot, refreshing when stale.
func (s *Time) Snapshot(ctx context.Context) *TimeData { return s.current(ctx) }

func (s *Time) refresh(context.Context) {
	now := s.deps.Clock.Now()
	s.publishAt(&TimeData{UTC: now.UTC().Truncate(time.Second)}, now)
}

func (*Time) encode(w *wire.Writer, v *TimeData) {
	w.Int64(v.UTC.Unix())
}

func (*Time) decode(r *wire.Reader) (*TimeData, time.Time, error) {
	at := time.Unix(r.Int64(), 0).UTC()

	return &TimeData{UTC: at}, at, nil
}

func (*Time) render(v, _ *TimeData) *Rendered {
	return newRendered(IconTime, map[string]any{
		"utc": v.UTC.Unix(),
	})
}

// EncodeTime packs t as a time payload without a Time sensor.
func EncodeTime(t time.Time) []byte {
	w := wire.NewWriter(8)
	w.Int64(t.Unix())

	return w.Bytes()
}
