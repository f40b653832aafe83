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

package telemeter

import (
	"context"
	"fmt"

	"github.com/carverauto/telemeter/pkg/sensor"
	"github.com/carverauto/telemeter/pkg/wire"
)

// entry header: int32 id + int32 payload length
const entryHeader = 8

// Packed serializes every active sensor holding data. The container is
// an int32 entry count followed by (int32 id, int32 length, payload)
// entries. A time entry stamped with the send time always leads.
func (t *Telemeter) Packed(ctx context.Context) []byte {
	body := wire.NewWriter(128)

	writeEntry(body, sensor.IDTime, sensor.EncodeTime(t.clock.Now()))

	count := 1

	for _, s := range t.ordered() {
		if s.ID() == sensor.IDTime || !s.Active() {
			continue
		}

		if !s.Synthesized() {
			// let pull kinds refresh a stale snapshot first
			s.Data(ctx)
		}

		payload, ok := s.Pack()
		if !ok {
			continue
		}

		writeEntry(body, s.ID(), payload)
		count++
	}

	out := wire.NewWriter(4 + body.Len())
	out.Int32(int32(count))
	out.Raw(body.Bytes())

	return out.Bytes()
}

func writeEntry(w *wire.Writer, id sensor.ID, payload []byte) {
	w.Int32(int32(id))
	w.Int32(int32(len(payload)))
	w.Raw(payload)
}

// FromPacked rebuilds a remote telemeter from a packed container.
// Entries with unknown ids are skipped. Any structural fault fails the
// whole decode.
func FromPacked(registry *sensor.Registry, blob []byte, opts ...Option) (*Telemeter, error) {
	t := newTelemeter(registry, true, opts...)
	r := wire.NewReader(blob)

	count := r.Int32()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedWire, err)
	}

	if count < 0 || int(count)*entryHeader > r.Remaining() {
		return nil, fmt.Errorf("%w: entry count %d", ErrMalformedWire, count)
	}

	skipped := 0

	for range count {
		id := sensor.ID(r.Int32())
		size := r.Int32()

		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedWire, err)
		}

		if size < 0 || int(size) > r.Remaining() {
			return nil, fmt.Errorf("%w: entry %d length %d", ErrMalformedWire, id, size)
		}

		payload := r.Bytes(int(size))

		name, known := registry.Name(id)
		if !known {
			skipped++
			continue
		}

		s, err := registry.NewWith(name, t.deps)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedWire, err)
		}

		s.MarkSynthesized()

		if err := s.Unpack(payload); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedWire, err)
		}

		t.sensors.Store(name, s)

		if id == sensor.IDTime {
			t.sentAt = s.LastUpdate()
		}
	}

	if skipped > 0 {
		t.log.Debug().Int("skipped", skipped).Msg("Skipped entries with unknown sensor ids")
	}

	return t, nil
}
