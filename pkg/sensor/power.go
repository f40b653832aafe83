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
	"github.com/carverauto/telemeter/pkg/wire"
)

// ConsumerEntry is one power consumer: its draw and, for storage-backed
// consumers, the estimated seconds of runtime left (0 when unknown).
type ConsumerEntry struct {
	Watts            float64 `json:"watts"`
	RemainingSeconds float64 `json:"remaining_seconds"`
}

func (e ConsumerEntry) normalize() ConsumerEntry {
	return ConsumerEntry{Watts: narrow(e.Watts, 2), RemainingSeconds: narrow(e.RemainingSeconds, 0)}
}

func (e ConsumerEntry) encode(w *wire.Writer) {
	w.Float32(float32(e.Watts))
	w.Float32(float32(e.RemainingSeconds))
}

func (ConsumerEntry) decode(r *wire.Reader) ConsumerEntry {
	return ConsumerEntry{Watts: float64(r.Float32()), RemainingSeconds: float64(r.Float32())}.normalize()
}

func (e ConsumerEntry) values() map[string]any {
	v := map[string]any{"watts": e.Watts}
	if e.RemainingSeconds > 0 {
		v["remaining_seconds"] = e.RemainingSeconds
	}

	return v
}

type PowerConsumption struct {
	keyed[ConsumerEntry]
	passive
}

func NewPowerConsumption(deps Deps) *PowerConsumption {
	s := &PowerConsumption{}
	s.initKeyed(IDPowerConsumption, NamePowerConsumption, 0, deps, s, "consumer", IconPowerUse)

	return s
}

func (s *PowerConsumption) UpdateConsumer(label string, watts, remainingSeconds float64) {
	s.UpdateEntry(label, ConsumerEntry{Watts: watts, RemainingSeconds: remainingSeconds})
}

func (s *PowerConsumption) RemoveConsumer(label string) bool { return s.RemoveEntry(label) }

// ProducerEntry is one power source and its output.
type ProducerEntry struct {
	Watts float64 `json:"watts"`
}

func (e ProducerEntry) normalize() ProducerEntry { return ProducerEntry{Watts: narrow(e.Watts, 2)} }

func (e ProducerEntry) encode(w *wire.Writer) { w.Float32(float32(e.Watts)) }

func (ProducerEntry) decode(r *wire.Reader) ProducerEntry {
	return ProducerEntry{Watts: float64(r.Float32())}.normalize()
}

func (e ProducerEntry) values() map[string]any { return map[string]any{"watts": e.Watts} }

type PowerProduction struct {
	keyed[ProducerEntry]
	passive
}

func NewPowerProduction(deps Deps) *PowerProduction {
	s := &PowerProduction{}
	s.initKeyed(IDPowerProduction, NamePowerProduction, 0, deps, s, "producer", IconPowerGen)

	return s
}

func (s *PowerProduction) UpdateProducer(label string, watts float64) {
	s.UpdateEntry(label, ProducerEntry{Watts: watts})
}

func (s *PowerProduction) RemoveProducer(label string) bool { return s.RemoveEntry(label) }
