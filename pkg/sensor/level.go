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

// LevelEntry is the fill state of a tank, in whatever unit it reports.
type LevelEntry struct {
	Capacity float64 `json:"capacity"`
	Level    float64 `json:"level"`
	Unit     string  `json:"unit"`
}

func (e LevelEntry) Free() float64 { return round(e.Capacity-e.Level, 2) }

func (e LevelEntry) Percent() float64 {
	if e.Capacity <= 0 {
		return 0
	}

	return e.Level / e.Capacity * 100
}

func (e LevelEntry) normalize() LevelEntry {
	return LevelEntry{Capacity: narrow(e.Capacity, 2), Level: narrow(e.Level, 2), Unit: e.Unit}
}

func (e LevelEntry) encode(w *wire.Writer) {
	w.Float32(float32(e.Capacity))
	w.Float32(float32(e.Level))
	w.Text(e.Unit)
}

func (LevelEntry) decode(r *wire.Reader) LevelEntry {
	return LevelEntry{Capacity: float64(r.Float32()), Level: float64(r.Float32()), Unit: r.Text()}.normalize()
}

func (e LevelEntry) values() map[string]any {
	return map[string]any{
		"capacity": e.Capacity,
		"level":    e.Level,
		"unit":     e.Unit,
		"free":     e.Free(),
		"percent":  round(e.Percent(), 1),
	}
}

// Level backs the tank and fuel kinds.
type Level struct {
	keyed[LevelEntry]
	passive
}

func NewTank(deps Deps) *Level {
	s := &Level{}
	s.initKeyed(IDTank, NameTank, 0, deps, s, "tank", IconTank)

	return s
}

func NewFuel(deps Deps) *Level {
	s := &Level{}
	s.initKeyed(IDFuel, NameFuel, 0, deps, s, "fuel", IconFuel)

	return s
}
