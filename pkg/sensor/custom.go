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

// CustomEntry is an application-defined reading with its own unit and
// display icon.
type CustomEntry struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Icon  string  `json:"icon"`
}

func (e CustomEntry) normalize() CustomEntry { return e }

func (e CustomEntry) encode(w *wire.Writer) {
	w.Float64(e.Value)
	w.Text(e.Unit)
	w.Text(e.Icon)
}

func (CustomEntry) decode(r *wire.Reader) CustomEntry {
	return CustomEntry{Value: r.Float64(), Unit: r.Text(), Icon: r.Text()}
}

func (e CustomEntry) values() map[string]any {
	v := map[string]any{"value": e.Value, "unit": e.Unit}
	if e.Icon != "" {
		v["icon"] = e.Icon
	}

	return v
}

type Custom struct {
	keyed[CustomEntry]
	passive
}

func NewCustom(deps Deps) *Custom {
	s := &Custom{}
	s.initKeyed(IDCustom, NameCustom, 0, deps, s, "custom", IconCustom)

	return s
}
