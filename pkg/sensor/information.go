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

// InformationData is a free-form status text.
type InformationData struct {
	Contents string `json:"contents"`
}

type Information struct {
	base[InformationData]
	passive
}

func NewInformation(deps Deps) *Information {
	s := &Information{}
	s.init(IDInformation, NameInformation, 0, deps, s)

	return s
}

func (s *Information) Snapshot(ctx context.Context) *InformationData { return s.current(ctx) }

// SetContents replaces the published text.
func (s *Information) SetContents(contents string) {
	s.publish(&InformationData{Contents: contents})
}

func (*Information) encode(w *wire.Writer, v *InformationData) {
	w.Text(v.Contents)
}

func (*Information) decode(r *wire.Reader) (*InformationData, time.Time, error) {
	return &InformationData{Contents: r.Text()}, time.Time{}, nil
}

func (*Information) render(v, _ *InformationData) *Rendered {
	return newRendered(IconInformation, map[string]any{"contents": v.Contents})
}
