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

package sources

import (
	"strings"

	"github.com/carverauto/telemeter/pkg/sensor"
)

// Permissions returns a predicate granting exactly the named
// permissions. Names are matched case-insensitively.
func Permissions(granted ...string) func(sensor.Permission) bool {
	set := make(map[sensor.Permission]struct{}, len(granted))
	for _, g := range granted {
		set[sensor.Permission(strings.ToLower(strings.TrimSpace(g)))] = struct{}{}
	}

	return func(p sensor.Permission) bool {
		_, ok := set[p]
		return ok
	}
}
