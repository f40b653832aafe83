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
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/carverauto/telemeter/pkg/clock"
	"github.com/carverauto/telemeter/pkg/logger"
)

// ErrNoThermalZone is returned when no temperature sensor matches.
var ErrNoThermalZone = errors.New("no matching thermal sensor")

const defaultThermalInterval = 5 * time.Second

var temperaturesWithContext = host.SensorsTemperaturesWithContext

// ReadTemperature returns the hottest reading whose sensor key contains
// match, or of every sensor when match is empty.
func ReadTemperature(ctx context.Context, match string) (float64, error) {
	stats, err := temperaturesWithContext(ctx)
	if len(stats) == 0 {
		if err != nil {
			return 0, fmt.Errorf("failed to read thermal sensors: %w", err)
		}

		return 0, ErrNoThermalZone
	}

	found := false
	hottest := 0.0

	for _, st := range stats {
		if match != "" && !strings.Contains(st.SensorKey, match) {
			continue
		}

		if st.Temperature <= 0 {
			continue
		}

		if !found || st.Temperature > hottest {
			hottest = st.Temperature
			found = true
		}
	}

	if !found {
		return 0, fmt.Errorf("%w: %q", ErrNoThermalZone, match)
	}

	return hottest, nil
}

// NewThermalSource polls the host thermal sensors for the temperature
// kind. A zero interval uses five seconds.
func NewThermalSource(clk clock.Clock, interval time.Duration, match string, log logger.Logger) *Poller[float64] {
	if interval <= 0 {
		interval = defaultThermalInterval
	}

	return NewPoller(clk, interval, func(ctx context.Context) (float64, error) {
		return ReadTemperature(ctx, match)
	}, log)
}
