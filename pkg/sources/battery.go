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
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/carverauto/telemeter/pkg/sensor"
)

// ErrNoBattery is returned when no power supply of type Battery exists.
var ErrNoBattery = errors.New("no battery power supply found")

const powerSupplyPath = "/sys/class/power_supply"

// SysfsBattery reads the first battery under the Linux power_supply
// class.
type SysfsBattery struct {
	root fs.FS
}

var _ sensor.BatteryProbe = (*SysfsBattery)(nil)

func NewSysfsBattery() *SysfsBattery {
	return &SysfsBattery{root: os.DirFS(powerSupplyPath)}
}

// NewBatteryFromFS reads power supplies from root, laid out like
// /sys/class/power_supply.
func NewBatteryFromFS(root fs.FS) *SysfsBattery {
	return &SysfsBattery{root: root}
}

func (b *SysfsBattery) ReadBattery(ctx context.Context) (sensor.BatteryData, error) {
	entries, err := fs.ReadDir(b.root, ".")
	if err != nil {
		return sensor.BatteryData{}, fmt.Errorf("failed to list power supplies: %w", err)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return sensor.BatteryData{}, err
		}

		if attr(b.root, e.Name(), "type") != "Battery" {
			continue
		}

		return b.read(e.Name())
	}

	return sensor.BatteryData{}, ErrNoBattery
}

func (b *SysfsBattery) read(dir string) (sensor.BatteryData, error) {
	capacity, err := strconv.ParseFloat(attr(b.root, dir, "capacity"), 64)
	if err != nil {
		return sensor.BatteryData{}, fmt.Errorf("battery %s capacity: %w", dir, err)
	}

	status := attr(b.root, dir, "status")

	out := sensor.BatteryData{
		ChargePercent: capacity,
		Charging:      status == "Charging" || status == "Full",
	}

	// temp is reported in tenths of a degree Celsius
	if raw := attr(b.root, dir, "temp"); raw != "" {
		if tenths, err := strconv.ParseFloat(raw, 64); err == nil && tenths != 0 {
			c := tenths / 10
			out.Temperature = &c
		}
	}

	return out, nil
}

func attr(root fs.FS, dir, name string) string {
	data, err := fs.ReadFile(root, path.Join(dir, name))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}
