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

import "math"

// Quantization helpers. Values are cleaned of floating point noise at a
// thousandth of the target unit before truncating, so 37.7749 scaled by
// 1e6 yields 37774900 rather than 37774899.

func truncScaled(v, scale float64) int64 {
	return int64(math.Trunc(math.Round(v*scale*1000) / 1000))
}

// truncate drops digits beyond 1/scale, returning the in-memory value
// that will survive a scaled-integer round trip unchanged.
func truncate(v, scale float64) float64 {
	return float64(truncScaled(v, scale)) / scale
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// narrow passes v through float32 before rounding so that a value read
// back from a float32 wire field rounds to the same in-memory number.
func narrow(v float64, decimals int) float64 {
	return round(float64(float32(v)), decimals)
}

func clampInt16(v int64) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}

func clampInt32(v int64) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

// optional maps the NaN wire sentinel to nil.
func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}

	return &v
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}

	return *v
}
