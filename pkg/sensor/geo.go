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
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// EarthRadius is the mean Earth radius in meters used for great-circle
// distances.
const EarthRadius = 6_371_000.0

// Geodesic returns the great-circle distance in meters between two fixes
// using the Haversine formula. Altitude is ignored.
func Geodesic(a, b LocationData) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Euclidean treats (latitude, longitude, altitude) as a plain 3-vector
// and returns the straight-line distance between two fixes. The axes mix
// degrees and meters, so the value is only comparable with itself.
func Euclidean(a, b LocationData) float64 {
	return r3.Norm(r3.Sub(
		r3.Vec{X: a.Latitude, Y: a.Longitude, Z: a.Altitude},
		r3.Vec{X: b.Latitude, Y: b.Longitude, Z: b.Altitude},
	))
}

// Distances holds both metrics between two fixes.
type Distances struct {
	Geodesic  float64 `json:"geodesic"`
	Euclidean float64 `json:"euclidean"`
}

// DistanceBetween computes both metrics. ok is false if either fix is nil.
func DistanceBetween(a, b *LocationData) (Distances, bool) {
	if a == nil || b == nil {
		return Distances{}, false
	}

	return Distances{Geodesic: Geodesic(*a, *b), Euclidean: Euclidean(*a, *b)}, true
}
