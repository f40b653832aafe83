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
	"time"

	"github.com/adrianmo/go-nmea"

	"github.com/carverauto/telemeter/pkg/sensor"
)

const (
	knotsToMetersPerSecond = 0.514444
	// rough user equivalent range error used to turn HDOP into meters
	uereMeters = 5.0
)

// nmeaParser folds GGA and RMC sentences into position fixes. GGA
// supplies altitude and HDOP; each valid RMC yields a fix.
type nmeaParser struct {
	altitude float64
	hdop     float64
}

// feed consumes one sentence and returns a fix when the sentence
// completes one. Sentences other than GGA and RMC are ignored.
func (p *nmeaParser) feed(line string) (sensor.LocationData, bool, error) {
	s, err := nmea.Parse(strings.TrimSpace(line))
	if err != nil {
		return sensor.LocationData{}, false, err
	}

	switch m := s.(type) {
	case nmea.GGA:
		p.gga(m)
		return sensor.LocationData{}, false, nil
	case nmea.RMC:
		return p.rmc(m)
	default:
		return sensor.LocationData{}, false, nil
	}
}

// gga records altitude and HDOP. A sentence without a fix clears them so
// stale values never reach the next RMC fix.
func (p *nmeaParser) gga(m nmea.GGA) {
	if m.FixQuality == "" || m.FixQuality == nmea.Invalid {
		p.altitude, p.hdop = 0, 0
		return
	}

	p.altitude = m.Altitude
	p.hdop = m.HDOP
}

func (p *nmeaParser) rmc(m nmea.RMC) (sensor.LocationData, bool, error) {
	if m.Validity != nmea.ValidRMC {
		return sensor.LocationData{}, false, nil
	}

	fix := sensor.LocationData{
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		Altitude:  p.altitude,
		Speed:     m.Speed * knotsToMetersPerSecond,
		Bearing:   m.Course,
		Accuracy:  p.hdop * uereMeters,
		FixTime:   fixTime(m.Date, m.Time),
	}

	return fix, true, nil
}

// fixTime joins the RMC date and time in UTC. Two-digit years follow the
// time package's pivot: 69-99 are 19xx, 00-68 are 20xx.
func fixTime(d nmea.Date, t nmea.Time) time.Time {
	if !d.Valid || !t.Valid {
		return time.Time{}
	}

	year := 2000 + d.YY
	if d.YY >= 69 {
		year = 1900 + d.YY
	}

	return time.Date(year, time.Month(d.MM), d.DD, t.Hour, t.Minute, t.Second,
		t.Millisecond*int(time.Millisecond), time.UTC)
}
