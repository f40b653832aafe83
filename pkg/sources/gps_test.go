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
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/carverauto/telemeter/pkg/logger"
	"github.com/carverauto/telemeter/pkg/sensor"
)

func sentence(body string) string {
	var sum byte
	for i := 0; i < len(body); i++ {
		sum ^= body[i]
	}

	return fmt.Sprintf("$%s*%02X", body, sum)
}

var (
	ggaBody = "GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"
	rmcBody = "GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W"
)

func TestNMEAParserFix(t *testing.T) {
	var p nmeaParser

	_, ok, err := p.feed(sentence(ggaBody))
	require.NoError(t, err)
	assert.False(t, ok)

	fix, ok, err := p.feed(sentence(rmcBody))
	require.NoError(t, err)
	require.True(t, ok)

	assert.InDelta(t, 48.1173, fix.Latitude, 1e-9)
	assert.InDelta(t, 11.516667, fix.Longitude, 1e-6)
	assert.InDelta(t, 545.4, fix.Altitude, 1e-9)
	assert.InDelta(t, 11.5235, fix.Speed, 1e-3)
	assert.InDelta(t, 84.4, fix.Bearing, 1e-9)
	assert.InDelta(t, 4.5, fix.Accuracy, 1e-9)
	assert.Equal(t, time.Date(1994, 3, 23, 12, 35, 19, 0, time.UTC), fix.FixTime)
}

func TestNMEAParserRejects(t *testing.T) {
	var p nmeaParser

	_, ok, err := p.feed("$" + rmcBody)
	require.Error(t, err)
	assert.False(t, ok)

	_, ok, err = p.feed("$" + rmcBody + "*00")
	require.Error(t, err)
	assert.False(t, ok)

	_, ok, _ = p.feed(sentence("GPRMC,123519,V,,,,,,,230394,,"))
	assert.False(t, ok)

	_, ok, _ = p.feed(sentence("GPVTG,054.7,T,034.4,M,005.5,N,010.2,K"))
	assert.False(t, ok)
}

func TestNMEAParserClearsAltitudeWithoutFix(t *testing.T) {
	var p nmeaParser

	_, _, err := p.feed(sentence(ggaBody))
	require.NoError(t, err)

	_, ok, err := p.feed(sentence("GPGGA,123520,4807.038,N,01131.000,E,0,00,,,M,,M,,"))
	require.NoError(t, err)
	assert.False(t, ok)

	fix, ok, err := p.feed(sentence(rmcBody))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Zero(t, fix.Altitude)
	assert.Zero(t, fix.Accuracy)
}

func TestSouthWestCoordinates(t *testing.T) {
	var p nmeaParser

	fix, ok, err := p.feed(sentence("GPRMC,081836,A,3347.0000,S,15113.0000,W,000.0,360.0,130998,011.3,E"))
	require.NoError(t, err)
	require.True(t, ok)

	assert.InDelta(t, -33.783333, fix.Latitude, 1e-6)
	assert.InDelta(t, -151.216667, fix.Longitude, 1e-6)
	assert.Equal(t, time.Date(1998, 9, 13, 8, 18, 36, 0, time.UTC), fix.FixTime)
}

func TestPortOptionsSerialMode(t *testing.T) {
	mode, err := PortOptions{}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, 4800, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
	assert.Equal(t, serial.NoParity, mode.Parity)

	mode, err = PortOptions{BaudRate: 9600, StopBits: 2, Parity: "even"}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, serial.TwoStopBits, mode.StopBits)
	assert.Equal(t, serial.EvenParity, mode.Parity)

	_, err = PortOptions{Parity: "mark"}.SerialMode()
	require.Error(t, err)

	_, err = PortOptions{DataBits: 9}.SerialMode()
	require.Error(t, err)
}

func TestSerialGPSSubscribe(t *testing.T) {
	reader, writer := io.Pipe()

	var opened string

	gps := NewSerialGPSWithOpener("/dev/ttyUSB0", PortOptions{}, func(path string, _ *serial.Mode) (io.ReadCloser, error) {
		opened = path
		return reader, nil
	}, logger.NewTestLogger())

	fixes := make(chan sensor.LocationData, 1)

	cancel, err := gps.Subscribe(func(fix sensor.LocationData) { fixes <- fix })
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", opened)

	go func() {
		_, _ = io.WriteString(writer, "garbage\n"+sentence(ggaBody)+"\r\n"+sentence(rmcBody)+"\r\n")
	}()

	select {
	case fix := <-fixes:
		assert.InDelta(t, 48.1173, fix.Latitude, 1e-9)
	case <-time.After(2 * time.Second):
		t.Fatal("no fix delivered")
	}

	cancel()
	cancel()
}

func TestSerialGPSWithoutPort(t *testing.T) {
	_, err := NewSerialGPS("", PortOptions{}, nil).Subscribe(func(sensor.LocationData) {})
	require.Error(t, err)
}
