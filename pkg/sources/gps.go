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
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.bug.st/serial"

	"github.com/carverauto/telemeter/pkg/logger"
	"github.com/carverauto/telemeter/pkg/sensor"
)

var errNoPort = errors.New("gps serial port not configured")

// PortOptions describes the serial line a GPS receiver is attached to.
type PortOptions struct {
	BaudRate int    `json:"baud_rate" yaml:"baud_rate"`
	DataBits int    `json:"data_bits" yaml:"data_bits"`
	StopBits int    `json:"stop_bits" yaml:"stop_bits"`
	Parity   string `json:"parity" yaml:"parity"`
}

// Normalize validates the options and applies NMEA 0183 defaults
// (4800 8N1) to unset fields.
func (o PortOptions) Normalize() (PortOptions, error) {
	opts := o

	if opts.BaudRate <= 0 {
		opts.BaudRate = 4800
	}

	if opts.DataBits == 0 {
		opts.DataBits = 8
	}

	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}

	if opts.StopBits == 0 {
		opts.StopBits = 1
	}

	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}

	switch strings.TrimSpace(strings.ToUpper(opts.Parity)) {
	case "", "N", "NONE":
		opts.Parity = "N"
	case "E", "EVEN":
		opts.Parity = "E"
	case "O", "ODD":
		opts.Parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", opts.Parity)
	}

	return opts, nil
}

// SerialMode converts the options into the go.bug.st/serial mode.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}

	if opts.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}

	switch opts.Parity {
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	}

	return mode, nil
}

// Opener opens a serial port for reading.
type Opener func(path string, mode *serial.Mode) (io.ReadCloser, error)

func openSerial(path string, mode *serial.Mode) (io.ReadCloser, error) {
	return serial.Open(path, mode)
}

// SerialGPS is a location source reading NMEA sentences from a serial
// receiver.
type SerialGPS struct {
	path string
	opts PortOptions
	open Opener
	log  logger.Logger
}

var _ sensor.Source[sensor.LocationData] = (*SerialGPS)(nil)

func NewSerialGPS(path string, opts PortOptions, log logger.Logger) *SerialGPS {
	return NewSerialGPSWithOpener(path, opts, openSerial, log)
}

// NewSerialGPSWithOpener is NewSerialGPS with a custom port opener.
func NewSerialGPSWithOpener(path string, opts PortOptions, open Opener, log logger.Logger) *SerialGPS {
	return &SerialGPS{
		path: path,
		opts: opts,
		open: open,
		log:  logger.Component(log, "gps"),
	}
}

// Subscribe opens the port and delivers a fix per valid RMC sentence
// until the returned cancel func is called.
func (g *SerialGPS) Subscribe(handler func(sensor.LocationData)) (func(), error) {
	if g.path == "" {
		return nil, errNoPort
	}

	mode, err := g.opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := g.open(g.path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open gps port %s: %w", g.path, err)
	}

	var (
		wg   sync.WaitGroup
		once sync.Once
	)

	wg.Add(1)

	go func() {
		defer wg.Done()

		g.monitor(port, handler)
	}()

	return func() {
		once.Do(func() {
			if err := port.Close(); err != nil {
				g.log.Debug().Err(err).Str("port", g.path).Msg("Failed to close gps port")
			}

			wg.Wait()
		})
	}, nil
}

func (g *SerialGPS) monitor(port io.Reader, handler func(sensor.LocationData)) {
	var parser nmeaParser

	scan := bufio.NewScanner(port)

	for scan.Scan() {
		fix, ok, err := parser.feed(scan.Text())
		if err != nil {
			g.log.Debug().Err(err).Msg("Dropped NMEA sentence")
			continue
		}

		if ok {
			handler(fix)
		}
	}

	if err := scan.Err(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		g.log.Warn().Err(err).Str("port", g.path).Msg("GPS read stopped")
	}
}
