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

//go:generate mockgen -destination=mock_snmp.go -package=sources github.com/carverauto/telemeter/pkg/sources SNMPClient

package sources

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/carverauto/telemeter/pkg/sensor"
)

var (
	errNoLinkTarget = errors.New("snmp link target is required")
	errNoSignalOID  = errors.New("snmp link signal oid is required")
	errNoSignal     = errors.New("radio reported no signal level")
)

// Signal, noise floor and CCQ of the first AirMAX station.
const (
	DefaultSignalOID  = ".1.3.6.1.4.1.41112.1.4.5.1.5.1"
	DefaultNoiseOID   = ".1.3.6.1.4.1.41112.1.4.5.1.8.1"
	DefaultQualityOID = ".1.3.6.1.4.1.41112.1.4.5.1.7.1"

	defaultSNMPPort    = 161
	defaultSNMPTimeout = 2 * time.Second
)

// SNMPClient is the part of gosnmp.GoSNMP the link probe drives.
type SNMPClient interface {
	Connect() error
	Get(oids []string) (*gosnmp.SnmpPacket, error)
	Close() error
}

// SNMPLinkConfig locates the SNMP agent of the radio carrying telemetry.
// NoiseOID and QualityOID are optional.
type SNMPLinkConfig struct {
	Target     string
	Port       uint16
	Community  string
	Timeout    time.Duration
	Retries    int
	SignalOID  string
	NoiseOID   string
	QualityOID string
}

// SNMPLink reads signal, SNR and link quality from the attached radio
// with one SNMP v2c GET per read.
type SNMPLink struct {
	cfg  SNMPLinkConfig
	dial func(ctx context.Context) SNMPClient
}

var _ sensor.LinkProbe = (*SNMPLink)(nil)

func NewSNMPLink(cfg SNMPLinkConfig) (*SNMPLink, error) {
	return newSNMPLink(cfg, nil)
}

func newSNMPLink(cfg SNMPLinkConfig, dial func(ctx context.Context) SNMPClient) (*SNMPLink, error) {
	if cfg.Target == "" {
		return nil, errNoLinkTarget
	}

	if cfg.SignalOID == "" {
		return nil, errNoSignalOID
	}

	if cfg.Port == 0 {
		cfg.Port = defaultSNMPPort
	}

	if cfg.Community == "" {
		cfg.Community = "public"
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSNMPTimeout
	}

	l := &SNMPLink{cfg: cfg, dial: dial}
	if l.dial == nil {
		l.dial = l.client
	}

	return l, nil
}

func (l *SNMPLink) client(ctx context.Context) SNMPClient {
	return &gosnmp.GoSNMP{
		Target:             l.cfg.Target,
		Port:               l.cfg.Port,
		Community:          l.cfg.Community,
		Version:            gosnmp.Version2c,
		Timeout:            l.cfg.Timeout,
		Retries:            l.cfg.Retries,
		MaxOids:            gosnmp.MaxOids,
		ExponentialTimeout: true,
		Context:            ctx,
	}
}

func (l *SNMPLink) oids() []string {
	oids := []string{l.cfg.SignalOID}

	for _, oid := range []string{l.cfg.NoiseOID, l.cfg.QualityOID} {
		if oid != "" {
			oids = append(oids, oid)
		}
	}

	return oids
}

// ReadLink polls the radio. SNR is signal minus noise floor and stays
// zero without a noise OID.
func (l *SNMPLink) ReadLink(ctx context.Context) (sensor.PhysicalLinkData, error) {
	client := l.dial(ctx)

	if err := client.Connect(); err != nil {
		return sensor.PhysicalLinkData{}, fmt.Errorf("failed to connect to %s: %w", l.cfg.Target, err)
	}

	defer func() { _ = client.Close() }()

	result, err := client.Get(l.oids())
	if err != nil {
		return sensor.PhysicalLinkData{}, fmt.Errorf("SNMP Get failed: %w", err)
	}

	if result.Error != gosnmp.NoError {
		return sensor.PhysicalLinkData{}, fmt.Errorf("SNMP error: %s", result.Error)
	}

	values := make(map[string]float64, len(result.Variables))

	for _, v := range result.Variables {
		if n, ok := pduNumber(v); ok {
			values[normalizeOID(v.Name)] = n
		}
	}

	signal, ok := values[normalizeOID(l.cfg.SignalOID)]
	if !ok {
		return sensor.PhysicalLinkData{}, errNoSignal
	}

	out := sensor.PhysicalLinkData{RSSI: signal}

	if noise, ok := values[normalizeOID(l.cfg.NoiseOID)]; ok && l.cfg.NoiseOID != "" {
		out.SNR = signal - noise
	}

	if q, ok := values[normalizeOID(l.cfg.QualityOID)]; ok && l.cfg.QualityOID != "" {
		out.Q = q
	}

	return out, nil
}

// pduNumber reads a numeric variable. Some radios report levels as
// decimal strings.
func pduNumber(v gosnmp.SnmpPDU) (float64, bool) {
	switch v.Type {
	case gosnmp.Integer, gosnmp.Gauge32, gosnmp.Counter32, gosnmp.Counter64, gosnmp.Uinteger32:
		return float64(gosnmp.ToBigInt(v.Value).Int64()), true
	case gosnmp.OctetString:
		b, ok := v.Value.([]byte)
		if !ok {
			return 0, false
		}

		n, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
		if err != nil {
			return 0, false
		}

		return n, true
	default:
		return 0, false
	}
}

func normalizeOID(oid string) string {
	return strings.TrimPrefix(oid, ".")
}
