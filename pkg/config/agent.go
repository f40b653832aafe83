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

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/carverauto/telemeter/pkg/logger"
	"github.com/carverauto/telemeter/pkg/sensor"
	"github.com/carverauto/telemeter/pkg/sources"
	"github.com/carverauto/telemeter/pkg/transport"
)

var (
	errUnknownSensor     = errors.New("unknown sensor")
	errUnknownPermission = errors.New("unknown permission")
	errPublishInterval   = errors.New("publish_interval must be at least 1s")
	errNATSURL           = errors.New("nats.url is required")
	errInvalidNodeID     = errors.New("node_id must not contain '.', '*', '>' or whitespace")
	errLinkTimeout       = errors.New("link.timeout must not be negative")
)

const (
	defaultPublishInterval = 30 * time.Second
	minPublishInterval     = time.Second
	defaultNATSURL         = "nats://127.0.0.1:4222"
	defaultSubject         = "telemetry"
)

// Duration is a time.Duration that reads "30s" style strings from JSON,
// YAML, and environment variables. Bare JSON numbers are seconds.
type Duration time.Duration

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(value * float64(time.Second))
		return nil
	case string:
		return d.UnmarshalText([]byte(value))
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}

	*d = Duration(parsed)

	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) { return d.String(), nil }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// NATSConfig locates the broker carrying telemetry between nodes.
type NATSConfig struct {
	URL     string              `json:"url" yaml:"url"`
	Subject string              `json:"subject" yaml:"subject"`
	TLS     transport.TLSConfig `json:"tls" yaml:"tls"`
}

// GPSConfig names the serial port of an NMEA receiver. An empty port
// means no GPS.
type GPSConfig struct {
	Port     string `json:"port" yaml:"port"`
	BaudRate int    `json:"baud_rate" yaml:"baud_rate"`
}

// LinkConfig points at the SNMP agent of the radio carrying telemetry. An
// empty target means no physical link readings. Unset OIDs default to the
// AirMAX wireless statistics table.
type LinkConfig struct {
	Target     string   `json:"target" yaml:"target"`
	Port       uint16   `json:"port" yaml:"port"`
	Community  string   `json:"community" yaml:"community"`
	Timeout    Duration `json:"timeout" yaml:"timeout"`
	Retries    int      `json:"retries" yaml:"retries"`
	SignalOID  string   `json:"signal_oid" yaml:"signal_oid"`
	NoiseOID   string   `json:"noise_oid" yaml:"noise_oid"`
	QualityOID string   `json:"quality_oid" yaml:"quality_oid"`
}

func (l *LinkConfig) validate() error {
	if l.Target == "" {
		return nil
	}

	if l.Timeout < 0 {
		return fmt.Errorf("%w: got %s", errLinkTimeout, l.Timeout)
	}

	if l.SignalOID == "" {
		l.SignalOID = sources.DefaultSignalOID
	}

	if l.NoiseOID == "" {
		l.NoiseOID = sources.DefaultNoiseOID
	}

	if l.QualityOID == "" {
		l.QualityOID = sources.DefaultQualityOID
	}

	return nil
}

// AgentConfig is the configuration of the telemeter agent.
type AgentConfig struct {
	NodeID          string        `json:"node_id" yaml:"node_id"`
	Sensors         []string      `json:"sensors" yaml:"sensors"`
	PublishInterval Duration      `json:"publish_interval" yaml:"publish_interval"`
	Mounts          []string      `json:"mounts" yaml:"mounts"`
	NATS            NATSConfig    `json:"nats" yaml:"nats"`
	GPS             GPSConfig     `json:"gps" yaml:"gps"`
	Link            LinkConfig    `json:"link" yaml:"link"`
	Permissions     []string      `json:"permissions" yaml:"permissions"`
	Logging         logger.Config `json:"logging" yaml:"logging"`
}

var _ Validator = (*AgentConfig)(nil)

// Validate fills defaults and rejects unknown sensors or permissions.
func (c *AgentConfig) Validate() error {
	if c.NodeID == "" {
		c.NodeID = uuid.NewString()
	}

	// the node id is one token of the <subject>.<node> NATS subject
	if strings.ContainsAny(c.NodeID, ".*> \t\r\n") {
		return fmt.Errorf("%w: %q", errInvalidNodeID, c.NodeID)
	}

	if c.PublishInterval == 0 {
		c.PublishInterval = Duration(defaultPublishInterval)
	}

	if time.Duration(c.PublishInterval) < minPublishInterval {
		return fmt.Errorf("%w: got %s", errPublishInterval, c.PublishInterval)
	}

	if c.NATS.URL == "" {
		c.NATS.URL = defaultNATSURL
	}

	if c.NATS.Subject == "" {
		c.NATS.Subject = defaultSubject
	}

	known := make(map[string]struct{})
	for _, e := range sensor.DefaultEntries() {
		known[e.Name] = struct{}{}
	}

	for _, name := range c.Sensors {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("%w: %q", errUnknownSensor, name)
		}
	}

	for i, p := range c.Permissions {
		normalized := sensor.Permission(strings.ToLower(strings.TrimSpace(p)))

		switch normalized {
		case sensor.PermissionLocation, sensor.PermissionMotion:
			c.Permissions[i] = string(normalized)
		default:
			return fmt.Errorf("%w: %q", errUnknownPermission, p)
		}
	}

	if strings.TrimSpace(c.NATS.URL) == "" {
		return errNATSURL
	}

	if err := c.Link.validate(); err != nil {
		return err
	}

	return nil
}
