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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/telemeter/pkg/logger"
	"github.com/carverauto/telemeter/pkg/sources"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadJSONFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := writeFile(t, "agent.json", `{
		"node_id": "rover-1",
		"sensors": ["battery", "ram"],
		"publish_interval": "10s",
		"nats": {"url": "nats://broker:4222"},
		"logging": {"level": "debug"}
	}`)

	var cfg AgentConfig

	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, "rover-1", cfg.NodeID)
	assert.Equal(t, []string{"battery", "ram"}, cfg.Sensors)
	assert.Equal(t, Duration(10*time.Second), cfg.PublishInterval)
	assert.Equal(t, "nats://broker:4222", cfg.NATS.URL)
	assert.Equal(t, "telemetry", cfg.NATS.Subject)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadYAMLFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "file")

	path := writeFile(t, "agent.yaml", `
sensors: [processor, nvm, location]
publish_interval: 1m
mounts: ["/", "/data"]
gps:
  port: /dev/ttyACM0
  baud_rate: 9600
link:
  target: 192.168.1.20
  community: telemetry
  timeout: 3s
  noise_oid: .1.3.6.1.4.1.14988.1.1.1.2.1.13.1
permissions: [location]
`)

	var cfg AgentConfig

	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, Duration(time.Minute), cfg.PublishInterval)
	assert.Equal(t, []string{"/", "/data"}, cfg.Mounts)
	assert.Equal(t, "/dev/ttyACM0", cfg.GPS.Port)
	assert.Equal(t, 9600, cfg.GPS.BaudRate)
	assert.Equal(t, []string{"location"}, cfg.Permissions)

	assert.Equal(t, "192.168.1.20", cfg.Link.Target)
	assert.Equal(t, "telemetry", cfg.Link.Community)
	assert.Equal(t, Duration(3*time.Second), cfg.Link.Timeout)
	assert.Equal(t, sources.DefaultSignalOID, cfg.Link.SignalOID)
	assert.Equal(t, ".1.3.6.1.4.1.14988.1.1.1.2.1.13.1", cfg.Link.NoiseOID)
	assert.Equal(t, sources.DefaultQualityOID, cfg.Link.QualityOID)

	_, err := uuid.Parse(cfg.NodeID)
	require.NoError(t, err, "node id defaults to a uuid")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("TELEMETER_NODE_ID", "buoy-3")
	t.Setenv("TELEMETER_SENSORS", "battery, temperature")
	t.Setenv("TELEMETER_PUBLISH_INTERVAL", "45s")
	t.Setenv("TELEMETER_NATS_URL", "nats://10.0.0.2:4222")
	t.Setenv("TELEMETER_GPS_BAUD_RATE", "4800")
	t.Setenv("TELEMETER_LOGGING_DEBUG", "true")

	var cfg AgentConfig

	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg))

	assert.Equal(t, "buoy-3", cfg.NodeID)
	assert.Equal(t, []string{"battery", "temperature"}, cfg.Sensors)
	assert.Equal(t, Duration(45*time.Second), cfg.PublishInterval)
	assert.Equal(t, "nats://10.0.0.2:4222", cfg.NATS.URL)
	assert.Equal(t, 4800, cfg.GPS.BaudRate)
	assert.True(t, cfg.Logging.Debug)
}

func TestLoadFromEnvJSON(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("CONFIG_ENV_PREFIX", "TM_")
	t.Setenv("TM_CONFIG_JSON", `{"node_id":"n1","publish_interval":5}`)

	var cfg AgentConfig

	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg))
	assert.Equal(t, "n1", cfg.NodeID)
	assert.Equal(t, Duration(5*time.Second), cfg.PublishInterval)
}

func TestLoadFromEnvRejectsMalformed(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("TELEMETER_PUBLISH_INTERVAL", "soon")

	var cfg AgentConfig

	require.Error(t, NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg))
}

func TestInvalidConfigSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "kv")

	var cfg AgentConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg)
	require.ErrorIs(t, err, errInvalidConfigSource)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  AgentConfig
		err  error
	}{
		{name: "defaults", cfg: AgentConfig{}},
		{name: "unknown sensor", cfg: AgentConfig{Sensors: []string{"sonar"}}, err: errUnknownSensor},
		{name: "unknown permission", cfg: AgentConfig{Permissions: []string{"camera"}}, err: errUnknownPermission},
		{name: "short interval", cfg: AgentConfig{PublishInterval: Duration(time.Millisecond)}, err: errPublishInterval},
		{name: "padded permission", cfg: AgentConfig{Permissions: []string{" Location "}}},
		{name: "dotted node id", cfg: AgentConfig{NodeID: "rover.1"}, err: errInvalidNodeID},
		{name: "wildcard node id", cfg: AgentConfig{NodeID: "rover-*"}, err: errInvalidNodeID},
		{name: "tail wildcard node id", cfg: AgentConfig{NodeID: ">"}, err: errInvalidNodeID},
		{name: "spaced node id", cfg: AgentConfig{NodeID: "rover 1"}, err: errInvalidNodeID},
		{name: "negative link timeout", cfg: AgentConfig{Link: LinkConfig{Target: "radio", Timeout: Duration(-time.Second)}}, err: errLinkTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.err == nil {
				require.NoError(t, err)
				assert.NotEmpty(t, tt.cfg.NodeID)
				assert.Equal(t, Duration(30*time.Second), tt.cfg.PublishInterval)

				return
			}

			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestValidateNormalizesPermissions(t *testing.T) {
	cfg := AgentConfig{NodeID: "rover-1", Permissions: []string{" Location ", "MOTION"}}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"location", "motion"}, cfg.Permissions)
	assert.Equal(t, "rover-1", cfg.NodeID)
}

func TestEnvLoaderRejectsNonPointer(t *testing.T) {
	t.Setenv("X_CONFIG_JSON", "")

	loader := NewEnvConfigLoader(nil, "X_")

	require.ErrorIs(t, loader.Load(context.Background(), "", AgentConfig{}), ErrDstMustBeNonNilPointer)

	s := "x"
	require.ErrorIs(t, loader.Load(context.Background(), "", &s), ErrDstMustBePointerToStruct)
}
