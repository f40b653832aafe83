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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/telemeter/pkg/clock"
	"github.com/carverauto/telemeter/pkg/config"
	"github.com/carverauto/telemeter/pkg/logger"
	"github.com/carverauto/telemeter/pkg/sensor"
	"github.com/carverauto/telemeter/pkg/sources"
	"github.com/carverauto/telemeter/pkg/telemeter"
	"github.com/carverauto/telemeter/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/telemeter/agent.yaml", "Path to agent config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg config.AgentConfig
	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	agentLogger, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	agentLogger = logger.Component(agentLogger, "telemeter")

	clk := clock.Real()
	deps := sensor.Deps{
		Clock:     clk,
		Logger:    agentLogger,
		Permitted: sources.Permissions(cfg.Permissions...),
		Host:      sources.NewHostProbe(agentLogger, cfg.Mounts),
		Battery:   sources.NewSysfsBattery(),
		Hardware: sensor.Hardware{
			Temperature: sources.NewThermalSource(clk, 0, "", agentLogger),
		},
	}

	if cfg.GPS.Port != "" {
		deps.Hardware.Location = sources.NewSerialGPS(cfg.GPS.Port, sources.PortOptions{BaudRate: cfg.GPS.BaudRate}, agentLogger)
	}

	if cfg.Link.Target != "" {
		link, err := sources.NewSNMPLink(sources.SNMPLinkConfig{
			Target:     cfg.Link.Target,
			Port:       cfg.Link.Port,
			Community:  cfg.Link.Community,
			Timeout:    time.Duration(cfg.Link.Timeout),
			Retries:    cfg.Link.Retries,
			SignalOID:  cfg.Link.SignalOID,
			NoiseOID:   cfg.Link.NoiseOID,
			QualityOID: cfg.Link.QualityOID,
		})
		if err != nil {
			return fmt.Errorf("failed to configure link probe: %w", err)
		}

		deps.Link = link
	}

	registry, err := sensor.NewRegistry(deps, sensor.DefaultEntries())
	if err != nil {
		return fmt.Errorf("failed to build sensor registry: %w", err)
	}

	local := telemeter.New(registry, telemeter.WithLogger(agentLogger), telemeter.WithClock(clk))
	defer local.StopAll()

	for _, name := range cfg.Sensors {
		if err := local.Enable(ctx, name); err != nil {
			return fmt.Errorf("failed to enable sensor %s: %w", name, err)
		}
	}

	mesh, err := transport.Connect(transport.Config{
		URL:     cfg.NATS.URL,
		Subject: cfg.NATS.Subject,
		NodeID:  cfg.NodeID,
		TLS:     &cfg.NATS.TLS,
	}, registry, agentLogger)
	if err != nil {
		return err
	}

	defer func() {
		if err := mesh.Close(); err != nil {
			agentLogger.Warn().Err(err).Msg("Failed to close mesh")
		}
	}()

	if err := mesh.Listen(local, func(r transport.Report) {
		for _, rendered := range r.Telemeter.Render(ctx, local) {
			agentLogger.Info().
				Str("node", r.Node).
				Str("sensor", rendered.Name).
				Interface("values", rendered.Values).
				Interface("relative", rendered.Relative).
				Msg("Peer telemetry")
		}
	}); err != nil {
		return err
	}

	agentLogger.Info().
		Str("node_id", cfg.NodeID).
		Strs("sensors", local.Sensors()).
		Dur("interval", time.Duration(cfg.PublishInterval)).
		Msg("Telemeter started")

	err = mesh.Run(ctx, local, time.Duration(cfg.PublishInterval))
	if errors.Is(err, context.Canceled) {
		agentLogger.Info().Msg("Shutting down")
		return nil
	}

	return err
}
