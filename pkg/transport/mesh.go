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

// Package transport carries packed telemetry between nodes over NATS.
// Each node publishes its report on <subject>.<node-id> and listens on
// <subject>.* for its peers.
package transport

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/telemeter/pkg/clock"
	"github.com/carverauto/telemeter/pkg/logger"
	"github.com/carverauto/telemeter/pkg/sensor"
	"github.com/carverauto/telemeter/pkg/telemeter"
)

var (
	errNodeIDRequired   = errors.New("node id is required")
	errAlreadyListening = errors.New("mesh is already subscribed")
)

const (
	// DefaultSubject is the subject prefix used when none is configured.
	DefaultSubject = "telemetry"

	headerNode  = "Telemeter-Node"
	headerRelay = "Telemeter-Relay"
	viaNATS     = "nats"
)

// Config identifies this node on the mesh.
type Config struct {
	URL     string
	Subject string
	NodeID  string
	TLS     *TLSConfig
}

// Report is the latest telemetry received from a peer.
type Report struct {
	Node       string
	Telemeter  *telemeter.Telemeter
	ReceivedAt time.Time
}

// Mesh publishes local telemetry and tracks the last report of each peer.
type Mesh struct {
	cfg      Config
	nc       *nats.Conn
	owned    bool
	registry *sensor.Registry
	clock    clock.Clock
	log      logger.Logger

	mu    sync.RWMutex
	peers map[string]Report
	sub   *nats.Subscription
}

// Connect dials the broker at cfg.URL and returns a mesh owning the
// connection.
func Connect(cfg Config, registry *sensor.Registry, log logger.Logger, opts ...nats.Option) (*Mesh, error) {
	log = logger.Component(log, "mesh")

	base := []nats.Option{
		nats.Name("telemeter-" + cfg.NodeID),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Warn().Err(err).Msg("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	if cfg.TLS.Enabled() {
		tlsConf, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}

		base = append(base, nats.Secure(tlsConf))
	}

	nc, err := nats.Connect(cfg.URL, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	m, err := New(nc, cfg, registry, log)
	if err != nil {
		nc.Close()
		return nil, err
	}

	m.owned = true

	return m, nil
}

// New wraps an existing connection. The caller keeps ownership of nc.
func New(nc *nats.Conn, cfg Config, registry *sensor.Registry, log logger.Logger) (*Mesh, error) {
	if cfg.NodeID == "" {
		return nil, errNodeIDRequired
	}

	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}

	return &Mesh{
		cfg:      cfg,
		nc:       nc,
		registry: registry,
		clock:    registry.Deps().Clock,
		log:      logger.Component(log, "mesh"),
		peers:    make(map[string]Report),
	}, nil
}

func (m *Mesh) subject(node string) string {
	return m.cfg.Subject + "." + node
}

// Publish sends the packed report of t on this node's subject.
func (m *Mesh) Publish(ctx context.Context, t *telemeter.Telemeter) error {
	msg := nats.NewMsg(m.subject(m.cfg.NodeID))
	msg.Header.Set(headerNode, m.cfg.NodeID)
	msg.Data = t.Packed(ctx)

	if err := m.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish telemetry: %w", err)
	}

	m.log.Debug().Int("bytes", len(msg.Data)).Msg("Published telemetry")

	return nil
}

// Listen subscribes to peer reports. Each decoded report is stamped with
// how it arrived relative to local's location, stored as the peer's
// latest, and passed to onReport when set. Malformed reports are
// dropped.
func (m *Mesh) Listen(local *telemeter.Telemeter, onReport func(Report)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sub != nil {
		return errAlreadyListening
	}

	sub, err := m.nc.Subscribe(m.cfg.Subject+".*", func(msg *nats.Msg) {
		if r, ok := m.receive(local, msg); ok && onReport != nil {
			onReport(r)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s.*: %w", m.cfg.Subject, err)
	}

	if err := m.nc.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return fmt.Errorf("failed to flush subscription: %w", err)
	}

	m.sub = sub

	return nil
}

func (m *Mesh) receive(local *telemeter.Telemeter, msg *nats.Msg) (Report, bool) {
	node := strings.TrimPrefix(msg.Subject, m.cfg.Subject+".")
	if node == m.cfg.NodeID {
		return Report{}, false
	}

	remote, err := telemeter.FromPacked(m.registry, msg.Data)
	if err != nil {
		m.log.Debug().Err(err).Str("node", node).Msg("Dropped malformed telemetry")
		return Report{}, false
	}

	by := node
	if msg.Header != nil {
		if relay := msg.Header.Get(headerRelay); relay != "" {
			by = relay
		}
	}

	var here *sensor.LocationData
	if local != nil {
		here, _ = local.Read(context.Background(), sensor.NameLocation).(*sensor.LocationData)
	}

	if err := remote.MarkReceived(by, viaNATS, here); err != nil {
		m.log.Debug().Err(err).Str("node", node).Msg("Failed to record receipt")
	}

	r := Report{Node: node, Telemeter: remote, ReceivedAt: m.clock.Now()}

	m.mu.Lock()
	m.peers[node] = r
	m.mu.Unlock()

	return r, true
}

// Peer returns the latest report from node.
func (m *Mesh) Peer(node string) (Report, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.peers[node]

	return r, ok
}

// Peers lists the nodes heard from, sorted.
func (m *Mesh) Peers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := make([]string, 0, len(m.peers))
	for node := range m.peers {
		nodes = append(nodes, node)
	}

	sort.Strings(nodes)

	return nodes
}

// Run publishes t every interval until ctx is done. A failed publish is
// logged and retried on the next tick.
func (m *Mesh) Run(ctx context.Context, t *telemeter.Telemeter, interval time.Duration) error {
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	if err := m.Publish(ctx, t); err != nil {
		m.log.Warn().Err(err).Msg("Publish failed")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := m.Publish(ctx, t); err != nil {
				m.log.Warn().Err(err).Msg("Publish failed")
			}
		}
	}
}

// Close unsubscribes and, when the mesh dialed the connection, drains it.
func (m *Mesh) Close() error {
	m.mu.Lock()
	sub := m.sub
	m.sub = nil
	m.mu.Unlock()

	if sub != nil {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			return fmt.Errorf("failed to unsubscribe: %w", err)
		}
	}

	if m.owned {
		return m.nc.Drain()
	}

	return nil
}
