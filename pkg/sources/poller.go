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

// Package sources provides host-side instruments for sensors: a gopsutil
// backed host probe, a sysfs battery probe, a serial NMEA GPS, and a
// polling adapter that turns periodic reads into push sources.
package sources

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/carverauto/telemeter/pkg/clock"
	"github.com/carverauto/telemeter/pkg/logger"
	"github.com/carverauto/telemeter/pkg/sensor"
)

var errInvalidInterval = errors.New("poll interval must be positive")

// Poller samples read on a fixed interval and pushes each successful
// reading to its subscriber. The first sample is taken during Subscribe.
type Poller[T any] struct {
	clock    clock.Clock
	interval time.Duration
	read     func(context.Context) (T, error)
	log      logger.Logger
}

var _ sensor.Source[float64] = (*Poller[float64])(nil)

// NewPoller returns a push source over read.
func NewPoller[T any](clk clock.Clock, interval time.Duration, read func(context.Context) (T, error), log logger.Logger) *Poller[T] {
	if clk == nil {
		clk = clock.Real()
	}

	return &Poller[T]{
		clock:    clk,
		interval: interval,
		read:     read,
		log:      logger.Component(log, "poller"),
	}
}

func (p *Poller[T]) Subscribe(handler func(T)) (func(), error) {
	if p.interval <= 0 {
		return nil, errInvalidInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	p.sample(ctx, handler)

	ticker := p.clock.NewTicker(p.interval)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.sample(ctx, handler)
			}
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}, nil
}

func (p *Poller[T]) sample(ctx context.Context, handler func(T)) {
	v, err := p.read(ctx)
	if err != nil {
		p.log.Debug().Err(err).Msg("Poll failed")
		return
	}

	handler(v)
}
