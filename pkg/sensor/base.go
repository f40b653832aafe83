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
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carverauto/telemeter/pkg/logger"
	"github.com/carverauto/telemeter/pkg/wire"
)

// instrument is the per-kind strategy plugged into base. setup and
// teardown bracket an active period; refresh pulls a new snapshot and is
// a no-op for push-based kinds; encode, decode, and render are the
// kind's wire layout and display mapping.
type instrument[T any] interface {
	setup(ctx context.Context) bool
	teardown()
	refresh(ctx context.Context)
	encode(w *wire.Writer, v *T)
	decode(r *wire.Reader) (v *T, measured time.Time, err error)
	render(v, relative *T) *Rendered
}

// snapshotter is satisfied by every kind embedding base[T]; Render uses
// it to reach a peer sensor's snapshot without a refresh.
type snapshotter[T any] interface {
	snapshot() *T
}

// base is the lifecycle skeleton shared by all kinds. The snapshot is
// published by atomic pointer swap so readers always see a complete
// record; timestamps are unix nanoseconds with zero meaning never.
type base[T any] struct {
	id         ID
	name       string
	staleness  time.Duration
	permission Permission
	deps       Deps
	log        logger.Logger
	inst       instrument[T]

	data        atomic.Pointer[T]
	active      atomic.Bool
	synthesized atomic.Bool
	lastUpdate  atomic.Int64
	lastRead    atomic.Int64

	lifecycle sync.Mutex
}

func (b *base[T]) init(id ID, name string, staleness time.Duration, deps Deps, inst instrument[T]) {
	b.id = id
	b.name = name
	b.staleness = staleness
	b.deps = deps.withDefaults()
	b.log = logger.Component(b.deps.Logger, "sensor")
	b.inst = inst
}

func (b *base[T]) ID() ID                   { return b.id }
func (b *base[T]) Name() string             { return b.name }
func (b *base[T]) Staleness() time.Duration { return b.staleness }
func (b *base[T]) Active() bool             { return b.active.Load() }
func (b *base[T]) Synthesized() bool        { return b.synthesized.Load() }
func (b *base[T]) LastUpdate() time.Time    { return fromNanos(b.lastUpdate.Load()) }
func (b *base[T]) LastRead() time.Time      { return fromNanos(b.lastRead.Load()) }

func (b *base[T]) MarkSynthesized() { b.synthesized.Store(true) }

func (b *base[T]) Start(ctx context.Context) {
	if b.synthesized.Load() {
		return
	}

	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()

	if b.active.Load() {
		return
	}

	if !b.deps.permitted(b.permission) {
		b.log.Debug().
			Str("sensor", b.name).
			Str("permission", string(b.permission)).
			Msg("Permission not granted; sensor stays inactive")

		return
	}

	if !b.inst.setup(ctx) {
		return
	}

	b.active.Store(true)
	b.inst.refresh(ctx)
}

func (b *base[T]) Stop() {
	if b.synthesized.Load() {
		return
	}

	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()

	if !b.active.Load() {
		return
	}

	b.inst.teardown()
	b.active.Store(false)
}

func (b *base[T]) Data(ctx context.Context) any {
	v := b.current(ctx)
	if v == nil {
		return nil
	}

	return v
}

// current returns the snapshot after any staleness-driven refresh.
func (b *base[T]) current(ctx context.Context) *T {
	if b.stale() {
		b.inst.refresh(ctx)
	}

	b.lastRead.Store(b.deps.Clock.Now().UnixNano())

	return b.data.Load()
}

// stale reports whether a read must refresh first: only live, active
// sensors with a staleness interval whose snapshot is at least that old.
func (b *base[T]) stale() bool {
	if b.synthesized.Load() || !b.active.Load() || b.staleness <= 0 {
		return false
	}

	last := b.lastUpdate.Load()
	if last == 0 {
		return true
	}

	return b.deps.Clock.Now().Sub(fromNanos(last)) >= b.staleness
}

func (b *base[T]) snapshot() *T { return b.data.Load() }

func (b *base[T]) logSubscribeFailure(err error) {
	b.log.Warn().Err(err).Str("sensor", b.name).Msg("Failed to subscribe to instrument; treating as absent")
}

// publish swaps in a new snapshot stamped with the current time.
func (b *base[T]) publish(v *T) {
	b.publishAt(v, b.deps.Clock.Now())
}

func (b *base[T]) publishAt(v *T, at time.Time) {
	b.data.Store(v)
	b.lastUpdate.Store(at.UnixNano())
}

func (b *base[T]) Pack() ([]byte, bool) {
	v := b.data.Load()
	if v == nil {
		return nil, false
	}

	w := wire.NewWriter(32)
	b.inst.encode(w, v)

	if err := w.Err(); err != nil {
		b.log.Warn().Err(err).Str("sensor", b.name).Msg("Failed to pack sensor")
		return nil, false
	}

	return w.Bytes(), true
}

func (b *base[T]) Unpack(payload []byte) error {
	r := wire.NewReader(payload)

	v, measured, err := b.inst.decode(r)
	if err == nil {
		err = r.Err()
	}

	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedPayload, b.name, err)
	}

	if measured.IsZero() {
		measured = b.deps.Clock.Now()
	}

	b.synthesized.Store(true)
	b.active.Store(true)
	b.publishAt(v, measured)

	return nil
}

func (b *base[T]) Render(relativeTo Sensor) *Rendered {
	v := b.data.Load()
	if v == nil {
		return nil
	}

	var relative *T

	if peer, ok := relativeTo.(snapshotter[T]); ok {
		relative = peer.snapshot()
	}

	r := b.inst.render(v, relative)
	if r == nil {
		return nil
	}

	r.Name = b.name
	r.Synthesized = b.synthesized.Load()
	r.Updated = b.LastUpdate()

	return r
}

// passive is embedded by kinds with no instrument to acquire: their
// values are set through explicit update methods.
type passive struct{}

func (passive) setup(context.Context) bool { return true }
func (passive) teardown()                  {}
func (passive) refresh(context.Context)    {}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}

	return time.Unix(0, n).UTC()
}
