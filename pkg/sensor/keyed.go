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
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carverauto/telemeter/pkg/wire"
)

var errEntryCount = errors.New("entry count exceeds payload")

// record is implemented by the per-label value types of keyed kinds.
type record[R any] interface {
	normalize() R
	encode(w *wire.Writer)
	decode(r *wire.Reader) R
	values() map[string]any
}

// Labeled is an immutable label to record map. A new one is built on
// every update, so holders of a previous snapshot never see it change.
type Labeled[R any] struct {
	entries map[string]R
}

// Get returns the record stored under label.
func (l *Labeled[R]) Get(label string) (R, bool) {
	if l == nil {
		var zero R
		return zero, false
	}

	e, ok := l.entries[label]

	return e, ok
}

// Labels returns the labels in sorted order.
func (l *Labeled[R]) Labels() []string {
	if l == nil {
		return nil
	}

	labels := make([]string, 0, len(l.entries))
	for label := range l.entries {
		labels = append(labels, label)
	}

	sort.Strings(labels)

	return labels
}

func (l *Labeled[R]) Len() int {
	if l == nil {
		return 0
	}

	return len(l.entries)
}

func (l *Labeled[R]) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("null"), nil
	}

	return json.Marshal(l.entries)
}

func (l *Labeled[R]) with(label string, e R) *Labeled[R] {
	next := &Labeled[R]{entries: make(map[string]R, l.Len()+1)}

	if l != nil {
		for k, v := range l.entries {
			next.entries[k] = v
		}
	}

	next.entries[label] = e

	return next
}

func (l *Labeled[R]) without(label string) *Labeled[R] {
	next := &Labeled[R]{entries: make(map[string]R, l.Len())}

	for k, v := range l.entries {
		if k != label {
			next.entries[k] = v
		}
	}

	return next
}

// keyed is the shared body of multi-instance kinds. Writers serialize on
// a mutex and publish a fresh map; readers only touch the atomic pointer.
type keyed[R record[R]] struct {
	base[Labeled[R]]

	fallback string
	icon     string
	writer   sync.Mutex
}

func (k *keyed[R]) initKeyed(id ID, name string, staleness time.Duration, deps Deps,
	inst instrument[Labeled[R]], fallback, icon string) {
	k.fallback = fallback
	k.icon = icon
	k.init(id, name, staleness, deps, inst)
}

// Snapshot returns the current label map, refreshing first when stale.
func (k *keyed[R]) Snapshot(ctx context.Context) *Labeled[R] { return k.current(ctx) }

// DefaultLabel is the label used when an update names none.
func (k *keyed[R]) DefaultLabel() string { return k.fallback }

// UpdateEntry replaces the record stored under label.
func (k *keyed[R]) UpdateEntry(label string, e R) {
	if label == "" {
		label = k.fallback
	}

	k.writer.Lock()
	defer k.writer.Unlock()

	k.publish(k.data.Load().with(label, e.normalize()))
}

// replace publishes entries as the whole label map, dropping every label
// absent from it.
func (k *keyed[R]) replace(entries map[string]R) {
	next := &Labeled[R]{entries: make(map[string]R, len(entries))}

	for label, e := range entries {
		if label == "" {
			label = k.fallback
		}

		next.entries[label] = e.normalize()
	}

	k.writer.Lock()
	defer k.writer.Unlock()

	k.publish(next)
}

// RemoveEntry drops label and reports whether it was present.
func (k *keyed[R]) RemoveEntry(label string) bool {
	if label == "" {
		label = k.fallback
	}

	k.writer.Lock()
	defer k.writer.Unlock()

	current := k.data.Load()
	if _, ok := current.Get(label); !ok {
		return false
	}

	k.publish(current.without(label))

	return true
}

func (k *keyed[R]) encode(w *wire.Writer, v *Labeled[R]) {
	labels := v.Labels()

	w.Int32(int32(len(labels)))

	for _, label := range labels {
		w.Text(label)
		v.entries[label].encode(w)
	}
}

func (k *keyed[R]) decode(r *wire.Reader) (*Labeled[R], time.Time, error) {
	n := r.Int32()
	if err := r.Err(); err != nil {
		return nil, time.Time{}, err
	}

	// every entry carries at least its label length prefix
	if n < 0 || int(n)*2 > r.Remaining() {
		return nil, time.Time{}, fmt.Errorf("%w: %d", errEntryCount, n)
	}

	out := &Labeled[R]{entries: make(map[string]R, n)}

	var zero R

	for range n {
		label := r.Text()
		e := zero.decode(r)

		if err := r.Err(); err != nil {
			return nil, time.Time{}, err
		}

		out.entries[label] = e
	}

	return out, time.Time{}, nil
}

func (k *keyed[R]) render(v, _ *Labeled[R]) *Rendered {
	if v.Len() == 0 {
		return nil
	}

	values := make(map[string]any, v.Len())
	for label, e := range v.entries {
		values[label] = e.values()
	}

	return newRendered(k.icon, values)
}
