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
	"errors"
	"fmt"
	"sort"
)

var errInvalidEntry = errors.New("invalid registry entry")

// Creator builds a fresh sensor of one kind.
type Creator func(deps Deps) Sensor

// Entry binds a kind's wire id and name to its creator.
type Entry struct {
	ID     ID
	Name   string
	Create Creator
}

// DefaultEntries returns every built-in kind in wire id order.
func DefaultEntries() []Entry {
	return []Entry{
		{IDTime, NameTime, func(d Deps) Sensor { return NewTime(d) }},
		{IDLocation, NameLocation, func(d Deps) Sensor { return NewLocation(d) }},
		{IDPressure, NamePressure, func(d Deps) Sensor { return NewPressure(d) }},
		{IDBattery, NameBattery, func(d Deps) Sensor { return NewBattery(d) }},
		{IDPhysicalLink, NamePhysicalLink, func(d Deps) Sensor { return NewPhysicalLink(d) }},
		{IDAcceleration, NameAcceleration, func(d Deps) Sensor { return NewAcceleration(d) }},
		{IDTemperature, NameTemperature, func(d Deps) Sensor { return NewTemperature(d) }},
		{IDHumidity, NameHumidity, func(d Deps) Sensor { return NewHumidity(d) }},
		{IDMagneticField, NameMagneticField, func(d Deps) Sensor { return NewMagneticField(d) }},
		{IDAmbientLight, NameAmbientLight, func(d Deps) Sensor { return NewAmbientLight(d) }},
		{IDGravity, NameGravity, func(d Deps) Sensor { return NewGravity(d) }},
		{IDAngularVelocity, NameAngularVelocity, func(d Deps) Sensor { return NewAngularVelocity(d) }},
		{IDProximity, NameProximity, func(d Deps) Sensor { return NewProximity(d) }},
		{IDInformation, NameInformation, func(d Deps) Sensor { return NewInformation(d) }},
		{IDReceived, NameReceived, func(d Deps) Sensor { return NewReceived(d) }},
		{IDPowerConsumption, NamePowerConsumption, func(d Deps) Sensor { return NewPowerConsumption(d) }},
		{IDPowerProduction, NamePowerProduction, func(d Deps) Sensor { return NewPowerProduction(d) }},
		{IDProcessor, NameProcessor, func(d Deps) Sensor { return NewProcessor(d) }},
		{IDRAM, NameRAM, func(d Deps) Sensor { return NewRAM(d) }},
		{IDNVM, NameNVM, func(d Deps) Sensor { return NewNVM(d) }},
		{IDTank, NameTank, func(d Deps) Sensor { return NewTank(d) }},
		{IDFuel, NameFuel, func(d Deps) Sensor { return NewFuel(d) }},
		{IDCustom, NameCustom, func(d Deps) Sensor { return NewCustom(d) }},
	}
}

// Registry is the immutable name and id table of the known kinds along
// with the dependencies every created sensor receives.
type Registry struct {
	deps   Deps
	byName map[string]Entry
	byID   map[ID]string
	names  []string
}

// NewRegistry validates that names and ids map one to one.
func NewRegistry(deps Deps, entries []Entry) (*Registry, error) {
	r := &Registry{
		deps:   deps.withDefaults(),
		byName: make(map[string]Entry, len(entries)),
		byID:   make(map[ID]string, len(entries)),
	}

	for _, e := range entries {
		if e.Name == "" || e.Create == nil {
			return nil, fmt.Errorf("%w: id %d", errInvalidEntry, e.ID)
		}

		if _, ok := r.byName[e.Name]; ok {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateSensor, e.Name)
		}

		if prev, ok := r.byID[e.ID]; ok {
			return nil, fmt.Errorf("%w: id %d used by %q and %q", ErrDuplicateSensor, e.ID, prev, e.Name)
		}

		r.byName[e.Name] = e
		r.byID[e.ID] = e.Name
	}

	r.names = make([]string, 0, len(entries))
	for _, e := range entries {
		r.names = append(r.names, e.Name)
	}

	sort.Slice(r.names, func(i, j int) bool {
		return r.byName[r.names[i]].ID < r.byName[r.names[j]].ID
	})

	return r, nil
}

// Default returns a registry of every built-in kind.
func Default(deps Deps) *Registry {
	r, err := NewRegistry(deps, DefaultEntries())
	if err != nil {
		panic(err)
	}

	return r
}

// Lookup returns the wire id for name.
func (r *Registry) Lookup(name string) (ID, bool) {
	e, ok := r.byName[name]

	return e.ID, ok
}

// Name returns the kind name for a wire id.
func (r *Registry) Name(id ID) (string, bool) {
	name, ok := r.byID[id]

	return name, ok
}

// New creates a fresh sensor of the named kind.
func (r *Registry) New(name string) (Sensor, error) {
	e, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSensor, name)
	}

	return e.Create(r.deps), nil
}

// NewWith creates a sensor of the named kind with deps in place of the
// registry's own.
func (r *Registry) NewWith(name string, deps Deps) (Sensor, error) {
	e, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSensor, name)
	}

	return e.Create(deps.withDefaults()), nil
}

// Names returns every registered name in wire id order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) Deps() Deps { return r.deps }
