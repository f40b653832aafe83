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

// Package sensor defines the telemetry capability contract, the shared
// lifecycle skeleton every kind is built on, and the concrete sensor kinds.
//
// A sensor produces an immutable, timestamped snapshot of one measurable
// quantity. Live sensors take their values from local instruments, either
// pulled synchronously when a read finds the snapshot stale or pushed by a
// hardware callback. Synthesized sensors take their values from a received
// wire payload and never touch an instrument.
//
// # Patterns
//
// Singleton kinds (time, battery, location, environment scalars, 3-axis
// vectors, ...) hold one record. Keyed kinds (processor, ram, nvm, power,
// tank, fuel, custom) hold a label to record map where each update or
// removal touches exactly one label.
//
// # Wire identity
//
// Every kind has a fixed wire id and name (see the ID constants). The table
// is not negotiated between peers; changing it breaks compatibility.
package sensor
