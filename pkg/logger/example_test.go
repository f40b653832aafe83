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

package logger_test

import (
	"github.com/carverauto/telemeter/pkg/logger"
)

func ExampleInit() {
	config := &logger.Config{
		Level:  "debug",
		Debug:  true,
		Output: "stdout",
	}

	if err := logger.Init(config); err != nil {
		panic(err)
	}

	logger.Info().Str("component", "example").Msg("Logger initialized successfully")
}

func ExampleWithComponent() {
	componentLogger := logger.WithComponent("telemeter")

	componentLogger.Info().
		Str("sensor", "battery").
		Int("payload_bytes", 9).
		Msg("Packed sensor")
}

func ExampleNew() {
	log, err := logger.New(&logger.Config{Level: "warn", Output: "stderr"})
	if err != nil {
		panic(err)
	}

	mesh := logger.Component(log, "transport")
	mesh.Warn().Str("subject", "telemetry.node-a").Msg("Dropped malformed report")
}
