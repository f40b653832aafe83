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

import "sync"

// subscription holds the cancel func of a push-based instrument for the
// duration of an active period.
type subscription struct {
	mu     sync.Mutex
	cancel func()
}

// attach subscribes handler to src. A nil src reports false: the
// hardware is absent. Subscribe errors are logged and treated the same.
func attach[T any](sub *subscription, b interface{ logSubscribeFailure(error) }, src Source[T], handler func(T)) bool {
	if src == nil {
		return false
	}

	cancel, err := src.Subscribe(handler)
	if err != nil {
		b.logSubscribeFailure(err)
		return false
	}

	sub.mu.Lock()
	sub.cancel = cancel
	sub.mu.Unlock()

	return true
}

func (sub *subscription) release() {
	sub.mu.Lock()
	cancel := sub.cancel
	sub.cancel = nil
	sub.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
