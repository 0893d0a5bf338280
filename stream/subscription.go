// Copyright 2025 The backstream Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stream

import "sync"

// Subscription represents one active consumption of a stream. It owns
// the cleanup action exclusively and guarantees it runs exactly once,
// whether the stream completed, failed, or the consumer unsubscribed
// first.
type Subscription struct {
	mu       sync.Mutex
	disposed bool
	cleanup  CleanupFunc
	done     chan struct{}

	// stop silences the emitter bound to this subscription, so that a
	// producer firing after disposal is dropped instead of delivered.
	stop func()
}

func newSubscription(stop func()) *Subscription {
	return &Subscription{
		done: make(chan struct{}),
		stop: stop,
	}
}

// Unsubscribe cancels the subscription and runs the cleanup action.
// It is idempotent.
func (s *Subscription) Unsubscribe() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	cleanup := s.cleanup
	s.cleanup = nil
	close(s.done)
	s.mu.Unlock()

	if s.stop != nil {
		s.stop()
	}
	if cleanup != nil {
		cleanup()
	}
}

// Done is closed once the subscription has terminated, through either
// unsubscription or a terminal emission.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// setCleanup attaches the cleanup action after the subscribe function
// has returned. If the stream already terminated synchronously during
// subscription, the cleanup runs immediately; exactly-once still holds.
func (s *Subscription) setCleanup(cleanup CleanupFunc) {
	if cleanup == nil {
		return
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		cleanup()
		return
	}
	s.cleanup = cleanup
	s.mu.Unlock()
}
