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

import (
	"sync"
	"sync/atomic"
)

// Emitter is the sink handed to a stream's subscribe function. It
// forwards producer callbacks to the subscriber and enforces the
// terminal contract: after Error, Complete, or unsubscription every
// further call is a no-op. Vendor SDKs have been observed to invoke
// "single-shot" callbacks more than once; the guard turns that into
// silence instead of a double-completion.
//
// Calls may arrive from any goroutine. Observer callbacks are
// serialized and never invoked after a terminal callback.
type Emitter[T any] struct {
	mu         sync.Mutex // serializes observer callbacks
	terminated atomic.Bool

	onNext     func(T)
	onError    func(error)
	onComplete func()

	sub *Subscription
}

// Next forwards one value to the subscriber. No-op after termination.
func (e *Emitter[T]) Next(value T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.terminated.Load() {
		return
	}
	if e.onNext != nil {
		e.onNext(value)
	}
}

// Error terminates the stream with the producer's error, passed
// through unchanged. The subscription's cleanup action runs
// afterwards.
func (e *Emitter[T]) Error(err error) {
	if !e.terminated.CompareAndSwap(false, true) {
		return
	}
	e.mu.Lock()
	if e.onError != nil {
		e.onError(err)
	}
	e.mu.Unlock()
	e.sub.Unsubscribe()
}

// Complete terminates the stream normally. The subscription's cleanup
// action runs afterwards.
func (e *Emitter[T]) Complete() {
	if !e.terminated.CompareAndSwap(false, true) {
		return
	}
	e.mu.Lock()
	if e.onComplete != nil {
		e.onComplete()
	}
	e.mu.Unlock()
	e.sub.Unsubscribe()
}

// stop silences the emitter without a terminal callback. Invoked when
// the consumer unsubscribes first: late producer callbacks must not
// reach a disposed stream.
func (e *Emitter[T]) stop() {
	e.terminated.Store(true)
}
