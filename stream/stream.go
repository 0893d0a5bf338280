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

// Package stream converts callback and listener based asynchronous
// operations into cold reactive streams with deterministic one-time
// cleanup.
//
// A Stream is lazy: nothing happens until Subscribe is called, and every
// Subscribe runs the underlying operation again. Emissions are forwarded
// on whatever goroutine the producer invokes its callback on; observer
// callbacks are never invoked concurrently.
package stream

// CleanupFunc releases whatever resource a subscription acquired, e.g.
// by de-registering a listener handle with the vendor SDK. It is invoked
// at most once per subscription. A nil CleanupFunc is allowed.
type CleanupFunc func()

// Stream is a cold sequence of asynchronously produced values of type T,
// terminated by completion or error.
type Stream[T any] struct {
	onSubscribe func(*Emitter[T]) CleanupFunc
}

// New creates a stream from a subscribe function. onSubscribe is invoked
// once per Subscribe call, on the subscriber's goroutine; it starts the
// underlying operation and returns the cleanup action bound to that one
// subscription.
func New[T any](onSubscribe func(emitter *Emitter[T]) CleanupFunc) Stream[T] {
	return Stream[T]{onSubscribe: onSubscribe}
}

// Subscribe starts the underlying operation and delivers its results to
// the given callbacks. Any of the callbacks can be nil. After onError or
// onComplete has been invoked no further callback is invoked, even if
// the underlying producer keeps firing.
//
// The returned subscription must be unsubscribed to release the
// underlying resource, unless the stream terminates on its own.
func (s Stream[T]) Subscribe(onNext func(T), onError func(error), onComplete func()) *Subscription {
	emitter := &Emitter[T]{
		onNext:     onNext,
		onError:    onError,
		onComplete: onComplete,
	}
	sub := newSubscription(emitter.stop)
	emitter.sub = sub
	cleanup := s.onSubscribe(emitter)
	sub.setCleanup(cleanup)
	return sub
}
