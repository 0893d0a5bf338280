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

// Filter forwards only the emissions for which keep returns true.
func Filter[T any](source Stream[T], keep func(T) bool) Stream[T] {
	return New(func(emitter *Emitter[T]) CleanupFunc {
		sub := source.Subscribe(func(value T) {
			if keep(value) {
				emitter.Next(value)
			}
		}, emitter.Error, emitter.Complete)
		return sub.Unsubscribe
	})
}

// Map transforms every emission with f.
func Map[T any, U any](source Stream[T], f func(T) U) Stream[U] {
	return New(func(emitter *Emitter[U]) CleanupFunc {
		sub := source.Subscribe(func(value T) {
			emitter.Next(f(value))
		}, emitter.Error, emitter.Complete)
		return sub.Unsubscribe
	})
}

// FlatMap projects every emission of the source into an inner stream
// and flattens all inner emissions into the output, in arrival order.
// The output completes once the source and every inner stream have
// completed; any error, outer or inner, fails the output immediately.
func FlatMap[T any, U any](source Stream[T], project func(T) Stream[U]) Stream[U] {
	return New(func(emitter *Emitter[U]) CleanupFunc {
		var mu sync.Mutex
		var inner []*Subscription
		stopped := false
		active := 1 // the source itself

		oneDone := func() {
			mu.Lock()
			active--
			last := active == 0
			mu.Unlock()
			if last {
				emitter.Complete()
			}
		}

		outer := source.Subscribe(func(value T) {
			mu.Lock()
			if stopped {
				mu.Unlock()
				return
			}
			active++
			mu.Unlock()

			sub := project(value).Subscribe(emitter.Next, emitter.Error, oneDone)

			mu.Lock()
			if stopped {
				mu.Unlock()
				sub.Unsubscribe()
				return
			}
			inner = append(inner, sub)
			mu.Unlock()
		}, emitter.Error, oneDone)

		return func() {
			mu.Lock()
			stopped = true
			subs := inner
			inner = nil
			mu.Unlock()

			outer.Unsubscribe()
			for _, sub := range subs {
				sub.Unsubscribe()
			}
		}
	})
}

// Collect buffers every emission of the source and emits them as a
// single slice when the source completes.
func Collect[T any](source Stream[T]) Stream[[]T] {
	return New(func(emitter *Emitter[[]T]) CleanupFunc {
		var mu sync.Mutex
		var values []T

		sub := source.Subscribe(func(value T) {
			mu.Lock()
			values = append(values, value)
			mu.Unlock()
		}, emitter.Error, func() {
			mu.Lock()
			collected := values
			mu.Unlock()
			emitter.Next(collected)
			emitter.Complete()
		})
		return sub.Unsubscribe
	})
}
