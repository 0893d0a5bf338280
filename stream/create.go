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

// Single adapts a single-shot asynchronous operation: a call that
// invokes its callback exactly once with either a value or an error.
//
// The operation is started at subscription time. A successful callback
// emits the value and completes the stream; an error callback fails the
// stream with the producer's error, unchanged. Operations of this kind
// generally cannot be canceled once dispatched, so there is no cleanup
// action: if the subscriber unsubscribes first, the late callback is
// silently dropped.
func Single[T any](start func(callback func(value T, err error))) Stream[T] {
	return New(func(emitter *Emitter[T]) CleanupFunc {
		start(func(value T, err error) {
			if err != nil {
				emitter.Error(err)
				return
			}
			emitter.Next(value)
			emitter.Complete()
		})
		return nil
	})
}

// Listen adapts a multi-shot listener registration: register is called
// at subscription time and must return the producer's opaque listener
// handle; every onEvent invocation becomes an emission and an onError
// invocation fails the stream. The stream never completes on its own.
// Unsubscribing calls unregister with the captured handle, exactly once.
func Listen[T any, H any](
	register func(onEvent func(T), onError func(error)) H,
	unregister func(H),
) Stream[T] {
	return New(func(emitter *Emitter[T]) CleanupFunc {
		handle := register(emitter.Next, emitter.Error)
		return func() {
			unregister(handle)
		}
	})
}

// ListenOnce adapts a listener registration with observe-once
// semantics: the first event is emitted and the stream completes
// immediately after. The producer is expected to auto-detach such
// listeners, so the cleanup action is empty; the subscription still
// exposes the usual disposal hook.
func ListenOnce[T any, H any](
	register func(onEvent func(T), onError func(error)) H,
) Stream[T] {
	return New(func(emitter *Emitter[T]) CleanupFunc {
		register(func(value T) {
			emitter.Next(value)
			emitter.Complete()
		}, emitter.Error)
		return nil
	})
}

// Just emits the given values and completes.
func Just[T any](values ...T) Stream[T] {
	return New(func(emitter *Emitter[T]) CleanupFunc {
		for _, value := range values {
			emitter.Next(value)
		}
		emitter.Complete()
		return nil
	})
}

// Fail returns a stream that fails immediately with err.
func Fail[T any](err error) Stream[T] {
	return New(func(emitter *Emitter[T]) CleanupFunc {
		emitter.Error(err)
		return nil
	})
}
