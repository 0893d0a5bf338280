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

// Merge combines several source streams into one, forwarding emissions
// in arrival order. The first source to terminate - with completion or
// error - terminates the merged stream, and all remaining sources are
// unsubscribed. This is the composition used for progress-plus-terminal
// operations, where unbounded progress branches are cut off by the
// terminal branch.
func Merge[T any](sources ...Stream[T]) Stream[T] {
	return New(func(emitter *Emitter[T]) CleanupFunc {
		var mu sync.Mutex
		var subs []*Subscription
		stopped := false

		for _, source := range sources {
			mu.Lock()
			done := stopped
			mu.Unlock()
			if done {
				break
			}

			sub := source.Subscribe(emitter.Next, emitter.Error, emitter.Complete)

			mu.Lock()
			if stopped {
				mu.Unlock()
				// A sibling terminated the merged stream while this
				// source was being subscribed.
				sub.Unsubscribe()
				break
			}
			subs = append(subs, sub)
			mu.Unlock()
		}

		return func() {
			mu.Lock()
			stopped = true
			branches := subs
			subs = nil
			mu.Unlock()

			for _, sub := range branches {
				sub.Unsubscribe()
			}
		}
	})
}
