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
	"context"
	"sync"
)

// Event is one element of a channel-bridged stream: either a value or
// the stream's terminal error.
type Event[T any] struct {
	Value T
	Err   error
}

// Events subscribes to the stream and exposes it as a channel, in the
// style of a notifications feed. The channel is unbuffered: the
// producer is blocked until the consumer reads, preserving arrival
// order without buffering. The channel is closed when the stream
// terminates or when ctx is canceled; cancellation unsubscribes from
// the underlying operation.
//
// The subscription is established from the pump goroutine, so sources
// that emit synchronously at subscribe time are delivered too.
//
// A terminal error is delivered as the last Event with Err set.
func (s Stream[T]) Events(ctx context.Context) <-chan Event[T] {
	bridge := &eventBridge[T]{
		ch:   make(chan Event[T]),
		quit: make(chan struct{}),
	}

	go func() {
		sub := s.Subscribe(func(value T) {
			bridge.send(ctx, Event[T]{Value: value})
		}, func(err error) {
			bridge.send(ctx, Event[T]{Err: err})
		}, nil)

		select {
		case <-sub.Done():
		case <-ctx.Done():
		}
		close(bridge.quit)
		sub.Unsubscribe()
		bridge.close()
	}()

	return bridge.ch
}

// eventBridge serializes channel sends against the close of the
// channel, so that a producer blocked on a send cannot race the pump
// goroutine closing ch.
type eventBridge[T any] struct {
	mu     sync.Mutex
	closed bool
	ch     chan Event[T]
	quit   chan struct{}
}

func (b *eventBridge[T]) send(ctx context.Context, event Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.ch <- event:
	case <-ctx.Done():
	case <-b.quit:
	}
}

func (b *eventBridge[T]) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.ch)
}
