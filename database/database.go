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

package database

import (
	"log/slog"

	"github.com/backstream-dev/backstream"
	"github.com/backstream-dev/backstream/internal/metrics"
	"github.com/backstream-dev/backstream/stream"
)

// Database converts the vendor's database callbacks into streams.
// Instances are stateless apart from logging and instrumentation and
// can be shared between goroutines.
type Database struct {
	log     *slog.Logger
	metrics *metrics.Metrics
}

// New creates a database adapter.
//
// A list of Option arguments can be passed to configure the adapter.
func New(opts ...backstream.Option) (*Database, error) {
	options, err := backstream.NewOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Database{
		log: slog.With(
			slog.String("component", "backstream-database"),
			slog.String("identity", options.Identity()),
		),
		metrics: metrics.NewMetrics(options.MeterProvider()),
	}, nil
}

// SetValue overwrites ref with value. The stream emits the written
// reference path and completes, or fails with the vendor's error.
func (d *Database) SetValue(ref Reference, value any) stream.Stream[string] {
	return d.write("set_value", ref, func(callback func(string, error)) {
		ref.SetValue(value, callback)
	})
}

// UpdateChildren applies a merged update of values under ref.
func (d *Database) UpdateChildren(ref Reference, values map[string]any) stream.Stream[string] {
	return d.write("update_children", ref, func(callback func(string, error)) {
		ref.UpdateChildren(values, callback)
	})
}

// RemoveValue deletes the value at ref.
func (d *Database) RemoveValue(ref Reference) stream.Stream[string] {
	return d.write("remove_value", ref, func(callback func(string, error)) {
		ref.RemoveValue(callback)
	})
}

// Push appends value under a new auto-generated child of ref and emits
// the new child's reference path.
func (d *Database) Push(ref Reference, value any) stream.Stream[string] {
	return d.write("push", ref, func(callback func(string, error)) {
		ref.Push(value, callback)
	})
}

func (d *Database) write(op string, ref Reference, start func(callback func(string, error))) stream.Stream[string] {
	return stream.Single(func(callback func(string, error)) {
		d.metrics.Subscribed(op)
		d.log.Debug(
			"Starting write",
			slog.String("op", op),
			slog.String("path", ref.Path()),
		)
		start(metrics.DecorateCallback(d.metrics, op, callback))
	})
}

// GetValue reads the current value at ref once. The stream emits one
// snapshot and completes.
func (d *Database) GetValue(ref Reference) stream.Stream[Snapshot] {
	const op = "get_value"
	return stream.Single(func(callback func(Snapshot, error)) {
		d.metrics.Subscribed(op)
		ref.Get(metrics.DecorateCallback(d.metrics, op, callback))
	})
}

// Observe registers an observer for eventType at ref and forwards
// every delivery as an emission. The stream never completes on its
// own; unsubscribing removes the vendor observer.
func (d *Database) Observe(ref Reference, eventType EventType) stream.Stream[Snapshot] {
	const op = "observe"
	return stream.Listen(func(onEvent func(Snapshot), onError func(error)) Handle {
		d.metrics.Subscribed(op)
		d.log.Debug(
			"Registering observer",
			slog.String("path", ref.Path()),
			slog.String("event", eventType.String()),
		)
		return ref.Observe(eventType, func(snapshot Snapshot) {
			d.metrics.Emitted(op)
			onEvent(snapshot)
		}, onError)
	}, func(handle Handle) {
		d.metrics.CleanedUp(op)
		d.log.Debug(
			"Removing observer",
			slog.String("path", ref.Path()),
			slog.String("event", eventType.String()),
		)
		ref.RemoveObserver(handle)
	})
}

// ObserveOnce forwards the first delivery for eventType at ref and
// completes. The vendor detaches such observers itself, so there is
// nothing to clean up.
func (d *Database) ObserveOnce(ref Reference, eventType EventType) stream.Stream[Snapshot] {
	const op = "observe_once"
	return stream.ListenOnce(func(onEvent func(Snapshot), onError func(error)) struct{} {
		d.metrics.Subscribed(op)
		ref.ObserveOnce(eventType, func(snapshot Snapshot) {
			d.metrics.Emitted(op)
			onEvent(snapshot)
		}, onError)
		return struct{}{}
	})
}
