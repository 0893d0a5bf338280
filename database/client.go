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

// Package database adapts the vendor SDK's realtime-database callbacks
// into streams. One adapter method per vendor operation; every vendor
// error is passed through unchanged.
package database

// Handle identifies a registered observer inside the vendor SDK. It is
// opaque to the adapter: it is captured at registration and handed back
// to RemoveObserver on cleanup.
type Handle uint64

// EventType enumerates the database events a location can be observed
// for.
type EventType int

const (
	ValueChanged EventType = iota
	ChildAdded
	ChildChanged
	ChildRemoved
	ChildMoved
)

func (e EventType) String() string {
	switch e {
	case ValueChanged:
		return "value-changed"
	case ChildAdded:
		return "child-added"
	case ChildChanged:
		return "child-changed"
	case ChildRemoved:
		return "child-removed"
	case ChildMoved:
		return "child-moved"
	default:
		return "unknown"
	}
}

// Snapshot is the vendor's immutable view of a database location at
// the time an event fired.
type Snapshot interface {
	// Key is the last path segment of the snapshot's location.
	Key() string

	// Value is the raw value at the location, or nil if none exists.
	Value() any

	// Exists reports whether the location holds a non-null value.
	Exists() bool

	// Children returns the snapshots of the location's children, in
	// the vendor's enumeration order.
	Children() []Snapshot
}

// Reference is the slice of the vendor SDK's database surface the
// adapters rely on: single-shot calls take a terminal callback,
// listener registrations return a Handle that RemoveObserver releases.
type Reference interface {
	// Path returns the full path of this database location.
	Path() string

	// SetValue overwrites the location with value and calls back once
	// with the written reference path or an error.
	SetValue(value any, callback func(ref string, err error))

	// UpdateChildren applies a merged update of the given child values.
	UpdateChildren(values map[string]any, callback func(ref string, err error))

	// RemoveValue deletes the location.
	RemoveValue(callback func(ref string, err error))

	// Push appends value under a new auto-generated child key.
	Push(value any, callback func(ref string, err error))

	// Get reads the current value once.
	Get(callback func(snapshot Snapshot, err error))

	// Observe registers a repeating observer for the given event type.
	// onCancel is invoked if the vendor revokes the observer, e.g. on a
	// permission change.
	Observe(eventType EventType, onEvent func(Snapshot), onCancel func(error)) Handle

	// ObserveOnce registers an observer that the vendor automatically
	// detaches after its first delivery.
	ObserveOnce(eventType EventType, onEvent func(Snapshot), onCancel func(error))

	// RemoveObserver de-registers a previously registered observer.
	RemoveObserver(handle Handle)
}
