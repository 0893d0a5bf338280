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
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/backstream-dev/backstream"
)

type fakeSnapshot struct {
	key      string
	value    any
	children []Snapshot
}

func (s fakeSnapshot) Key() string          { return s.key }
func (s fakeSnapshot) Value() any           { return s.value }
func (s fakeSnapshot) Exists() bool         { return s.value != nil }
func (s fakeSnapshot) Children() []Snapshot { return s.children }

// fakeReference captures the callbacks the adapter hands to the vendor
// SDK so tests can drive them explicitly.
type fakeReference struct {
	path string

	writes        int
	writeCallback func(ref string, err error)
	getCallback   func(snapshot Snapshot, err error)

	observed   EventType
	onEvent    func(Snapshot)
	onCancel   func(error)
	onceEvent  func(Snapshot)
	registered int
	removed    []Handle
}

func (r *fakeReference) Path() string { return r.path }

func (r *fakeReference) SetValue(_ any, callback func(string, error)) {
	r.writes++
	r.writeCallback = callback
}

func (r *fakeReference) UpdateChildren(_ map[string]any, callback func(string, error)) {
	r.writes++
	r.writeCallback = callback
}

func (r *fakeReference) RemoveValue(callback func(string, error)) {
	r.writes++
	r.writeCallback = callback
}

func (r *fakeReference) Push(_ any, callback func(string, error)) {
	r.writes++
	r.writeCallback = callback
}

func (r *fakeReference) Get(callback func(Snapshot, error)) {
	r.getCallback = callback
}

func (r *fakeReference) Observe(eventType EventType, onEvent func(Snapshot), onCancel func(error)) Handle {
	r.registered++
	r.observed = eventType
	r.onEvent = onEvent
	r.onCancel = onCancel
	return Handle(r.registered)
}

func (r *fakeReference) ObserveOnce(_ EventType, onEvent func(Snapshot), _ func(error)) {
	r.onceEvent = onEvent
}

func (r *fakeReference) RemoveObserver(handle Handle) {
	r.removed = append(r.removed, handle)
}

func newTestDatabase(t *testing.T) *Database {
	db, err := New(backstream.WithIdentity("test"))
	require.NoError(t, err)
	return db
}

func TestSetValueEmitsReferenceThenCompletes(t *testing.T) {
	db := newTestDatabase(t)
	ref := &fakeReference{path: "/users/1"}

	s := db.SetValue(ref, "x")
	assert.Equal(t, 0, ref.writes)

	var values []string
	completed := false
	s.Subscribe(func(v string) {
		values = append(values, v)
	}, nil, func() {
		completed = true
	})

	assert.Equal(t, 1, ref.writes)
	ref.writeCallback("/users/1", nil)

	assert.Equal(t, []string{"/users/1"}, values)
	assert.True(t, completed)
}

func TestSetValueForwardsVendorError(t *testing.T) {
	db := newTestDatabase(t)
	ref := &fakeReference{path: "/users/1"}
	expected := errors.New("permission denied")

	var values []string
	var failure error
	db.SetValue(ref, "x").Subscribe(func(v string) {
		values = append(values, v)
	}, func(err error) {
		failure = err
	}, nil)

	ref.writeCallback("", expected)

	assert.Empty(t, values)
	assert.Equal(t, expected, failure)
}

func TestEachSubscriptionWritesAgain(t *testing.T) {
	db := newTestDatabase(t)
	ref := &fakeReference{path: "/counters/a"}

	s := db.Push(ref, 1)
	s.Subscribe(nil, nil, nil)
	s.Subscribe(nil, nil, nil)

	assert.Equal(t, 2, ref.writes)
}

func TestGetValueEmitsSnapshot(t *testing.T) {
	db := newTestDatabase(t)
	ref := &fakeReference{path: "/items"}
	snapshot := fakeSnapshot{key: "items", value: "v"}

	var snapshots []Snapshot
	completed := false
	db.GetValue(ref).Subscribe(func(s Snapshot) {
		snapshots = append(snapshots, s)
	}, nil, func() {
		completed = true
	})

	ref.getCallback(snapshot, nil)

	assert.Equal(t, []Snapshot{snapshot}, snapshots)
	assert.True(t, completed)
}

func TestObserveForwardsUntilUnsubscribed(t *testing.T) {
	db := newTestDatabase(t)
	ref := &fakeReference{path: "/rooms/1"}

	var snapshots []Snapshot
	sub := db.Observe(ref, ChildAdded).Subscribe(func(s Snapshot) {
		snapshots = append(snapshots, s)
	}, nil, nil)

	assert.Equal(t, ChildAdded, ref.observed)

	ref.onEvent(fakeSnapshot{key: "a", value: 1})
	ref.onEvent(fakeSnapshot{key: "b", value: 2})
	ref.onEvent(fakeSnapshot{key: "c", value: 3})
	sub.Unsubscribe()

	// Firings after disposal are dropped and the observer is removed
	// exactly once, with the handle the vendor returned.
	ref.onEvent(fakeSnapshot{key: "d", value: 4})
	sub.Unsubscribe()

	assert.Len(t, snapshots, 3)
	assert.Equal(t, []Handle{1}, ref.removed)
}

func TestObserveVendorCancellation(t *testing.T) {
	db := newTestDatabase(t)
	ref := &fakeReference{path: "/rooms/1"}
	expected := errors.New("listener revoked")

	var failure error
	db.Observe(ref, ValueChanged).Subscribe(nil, func(err error) {
		failure = err
	}, nil)

	ref.onCancel(expected)

	assert.Equal(t, expected, failure)
	assert.Equal(t, []Handle{1}, ref.removed)
}

func TestObserveOnceCompletesAfterFirstEvent(t *testing.T) {
	db := newTestDatabase(t)
	ref := &fakeReference{path: "/flags"}

	var snapshots []Snapshot
	completed := false
	db.ObserveOnce(ref, ValueChanged).Subscribe(func(s Snapshot) {
		snapshots = append(snapshots, s)
	}, nil, func() {
		completed = true
	})

	ref.onceEvent(fakeSnapshot{key: "flags", value: true})
	ref.onceEvent(fakeSnapshot{key: "flags", value: false})

	assert.Len(t, snapshots, 1)
	assert.True(t, completed)
	// The vendor auto-detaches observe-once listeners.
	assert.Empty(t, ref.removed)
}

func TestObserveOnceCountsEmission(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	db, err := New(backstream.WithMeterProvider(provider))
	require.NoError(t, err)

	ref := &fakeReference{path: "/flags"}
	db.ObserveOnce(ref, ValueChanged).Subscribe(nil, nil, nil)
	ref.onceEvent(fakeSnapshot{key: "flags", value: true})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var emissions []metricdata.DataPoint[int64]
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == "backstream_emissions" {
				emissions = m.Data.(metricdata.Sum[int64]).DataPoints
			}
		}
	}
	require.Len(t, emissions, 1)
	assert.Equal(t, int64(1), emissions[0].Value)
	assert.Equal(t,
		attribute.NewSet(attribute.String("op", "observe_once")),
		emissions[0].Attributes)
}

func TestNewCollectsInvalidOptions(t *testing.T) {
	_, err := New(backstream.WithIdentity(""))
	assert.ErrorIs(t, err, backstream.ErrInvalidOptionIdentity)
}
