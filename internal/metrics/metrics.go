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

// Package metrics instruments the adapter layer with OpenTelemetry.
// Every measurement is tagged with the vendor operation name, so that
// the latency and outcome of each adapted call can be told apart.
package metrics

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	timeFunc  func() time.Time
	sinceFunc func(time.Time) time.Duration

	opTime        Timer
	subscriptions metric.Int64Counter
	emissions     metric.Int64Counter
	cleanups      metric.Int64Counter
}

func NewMetrics(provider metric.MeterProvider) *Metrics {
	return newMetrics(provider, time.Now, time.Since)
}

func newMetrics(provider metric.MeterProvider, timeFunc func() time.Time, sinceFunc func(time.Time) time.Duration) *Metrics {
	meter := provider.Meter("backstream")
	return &Metrics{
		timeFunc:  timeFunc,
		sinceFunc: sinceFunc,

		opTime:        newTimer(meter, "backstream_op"),
		subscriptions: newCounter(meter, "backstream_subscriptions"),
		emissions:     newCounter(meter, "backstream_emissions"),
		cleanups:      newCounter(meter, "backstream_cleanups"),
	}
}

func newCounter(meter metric.Meter, name string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name)
	fatalOnErr(err, name)
	return counter
}

func fatalOnErr(err error, name string) {
	if err != nil {
		log.Fatal().Err(err).
			Str("metric-name", name).
			Msg("Failed to create metric")
	}
}

// Subscribed records that one subscription to the given operation's
// stream became active.
func (m *Metrics) Subscribed(op string) {
	m.subscriptions.Add(context.Background(), 1, metric.WithAttributes(opAttr(op)))
}

// Emitted records one forwarded emission for the given operation.
func (m *Metrics) Emitted(op string) {
	m.emissions.Add(context.Background(), 1, metric.WithAttributes(opAttr(op)))
}

// CleanedUp records that the cleanup action of the given operation's
// subscription has run.
func (m *Metrics) CleanedUp(op string) {
	m.cleanups.Add(context.Background(), 1, metric.WithAttributes(opAttr(op)))
}

// DecorateCallback wraps a single-shot vendor callback so that the
// operation latency and outcome are recorded when the vendor calls
// back. The decorated callback is otherwise a transparent passthrough.
func DecorateCallback[T any](m *Metrics, op string, callback func(T, error)) func(T, error) {
	start := m.timeFunc()
	return func(value T, err error) {
		callback(value, err)
		m.opTime.Record(context.Background(), m.sinceFunc(start), metric.WithAttributes(attrs(op, err)...))
	}
}

func opAttr(op string) attribute.KeyValue {
	return attribute.String("op", op)
}

func attrs(op string, err error) []attribute.KeyValue {
	result := "success"
	if err != nil {
		result = "failure"
	}
	return []attribute.KeyValue{
		opAttr(op),
		attribute.String("result", result),
	}
}
