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

package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics() (*Metrics, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m := newMetrics(provider,
		func() time.Time { return time.Time{} },
		func(time.Time) time.Duration { return 250 * time.Millisecond },
	)
	return m, reader
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			if metric.Name == name {
				return metric
			}
		}
	}
	t.Fatalf("metric %s not found", name)
	return metricdata.Metrics{}
}

func TestCountersCarryOperationAttribute(t *testing.T) {
	m, reader := newTestMetrics()

	m.Subscribed("upload")
	m.Subscribed("upload")
	m.Emitted("upload")
	m.CleanedUp("upload")

	subs := findMetric(t, reader, "backstream_subscriptions")
	sum, ok := subs.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	assert.Equal(t,
		attribute.NewSet(attribute.String("op", "upload")),
		sum.DataPoints[0].Attributes)

	emissions := findMetric(t, reader, "backstream_emissions")
	assert.Equal(t, int64(1), emissions.Data.(metricdata.Sum[int64]).DataPoints[0].Value)

	cleanups := findMetric(t, reader, "backstream_cleanups")
	assert.Equal(t, int64(1), cleanups.Data.(metricdata.Sum[int64]).DataPoints[0].Value)
}

func TestDecorateCallbackRecordsLatencyAndOutcome(t *testing.T) {
	m, reader := newTestMetrics()

	var values []string
	decorated := DecorateCallback(m, "fetch", func(value string, err error) {
		values = append(values, value)
	})
	decorated("v", nil)

	assert.Equal(t, []string{"v"}, values)

	sum := findMetric(t, reader, "backstream_op_sum")
	sumData, ok := sum.Data.(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, sumData.DataPoints, 1)
	assert.Equal(t, float64(250), sumData.DataPoints[0].Value)
	assert.Equal(t,
		attribute.NewSet(
			attribute.String("op", "fetch"),
			attribute.String("result", "success"),
		),
		sumData.DataPoints[0].Attributes)

	count := findMetric(t, reader, "backstream_op_count")
	assert.Equal(t, int64(1), count.Data.(metricdata.Sum[int64]).DataPoints[0].Value)
}

func TestDecorateCallbackTagsFailures(t *testing.T) {
	m, reader := newTestMetrics()

	var failure error
	decorated := DecorateCallback(m, "fetch", func(_ struct{}, err error) {
		failure = err
	})
	expected := errors.New("backend unreachable")
	decorated(struct{}{}, expected)

	assert.Equal(t, expected, failure)

	sum := findMetric(t, reader, "backstream_op_sum")
	sumData, ok := sum.Data.(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, sumData.DataPoints, 1)
	assert.Equal(t,
		attribute.NewSet(
			attribute.String("op", "fetch"),
			attribute.String("result", "failure"),
		),
		sumData.DataPoints[0].Attributes)
}
