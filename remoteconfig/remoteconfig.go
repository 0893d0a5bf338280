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

package remoteconfig

import (
	"log/slog"
	"time"

	"github.com/backstream-dev/backstream"
	"github.com/backstream-dev/backstream/internal/metrics"
	"github.com/backstream-dev/backstream/stream"
)

// RemoteConfig converts the vendor's remote-config callbacks into
// streams.
type RemoteConfig struct {
	client  Client
	log     *slog.Logger
	metrics *metrics.Metrics
}

// New creates a remote-config adapter around the vendor client.
//
// A list of Option arguments can be passed to configure the adapter.
func New(client Client, opts ...backstream.Option) (*RemoteConfig, error) {
	options, err := backstream.NewOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &RemoteConfig{
		client: client,
		log: slog.With(
			slog.String("component", "backstream-remoteconfig"),
			slog.String("identity", options.Identity()),
		),
		metrics: metrics.NewMetrics(options.MeterProvider()),
	}, nil
}

// Fetch retrieves the latest config template. The stream emits the
// fetch status and completes, or fails with the vendor's error.
func (rc *RemoteConfig) Fetch(expiration time.Duration) stream.Stream[FetchStatus] {
	const op = "fetch"
	return stream.Single(func(callback func(FetchStatus, error)) {
		rc.metrics.Subscribed(op)
		rc.log.Debug("Fetching config", slog.Duration("expiration", expiration))
		rc.client.Fetch(expiration, metrics.DecorateCallback(rc.metrics, op, callback))
	})
}

// Activate makes the most recently fetched config available. The
// stream emits whether anything changed and completes.
func (rc *RemoteConfig) Activate() stream.Stream[bool] {
	const op = "activate"
	return stream.Single(func(callback func(bool, error)) {
		rc.metrics.Subscribed(op)
		rc.client.Activate(metrics.DecorateCallback(rc.metrics, op, callback))
	})
}

// FetchAndActivate fetches the latest config and, once the fetch has
// called back, activates it. The stream emits the activation result
// and completes; a failure in either step fails the stream with that
// step's vendor error.
func (rc *RemoteConfig) FetchAndActivate(expiration time.Duration) stream.Stream[bool] {
	return stream.FlatMap(rc.Fetch(expiration), func(FetchStatus) stream.Stream[bool] {
		return rc.Activate()
	})
}
