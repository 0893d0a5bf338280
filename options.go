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

// Package backstream holds the options shared by all the adapter
// packages of this module.
package backstream

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/multierr"
)

var (
	ErrInvalidOptionIdentity = errors.New("Identity must be non-empty")
)

// Options contains the resolved configuration of an adapter instance.
type Options struct {
	meterProvider metric.MeterProvider
	identity      string
}

// MeterProvider returns the OpenTelemetry meter provider used for the
// adapter's instrumentation. Defaults to a noop provider.
func (o Options) MeterProvider() metric.MeterProvider {
	return o.meterProvider
}

// Identity returns the identity attached to this adapter's log lines.
func (o Options) Identity() string {
	return o.identity
}

// Option is an interface for applying adapter options.
type Option interface {
	// apply is used to set an Option value of an Options.
	apply(options Options) (Options, error)
}

type optionFunc func(Options) (Options, error)

func (f optionFunc) apply(o Options) (Options, error) {
	return f(o)
}

func defaultIdentity() string {
	return uuid.NewString()
}

// NewOptions resolves the given options on top of the defaults.
// Validation errors from all options are collected and returned
// together.
func NewOptions(opts ...Option) (Options, error) {
	options := Options{
		meterProvider: noop.NewMeterProvider(),
		identity:      defaultIdentity(),
	}
	var errs error
	var err error
	for _, o := range opts {
		options, err = o.apply(options)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return options, errs
}

// WithMeterProvider sets the OpenTelemetry meter provider used to
// instrument the adapter. Passing nil restores the noop provider.
func WithMeterProvider(meterProvider metric.MeterProvider) Option {
	return optionFunc(func(options Options) (Options, error) {
		if meterProvider == nil {
			options.meterProvider = noop.NewMeterProvider()
		} else {
			options.meterProvider = meterProvider
		}
		return options, nil
	})
}

// WithGlobalMeterProvider instructs the adapter to use the global
// OpenTelemetry MeterProvider.
func WithGlobalMeterProvider() Option {
	return WithMeterProvider(otel.GetMeterProvider())
}

// WithIdentity sets the identity attached to the adapter's log lines.
// If not set, a random UUID is used.
func WithIdentity(identity string) Option {
	return optionFunc(func(options Options) (Options, error) {
		if identity == "" {
			return options, ErrInvalidOptionIdentity
		}
		options.identity = identity
		return options, nil
	})
}
