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

// Package remoteconfig adapts the vendor SDK's remote-configuration
// callbacks into streams.
package remoteconfig

import "time"

// FetchStatus enumerates the outcomes the vendor reports for a config
// fetch.
type FetchStatus int

const (
	FetchNoFetchYet FetchStatus = iota
	FetchSuccess
	FetchFailure
	FetchThrottled
)

func (s FetchStatus) String() string {
	switch s {
	case FetchNoFetchYet:
		return "no-fetch-yet"
	case FetchSuccess:
		return "success"
	case FetchFailure:
		return "failure"
	case FetchThrottled:
		return "throttled"
	default:
		return "unknown"
	}
}

// Client is the slice of the vendor SDK's remote-config surface the
// adapters rely on.
type Client interface {
	// Fetch retrieves the latest config template, reusing a previously
	// fetched one if it is younger than expiration. It calls back once
	// with the fetch status or an error.
	Fetch(expiration time.Duration, callback func(status FetchStatus, err error))

	// Activate makes the most recently fetched config available to the
	// application. The callback reports whether anything changed.
	Activate(callback func(changed bool, err error))
}
