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

package storage

import (
	"log/slog"

	"github.com/backstream-dev/backstream"
	"github.com/backstream-dev/backstream/internal/metrics"
	"github.com/backstream-dev/backstream/stream"
)

// Storage converts the vendor's file-storage callbacks into streams.
type Storage struct {
	log     *slog.Logger
	metrics *metrics.Metrics
}

// New creates a storage adapter.
//
// A list of Option arguments can be passed to configure the adapter.
func New(opts ...backstream.Option) (*Storage, error) {
	options, err := backstream.NewOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Storage{
		log: slog.With(
			slog.String("component", "backstream-storage"),
			slog.String("identity", options.Identity()),
		),
		metrics: metrics.NewMetrics(options.MeterProvider()),
	}, nil
}

// Upload starts uploading data to ref at subscription time. The stream
// emits a snapshot for every progress report in arrival order, emits
// the success snapshot and completes when the task succeeds, or fails
// with the task's error. Unsubscribing mid-flight cancels the vendor
// task and removes all status observers.
func (s *Storage) Upload(ref Reference, data []byte) stream.Stream[TaskSnapshot] {
	return s.observeTask("upload", ref, func() Task {
		return ref.PutBytes(data)
	})
}

// Download starts downloading the object at ref to the local path.
// Stream semantics are identical to Upload.
func (s *Storage) Download(ref Reference, path string) stream.Stream[TaskSnapshot] {
	return s.observeTask("download", ref, func() Task {
		return ref.WriteToFile(path)
	})
}

// observeTask starts the task and merges its status branches into one
// stream. The first terminal branch to fire wins: success completes
// the merged stream, failure fails it, and either way the sibling
// branches are detached.
func (s *Storage) observeTask(op string, ref Reference, start func() Task) stream.Stream[TaskSnapshot] {
	return stream.New(func(emitter *stream.Emitter[TaskSnapshot]) stream.CleanupFunc {
		s.metrics.Subscribed(op)
		s.log.Debug(
			"Starting task",
			slog.String("op", op),
			slog.String("path", ref.Path()),
		)
		task := start()

		progress := s.statusBranch(op, task, StatusProgress)
		pause := s.statusBranch(op, task, StatusPause)
		resume := s.statusBranch(op, task, StatusResume)

		success := stream.New(func(e *stream.Emitter[TaskSnapshot]) stream.CleanupFunc {
			handle := task.Observe(StatusSuccess, func(snapshot TaskSnapshot) {
				s.metrics.Emitted(op)
				e.Next(snapshot)
				e.Complete()
			})
			return func() {
				task.RemoveObserver(StatusSuccess, handle)
			}
		})

		failure := stream.New(func(e *stream.Emitter[TaskSnapshot]) stream.CleanupFunc {
			handle := task.Observe(StatusFailure, func(snapshot TaskSnapshot) {
				e.Error(snapshot.Err())
			})
			return func() {
				task.RemoveObserver(StatusFailure, handle)
			}
		})

		merged := stream.Merge(progress, pause, resume, success, failure)
		sub := merged.Subscribe(emitter.Next, emitter.Error, emitter.Complete)

		return func() {
			s.metrics.CleanedUp(op)
			sub.Unsubscribe()
			task.Cancel()
		}
	})
}

func (s *Storage) statusBranch(op string, task Task, status TaskStatus) stream.Stream[TaskSnapshot] {
	return stream.Listen(func(onEvent func(TaskSnapshot), _ func(error)) Handle {
		return task.Observe(status, func(snapshot TaskSnapshot) {
			s.metrics.Emitted(op)
			onEvent(snapshot)
		})
	}, func(handle Handle) {
		task.RemoveObserver(status, handle)
	})
}

// GetBytes reads the whole object into memory. The stream emits the
// data once and completes.
func (s *Storage) GetBytes(ref Reference, maxSize int64) stream.Stream[[]byte] {
	const op = "get_bytes"
	return stream.Single(func(callback func([]byte, error)) {
		s.metrics.Subscribed(op)
		ref.GetBytes(maxSize, metrics.DecorateCallback(s.metrics, op, callback))
	})
}

// DownloadURL resolves a public download URL for the object.
func (s *Storage) DownloadURL(ref Reference) stream.Stream[string] {
	const op = "download_url"
	return stream.Single(func(callback func(string, error)) {
		s.metrics.Subscribed(op)
		ref.DownloadURL(metrics.DecorateCallback(s.metrics, op, callback))
	})
}

// GetMetadata fetches the object's metadata.
func (s *Storage) GetMetadata(ref Reference) stream.Stream[Metadata] {
	const op = "get_metadata"
	return stream.Single(func(callback func(Metadata, error)) {
		s.metrics.Subscribed(op)
		ref.GetMetadata(metrics.DecorateCallback(s.metrics, op, callback))
	})
}

// UpdateMetadata merges metadata into the object and emits the updated
// metadata.
func (s *Storage) UpdateMetadata(ref Reference, metadata Metadata) stream.Stream[Metadata] {
	const op = "update_metadata"
	return stream.Single(func(callback func(Metadata, error)) {
		s.metrics.Subscribed(op)
		ref.UpdateMetadata(metadata, metrics.DecorateCallback(s.metrics, op, callback))
	})
}

// Delete removes the object. The stream emits a single empty value and
// completes.
func (s *Storage) Delete(ref Reference) stream.Stream[struct{}] {
	const op = "delete"
	return stream.Single(func(callback func(struct{}, error)) {
		s.metrics.Subscribed(op)
		decorated := metrics.DecorateCallback(s.metrics, op, callback)
		ref.Delete(func(err error) {
			decorated(struct{}{}, err)
		})
	})
}
