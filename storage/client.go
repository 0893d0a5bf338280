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

// Package storage adapts the vendor SDK's file-storage callbacks into
// streams. Uploads and downloads are long-running tasks observed
// through status-keyed listeners; the adapter merges the progress and
// terminal branches into a single stream.
package storage

// Handle identifies a registered task observer inside the vendor SDK.
type Handle uint64

// TaskStatus enumerates the states an upload or download task reports.
// The same set applies to both directions.
type TaskStatus int

const (
	StatusUnknown TaskStatus = iota
	StatusProgress
	StatusPause
	StatusResume
	StatusSuccess
	StatusFailure
)

func (s TaskStatus) String() string {
	switch s {
	case StatusProgress:
		return "progress"
	case StatusPause:
		return "pause"
	case StatusResume:
		return "resume"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// TaskSnapshot is the vendor's view of a task at the moment a status
// observer fired.
type TaskSnapshot interface {
	// Status is the status the snapshot was delivered for.
	Status() TaskStatus

	// BytesTransferred is the number of bytes moved so far.
	BytesTransferred() int64

	// TotalBytes is the expected total, or -1 if unknown.
	TotalBytes() int64

	// Err is the task's failure cause; nil unless Status is
	// StatusFailure.
	Err() error
}

// Task is a running vendor upload or download.
type Task interface {
	// Observe registers an observer for one status. The observer fires
	// every time the task reports that status until removed.
	Observe(status TaskStatus, onEvent func(TaskSnapshot)) Handle

	// RemoveObserver de-registers an observer for the given status.
	RemoveObserver(status TaskStatus, handle Handle)

	// Cancel aborts the task. Canceling a task that already reached a
	// terminal status is a no-op.
	Cancel()
}

// Metadata is the vendor's object metadata.
type Metadata interface {
	Name() string
	Size() int64
	ContentType() string
	Custom() map[string]string
}

// Reference is the slice of the vendor SDK's storage surface the
// adapters rely on.
type Reference interface {
	// Path returns the full object path of this reference.
	Path() string

	// PutBytes starts uploading data and returns the running task.
	PutBytes(data []byte) Task

	// WriteToFile starts downloading the object to the local path and
	// returns the running task.
	WriteToFile(path string) Task

	// GetBytes reads the whole object into memory, failing if it
	// exceeds maxSize.
	GetBytes(maxSize int64, callback func(data []byte, err error))

	// DownloadURL resolves a public download URL for the object.
	DownloadURL(callback func(url string, err error))

	// GetMetadata fetches the object's metadata.
	GetMetadata(callback func(metadata Metadata, err error))

	// UpdateMetadata merges the given metadata into the object.
	UpdateMetadata(metadata Metadata, callback func(updated Metadata, err error))

	// Delete removes the object.
	Delete(callback func(err error))
}
