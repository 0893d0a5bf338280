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

import "github.com/backstream-dev/backstream/stream"

// FilterExists keeps only the snapshots whose location holds a value.
func FilterExists(source stream.Stream[Snapshot]) stream.Stream[Snapshot] {
	return stream.Filter(source, func(snapshot Snapshot) bool {
		return snapshot.Exists()
	})
}

// FilterNotExists keeps only the snapshots whose location is empty.
func FilterNotExists(source stream.Stream[Snapshot]) stream.Stream[Snapshot] {
	return stream.Filter(source, func(snapshot Snapshot) bool {
		return !snapshot.Exists()
	})
}

// Children flattens every snapshot into one emission per child.
func Children(source stream.Stream[Snapshot]) stream.Stream[Snapshot] {
	return stream.FlatMap(source, func(snapshot Snapshot) stream.Stream[Snapshot] {
		return stream.Just(snapshot.Children()...)
	})
}

// ChildrenList maps every snapshot to the slice of its children,
// delivered as a single emission.
func ChildrenList(source stream.Stream[Snapshot]) stream.Stream[[]Snapshot] {
	return stream.Map(source, func(snapshot Snapshot) []Snapshot {
		return snapshot.Children()
	})
}
