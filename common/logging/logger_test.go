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

package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	for _, test := range []struct {
		levelStr string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	} {
		t.Run(test.levelStr, func(t *testing.T) {
			level, err := ParseLogLevel(test.levelStr)
			assert.NoError(t, err)
			assert.Equal(t, test.expected, level)
		})
	}
}

func TestParseLogLevelUnknown(t *testing.T) {
	level, err := ParseLogLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
