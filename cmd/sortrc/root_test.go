// Copyright 2025 walteh LLC
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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(zerolog.MultiLevelWriter(&levelFilter{w: &buf, min: zerolog.WarnLevel}))

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	logger.Error().Msg("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "also shown")
}

func TestFormatVersion(t *testing.T) {
	out := FormatVersion()
	assert.True(t, strings.HasPrefix(out, "🚀 sortrc version info:"))
	assert.Contains(t, out, GetVersionInfo().GoVersion)
}

func TestSetupLoggingDebugToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sortrc.log")
	debugLogging, logFile = true, path
	t.Cleanup(func() { debugLogging, logFile = false, "" })

	ctx, closeLog, err := setupLogging(context.Background())
	require.NoError(t, err)

	logger := zerolog.Ctx(ctx)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	logger.Debug().Msg("written to file")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
