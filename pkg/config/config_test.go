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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sortrc/pkg/classify"
	"github.com/walteh/sortrc/pkg/conflict"
	"github.com/walteh/sortrc/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func setupDirs(t *testing.T) (configDir, stateDir string) {
	configDir = filepath.Join(t.TempDir(), "config")
	stateDir = filepath.Join(t.TempDir(), "state")
	t.Setenv(EnvConfigDir, configDir)
	t.Setenv(EnvStateDir, stateDir)
	return configDir, stateDir
}

func TestLoad(t *testing.T) {
	ctx := setupTestLogger(t)

	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, dir string, cfg *Config)
	}{
		{
			name: "yaml",
			file: ".sortrc.yaml",
			config: `
source: /data/inbox
destination: sorted
mode: date
action: copy
conflict: skip
recursive: true
dry_run: true
sniff: true
ignore:
  - "*.part"
  - ".git/**"
journal_file: state/undo.log
`,
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, "/data/inbox", cfg.Source)
				assert.Equal(t, filepath.Join(dir, "sorted"), cfg.Destination, "relative to the config file")
				assert.Equal(t, classify.ModeDate, cfg.Mode)
				assert.Equal(t, transfer.ActionCopy, cfg.Action)
				assert.Equal(t, conflict.PolicySkip, cfg.Conflict)
				assert.True(t, cfg.Recursive)
				assert.True(t, cfg.DryRun)
				assert.True(t, cfg.Sniff)
				assert.Equal(t, []string{"*.part", ".git/**"}, cfg.Ignore)
				assert.Equal(t, filepath.Join(dir, "state", "undo.log"), cfg.JournalFile)
				assert.Equal(t, DefaultCategoriesFile(), cfg.CategoriesFile)
			},
		},
		{
			name:   "json",
			file:   ".sortrc.json",
			config: `{"source": "/data/inbox", "mode": "first_letter", "categories_file": "/etc/sortrc/cats.yaml"}`,
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, classify.ModeFirstLetter, cfg.Mode)
				assert.Equal(t, transfer.ActionMove, cfg.Action, "default action")
				assert.Equal(t, conflict.PolicyRename, cfg.Conflict, "default policy")
				assert.Equal(t, "/etc/sortrc/cats.yaml", cfg.CategoriesFile)
				assert.Equal(t, DefaultJournalFile(), cfg.JournalFile)
			},
		},
		{
			name: "hcl",
			file: ".sortrc.hcl",
			config: `
source    = "${home}/Downloads"
mode      = "size"
conflict  = "overwrite"
recursive = true
ignore    = ["*.tmp"]
`,
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, ExpandHome("~/Downloads"), cfg.Source)
				assert.Equal(t, classify.ModeSize, cfg.Mode)
				assert.Equal(t, conflict.PolicyOverwrite, cfg.Conflict)
				assert.True(t, cfg.Recursive)
				assert.Equal(t, []string{"*.tmp"}, cfg.Ignore)
			},
		},
		{
			name:   "bare_yaml",
			file:   ".sortrc",
			config: "mode: day\n",
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, classify.ModeDay, cfg.Mode)
			},
		},
		{
			name:   "bare_hcl",
			file:   ".sortrc",
			config: "mode = \"name\"\naction = \"copy\"\n",
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, classify.ModeName, cfg.Mode)
				assert.Equal(t, transfer.ActionCopy, cfg.Action)
			},
		},
		{
			name:   "empty_yaml_is_defaults",
			file:   "config.yaml",
			config: "",
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, classify.ModeType, cfg.Mode)
				assert.Empty(t, cfg.Source)
			},
		},
		{
			name:        "unknown_yaml_field",
			file:        ".sortrc.yaml",
			config:      "mode: type\ncolor: blue\n",
			wantErr:     true,
			errContains: "color",
		},
		{
			name:        "unknown_json_field",
			file:        ".sortrc.json",
			config:      `{"colour": "blue"}`,
			wantErr:     true,
			errContains: "colour",
		},
		{
			name:        "invalid_mode",
			file:        ".sortrc.yaml",
			config:      "mode: color\n",
			wantErr:     true,
			errContains: "invalid classification mode",
		},
		{
			name:        "invalid_policy",
			file:        ".sortrc.json",
			config:      `{"conflict": "merge"}`,
			wantErr:     true,
			errContains: "invalid conflict policy",
		},
		{
			name:        "invalid_ignore",
			file:        ".sortrc.yaml",
			config:      "ignore: ['[oops']\n",
			wantErr:     true,
			errContains: "invalid ignore pattern",
		},
		{
			name:        "unsupported_extension",
			file:        "sortrc.toml",
			config:      "mode = 'type'",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupDirs(t)
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0644))

			cfg, err := Load(ctx, path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, path, cfg.Location())
			tt.check(t, dir, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	ctx := setupTestLogger(t)
	_, err := Load(ctx, filepath.Join(t.TempDir(), ".sortrc.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidateWrapsSentinel(t *testing.T) {
	cfg := &Config{Action: "link"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.True(t, errors.Is(err, transfer.ErrInvalidAction))
}

func TestDefault(t *testing.T) {
	_, stateDir := setupDirs(t)

	cfg := Default()
	assert.Equal(t, classify.ModeType, cfg.Mode)
	assert.Equal(t, transfer.ActionMove, cfg.Action)
	assert.Equal(t, conflict.PolicyRename, cfg.Conflict)
	assert.Equal(t, filepath.Join(stateDir, "undo.log"), cfg.JournalFile)
	assert.Empty(t, cfg.Location())
}

func TestFind(t *testing.T) {
	ctx := setupTestLogger(t)
	configDir, _ := setupDirs(t)
	dir := t.TempDir()

	assert.Empty(t, Find(dir))

	cfg, err := LoadOrDefault(ctx, "", dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.Location())

	// user config directory is the fallback
	require.NoError(t, os.MkdirAll(configDir, 0755))
	user := filepath.Join(configDir, "config.json")
	require.NoError(t, os.WriteFile(user, []byte(`{"mode":"size"}`), 0644))
	assert.Equal(t, user, Find(dir))

	// the working directory wins, bare name first
	local := filepath.Join(dir, ".sortrc.hcl")
	require.NoError(t, os.WriteFile(local, []byte(`mode = "day"`), 0644))
	assert.Equal(t, local, Find(dir))

	bare := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(bare, []byte("mode: name\n"), 0644))
	assert.Equal(t, bare, Find(dir))

	cfg, err = LoadOrDefault(ctx, "", dir)
	require.NoError(t, err)
	assert.Equal(t, classify.ModeName, cfg.Mode)

	// an explicit path beats discovery
	cfg, err = LoadOrDefault(ctx, user, dir)
	require.NoError(t, err)
	assert.Equal(t, classify.ModeSize, cfg.Mode)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "Downloads"), ExpandHome("~/Downloads"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
	assert.Equal(t, "/abs", ExpandHome("/abs"))
}
