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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// FileName is the bare config file name, which may hold YAML or HCL
const FileName = ".sortrc"

// candidates lists the file names Find looks for, in order
var candidates = []string{
	FileName,
	FileName + ".yaml",
	FileName + ".yml",
	FileName + ".json",
	FileName + ".hcl",
}

// 🔍 Find returns the first config file in dir, then in the user config
// directory. An empty result means none exists.
func Find(dir string) string {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	for _, name := range []string{"config.yaml", "config.yml", "config.json", "config.hcl"} {
		path := filepath.Join(ConfigDir(), name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// 🎯 LoadOrDefault loads path, or the file Find locates in dir when path is
// empty. With neither it returns Default().
func LoadOrDefault(ctx context.Context, path, dir string) (*Config, error) {
	if path == "" {
		path = Find(dir)
	}
	if path == "" {
		zerolog.Ctx(ctx).Debug().Msg("no config file found, using defaults")
		return Default(), nil
	}
	return Load(ctx, path)
}

// parseBare handles a .sortrc file, which may be YAML or HCL
func parseBare(ctx context.Context, data []byte) (*Config, error) {
	cfg, yamlErr := (&YAMLParser{}).Parse(ctx, data)
	if yamlErr == nil {
		return cfg, nil
	}

	cfg, hclErr := (&HCLParser{}).Parse(ctx, data)
	if hclErr == nil {
		return cfg, nil
	}

	return nil, errors.Errorf("failed to parse %s as YAML (%v) or HCL: %w", FileName, yamlErr, hclErr)
}
