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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/sortrc/pkg/classify"
	"github.com/walteh/sortrc/pkg/conflict"
	"github.com/walteh/sortrc/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

var ErrInvalidConfig = errors.Base("invalid config")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config holds run defaults. Every field may be overridden by a flag.
type Config struct {
	Source         string          `json:"source,omitempty" yaml:"source,omitempty" hcl:"source,optional"`
	Destination    string          `json:"destination,omitempty" yaml:"destination,omitempty" hcl:"destination,optional"`
	Mode           classify.Mode   `json:"mode,omitempty" yaml:"mode,omitempty" hcl:"mode,optional"`
	Action         transfer.Action `json:"action,omitempty" yaml:"action,omitempty" hcl:"action,optional"`
	Conflict       conflict.Policy `json:"conflict,omitempty" yaml:"conflict,omitempty" hcl:"conflict,optional"`
	Recursive      bool            `json:"recursive,omitempty" yaml:"recursive,omitempty" hcl:"recursive,optional"`
	DryRun         bool            `json:"dry_run,omitempty" yaml:"dry_run,omitempty" hcl:"dry_run,optional"`
	Sniff          bool            `json:"sniff,omitempty" yaml:"sniff,omitempty" hcl:"sniff,optional"`
	Ignore         []string        `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`
	CategoriesFile string          `json:"categories_file,omitempty" yaml:"categories_file,omitempty" hcl:"categories_file,optional"`
	JournalFile    string          `json:"journal_file,omitempty" yaml:"journal_file,omitempty" hcl:"journal_file,optional"`

	location string // file the config was loaded from, empty for defaults
}

// 🏭 Default returns a validated config with no file behind it
func Default() *Config {
	cfg := &Config{}
	// defaults always validate
	_ = cfg.Validate()
	return cfg
}

// Location returns the file the config was loaded from
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file, picking the parser by name
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	if filepath.Base(path) == FileName {
		cfg, err = parseBare(ctx, data)
	} else {
		p := GetParser(path)
		if p == nil {
			return nil, errors.Errorf("%w: no parser found for file: %s", ErrInvalidConfig, path)
		}
		cfg, err = p.Parse(ctx, data)
	}
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg.location = path
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate fills defaults and rejects unknown enum values. Relative paths
// are resolved against the directory of the config file.
func (cfg *Config) Validate() error {
	if cfg.Mode == "" {
		cfg.Mode = classify.ModeType
	}
	if cfg.Action == "" {
		cfg.Action = transfer.ActionMove
	}
	if cfg.Conflict == "" {
		cfg.Conflict = conflict.PolicyRename
	}

	if err := cfg.Mode.Validate(); err != nil {
		return errors.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Action.Validate(); err != nil {
		return errors.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Conflict.Validate(); err != nil {
		return errors.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("%w: invalid ignore pattern %q", ErrInvalidConfig, pattern)
		}
	}

	if cfg.CategoriesFile == "" {
		cfg.CategoriesFile = DefaultCategoriesFile()
	}
	if cfg.JournalFile == "" {
		cfg.JournalFile = DefaultJournalFile()
	}

	cfg.Source = cfg.resolve(cfg.Source)
	cfg.Destination = cfg.resolve(cfg.Destination)
	cfg.CategoriesFile = cfg.resolve(cfg.CategoriesFile)
	cfg.JournalFile = cfg.resolve(cfg.JournalFile)

	return nil
}

func (cfg *Config) resolve(path string) string {
	if path == "" {
		return ""
	}
	path = ExpandHome(path)
	if !filepath.IsAbs(path) && cfg.location != "" {
		path = filepath.Join(filepath.Dir(cfg.location), path)
	}
	return filepath.Clean(path)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s %s by %s (%s on conflict)", cfg.Action, cfg.Source, cfg.Mode, cfg.Conflict)
}
