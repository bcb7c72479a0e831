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

package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var ErrNotDirectory = errors.Base("source is not a directory")

// Options controls which files ListFiles returns
type Options struct {
	// Recursive descends into subdirectories
	Recursive bool
	// Exclude drops every entry whose resolved path lies inside one of these
	// directories. Used to keep a destination nested in the source out of the batch.
	Exclude []string
	// Ignore holds doublestar patterns matched against the slash separated
	// path relative to the source
	Ignore []string
}

// 🔍 ListFiles returns the regular files under source in lexical order.
// Entries that cannot be read are logged and skipped.
func ListFiles(ctx context.Context, source string, opts Options) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(source)
	if err != nil {
		return nil, errors.Errorf("reading source: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%w: %s", ErrNotDirectory, source)
	}

	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	excludes := resolveAll(opts.Exclude)

	var files []string
	err = filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == source {
				return err
			}
			logger.Warn().Err(err).Str("path", path).Msg("could not access path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if path == source {
			return nil
		}

		if d.IsDir() {
			if !opts.Recursive || within(resolve(path), excludes) {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("could not relativize path")
			return nil
		}
		if ignored(filepath.ToSlash(rel), opts.Ignore) {
			logger.Debug().Str("path", rel).Msg("ignored")
			return nil
		}

		// symlinks count when they point at a regular file
		target, err := os.Stat(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("could not access path")
			return nil
		}
		if !target.Mode().IsRegular() {
			return nil
		}

		if within(resolve(path), excludes) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", source, err)
	}

	logger.Debug().Int("count", len(files)).Str("source", source).Msg("files listed")
	return files, nil
}

func ignored(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		// a bare name pattern also matches at any depth
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, filepath.Base(filepath.FromSlash(rel))); ok {
				return true
			}
		}
	}
	return false
}

// resolve returns the absolute, symlink free form of path. Paths that do not
// exist yet are returned absolute only.
func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

func resolveAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		out = append(out, resolve(p))
	}
	return out
}

func within(path string, dirs []string) bool {
	for _, dir := range dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
