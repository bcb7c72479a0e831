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

// Package conflict decides where a file goes when its destination is taken.
package conflict

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/sortrc/pkg/fileop"
	"gitlab.com/tozd/go/errors"
)

var ErrInvalidPolicy = errors.Base("invalid conflict policy")

// ⚔️ Policy is the rule applied to a destination that already exists
type Policy string

const (
	PolicyRename    Policy = "rename"
	PolicySkip      Policy = "skip"
	PolicyOverwrite Policy = "overwrite"
)

// Policies lists every supported policy
func Policies() []Policy {
	return []Policy{PolicyRename, PolicySkip, PolicyOverwrite}
}

// ParsePolicy validates a policy name
func ParsePolicy(s string) (Policy, error) {
	p := Policy(s)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate fails with ErrInvalidPolicy for anything outside the closed set
func (p Policy) Validate() error {
	switch p {
	case PolicyRename, PolicySkip, PolicyOverwrite:
		return nil
	}
	return errors.Errorf("%w: %q", ErrInvalidPolicy, string(p))
}

// 🎯 Resolve returns the path a file should be written to. ok is false when
// the file must be skipped, leaving source and destination alone.
func Resolve(ctx context.Context, dst string, policy Policy) (string, bool, error) {
	final, ok, err := Plan(ctx, dst, policy)
	if err != nil || !ok {
		return final, ok, err
	}

	if policy == PolicyOverwrite && fileop.Exists(dst) {
		removeExisting(ctx, dst)
	}
	return final, true, nil
}

// 📐 Plan is Resolve without touching the disk: an overwrite leaves the
// existing file where it is. Dry runs use it.
func Plan(ctx context.Context, dst string, policy Policy) (string, bool, error) {
	if err := policy.Validate(); err != nil {
		return "", false, err
	}

	if !fileop.Exists(dst) {
		return dst, true, nil
	}

	logger := zerolog.Ctx(ctx)

	switch policy {
	case PolicySkip:
		logger.Debug().Str("destination", dst).Msg("destination exists, skipping")
		return "", false, nil

	case PolicyOverwrite:
		logger.Debug().Str("destination", dst).Msg("destination exists, overwriting")
		return dst, true, nil

	default:
		unique := UniquePath(dst)
		logger.Debug().Str("destination", dst).Str("renamed", unique).Msg("destination exists, renaming")
		return unique, true, nil
	}
}

// removeExisting deletes a file or symlink in the way of an overwrite.
// Directories are never removed. Failures only warn: the transfer that
// follows will overwrite natively or fail on its own.
func removeExisting(ctx context.Context, dst string) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Lstat(dst)
	if err != nil {
		logger.Warn().Err(err).Str("destination", dst).Msg("could not inspect existing file for overwrite")
		return
	}

	if info.IsDir() {
		logger.Warn().Str("destination", dst).Msg("refusing to remove a directory for overwrite")
		return
	}

	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("destination", dst).Msg("could not remove existing file for overwrite")
	}
}

// 🔢 UniquePath returns the first "stem (n).ext" next to path that does not exist
func UniquePath(path string) string {
	dir := filepath.Dir(path)
	stem, ext := SplitName(filepath.Base(path))

	candidate := path
	for i := 1; fileop.Exists(candidate); i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
	}
	return candidate
}

// SplitName splits a base name into stem and extension. A name made of a
// leading dot and no other dot (".bashrc") has no extension, and neither
// has a name ending in a lone dot ("file.").
func SplitName(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	if ext == name || ext == "." {
		return name, ""
	}
	return name[:len(name)-len(ext)], ext
}
