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

// Package fileop holds the filesystem primitives shared by the transfer
// executor and the undo journal.
package fileop

import (
	"os"
	"path/filepath"
	"syscall"

	cp "github.com/otiai10/copy"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Exists reports whether something (file, dir or dangling symlink) lives at path
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// 🚚 Move renames src to dst, falling back to copy+remove across devices
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return errors.Errorf("renaming file: %w", err)
	}

	if err := Copy(src, dst); err != nil {
		return errors.Errorf("copying across devices: %w", err)
	}

	if err := os.Remove(src); err != nil {
		return errors.Errorf("removing source after copy: %w", err)
	}

	return nil
}

// 📋 Copy copies a single file keeping its permission bits and timestamps
func Copy(src, dst string) error {
	err := cp.Copy(src, dst, cp.Options{
		OnSymlink: func(string) cp.SymlinkAction {
			return cp.Deep
		},
		PreserveTimes: true,
	})
	if err != nil {
		// never leave a half-written file behind
		_ = os.Remove(dst)
		return errors.Errorf("copying file: %w", err)
	}
	return nil
}

// 💾 WriteFileAtomic writes to a temp file next to path and renames it into place
func WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, content, perm); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
