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

package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/walteh/sortrc/pkg/category"
	"github.com/walteh/sortrc/pkg/conflict"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrInvalidMode = errors.Base("invalid classification mode")
	ErrMetadata    = errors.Base("file metadata unavailable")
)

// 🧭 Mode selects the folder structure files are sorted into
type Mode string

const (
	ModeType        Mode = "type"
	ModeName        Mode = "name"
	ModeDate        Mode = "date"
	ModeDay         Mode = "day"
	ModeSize        Mode = "size"
	ModeFirstLetter Mode = "first_letter"
)

// Size buckets used by ModeSize
const (
	SmallFolder  = "Small (Under 1MB)"
	MediumFolder = "Medium (1-100MB)"
	LargeFolder  = "Large (Over 100MB)"

	mebibyte     = 1024 * 1024
	smallLimit   = 1 * mebibyte
	mediumLimit  = 100 * mebibyte
	nonAlphaName = "#"
)

// Modes lists every mode
func Modes() []Mode {
	return []Mode{ModeType, ModeName, ModeDate, ModeDay, ModeSize, ModeFirstLetter}
}

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// Validate fails with ErrInvalidMode for anything outside the closed set
func (m Mode) Validate() error {
	switch m {
	case ModeType, ModeName, ModeDate, ModeDay, ModeSize, ModeFirstLetter:
		return nil
	}
	return errors.Errorf("%w: %q", ErrInvalidMode, string(m))
}

// 🔧 Context carries what the classifiers need besides the file itself
type Context struct {
	// Index resolves extensions for ModeType
	Index category.Index
	// Sniff falls back to magic-byte detection for unmapped extensions
	Sniff bool
	// Location for date folders; nil means time.Local
	Location *time.Location
}

// 🎯 Destination returns root/<subdir>/<base name of path>
func Destination(mode Mode, path, root string, cctx Context) (string, error) {
	sub, err := Subdir(mode, path, cctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, sub, filepath.Base(path)), nil
}

// 📂 Subdir returns the folder, relative to the destination root, that mode
// assigns to path
func Subdir(mode Mode, path string, cctx Context) (string, error) {
	switch mode {
	case ModeType:
		return byType(path, cctx), nil
	case ModeName:
		stem, _ := conflict.SplitName(filepath.Base(path))
		return stem, nil
	case ModeDate:
		t, err := modTime(path, cctx)
		if err != nil {
			return "", err
		}
		return filepath.Join(strconv.Itoa(t.Year()), fmt.Sprintf("%02d-%s", int(t.Month()), t.Month())), nil
	case ModeDay:
		t, err := modTime(path, cctx)
		if err != nil {
			return "", err
		}
		return filepath.Join(strconv.Itoa(t.Year()), fmt.Sprintf("%02d", int(t.Month())), fmt.Sprintf("%02d", t.Day())), nil
	case ModeSize:
		info, err := os.Stat(path)
		if err != nil {
			return "", errors.Errorf("%w: size of %s: %w", ErrMetadata, path, err)
		}
		return SizeFolder(info.Size()), nil
	case ModeFirstLetter:
		stem, _ := conflict.SplitName(filepath.Base(path))
		return FirstLetterFolder(stem), nil
	}
	return "", errors.Errorf("%w: %q", ErrInvalidMode, string(mode))
}

func byType(path string, cctx Context) string {
	_, ext := conflict.SplitName(filepath.Base(path))
	if name, ok := cctx.Index.Category(ext); ok {
		return name
	}
	if cctx.Sniff {
		if name, ok := sniff(path, cctx.Index); ok {
			return name
		}
	}
	return category.OthersName
}

// sniff detects the type from the file header; read errors just mean no match
func sniff(path string, idx category.Index) (string, bool) {
	kind, err := filetype.MatchFile(path)
	if err != nil || kind == types.Unknown || kind.Extension == "" {
		return "", false
	}
	return idx.Category("." + kind.Extension)
}

func modTime(path string, cctx Context) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, errors.Errorf("%w: modification time of %s: %w", ErrMetadata, path, err)
	}
	loc := cctx.Location
	if loc == nil {
		loc = time.Local
	}
	return info.ModTime().In(loc), nil
}

// SizeFolder buckets a byte count
func SizeFolder(size int64) string {
	switch {
	case size < smallLimit:
		return SmallFolder
	case size < mediumLimit:
		return MediumFolder
	default:
		return LargeFolder
	}
}

// FirstLetterFolder upper-cases the first rune of stem when it is a letter,
// everything else lands in "#"
func FirstLetterFolder(stem string) string {
	r, _ := utf8.DecodeRuneInString(stem)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return nonAlphaName
	}
	return string(unicode.ToUpper(r))
}
