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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/sortrc/pkg/category"
	"gitlab.com/tozd/go/errors"
)

func writeFile(t *testing.T, dir, name string, size int, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	if !mtime.IsZero() {
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
	return path
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMode("color")
	assert.True(t, errors.Is(err, ErrInvalidMode))
}

func TestDestination(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "dest")
	cctx := Context{Index: category.BuildIndex(category.Default()), Location: time.UTC}
	past := time.Date(2023, 10, 26, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		file string
		size int
		mode Mode
		want string
	}{
		{name: "type_mapped", file: "image.jpg", mode: ModeType, want: "Images/image.jpg"},
		{name: "type_upper_ext", file: "scan.PDF", mode: ModeType, want: "Documents/scan.PDF"},
		{name: "type_unmapped", file: "unknown.xyz", mode: ModeType, want: "Others/unknown.xyz"},
		{name: "type_no_ext", file: "Makefile", mode: ModeType, want: "Others/Makefile"},
		{name: "name", file: "Alpha.txt", mode: ModeName, want: "Alpha/Alpha.txt"},
		{name: "name_trailing_dot", file: "draft.", mode: ModeName, want: "draft./draft."},
		{name: "date", file: "old.txt", mode: ModeDate, want: "2023/10-October/old.txt"},
		{name: "day", file: "specific.log", mode: ModeDay, want: "2023/10/26/specific.log"},
		{name: "size_small", file: "small.txt", size: 5, mode: ModeSize, want: "Small (Under 1MB)/small.txt"},
		{name: "size_medium", file: "medium.bin", size: 2 * 1024 * 1024, mode: ModeSize, want: "Medium (1-100MB)/medium.bin"},
		{name: "first_letter_alpha", file: "alpha.txt", mode: ModeFirstLetter, want: "A/alpha.txt"},
		{name: "first_letter_digit", file: "123_numeric.log", mode: ModeFirstLetter, want: "#/123_numeric.log"},
		{name: "first_letter_dotfile", file: ".hidden", mode: ModeFirstLetter, want: "#/.hidden"},
		{name: "first_letter_unicode", file: "éclair.txt", mode: ModeFirstLetter, want: "É/éclair.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.size, past)

			got, err := Destination(tt.mode, path, root, cctx)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(root, filepath.FromSlash(tt.want)), got)
		})
	}
}

func TestSizeFolder(t *testing.T) {
	assert.Equal(t, SmallFolder, SizeFolder(0))
	assert.Equal(t, SmallFolder, SizeFolder(1024*1024-1))
	assert.Equal(t, MediumFolder, SizeFolder(1024*1024))
	assert.Equal(t, MediumFolder, SizeFolder(100*1024*1024-1))
	assert.Equal(t, LargeFolder, SizeFolder(100*1024*1024))
}

func TestFirstLetterFolder(t *testing.T) {
	assert.Equal(t, "Z", FirstLetterFolder("zebra"))
	assert.Equal(t, "#", FirstLetterFolder("_under"))
	assert.Equal(t, "#", FirstLetterFolder(""))
}

func TestMetadataErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.txt")

	for _, mode := range []Mode{ModeDate, ModeDay, ModeSize} {
		t.Run(string(mode), func(t *testing.T) {
			_, err := Destination(mode, missing, "/dest", Context{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMetadata))
		})
	}
}

func TestModesWithoutMetadataIgnoreMissingFiles(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.txt")

	got, err := Destination(ModeName, missing, "/dest", Context{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/dest", "gone", "gone.txt"), got)
}

func TestSniff(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.dat")
	require.NoError(t, os.WriteFile(path, []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), 0644))
	idx := category.BuildIndex(category.Default())

	sub, err := Subdir(ModeType, path, Context{Index: idx})
	require.NoError(t, err)
	assert.Equal(t, category.OthersName, sub, "sniffing is opt-in")

	sub, err = Subdir(ModeType, path, Context{Index: idx, Sniff: true})
	require.NoError(t, err)
	assert.Equal(t, "Images", sub)
}

func TestUnknownMode(t *testing.T) {
	_, err := Subdir(Mode("bogus"), "x", Context{})
	assert.True(t, errors.Is(err, ErrInvalidMode))
}
