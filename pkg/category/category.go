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

package category

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// OthersName is the catch-all category for unmapped extensions
const OthersName = "Others"

var (
	ErrConfigLoad        = errors.Base("category table could not be loaded")
	ErrDuplicateCategory = errors.Base("category already exists")
	ErrUnknownCategory   = errors.Base("unknown category")
	ErrInvalidName       = errors.Base("invalid category name")
	ErrInvalidExtension  = errors.Base("invalid extension")
)

// 📦 Category is a named bucket of file extensions
type Category struct {
	Name       string
	Extensions []string
}

// 📚 Table is an ordered list of categories. Order decides which category
// claims an extension listed more than once.
type Table []Category

// 🏭 Default returns a fresh copy of the built-in table
func Default() Table {
	return Table{
		{Name: "Images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".webp", ".heic"}},
		{Name: "Videos", Extensions: []string{".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm", ".m4v"}},
		{Name: "Audio", Extensions: []string{".mp3", ".wav", ".aac", ".ogg", ".flac", ".m4a", ".wma"}},
		{Name: "Documents", Extensions: []string{".pdf", ".docx", ".doc", ".txt", ".pptx", ".ppt", ".xlsx", ".xls", ".odt", ".csv", ".rtf"}},
		{Name: "Archives", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}},
		{Name: "Executables", Extensions: []string{".exe", ".msi", ".apk", ".appimage"}},
		{Name: OthersName, Extensions: []string{}},
	}
}

// Names returns the category names in table order
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for _, c := range t {
		names = append(names, c.Name)
	}
	return names
}

// Get returns the category with the given name
func (t Table) Get(name string) (Category, bool) {
	if i := t.indexOf(name); i >= 0 {
		return t[i], true
	}
	return Category{}, false
}

func (t Table) indexOf(name string) int {
	for i, c := range t {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ➕ Add appends an empty category
func (t *Table) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.Errorf("%w: empty name", ErrInvalidName)
	}
	if t.indexOf(name) >= 0 {
		return errors.Errorf("%w: %s", ErrDuplicateCategory, name)
	}
	*t = append(*t, Category{Name: name, Extensions: []string{}})
	return nil
}

// ✏️ Rename renames a category in place, keeping its position. Others keeps
// its name since unmapped files always land there.
func (t Table) Rename(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return errors.Errorf("%w: empty name", ErrInvalidName)
	}
	if oldName == OthersName {
		return errors.Errorf("%w: %s is the fallback category", ErrInvalidName, OthersName)
	}
	i := t.indexOf(oldName)
	if i < 0 {
		return errors.Errorf("%w: %s", ErrUnknownCategory, oldName)
	}
	if newName != oldName && t.indexOf(newName) >= 0 {
		return errors.Errorf("%w: %s", ErrDuplicateCategory, newName)
	}
	t[i].Name = newName
	return nil
}

// 🗑️ Remove deletes a category. Others cannot be removed.
func (t *Table) Remove(name string) error {
	if name == OthersName {
		return errors.Errorf("%w: %s is the fallback category", ErrInvalidName, OthersName)
	}
	i := t.indexOf(name)
	if i < 0 {
		return errors.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	*t = append((*t)[:i], (*t)[i+1:]...)
	return nil
}

// AddExtension adds a normalized extension to a category. Adding an
// extension the category already has is a no-op.
func (t Table) AddExtension(name, ext string) error {
	i := t.indexOf(name)
	if i < 0 {
		return errors.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	norm, err := NormalizeExtension(ext)
	if err != nil {
		return err
	}
	for _, e := range t[i].Extensions {
		if strings.EqualFold(e, norm) {
			return nil
		}
	}
	t[i].Extensions = append(t[i].Extensions, norm)
	return nil
}

// RemoveExtension drops an extension from a category
func (t Table) RemoveExtension(name, ext string) error {
	i := t.indexOf(name)
	if i < 0 {
		return errors.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	norm, err := NormalizeExtension(ext)
	if err != nil {
		return err
	}
	exts := t[i].Extensions[:0]
	for _, e := range t[i].Extensions {
		if !strings.EqualFold(e, norm) {
			exts = append(exts, e)
		}
	}
	t[i].Extensions = exts
	return nil
}

// 🔍 Conflicts lists extensions claimed by more than one category, mapped to
// every claimant in table order. The index still gives each to the first.
func (t Table) Conflicts() map[string][]string {
	claims := map[string][]string{}
	for _, c := range t {
		seen := map[string]bool{}
		for _, e := range c.Extensions {
			e = strings.ToLower(e)
			if e == "" || seen[e] {
				continue
			}
			seen[e] = true
			claims[e] = append(claims[e], c.Name)
		}
	}
	for e, names := range claims {
		if len(names) < 2 {
			delete(claims, e)
		}
	}
	return claims
}

// NormalizeExtension lowercases ext and gives it a leading dot
func NormalizeExtension(ext string) (string, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return "", errors.Errorf("%w: empty extension", ErrInvalidExtension)
	}
	return "." + ext, nil
}
