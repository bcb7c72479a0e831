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
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	dirName = "sortrc"

	// EnvConfigDir overrides the directory holding config and categories
	EnvConfigDir = "SORTRC_CONFIG_DIR"
	// EnvStateDir overrides the directory holding the journal and logs
	EnvStateDir = "SORTRC_STATE_DIR"
)

// ConfigDir is $SORTRC_CONFIG_DIR or $XDG_CONFIG_HOME/sortrc
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, dirName)
}

// StateDir is $SORTRC_STATE_DIR or $XDG_STATE_HOME/sortrc
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.StateHome, dirName)
}

// DefaultCategoriesFile is where the category table lives unless configured
func DefaultCategoriesFile() string {
	return filepath.Join(ConfigDir(), "categories.json")
}

// DefaultJournalFile is where the undo journal lives unless configured
func DefaultJournalFile() string {
	return filepath.Join(StateDir(), "undo.log")
}

// DefaultLogFile is where --log-file writes when given no path
func DefaultLogFile() string {
	return filepath.Join(StateDir(), "sortrc.log")
}
