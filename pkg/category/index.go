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

import "strings"

// 🗂️ Index maps a lowercase extension (with leading dot) to its category
type Index map[string]string

// 🏗️ BuildIndex flattens a table into an extension lookup. Empty extensions
// are skipped and the first category in table order wins a shared extension.
func BuildIndex(table Table) Index {
	idx := Index{}
	for _, c := range table {
		for _, e := range c.Extensions {
			if e == "" {
				continue
			}
			e = strings.ToLower(e)
			if _, taken := idx[e]; !taken {
				idx[e] = c.Name
			}
		}
	}
	return idx
}

// Category looks up the category for ext, case-insensitively
func (i Index) Category(ext string) (string, bool) {
	name, ok := i[strings.ToLower(ext)]
	return name, ok
}
