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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/sortrc/pkg/fileop"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🎯 Load returns the persisted table at path. A missing file is created with
// the defaults. An unreadable or corrupt file is logged and left alone, and
// the defaults are used in memory.
func Load(ctx context.Context, path string) Table {
	logger := zerolog.Ctx(ctx)

	if !fileop.Exists(path) {
		def := Default()
		if err := Save(ctx, path, def); err != nil {
			logger.Error().Err(err).Str("path", path).Msg("could not create default categories file")
		}
		return def
	}

	table, err := Read(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to load categories file, falling back to defaults")
		return Default()
	}

	logger.Debug().Str("path", path).Int("categories", len(table)).Msg("loaded categories")
	return table
}

// 📖 Read strictly reads a table; the format follows the file extension
func Read(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("%w: reading %s: %w", ErrConfigLoad, path, err)
	}

	var table Table
	if isYAML(path) {
		err = yaml.Unmarshal(data, &table)
	} else {
		err = json.Unmarshal(data, &table)
	}
	if err != nil {
		return nil, errors.Errorf("%w: parsing %s: %w", ErrConfigLoad, path, err)
	}

	return table, nil
}

// 💾 Save atomically writes the table to path
func Save(ctx context.Context, path string, table Table) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(table)
	} else {
		data, err = json.MarshalIndent(table, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.Errorf("encoding categories: %w", err)
	}

	if err := fileop.WriteFileAtomic(path, data, 0644); err != nil {
		return errors.Errorf("writing categories file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("categories", len(table)).Msg("saved categories")
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// MarshalJSON writes the table as an object whose keys keep table order
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		exts := c.Extensions
		if exts == nil {
			exts = []string{}
		}
		val, err := json.Marshal(exts)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of name -> extensions keeping key order.
// A repeated key replaces the earlier extensions in its original position.
func (t *Table) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("expected a JSON object of categories")
	}

	var out Table
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var exts []string
		if err := dec.Decode(&exts); err != nil {
			return errors.Errorf("category %q: %w", name, err)
		}
		out = out.put(name, exts)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*t = out
	return nil
}

// MarshalYAML writes the table as an ordered mapping
func (t Table) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range t {
		exts := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, e := range c.Extensions {
			exts.Content = append(exts.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: e})
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: c.Name},
			exts,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping of name -> extensions keeping key order
func (t *Table) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errors.Errorf("line %d: expected a mapping of categories", value.Line)
	}

	var out Table
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		var exts []string
		if err := value.Content[i+1].Decode(&exts); err != nil {
			return errors.Errorf("category %q: %w", name, err)
		}
		out = out.put(name, exts)
	}

	*t = out
	return nil
}

func (t Table) put(name string, exts []string) Table {
	if exts == nil {
		exts = []string{}
	}
	if i := t.indexOf(name); i >= 0 {
		t[i].Extensions = exts
		return t
	}
	return append(t, Category{Name: name, Extensions: exts})
}
