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

package commands

import (
	"context"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/sortrc/cmd/sortrc/opts"
	"github.com/walteh/sortrc/pkg/category"
	"github.com/walteh/sortrc/pkg/log"
)

// NewCategoriesCmd creates the categories command and its subcommands
func NewCategoriesCmd(rootOpts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Inspect and edit the category table used by type mode",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCategories(cmd.Context(), rootOpts)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print every category and its extensions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return listCategories(cmd.Context(), rootOpts)
			},
		},
		editCmd(rootOpts, "add NAME", "Add an empty category", 1, func(t *category.Table, args []string) error {
			return t.Add(args[0])
		}),
		editCmd(rootOpts, "rename OLD NEW", "Rename a category", 2, func(t *category.Table, args []string) error {
			return t.Rename(args[0], args[1])
		}),
		editCmd(rootOpts, "remove NAME", "Remove a category", 1, func(t *category.Table, args []string) error {
			return t.Remove(args[0])
		}),
		editCmd(rootOpts, "add-ext NAME EXT...", "Add extensions to a category", -2, func(t *category.Table, args []string) error {
			for _, ext := range args[1:] {
				if err := t.AddExtension(args[0], ext); err != nil {
					return err
				}
			}
			return nil
		}),
		editCmd(rootOpts, "remove-ext NAME EXT...", "Remove extensions from a category", -2, func(t *category.Table, args []string) error {
			for _, ext := range args[1:] {
				if err := t.RemoveExtension(args[0], ext); err != nil {
					return err
				}
			}
			return nil
		}),
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the built-in table",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := category.Save(cmd.Context(), rootOpts.Config.CategoriesFile, category.Default()); err != nil {
					return err
				}
				log.FromContext(cmd.Context()).Success("categories reset to defaults")
				return nil
			},
		},
	)

	return cmd
}

// editCmd builds a subcommand that loads the table, applies edit and saves
// it. A negative nargs means at least -nargs arguments.
func editCmd(rootOpts *opts.RootOpts, use, short string, nargs int, edit func(*category.Table, []string) error) *cobra.Command {
	check := cobra.ExactArgs(nargs)
	if nargs < 0 {
		check = cobra.MinimumNArgs(-nargs)
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  check,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := rootOpts.Config.CategoriesFile

			table, err := readTable(ctx, path)
			if err != nil {
				return err
			}
			if err := edit(&table, args); err != nil {
				return err
			}
			if err := category.Save(ctx, path, table); err != nil {
				return err
			}

			log.FromContext(cmd.Context()).Successf("%s %s", strings.Fields(use)[0], strings.Join(args, " "))
			return nil
		},
	}
}

// readTable reads the table strictly so a corrupt file is never overwritten
func readTable(ctx context.Context, path string) (category.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return category.Load(ctx, path), nil
	}
	return category.Read(path)
}

func listCategories(ctx context.Context, rootOpts *opts.RootOpts) error {
	console := log.FromContext(ctx)
	table := category.Load(ctx, rootOpts.Config.CategoriesFile)

	rows := make([][]string, 0, len(table))
	for _, c := range table {
		exts := strings.Join(c.Extensions, " ")
		if c.Name == category.OthersName && exts == "" {
			exts = "(everything else)"
		}
		rows = append(rows, []string{c.Name, exts})
	}

	console.Header(rootOpts.Config.CategoriesFile)
	console.Println(log.RenderTable([]string{"Category", "Extensions"}, rows, []log.ColumnAlignment{log.AlignLeft, log.AlignLeft}))

	conflicts := table.Conflicts()
	for _, ext := range sortedKeys(conflicts) {
		names := conflicts[ext]
		console.Warningf("%s is listed in %s, %s wins", ext, strings.Join(names, " and "), names[0])
	}
	return nil
}

// sortedKeys orders duplicate-extension warnings so output is stable
func sortedKeys(conflicts map[string][]string) []string {
	return slices.Sorted(maps.Keys(conflicts))
}
