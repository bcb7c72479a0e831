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

package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/sortrc/cmd/sortrc/commands"
	"github.com/walteh/sortrc/cmd/sortrc/opts"
	"github.com/walteh/sortrc/pkg/log"
	"github.com/walteh/sortrc/pkg/status"
)

func main() {
	rootOpts := &opts.RootOpts{}
	var closeLog func()

	rootCmd := &cobra.Command{
		Use:   "sortrc",
		Short: "Sort the files of a directory into folders",
		Long: `sortrc moves or copies the files of a directory into subfolders chosen by
file type, name, modification date, size or first letter. Every transfer is
journaled so the last batch can be undone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, closer, err := setupLogging(cmd.Context())
			if err != nil {
				return err
			}
			closeLog = closer

			loaded, err := newRootOpts(ctx)
			if err != nil {
				return err
			}
			*rootOpts = *loaded

			logger := zerolog.Ctx(ctx).With().Str("run_id", rootOpts.RunID).Logger()
			ctx = logger.WithContext(ctx)
			cmd.SetContext(log.NewContext(ctx, log.New(os.Stdout, logger)))
			return nil
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewRunCmd(rootOpts),
		commands.NewUndoCmd(rootOpts),
		commands.NewCategoriesCmd(rootOpts),
		newVersionCmd(),
	)

	err := rootCmd.ExecuteContext(context.Background())
	if closeLog != nil {
		closeLog()
	}
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, status.NewDefaultFileFormatter().FormatError(err))
		os.Exit(1)
	}
}
