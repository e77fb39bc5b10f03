// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/woozymasta/pkgwalk/archive"
	"github.com/woozymasta/pkgwalk/internal/logging"
)

func newBuildCmd() *cobra.Command {
	var (
		flags  walkFlags
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "build [dir]",
		Short: "Build a wheel archive from the project manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir(args)
			if err != nil {
				return err
			}

			m, opts, err := flags.resolve(dir, true)
			if err != nil {
				return err
			}

			logger := logging.GetLogger("build")
			done := logging.LogOperationStart(logger, "build")
			defer done()

			global := log.Logger
			res, err := archive.Build(cmd.Context(), os.DirFS(dir), outDir, archive.Options{
				Logger:  &global,
				Project: m.Project,
				Walk:    opts,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d files)\n", res.Path, len(res.Files))
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outDir, "output", "o", "dist", "Output directory")

	return cmd
}
