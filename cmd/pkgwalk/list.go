// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/woozymasta/pkgwalk"
)

func newListCmd() *cobra.Command {
	var (
		flags  walkFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List files that would be packaged",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir(args)
			if err != nil {
				return err
			}

			_, opts, err := flags.resolve(dir, false)
			if err != nil {
				return err
			}

			items, err := pkgwalk.IncludedFiles(os.DirFS(dir), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				for _, item := range items {
					if err := enc.Encode(item); err != nil {
						return fmt.Errorf("encode %s: %w", item.Path, err)
					}
				}

				return nil
			}

			for _, item := range items {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", item.Path, item.ArtifactPath); err != nil {
					return err
				}
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per file")

	return cmd
}
