// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/woozymasta/pkgwalk/treeprint"
)

func newTreeCmd() *cobra.Command {
	var (
		flags walkFlags
		color string
	)

	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "Print the project tree with included and ignored entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir(args)
			if err != nil {
				return err
			}

			useColor, err := resolveColor(color, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			_, opts, err := flags.resolve(dir, false)
			if err != nil {
				return err
			}

			root, err := treeprint.Walk(os.DirFS(dir), opts)
			if err != nil {
				return err
			}

			return treeprint.Print(cmd.OutOrStdout(), root, treeprint.Options{Color: useColor})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&color, "color", "auto", "Colorize output: auto, always or never")

	return cmd
}

// resolveColor decides whether tree output is colored.
func resolveColor(mode string, out io.Writer) (bool, error) {
	switch strings.ToLower(mode) {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
	default:
		return false, fmt.Errorf("unknown color mode: %s", mode)
	}

	if os.Getenv("NO_COLOR") != "" {
		return false, nil
	}

	f, ok := out.(*os.File)
	if !ok {
		return false, nil
	}

	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false, nil
	}

	return termenv.NewOutput(f).ColorProfile() != termenv.Ascii, nil
}
