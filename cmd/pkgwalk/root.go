// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/woozymasta/pkgwalk"
	"github.com/woozymasta/pkgwalk/config"
	"github.com/woozymasta/pkgwalk/internal/logging"
)

// walkFlags are rule overrides shared by every walking command.
type walkFlags struct {
	rulesFile    string
	include      []string
	ignore       []string
	noLocalRules bool
}

// NewRootCmd creates the pkgwalk command tree.
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "pkgwalk",
		Short: "Preview and build wheel archives from include and ignore rules",
		Long: `pkgwalk walks a project tree, selects files through anchored include rules
and gitignore-style ignore rules, and packages them into a reproducible wheel.

Rules are read from the [tool.pkgwalk] table of pyproject.toml.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity, cmd.ErrOrStderr())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (f *walkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.include, "include", nil, "Add an include rule (repeatable)")
	cmd.Flags().StringArrayVar(&f.ignore, "ignore", nil, "Add an ignore rule (repeatable)")
	cmd.Flags().BoolVar(&f.noLocalRules, "no-local-rules", false, "Do not read per-directory rules files")
	cmd.Flags().StringVar(&f.rulesFile, "rules-file", "", "Per-directory rules file name (default .gitignore)")
}

// resolve loads the manifest in dir and layers flag overrides on top of it.
// A missing manifest is tolerated unless requireManifest is set.
func (f *walkFlags) resolve(dir string, requireManifest bool) (config.Manifest, pkgwalk.Options, error) {
	m, err := config.Load(dir)
	switch {
	case err == nil:
	case errors.Is(err, config.ErrNoManifest) && !requireManifest:
		log.Info().Str("dir", dir).Msg("No manifest found, using command line rules only")
	default:
		return config.Manifest{}, pkgwalk.Options{}, err
	}

	logger := log.Logger
	opts := m.Tool.Options(&logger)
	opts.IncludeRules = append(opts.IncludeRules, f.include...)
	opts.IgnoreRules = append(opts.IgnoreRules, f.ignore...)

	if f.noLocalRules {
		opts.UseLocalRuleFiles = false
	}

	if f.rulesFile != "" {
		opts.RulesFileName = f.rulesFile
	}

	log.Debug().
		Strs("include", opts.IncludeRules).
		Strs("ignore", opts.IgnoreRules).
		Bool("localRules", opts.UseLocalRuleFiles).
		Msg("Resolved walk options")

	return m, opts, nil
}

// projectDir returns the optional positional directory argument.
func projectDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("project directory: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("project directory %s is not a directory", dir)
	}

	return dir, nil
}
