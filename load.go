// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package pkgwalk

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

const defaultRulesFileName = ".gitignore"

// LoadRulesFile reads and parses a rules file from fsys.
//
// A missing file is an empty rule set, not an error.
func LoadRulesFile(fsys fs.FS, name string) (RuleSet, error) {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("open rules file %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	rules, err := ParseRules(f)
	if err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", name, err)
	}

	return rules, nil
}

// cleanRulesFileName validates and normalizes the per-directory rules file name.
func cleanRulesFileName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		name = defaultRulesFileName
	}

	if filepath.IsAbs(name) {
		return "", ErrInvalidRulesFileName
	}

	name = filepath.ToSlash(name)
	if strings.Contains(name, "/") || name == "." || name == ".." {
		return "", ErrInvalidRulesFileName
	}

	return name, nil
}
