// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package pkgwalk

import "errors"

// Sentinel errors for pkgwalk operations.
var (
	// ErrInvalidRulesFileName indicates invalid per-directory rules file name.
	ErrInvalidRulesFileName = errors.New("invalid rules file name")
	// ErrInvalidRelation indicates an unknown relation name or value.
	ErrInvalidRelation = errors.New("invalid relation")
	// ErrNilFS indicates a walker was requested without a filesystem.
	ErrNilFS = errors.New("filesystem is nil")
	// ErrNilWalker indicates a nil Walker receiver.
	ErrNilWalker = errors.New("walker is nil")
)
