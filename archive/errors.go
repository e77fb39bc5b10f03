// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package archive

import "errors"

var (
	// ErrInvalidName is returned when the project name is not a valid distribution name.
	ErrInvalidName = errors.New("invalid project name")
	// ErrInvalidVersion is returned when the project version is not a valid version string.
	ErrInvalidVersion = errors.New("invalid project version")
	// ErrIncomplete is returned when the walk failed and no archive was produced.
	ErrIncomplete = errors.New("archive incomplete")
	// ErrDuplicateEntry is returned when two inclusion roots map files to the same artifact path.
	ErrDuplicateEntry = errors.New("duplicate archive entry")
)
