// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package config

import "errors"

var (
	// ErrNoManifest is returned when a directory holds no supported manifest.
	ErrNoManifest = errors.New("no project manifest found")
	// ErrUnsupportedFormat is returned for manifest files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
	// ErrInvalidField is returned when a manifest field has an unexpected shape.
	ErrInvalidField = errors.New("invalid manifest field")
)
