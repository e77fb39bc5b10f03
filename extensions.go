// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package pkgwalk

import "strings"

// ExtensionRules converts an extension list to raw ignore rules.
//
// Accepted extension forms:
//   - "pyc"
//   - ".pyc"
//   - "*.pyc"
//
// Empty values are skipped. Returned patterns are normalized to lower-case
// "*.ext" form and preserve input order.
func ExtensionRules(exts []string) []string {
	rules := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		ext = strings.TrimPrefix(ext, "*.")
		ext = strings.TrimLeft(ext, ".")
		ext = strings.ToLower(ext)
		if ext == "" {
			continue
		}

		rules = append(rules, "*."+ext)
	}

	return rules
}
