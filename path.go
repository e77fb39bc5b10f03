// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package pkgwalk

import (
	"path"
	"strings"
)

// candidatePath normalizes a matching path to the slash-rooted form rules expect.
// Paths are io/fs paths: "/" is the only separator and "\" is an ordinary name byte.
func candidatePath(raw string) string {
	// Fast path for walker-produced candidates.
	if isSimpleCandidate(raw) {
		return raw
	}

	return path.Clean("/" + raw)
}

// isSimpleCandidate reports whether path is already normalized enough to skip path.Clean.
func isSimpleCandidate(p string) bool {
	if len(p) < 2 || p[0] != '/' ||
		strings.HasSuffix(p, "/") ||
		strings.Contains(p, "//") ||
		strings.Contains(p, "/./") ||
		strings.Contains(p, "/../") ||
		strings.HasSuffix(p, "/.") ||
		strings.HasSuffix(p, "/..") {
		return false
	}

	return true
}

// scopeRelative rebases a root-relative entry path onto the scope directory dir.
func scopeRelative(dir string, p string) string {
	if dir == "" || dir == "." {
		return "/" + p
	}

	return "/" + strings.TrimPrefix(p, dir+"/")
}

// artifactPath re-roots p at the parent of inclusion root, empty when root is undefined.
func artifactPath(root string, p string) string {
	if root == "" {
		return ""
	}

	base := path.Dir(root)
	if base == "." {
		return p
	}

	return strings.TrimPrefix(p, base+"/")
}
