// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package pkgwalk

// scope is one directory currently open on the walk stack.
type scope struct {
	// ignore holds rules loaded from the directory's own rules file.
	ignore RuleSet
	// dir is the root-relative directory path, "." for the walk root.
	dir string
	// inclusionRoot is inherited by children; empty while inclusion is undecided.
	inclusionRoot string
}

// scopeStack is owned by exactly one walker and never shared.
type scopeStack []scope

func (s *scopeStack) push(sc scope) {
	*s = append(*s, sc)
}

func (s *scopeStack) pop() (scope, bool) {
	n := len(*s)
	if n == 0 {
		return scope{}, false
	}

	sc := (*s)[n-1]
	(*s)[n-1] = scope{}
	*s = (*s)[:n-1]
	return sc, true
}

func (s scopeStack) top() (scope, bool) {
	if len(s) == 0 {
		return scope{}, false
	}

	return s[len(s)-1], true
}

// ignores evaluates local rules innermost-first, each against the path
// made relative to the scope that declared them.
func (s scopeStack) ignores(p string, isDir bool) bool {
	for i := len(s) - 1; i >= 0; i-- {
		if len(s[i].ignore) == 0 {
			continue
		}

		if s[i].ignore.Ignores(scopeRelative(s[i].dir, p), isDir) {
			return true
		}
	}

	return false
}
