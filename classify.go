// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package pkgwalk

// classify produces the verdict for one entry from the enclosing scopes.
//
// Inclusion state machine:
//   - no open scope (walk root): ancestor
//   - parent inside an inclusion root: descendant
//   - otherwise the include rules decide target, ancestor or none
//
// Ignore rules apply to target and descendant entries only. Global rules are
// consulted first and a global match cannot be undone by local rules.
func classify(p string, isDir bool, include RuleSet, ignore RuleSet, scopes scopeStack) Item {
	item := Item{Path: p, IsDir: isDir}
	candidate := "/" + p

	parent, ok := scopes.top()
	switch {
	case !ok:
		item.Relation = RelationAncestor
	case parent.inclusionRoot != "":
		item.Relation = RelationDescendant
		item.InclusionRoot = parent.inclusionRoot
	default:
		switch include.Evaluate(candidate, isDir) {
		case VerdictTarget:
			item.Relation = RelationTarget
			item.InclusionRoot = p
		case VerdictAncestor:
			item.Relation = RelationAncestor
		default:
			item.Relation = RelationNone
		}
	}

	if item.Relation == RelationTarget || item.Relation == RelationDescendant {
		item.Ignored = ignore.Ignores(candidate, isDir) || scopes.ignores(p, isDir)
		item.ArtifactPath = artifactPath(item.InclusionRoot, p)
	}

	item.HasChildren = isDir && item.Relation != RelationNone && !item.Ignored
	return item
}
