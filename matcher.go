// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package pkgwalk

// RuleSet is an ordered rule sequence; later rules take precedence.
type RuleSet []MatchRule

// CompileRules compiles raw rules in declaration order.
func CompileRules(raw []string, opts CompileOptions) RuleSet {
	rules := make(RuleSet, 0, len(raw))
	for _, r := range raw {
		rules = append(rules, CompileRule(r, opts))
	}

	return rules
}

// CompileIncludeRules compiles inclusion rules: anchored, negation disabled.
func CompileIncludeRules(raw []string) RuleSet {
	return CompileRules(raw, CompileOptions{ForceAnchored: true})
}

// CompileIgnoreRules compiles ignore rules: negation allowed, anchoring inferred.
func CompileIgnoreRules(raw []string) RuleSet {
	return CompileRules(raw, CompileOptions{AllowNegated: true})
}

// Evaluate returns the rule set verdict for one path.
//
// Decision policy:
//   - the last declared rule that matches decides
//   - a deciding negated rule yields VerdictNone immediately
//   - otherwise a directory on the way to a deeper anchored rule yields VerdictAncestor
func (rs RuleSet) Evaluate(path string, isDir bool) Verdict {
	candidate := candidatePath(path)

	if matched, negated := rs.lastMatch(candidate, isDir); matched {
		if negated {
			return VerdictNone
		}

		return VerdictTarget
	}

	if !isDir {
		return VerdictNone
	}

	for i := range rs {
		if !rs[i].negated && rs[i].AncestorMatch(candidate) {
			return VerdictAncestor
		}
	}

	return VerdictNone
}

// Ignores reports whether the rule set excludes path. Ancestor verdicts do not exclude.
func (rs RuleSet) Ignores(path string, isDir bool) bool {
	matched, negated := rs.lastMatch(candidatePath(path), isDir)
	return matched && !negated
}

// lastMatch scans rules in reverse declaration order and reports the deciding rule.
func (rs RuleSet) lastMatch(candidate string, isDir bool) (matched bool, negated bool) {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i].dirOnly && !isDir {
			continue
		}

		if rs[i].Match(candidate) {
			return true, rs[i].negated
		}
	}

	return false, false
}
