// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package pkgwalk

import (
	"regexp"
	"strings"
)

// CompileOptions controls how one raw rule is interpreted.
type CompileOptions struct {
	// AllowNegated makes a leading "!" negate the rule instead of matching literally.
	AllowNegated bool `json:"allow_negated,omitempty" yaml:"allow_negated,omitempty"`
	// ForceAnchored anchors the rule at the defining directory even without a leading "/".
	ForceAnchored bool `json:"force_anchored,omitempty" yaml:"force_anchored,omitempty"`
}

// MatchRule is one compiled rule. It is immutable once compiled.
type MatchRule struct {
	// matcher matches candidate paths beginning with "/".
	matcher *regexp.Regexp
	// ancestors match directories on the way to a deeper anchored match.
	ancestors []*regexp.Regexp
	// source is the raw rule text.
	source string
	// anchored means the rule is rooted at the defining directory.
	anchored bool
	// dirOnly means the rule matches directories only.
	dirOnly bool
	// negated means a match un-excludes instead of excluding.
	negated bool
}

// CompileRule compiles one raw rule line into a MatchRule.
//
// Translation:
//   - "**" as a whole segment matches zero or more segments
//   - "**" inside a segment matches one or more characters including "/"
//   - "*" matches one or more characters except "/"
//   - "?" matches exactly one character except "/"
//   - "\" escapes the next character; a trailing "\" is literal
//   - everything else matches literally, case-insensitively
//
// Any input is representable, so compilation never fails.
func CompileRule(raw string, opts CompileOptions) MatchRule {
	body := strings.ToValidUTF8(raw, "�")
	rule := MatchRule{source: raw}

	if opts.AllowNegated && strings.HasPrefix(body, "!") {
		rule.negated = true
		body = body[1:]
	}

	switch {
	case strings.HasPrefix(body, "/"):
		rule.anchored = true
		body = body[1:]
	case strings.HasPrefix(body, `\/`):
		rule.anchored = true
		body = body[2:]
	default:
		rule.anchored = opts.ForceAnchored
	}

	switch {
	case strings.HasSuffix(body, `\/`):
		rule.dirOnly = true
		body = body[:len(body)-2]
	case strings.HasSuffix(body, "/"):
		rule.dirOnly = true
		body = body[:len(body)-1]
	}

	var b strings.Builder
	b.Grow(len(body)*2 + 8)
	b.WriteString("(?i)")
	if rule.anchored {
		b.WriteByte('^')
	}

	segments := splitSegments(body)
	ancestors := make([]string, 0, len(segments))
	for i, seg := range segments {
		if seg == "**" {
			b.WriteString(`(?:/.*)?`)
		} else {
			b.WriteByte('/')
			writeSegmentRegex(&b, seg)
		}

		// Each prefix of an anchored rule names a directory a deeper match may pass through.
		if rule.anchored && i < len(segments)-1 {
			ancestors = append(ancestors, b.String())
		}
	}

	rule.matcher = regexp.MustCompile(b.String() + "$")
	if len(ancestors) > 0 {
		rule.ancestors = make([]*regexp.Regexp, len(ancestors))
		for i, src := range ancestors {
			rule.ancestors[i] = regexp.MustCompile(src + "$")
		}
	}

	return rule
}

// Match reports whether the rule matches candidate path beginning with "/".
// The directory-only constraint is checked by the rule set evaluator.
func (r MatchRule) Match(path string) bool {
	return r.matcher != nil && r.matcher.MatchString(path)
}

// AncestorMatch reports whether path is a directory on the way to a deeper anchored match.
func (r MatchRule) AncestorMatch(path string) bool {
	for _, re := range r.ancestors {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// Anchored reports whether the rule is rooted at the defining directory.
func (r MatchRule) Anchored() bool { return r.anchored }

// DirectoryOnly reports whether the rule matches directories only.
func (r MatchRule) DirectoryOnly() bool { return r.dirOnly }

// Negated reports whether a match un-excludes.
func (r MatchRule) Negated() bool { return r.negated }

// Pattern returns the raw rule text.
func (r MatchRule) Pattern() string { return r.source }

// String returns the raw rule text.
func (r MatchRule) String() string { return r.source }

// splitSegments splits a rule body on unescaped "/".
func splitSegments(body string) []string {
	segments := make([]string, 0, strings.Count(body, "/")+1)
	start := 0

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '/':
			segments = append(segments, body[start:i])
			start = i + 1
		}
	}

	return append(segments, body[start:])
}

// writeSegmentRegex appends the regexp translation of one path segment.
func writeSegmentRegex(b *strings.Builder, seg string) {
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		switch c {
		case '\\':
			if i+1 == len(seg) {
				b.WriteString(`\\`)
				continue
			}

			i++
			writeRegexByte(b, seg[i])
		case '*':
			if i+1 < len(seg) && seg[i+1] == '*' {
				b.WriteString(`.+`)
				for i+1 < len(seg) && seg[i+1] == '*' {
					i++
				}

				continue
			}

			b.WriteString(`[^/]+`)
		case '?':
			b.WriteString(`[^/]`)
		default:
			writeRegexByte(b, c)
		}
	}
}

// writeRegexByte appends one byte escaped for regexp source.
func writeRegexByte(b *strings.Builder, c byte) {
	switch c {
	case '.', '+', '*', '?', '(', ')', '|', '{', '}', '[', ']', '^', '$', '\\':
		b.WriteByte('\\')
	}

	b.WriteByte(c)
}
