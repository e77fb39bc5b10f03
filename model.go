// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package pkgwalk

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Relation describes how an entry relates to the inclusion rules.
type Relation uint8

const (
	// RelationNone means the entry is outside every inclusion root and is not traversed.
	RelationNone Relation = iota
	// RelationAncestor means the entry lies on the path toward a possible inclusion root.
	RelationAncestor
	// RelationDescendant means the entry lies below an inclusion root.
	RelationDescendant
	// RelationTarget means the entry itself is an inclusion root.
	RelationTarget
)

// Verdict is a rule set evaluation result.
type Verdict uint8

const (
	// VerdictNone means no rule had an opinion or a negated rule matched last.
	VerdictNone Verdict = iota
	// VerdictAncestor means a directory lies on the way to a deeper anchored match.
	VerdictAncestor
	// VerdictTarget means a non-negated rule matched the path.
	VerdictTarget
)

// EventKind distinguishes walker events.
type EventKind uint8

const (
	// EventItem carries one classified entry.
	EventItem EventKind = iota + 1
	// EventScopeExit closes the most recently opened directory scope.
	EventScopeExit
)

// Item is one classified filesystem entry.
type Item struct {
	// Path is slash-separated and relative to the walk root; the root itself is ".".
	Path string `json:"path" yaml:"path"`
	// InclusionRoot is the root-relative path of the governing inclusion root, empty when undefined.
	InclusionRoot string `json:"inclusion_root,omitempty" yaml:"inclusion_root,omitempty"`
	// ArtifactPath is the path inside the produced artifact, empty when undefined.
	ArtifactPath string `json:"artifact_path,omitempty" yaml:"artifact_path,omitempty"`
	// Relation is the inclusion relation of the entry.
	Relation Relation `json:"relation" yaml:"relation"`
	// IsDir reports whether the entry is a directory.
	IsDir bool `json:"is_dir,omitempty" yaml:"is_dir,omitempty"`
	// Ignored reports whether an ignore rule excludes the entry.
	Ignored bool `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	// HasChildren reports whether the walker enumerates the entry's children.
	HasChildren bool `json:"has_children,omitempty" yaml:"has_children,omitempty"`
}

// Event is one element of the walker output sequence.
type Event struct {
	// Item is set for EventItem events only.
	Item Item
	// Kind is the event kind.
	Kind EventKind
}

// Options configures a tree walk.
type Options struct {
	// Logger receives debug traces of the walk. Nil disables logging.
	Logger *zerolog.Logger `json:"-" yaml:"-"`
	// RulesFileName is the per-directory rules file name.
	// Empty value defaults to ".gitignore".
	RulesFileName string `json:"rules_file_name,omitempty" yaml:"rules_file_name,omitempty"`
	// IncludeRules designate inclusion roots. They are always anchored and never negated.
	IncludeRules []string `json:"include_rules,omitempty" yaml:"include_rules,omitempty"`
	// IgnoreRules exclude entries below inclusion roots.
	IgnoreRules []string `json:"ignore_rules,omitempty" yaml:"ignore_rules,omitempty"`
	// UseLocalRuleFiles enables loading RulesFileName in every traversed directory.
	UseLocalRuleFiles bool `json:"use_local_rule_files,omitempty" yaml:"use_local_rule_files,omitempty"`
}

// Included reports whether the item belongs to an inclusion root and is not ignored.
func (it Item) Included() bool {
	return (it.Relation == RelationTarget || it.Relation == RelationDescendant) && !it.Ignored
}

// Packaged reports whether the item is a file that must be copied into the artifact.
func (it Item) Packaged() bool {
	return it.Included() && !it.IsDir && it.ArtifactPath != ""
}

// String returns the relation name.
func (r Relation) String() string {
	switch r {
	case RelationNone:
		return "none"
	case RelationAncestor:
		return "ancestor"
	case RelationDescendant:
		return "descendant"
	case RelationTarget:
		return "target"
	default:
		return fmt.Sprintf("Relation(%d)", uint8(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Relation) MarshalText() ([]byte, error) {
	if r > RelationTarget {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRelation, r)
	}

	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Relation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*r = RelationNone
	case "ancestor":
		*r = RelationAncestor
	case "descendant":
		*r = RelationDescendant
	case "target":
		*r = RelationTarget
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRelation, text)
	}

	return nil
}

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictNone:
		return "none"
	case VerdictAncestor:
		return "ancestor"
	case VerdictTarget:
		return "target"
	default:
		return fmt.Sprintf("Verdict(%d)", uint8(v))
	}
}
