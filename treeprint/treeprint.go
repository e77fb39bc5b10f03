// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

// Package treeprint renders a packaging walk as a box-drawing tree.
package treeprint

import (
	"errors"
	"io"
	"io/fs"
	"iter"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/woozymasta/pkgwalk"
)

// ErrUnbalanced is returned when scope exits do not match opened directories.
var ErrUnbalanced = errors.New("unbalanced walk events")

// Branch glyphs.
const (
	branchMid  = "├── "
	branchLast = "└── "
	indentMid  = "│   "
	indentLast = "    "
)

// ignoredSuffix marks out-of-scope entries when color is disabled.
const ignoredSuffix = " (ignored)"

// Node is one rendered tree entry.
type Node struct {
	// Label is the entry base name, "/"-suffixed for directories.
	Label string `json:"label" yaml:"label"`
	// Children are in walk order.
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	// Item is the classified walker item.
	Item pkgwalk.Item `json:"item" yaml:"item"`
}

// Options controls rendering.
type Options struct {
	// Color mutes out-of-scope entries with ANSI color instead of a text suffix.
	Color bool
}

// Build consumes walker events and assembles the tree.
func Build(events iter.Seq2[pkgwalk.Event, error]) (*Node, error) {
	var (
		root  *Node
		stack []*Node
	)

	for ev, err := range events {
		if err != nil {
			return nil, err
		}

		switch ev.Kind {
		case pkgwalk.EventItem:
			node := &Node{Label: label(ev.Item), Item: ev.Item}
			if root == nil {
				root = node
			} else {
				if len(stack) == 0 {
					return nil, ErrUnbalanced
				}

				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}

			if ev.Item.HasChildren {
				stack = append(stack, node)
			}
		case pkgwalk.EventScopeExit:
			if len(stack) == 0 {
				return nil, ErrUnbalanced
			}

			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) != 0 {
		return nil, ErrUnbalanced
	}

	return root, nil
}

// Walk runs a walker over fsys and assembles the tree.
func Walk(fsys fs.FS, opts pkgwalk.Options) (*Node, error) {
	w, err := pkgwalk.NewWalker(fsys, opts)
	if err != nil {
		return nil, err
	}

	return Build(w.Events())
}

// Render returns the tree text without a trailing newline.
func Render(root *Node, opts Options) string {
	if root == nil {
		return ""
	}

	r := lipgloss.NewRenderer(io.Discard)
	if opts.Color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	muted := r.NewStyle().Foreground(lipgloss.Color("8"))

	var b strings.Builder
	writeNode(&b, root, "", opts.Color, muted)
	return b.String()
}

// Print writes the rendered tree followed by a newline.
func Print(w io.Writer, root *Node, opts Options) error {
	_, err := io.WriteString(w, Render(root, opts)+"\n")
	return err
}

func writeNode(b *strings.Builder, n *Node, prefix string, color bool, muted lipgloss.Style) {
	switch {
	case !outOfScope(n.Item):
		b.WriteString(n.Label)
	case color:
		b.WriteString(muted.Render(n.Label))
	default:
		b.WriteString(n.Label)
		b.WriteString(ignoredSuffix)
	}

	for i, child := range n.Children {
		last := i == len(n.Children)-1

		b.WriteByte('\n')
		b.WriteString(prefix)
		if last {
			b.WriteString(branchLast)
			writeNode(b, child, prefix+indentLast, color, muted)
		} else {
			b.WriteString(branchMid)
			writeNode(b, child, prefix+indentMid, color, muted)
		}
	}
}

// outOfScope reports entries that will not reach the artifact.
// Ancestors are traversed on the way to inclusion roots and render as neutral.
func outOfScope(it pkgwalk.Item) bool {
	if it.Relation == pkgwalk.RelationAncestor {
		return false
	}

	return !it.Included()
}

func label(it pkgwalk.Item) string {
	name := path.Base(it.Path)
	if it.IsDir {
		return name + "/"
	}

	return name
}
