// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

/*
Package pkgwalk decides which entries of a project tree belong to a build artifact
and which path each entry occupies inside it.

Two independent rule families are combined in a single walk:
  - include rules designate inclusion roots; they are always anchored and never negated
  - ignore rules exclude entries below inclusion roots; they follow gitignore-like
    semantics (anchoring, directory-only rules, "**", last rule wins, "!" negation)

Basic flow:
  - compile rules (`CompileRule`, `CompileIncludeRules`, `CompileIgnoreRules`)
  - ask for a verdict (`RuleSet.Evaluate` / `RuleSet.Ignores`)
  - or walk a tree (`NewWalker` over `os.DirFS(root)`) and pull events with
    `Walker.Next` or range over `Walker.Events`

The walker emits one `Item` per file or directory it visits and one
`EventScopeExit` per directory whose children it enumerated. Directories that
can contain no inclusion root are never listed. Per-directory rules files
(".gitignore" by default) are loaded when `Options.UseLocalRuleFiles` is set
and apply only inside their directory.
*/
package pkgwalk
