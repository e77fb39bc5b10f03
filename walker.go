// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package pkgwalk

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"path"
	"slices"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
)

// Walker classifies every entry of a tree in one lazy depth-first pass.
//
// The traversal uses an explicit marker stack, so depth is bounded only by
// memory and the caller may stop pulling events at any point.
type Walker struct {
	// fsys is the walk root.
	fsys fs.FS
	// err is the sticky terminal error, io.EOF after the last event.
	err error
	// open is the last emitted item whose children are enumerated on the next call.
	open *Item
	// logger receives debug traces.
	logger zerolog.Logger
	// rulesFileName is the per-directory rules file name.
	rulesFileName string
	// include designates inclusion roots.
	include RuleSet
	// ignore holds global ignore rules.
	ignore RuleSet
	// queue holds pending path markers, top of stack last.
	queue []marker
	// scopes holds directories currently open.
	scopes scopeStack
	// localRules enables per-directory rules files.
	localRules bool
}

// marker is one walk stack element: a path to visit or a scope pop.
type marker struct {
	path string
	pop  bool
}

// child is one directory entry prepared for ordering.
type child struct {
	name  string
	isDir bool
}

// NewWalker creates a walker over fsys, typically os.DirFS(root).
func NewWalker(fsys fs.FS, opts Options) (*Walker, error) {
	if fsys == nil {
		return nil, ErrNilFS
	}

	rulesFileName, err := cleanRulesFileName(opts.RulesFileName)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "walker").Logger()
	}

	return &Walker{
		fsys:          fsys,
		logger:        logger,
		rulesFileName: rulesFileName,
		include:       CompileIncludeRules(opts.IncludeRules),
		ignore:        CompileIgnoreRules(opts.IgnoreRules),
		localRules:    opts.UseLocalRuleFiles,
		queue:         []marker{{path: "."}},
	}, nil
}

// Next returns the next event. It returns io.EOF after the last event.
//
// A call stats at most one entry. The call following a directory item also
// opens that directory: it reads the rules file, lists the directory once and
// stats symlinked children to order them. No other call lists a directory.
//
// The first filesystem error terminates the walk and is returned by every
// later call; a walk that failed must not be treated as complete.
func (w *Walker) Next() (Event, error) {
	if w == nil {
		return Event{}, ErrNilWalker
	}

	if w.err != nil {
		return Event{}, w.err
	}

	if w.open != nil {
		item := *w.open
		w.open = nil
		if err := w.enter(item); err != nil {
			return w.fail(err)
		}
	}

	for len(w.queue) > 0 {
		m := w.queue[len(w.queue)-1]
		w.queue = w.queue[:len(w.queue)-1]

		if m.pop {
			sc, _ := w.scopes.pop()
			w.logger.Trace().Str("dir", sc.dir).Msg("Scope closed")
			return Event{Kind: EventScopeExit}, nil
		}

		isDir, ok, err := w.kind(m.path)
		if err != nil {
			return w.fail(err)
		}

		if !ok {
			w.logger.Debug().Str("path", m.path).Msg("Skipping entry that is neither file nor directory")
			continue
		}

		item := classify(m.path, isDir, w.include, w.ignore, w.scopes)
		if item.HasChildren {
			open := item
			w.open = &open
		}

		return Event{Kind: EventItem, Item: item}, nil
	}

	w.err = io.EOF
	return Event{}, io.EOF
}

// Events returns the remaining events as a sequence.
// The sequence ends after the last event or after yielding the first error.
func (w *Walker) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			ev, err := w.Next()
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				yield(Event{}, err)
				return
			}

			if !yield(ev, nil) {
				return
			}
		}
	}
}

// Depth returns the number of directory scopes currently open.
func (w *Walker) Depth() int {
	if w == nil {
		return 0
	}

	return len(w.scopes)
}

// IncludedFiles walks fsys and returns every item that must be copied into the artifact.
func IncludedFiles(fsys fs.FS, opts Options) ([]Item, error) {
	w, err := NewWalker(fsys, opts)
	if err != nil {
		return nil, err
	}

	var items []Item
	for ev, err := range w.Events() {
		if err != nil {
			return nil, err
		}

		if ev.Kind == EventItem && ev.Item.Packaged() {
			items = append(items, ev.Item)
		}
	}

	return items, nil
}

// enter opens a scope for dir and schedules its children.
func (w *Walker) enter(dir Item) error {
	var local RuleSet
	if w.localRules {
		rules, err := LoadRulesFile(w.fsys, path.Join(dir.Path, w.rulesFileName))
		if err != nil {
			return err
		}

		if len(rules) > 0 {
			w.logger.Debug().
				Str("dir", dir.Path).
				Int("rules", len(rules)).
				Msg("Loaded local rules")
		}

		local = rules
	}

	entries, err := fs.ReadDir(w.fsys, dir.Path)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir.Path, err)
	}

	children := make([]child, 0, len(entries))
	for _, entry := range entries {
		children = append(children, child{
			name:  entry.Name(),
			isDir: w.entryIsDir(dir.Path, entry),
		})
	}

	// Files sort before directories, names ascending within each group.
	slices.SortFunc(children, func(a, b child) int {
		if a.isDir != b.isDir {
			if a.isDir {
				return 1
			}

			return -1
		}

		return strings.Compare(a.name, b.name)
	})

	w.scopes.push(scope{
		ignore:        local,
		dir:           dir.Path,
		inclusionRoot: dir.InclusionRoot,
	})
	w.logger.Trace().Str("dir", dir.Path).Int("children", len(children)).Msg("Scope opened")

	w.queue = append(w.queue, marker{pop: true})
	for i := len(children) - 1; i >= 0; i-- {
		w.queue = append(w.queue, marker{path: path.Join(dir.Path, children[i].name)})
	}

	return nil
}

// kind reports whether p is a directory and whether it is a file or directory at all.
// Entries that vanished, dangle or loop are skipped, every other error is fatal.
func (w *Walker) kind(p string) (isDir bool, ok bool, err error) {
	info, err := fs.Stat(w.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ELOOP) {
			return false, false, nil
		}

		return false, false, fmt.Errorf("stat %s: %w", p, err)
	}

	if info.IsDir() {
		return true, true, nil
	}

	return false, info.Mode().IsRegular(), nil
}

// entryIsDir reports the ordering kind of a directory entry, following symlinks.
func (w *Walker) entryIsDir(dir string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir()
	}

	info, err := fs.Stat(w.fsys, path.Join(dir, entry.Name()))
	if err != nil {
		return false
	}

	return info.IsDir()
}

// fail records err as the terminal walk error.
func (w *Walker) fail(err error) (Event, error) {
	w.err = err
	w.queue = nil
	w.open = nil
	w.logger.Debug().Err(err).Msg("Walk aborted")
	return Event{}, err
}
