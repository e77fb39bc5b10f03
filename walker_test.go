// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package pkgwalk

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func scenarioFS() fstest.MapFS {
	return fstest.MapFS{
		"pkg/__init__.py": &fstest.MapFile{Data: []byte("")},
		"pkg/sub/mod.py":  &fstest.MapFile{Data: []byte("x = 1\n")},
		"README.md":       &fstest.MapFile{Data: []byte("# readme\n")},
		".hidden/x":       &fstest.MapFile{Data: []byte("x")},
	}
}

func collectEvents(t *testing.T, fsys fs.FS, opts Options) []Event {
	t.Helper()

	w, err := NewWalker(fsys, opts)
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}

	var events []Event
	for ev, err := range w.Events() {
		if err != nil {
			t.Fatalf("walk: %v", err)
		}

		events = append(events, ev)
	}

	return events
}

func itemsByPath(events []Event) map[string]Item {
	items := make(map[string]Item, len(events))
	for _, ev := range events {
		if ev.Kind == EventItem {
			items[ev.Item.Path] = ev.Item
		}
	}

	return items
}

func itemEvent(item Item) Event {
	return Event{Kind: EventItem, Item: item}
}

var scopeExit = Event{Kind: EventScopeExit}

func TestWalkerScenario(t *testing.T) {
	t.Parallel()

	got := collectEvents(t, scenarioFS(), Options{
		IncludeRules: []string{"/pkg/**"},
		IgnoreRules:  []string{"*.md"},
	})

	want := []Event{
		itemEvent(Item{Path: ".", IsDir: true, Relation: RelationAncestor, HasChildren: true}),
		itemEvent(Item{Path: "README.md", Relation: RelationNone}),
		itemEvent(Item{Path: ".hidden", IsDir: true, Relation: RelationNone}),
		itemEvent(Item{
			Path: "pkg", IsDir: true, Relation: RelationTarget, HasChildren: true,
			InclusionRoot: "pkg", ArtifactPath: "pkg",
		}),
		itemEvent(Item{
			Path: "pkg/__init__.py", Relation: RelationDescendant,
			InclusionRoot: "pkg", ArtifactPath: "pkg/__init__.py",
		}),
		itemEvent(Item{
			Path: "pkg/sub", IsDir: true, Relation: RelationDescendant, HasChildren: true,
			InclusionRoot: "pkg", ArtifactPath: "pkg/sub",
		}),
		itemEvent(Item{
			Path: "pkg/sub/mod.py", Relation: RelationDescendant,
			InclusionRoot: "pkg", ArtifactPath: "pkg/sub/mod.py",
		}),
		scopeExit,
		scopeExit,
		scopeExit,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkerDoesNotDescendOutOfScope(t *testing.T) {
	t.Parallel()

	fsys := &countingFS{MapFS: scenarioFS()}
	w, err := NewWalker(fsys, Options{IncludeRules: []string{"/pkg/**"}})
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}

	for _, err := range w.Events() {
		if err != nil {
			t.Fatalf("walk: %v", err)
		}
	}

	if fsys.listed[".hidden"] != 0 {
		t.Fatalf(".hidden listed %d times, want 0", fsys.listed[".hidden"])
	}

	if fsys.listed["pkg"] != 1 || fsys.listed["pkg/sub"] != 1 {
		t.Fatalf("listings=%v, want pkg and pkg/sub once", fsys.listed)
	}
}

func TestWalkerOrdersFilesBeforeDirectories(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"src/b.py":   &fstest.MapFile{},
		"src/a/x.py": &fstest.MapFile{},
		"src/c.py":   &fstest.MapFile{},
		"src/B/y.py": &fstest.MapFile{},
		"src/0.py":   &fstest.MapFile{},
	}

	var got []string
	for _, ev := range collectEvents(t, fsys, Options{IncludeRules: []string{"src"}}) {
		if ev.Kind == EventItem {
			got = append(got, ev.Item.Path)
		}
	}

	want := []string{".", "src", "src/0.py", "src/b.py", "src/c.py", "src/B", "src/B/y.py", "src/a", "src/a/x.py"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkerIsDeterministic(t *testing.T) {
	t.Parallel()

	opts := Options{
		IncludeRules:      []string{"/pkg", "/tools/**"},
		IgnoreRules:       []string{"*.pyc"},
		UseLocalRuleFiles: true,
	}

	fsys := scenarioFS()
	fsys["tools/run.sh"] = &fstest.MapFile{}
	fsys["pkg/cache.pyc"] = &fstest.MapFile{}

	first := collectEvents(t, fsys, opts)
	second := collectEvents(t, fsys, opts)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated walk differs (-first +second):\n%s", diff)
	}
}

func TestWalkerLocalRuleFiles(t *testing.T) {
	t.Parallel()

	fsys := scenarioFS()
	fsys["pkg/sub/.gitignore"] = &fstest.MapFile{Data: []byte("mod.py\n")}

	items := itemsByPath(collectEvents(t, fsys, Options{
		IncludeRules:      []string{"/pkg/**"},
		UseLocalRuleFiles: true,
	}))

	if !items["pkg/sub/mod.py"].Ignored {
		t.Fatalf("pkg/sub/mod.py must be ignored by pkg/sub/.gitignore")
	}

	if items["pkg/__init__.py"].Ignored {
		t.Fatalf("pkg/__init__.py is outside the pkg/sub scope and must stay included")
	}

	if items["pkg/sub/.gitignore"].Ignored {
		t.Fatalf("the rules file itself is not ignored unless a rule says so")
	}
}

func TestWalkerLocalRuleFilesDisabled(t *testing.T) {
	t.Parallel()

	fsys := scenarioFS()
	fsys["pkg/sub/.gitignore"] = &fstest.MapFile{Data: []byte("mod.py\n")}

	items := itemsByPath(collectEvents(t, fsys, Options{IncludeRules: []string{"/pkg/**"}}))
	if items["pkg/sub/mod.py"].Ignored {
		t.Fatalf("local rules must not load when disabled")
	}
}

func TestWalkerLocalRulesAreScopeRelative(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		".gitignore":          &fstest.MapFile{Data: []byte("/pkg/gen/\n*.py\n!keep.py\n")},
		"pkg/.pkgignore":      &fstest.MapFile{Data: []byte("/data.txt\n")},
		"pkg/.gitignore":      &fstest.MapFile{Data: []byte("/data.txt\n")},
		"pkg/data.txt":        &fstest.MapFile{},
		"pkg/sub/data.txt":    &fstest.MapFile{},
		"pkg/keep.py":         &fstest.MapFile{},
		"pkg/drop.py":         &fstest.MapFile{},
		"pkg/gen/out.txt":     &fstest.MapFile{},
		"pkg/sub/nested/k.md": &fstest.MapFile{},
	}

	items := itemsByPath(collectEvents(t, fsys, Options{
		IncludeRules:      []string{"/pkg/**"},
		UseLocalRuleFiles: true,
	}))

	cases := map[string]bool{
		"pkg/data.txt":        true,
		"pkg/sub/data.txt":    false,
		"pkg/keep.py":         false,
		"pkg/drop.py":         true,
		"pkg/gen":             true,
		"pkg/sub/nested/k.md": false,
	}

	for p, ignored := range cases {
		item, ok := items[p]
		if !ok {
			t.Fatalf("%s was not emitted", p)
		}

		if item.Ignored != ignored {
			t.Fatalf("%s ignored=%v, want %v", p, item.Ignored, ignored)
		}
	}

	if _, ok := items["pkg/gen/out.txt"]; ok {
		t.Fatalf("ignored directory pkg/gen must not be descended into")
	}
}

func TestWalkerCustomRulesFileName(t *testing.T) {
	t.Parallel()

	fsys := scenarioFS()
	fsys["pkg/.gitignore"] = &fstest.MapFile{Data: []byte("__init__.py\n")}
	fsys["pkg/.pkgignore"] = &fstest.MapFile{Data: []byte("mod.py\n")}

	items := itemsByPath(collectEvents(t, fsys, Options{
		IncludeRules:      []string{"/pkg/**"},
		UseLocalRuleFiles: true,
		RulesFileName:     ".pkgignore",
	}))

	if items["pkg/__init__.py"].Ignored {
		t.Fatalf(".gitignore must not be read when another rules file name is configured")
	}

	if !items["pkg/sub/mod.py"].Ignored {
		t.Fatalf("pkg/sub/mod.py must be ignored by pkg/.pkgignore")
	}
}

func TestWalkerGlobalIgnoreWinsOverLocalNegation(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"pkg/.gitignore": &fstest.MapFile{Data: []byte("!keep.py\n")},
		"pkg/keep.py":    &fstest.MapFile{},
	}

	items := itemsByPath(collectEvents(t, fsys, Options{
		IncludeRules:      []string{"/pkg"},
		IgnoreRules:       []string{"*.py"},
		UseLocalRuleFiles: true,
	}))

	if !items["pkg/keep.py"].Ignored {
		t.Fatalf("global ignore must not be undone by a local negation")
	}
}

func TestWalkerIgnoredDirectoryOnlyRule(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"pkg/build/a.py": &fstest.MapFile{},
		"pkg/sub/build":  &fstest.MapFile{},
	}

	items := itemsByPath(collectEvents(t, fsys, Options{
		IncludeRules: []string{"/pkg"},
		IgnoreRules:  []string{"build/"},
	}))

	if !items["pkg/build"].Ignored || items["pkg/build"].HasChildren {
		t.Fatalf("pkg/build=%+v, want ignored directory without children", items["pkg/build"])
	}

	if items["pkg/sub/build"].Ignored {
		t.Fatalf("file pkg/sub/build must not match directory-only rule")
	}

	if _, ok := items["pkg/build/a.py"]; ok {
		t.Fatalf("ignored directory must not be descended into")
	}
}

func TestWalkerInclusionInheritance(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"lib/core/zzz/unrelated.bin": &fstest.MapFile{},
		"lib/core/a.py":              &fstest.MapFile{},
		"lib/other/b.py":             &fstest.MapFile{},
	}

	items := itemsByPath(collectEvents(t, fsys, Options{IncludeRules: []string{"/lib/core"}}))

	if items["lib"].Relation != RelationAncestor {
		t.Fatalf("lib relation=%v, want ancestor", items["lib"].Relation)
	}

	if items["lib"].ArtifactPath != "" {
		t.Fatalf("ancestor lib must not have an artifact path")
	}

	if items["lib/core"].Relation != RelationTarget {
		t.Fatalf("lib/core relation=%v, want target", items["lib/core"].Relation)
	}

	for _, p := range []string{"lib/core/a.py", "lib/core/zzz", "lib/core/zzz/unrelated.bin"} {
		if items[p].Relation != RelationDescendant {
			t.Fatalf("%s relation=%v, want descendant", p, items[p].Relation)
		}
	}

	if items["lib/other"].Relation != RelationNone || items["lib/other"].HasChildren {
		t.Fatalf("lib/other=%+v, want none without children", items["lib/other"])
	}

	if items["lib/core/a.py"].ArtifactPath != "core/a.py" {
		t.Fatalf("artifact path=%q, want core/a.py", items["lib/core/a.py"].ArtifactPath)
	}
}

func TestWalkerArtifactPathRoundTrip(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"src/app/main.py":       &fstest.MapFile{},
		"src/app/util/io.py":    &fstest.MapFile{},
		"top.py":                &fstest.MapFile{},
		"vendor/lib/x/y/z.py":   &fstest.MapFile{},
		"vendor/lib/x/y/README": &fstest.MapFile{},
	}

	items, err := IncludedFiles(fsys, Options{
		IncludeRules: []string{"/src/app", "/top.py", "/vendor/*/x"},
		IgnoreRules:  []string{"README"},
	})
	if err != nil {
		t.Fatalf("IncludedFiles: %v", err)
	}

	want := map[string]string{
		"src/app/main.py":     "app/main.py",
		"src/app/util/io.py":  "app/util/io.py",
		"top.py":              "top.py",
		"vendor/lib/x/y/z.py": "x/y/z.py",
	}

	if len(items) != len(want) {
		t.Fatalf("len(items)=%d, want %d: %+v", len(items), len(want), items)
	}

	for _, item := range items {
		if want[item.Path] != item.ArtifactPath {
			t.Fatalf("%s artifact=%q, want %q", item.Path, item.ArtifactPath, want[item.Path])
		}

		if got := path.Join(path.Dir(item.InclusionRoot), item.ArtifactPath); got != item.Path {
			t.Fatalf("round trip of %s gave %s", item.Path, got)
		}
	}
}

func TestWalkerScopeExitsBalance(t *testing.T) {
	t.Parallel()

	fsys := scenarioFS()
	fsys["pkg/sub/deeper/more/leaf.py"] = &fstest.MapFile{}

	w, err := NewWalker(fsys, Options{IncludeRules: []string{"/pkg/**"}})
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}

	open := 0
	for ev, err := range w.Events() {
		if err != nil {
			t.Fatalf("walk: %v", err)
		}

		switch ev.Kind {
		case EventItem:
			if ev.Item.HasChildren {
				open++
			}
		case EventScopeExit:
			open--
			if open < 0 {
				t.Fatalf("scope exit without open scope")
			}
		}
	}

	if open != 0 || w.Depth() != 0 {
		t.Fatalf("open=%d depth=%d after walk, want 0", open, w.Depth())
	}
}

func TestWalkerNextAfterEOF(t *testing.T) {
	t.Parallel()

	w, err := NewWalker(fstest.MapFS{}, Options{})
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}

	ev, err := w.Next()
	if err != nil || ev.Kind != EventItem || ev.Item.Path != "." {
		t.Fatalf("first Next=%+v err=%v, want root item", ev, err)
	}

	ev, err = w.Next()
	if err != nil || ev.Kind != EventScopeExit {
		t.Fatalf("second Next=%+v err=%v, want scope exit", ev, err)
	}

	for range 2 {
		if _, err := w.Next(); !errors.Is(err, io.EOF) {
			t.Fatalf("Next after end err=%v, want io.EOF", err)
		}
	}
}

func TestWalkerEarlyStop(t *testing.T) {
	t.Parallel()

	fsys := &countingFS{MapFS: scenarioFS()}
	w, err := NewWalker(fsys, Options{IncludeRules: []string{"/pkg/**"}})
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}

	for ev := range w.Events() {
		if ev.Item.Path == "pkg" {
			break
		}
	}

	if fsys.listed["pkg"] != 0 {
		t.Fatalf("pkg listed before its children were requested")
	}

	ev, err := w.Next()
	if err != nil || ev.Item.Path != "pkg/__init__.py" {
		t.Fatalf("Next after early stop=%+v err=%v, want pkg/__init__.py", ev, err)
	}
}

func TestWalkerReadDirErrorIsFatal(t *testing.T) {
	t.Parallel()

	fsys := &failingFS{MapFS: scenarioFS(), failReadDir: "pkg/sub"}
	w, err := NewWalker(fsys, Options{IncludeRules: []string{"/pkg/**"}})
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}

	var last Item
	var walkErr error
	for ev, err := range w.Events() {
		if err != nil {
			walkErr = err
			break
		}

		last = ev.Item
	}

	if !errors.Is(walkErr, fs.ErrPermission) {
		t.Fatalf("walk err=%v, want fs.ErrPermission", walkErr)
	}

	if last.Path != "pkg/sub" {
		t.Fatalf("last item=%q, want pkg/sub emitted before its listing failed", last.Path)
	}

	if _, err := w.Next(); !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("Next after failure err=%v, want sticky fs.ErrPermission", err)
	}
}

func TestWalkerStatErrorIsFatal(t *testing.T) {
	t.Parallel()

	fsys := &failingFS{MapFS: scenarioFS(), failStat: "pkg/__init__.py"}
	_, err := IncludedFiles(fsys, Options{IncludeRules: []string{"/pkg/**"}})
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("IncludedFiles err=%v, want fs.ErrPermission", err)
	}
}

func TestWalkerLocalRulesReadErrorIsFatal(t *testing.T) {
	t.Parallel()

	fsys := scenarioFS()
	fsys["pkg/.gitignore/oops"] = &fstest.MapFile{}

	_, err := IncludedFiles(fsys, Options{
		IncludeRules:      []string{"/pkg/**"},
		UseLocalRuleFiles: true,
	})
	if err == nil {
		t.Fatalf("IncludedFiles must fail when a rules file cannot be read")
	}
}

func TestWalkerSkipsDanglingSymlinks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "a.py"), "")
	writeFile(t, filepath.Join(root, "shared", "b.py"), "")

	if err := os.Symlink("missing-target", filepath.Join(root, "pkg", "dangling")); err != nil {
		t.Skipf("symlink not available: %v", err)
	}

	if err := os.Symlink(filepath.Join(root, "shared"), filepath.Join(root, "pkg", "linked")); err != nil {
		t.Skipf("symlink not available: %v", err)
	}

	items := itemsByPath(collectEvents(t, os.DirFS(root), Options{IncludeRules: []string{"/pkg"}}))

	if _, ok := items["pkg/dangling"]; ok {
		t.Fatalf("dangling symlink must be skipped")
	}

	if !items["pkg/linked"].IsDir || items["pkg/linked/b.py"].Relation != RelationDescendant {
		t.Fatalf("symlinked directory must be followed: %+v", items["pkg/linked"])
	}
}

func TestWalkerSkipsSymlinkLoops(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "a.py"), "")

	if err := os.Symlink("loop", filepath.Join(root, "pkg", "loop")); err != nil {
		t.Skipf("symlink not available: %v", err)
	}

	if err := os.Symlink("ping", filepath.Join(root, "pkg", "pong")); err != nil {
		t.Skipf("symlink not available: %v", err)
	}

	if err := os.Symlink("pong", filepath.Join(root, "pkg", "ping")); err != nil {
		t.Skipf("symlink not available: %v", err)
	}

	items, err := IncludedFiles(os.DirFS(root), Options{IncludeRules: []string{"/pkg/**"}})
	if err != nil {
		t.Fatalf("IncludedFiles: %v", err)
	}

	got := make([]string, 0, len(items))
	for _, it := range items {
		got = append(got, it.Path)
	}

	if diff := cmp.Diff([]string{"pkg/a.py"}, got); diff != "" {
		t.Fatalf("included files mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkerKeepsBackslashInNames(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		`pkg/a\b.py`: &fstest.MapFile{},
		"pkg/b.py":    &fstest.MapFile{},
	}

	items, err := IncludedFiles(fsys, Options{
		IncludeRules: []string{"/pkg/**"},
		IgnoreRules:  []string{"/pkg/a/b.py", "/pkg/b.py"},
	})
	if err != nil {
		t.Fatalf("IncludedFiles: %v", err)
	}

	if len(items) != 1 || items[0].Path != `pkg/a\b.py` || items[0].ArtifactPath != `pkg/a\b.py` {
		t.Fatalf("items=%+v, want only pkg/a\\b.py", items)
	}
}

func TestWalkerListsAtMostOneDirectoryPerCall(t *testing.T) {
	t.Parallel()

	fsys := &countingFS{MapFS: fstest.MapFS{
		"pkg/a.py":         &fstest.MapFile{},
		"pkg/sub/b.py":     &fstest.MapFile{},
		"pkg/sub/deep/c.x": &fstest.MapFile{},
		"other/d.py":       &fstest.MapFile{},
	}}

	w, err := NewWalker(fsys, Options{IncludeRules: []string{"/pkg"}})
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}

	var prev Event
	for i := 0; ; i++ {
		before := fsys.total()

		ev, err := w.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			t.Fatalf("Next: %v", err)
		}

		listed := fsys.total() - before
		opened := i > 0 && prev.Kind == EventItem && prev.Item.HasChildren
		switch {
		case opened && listed != 1:
			t.Fatalf("call after %q listed %d directories, want 1", prev.Item.Path, listed)
		case !opened && listed != 0:
			t.Fatalf("call %d after %+v listed %d directories, want 0", i, prev, listed)
		}

		prev = ev
	}
}

func TestNewWalkerValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewWalker(nil, Options{}); !errors.Is(err, ErrNilFS) {
		t.Fatalf("NewWalker(nil) err=%v, want ErrNilFS", err)
	}

	if _, err := NewWalker(fstest.MapFS{}, Options{RulesFileName: "a/b"}); !errors.Is(err, ErrInvalidRulesFileName) {
		t.Fatalf("NewWalker err=%v, want ErrInvalidRulesFileName", err)
	}

	var w *Walker
	if _, err := w.Next(); !errors.Is(err, ErrNilWalker) {
		t.Fatalf("nil Walker Next err=%v, want ErrNilWalker", err)
	}
}

// countingFS records directory listings.
type countingFS struct {
	fstest.MapFS
	listed map[string]int
}

func (c *countingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if c.listed == nil {
		c.listed = make(map[string]int)
	}

	c.listed[name]++
	return c.MapFS.ReadDir(name)
}

func (c *countingFS) total() int {
	n := 0
	for _, v := range c.listed {
		n += v
	}

	return n
}

// failingFS fails one listing or one stat with fs.ErrPermission.
type failingFS struct {
	fstest.MapFS
	failReadDir string
	failStat    string
}

func (f *failingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name == f.failReadDir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrPermission}
	}

	return f.MapFS.ReadDir(name)
}

func (f *failingFS) Stat(name string) (fs.FileInfo, error) {
	if name == f.failStat {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrPermission}
	}

	return f.MapFS.Stat(name)
}

func writeFile(t *testing.T, p string, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s): %v", filepath.Dir(p), err)
	}

	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile(%s): %v", p, err)
	}
}
