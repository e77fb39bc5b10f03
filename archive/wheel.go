// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

// Package archive writes deterministic wheel archives from a packaging walk.
package archive

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"

	"github.com/woozymasta/pkgwalk"
	"github.com/woozymasta/pkgwalk/config"
)

// WheelVersion is the wheel format version written to WHEEL.
const WheelVersion = "1.0"

// entryTime is the timestamp of every archive entry, the earliest a zip can hold.
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Options configures one archive build.
type Options struct {
	// Logger receives build progress. Nil disables logging.
	Logger *zerolog.Logger
	// Project supplies name, version and METADATA fields.
	Project config.Project
	// Walk selects the packaged files.
	Walk pkgwalk.Options
}

// Result describes a written archive.
type Result struct {
	// Path is the archive file path.
	Path string `json:"path" yaml:"path"`
	// Name is the normalized distribution name.
	Name string `json:"name" yaml:"name"`
	// Version is the normalized version.
	Version string `json:"version" yaml:"version"`
	// Files lists artifact paths of packaged files in archive order.
	Files []string `json:"files" yaml:"files"`
}

// FileName returns "<snake>-<version>-py3-none-any.whl" for a normalized name and version.
func FileName(name string, version string) string {
	return fmt.Sprintf("%s-%s-py3-none-any.whl", SnakeName(name), version)
}

// DistInfoDir returns the metadata directory name inside the archive.
func DistInfoDir(name string, version string) string {
	return fmt.Sprintf("%s-%s.dist-info", SnakeName(name), version)
}

// Build walks fsys and writes the archive into outDir.
//
// Files are written in walk order, followed by METADATA, RECORD and WHEEL.
// The archive is assembled in a temporary file and only renamed into place
// once complete, so a failed walk leaves nothing behind.
func Build(ctx context.Context, fsys fs.FS, outDir string, opts Options) (Result, error) {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "archive").Logger()
	}

	if err := ValidateName(opts.Project.Name); err != nil {
		return Result{}, err
	}

	name := NormalizeName(opts.Project.Name)
	version, err := NormalizeVersion(opts.Project.Version)
	if err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	res := Result{
		Path:    filepath.Join(outDir, FileName(name, version)),
		Name:    name,
		Version: version,
	}

	tmp, err := os.CreateTemp(outDir, "."+FileName(name, version)+".*.tmp")
	if err != nil {
		return Result{}, fmt.Errorf("create temporary archive: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)
	files, err := writeEntries(ctx, zw, fsys, opts.Walk, logger)
	if err != nil {
		return Result{}, err
	}

	res.Files = files
	if err := writeDistInfo(zw, fsys, name, version, opts.Project, files); err != nil {
		return Result{}, err
	}

	if err := zw.Close(); err != nil {
		return Result{}, fmt.Errorf("finalize archive: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("close archive: %w", err)
	}

	if err := os.Rename(tmp.Name(), res.Path); err != nil {
		return Result{}, fmt.Errorf("move archive into place: %w", err)
	}

	committed = true
	logger.Info().
		Str("path", res.Path).
		Int("files", len(files)).
		Msg("Archive written")

	return res, nil
}

// writeEntries copies every packaged file into zw and returns their artifact paths.
func writeEntries(ctx context.Context, zw *zip.Writer, fsys fs.FS, opts pkgwalk.Options, logger zerolog.Logger) ([]string, error) {
	w, err := pkgwalk.NewWalker(fsys, opts)
	if err != nil {
		return nil, err
	}

	var files []string
	seen := make(map[string]string)

	for ev, err := range w.Events() {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIncomplete, err)
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIncomplete, err)
		}

		if ev.Kind != pkgwalk.EventItem || !ev.Item.Packaged() {
			continue
		}

		item := ev.Item
		if prev, ok := seen[item.ArtifactPath]; ok {
			return nil, fmt.Errorf("%w: %s and %s both map to %s", ErrDuplicateEntry, prev, item.Path, item.ArtifactPath)
		}

		seen[item.ArtifactPath] = item.Path
		if err := copyEntry(zw, fsys, item); err != nil {
			return nil, err
		}

		logger.Debug().
			Str("path", item.Path).
			Str("artifact", item.ArtifactPath).
			Msg("Packaged file")

		files = append(files, item.ArtifactPath)
	}

	return files, nil
}

func copyEntry(zw *zip.Writer, fsys fs.FS, item pkgwalk.Item) error {
	src, err := fsys.Open(item.Path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrIncomplete, item.Path, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := createEntry(zw, item.ArtifactPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("%w: copy %s: %w", ErrIncomplete, item.Path, err)
	}

	return nil
}

func createEntry(zw *zip.Writer, name string) (io.Writer, error) {
	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: entryTime,
	}
	hdr.SetMode(0o644)

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return nil, fmt.Errorf("create archive entry %s: %w", name, err)
	}

	return w, nil
}

// writeDistInfo writes METADATA, RECORD and WHEEL.
func writeDistInfo(zw *zip.Writer, fsys fs.FS, name string, version string, p config.Project, files []string) error {
	distInfo := DistInfoDir(name, version)
	metadataPath := path.Join(distInfo, "METADATA")
	wheelPath := path.Join(distInfo, "WHEEL")
	recordPath := path.Join(distInfo, "RECORD")

	metadata, err := renderMetadata(fsys, name, version, p)
	if err != nil {
		return err
	}

	var record bytes.Buffer
	cw := csv.NewWriter(&record)
	for _, row := range append([]string{metadataPath, wheelPath, recordPath}, files...) {
		if err := cw.Write([]string{row, "", ""}); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	entries := []struct {
		name string
		data []byte
	}{
		{metadataPath, metadata},
		{recordPath, record.Bytes()},
		{wheelPath, []byte("Wheel-Version: " + WheelVersion + "\n")},
	}

	for _, e := range entries {
		w, err := createEntry(zw, e.name)
		if err != nil {
			return err
		}

		if _, err := w.Write(e.data); err != nil {
			return fmt.Errorf("write %s: %w", e.name, err)
		}
	}

	return nil
}
