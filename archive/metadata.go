// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package archive

import (
	"bytes"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/woozymasta/pkgwalk/config"
)

// MetadataVersion is the core metadata version written to METADATA.
const MetadataVersion = "2.4"

// ReadmeContentType infers the readme content type from the file suffix.
func ReadmeContentType(file string) string {
	switch strings.ToLower(path.Ext(filepath.ToSlash(file))) {
	case ".md":
		return "text/markdown"
	case ".rst":
		return "text/x-rst"
	default:
		return "text/plain"
	}
}

// splitPeople separates bare names from "Name <email>" and bare email entries.
func splitPeople(people []config.Person) (names []string, emails []string) {
	for _, p := range people {
		switch {
		case p.Email != "" && p.Name != "":
			emails = append(emails, fmt.Sprintf("%s <%s>", p.Name, p.Email))
		case p.Email != "":
			emails = append(emails, p.Email)
		case p.Name != "":
			names = append(names, p.Name)
		}
	}

	return names, emails
}

// renderMetadata builds the METADATA file. fsys resolves relative readme paths.
func renderMetadata(fsys fs.FS, name string, version string, p config.Project) ([]byte, error) {
	var b bytes.Buffer

	field := func(key string, value string) {
		_, _ = fmt.Fprintf(&b, "%s: %s\n", key, value)
	}

	field("Metadata-Version", MetadataVersion)
	field("Name", name)
	field("Version", version)

	if p.RequiresPython != "" {
		field("Requires-Python", p.RequiresPython)
	}

	if p.Description != "" {
		field("Summary", p.Description)
	}

	for _, dep := range p.Dependencies {
		field("Requires-Dist", dep)
	}

	names, emails := splitPeople(p.Authors)
	if len(names) > 0 {
		field("Author", strings.Join(names, ", "))
	}

	if len(emails) > 0 {
		field("Author-Email", strings.Join(emails, ", "))
	}

	names, emails = splitPeople(p.Maintainers)
	if len(names) > 0 {
		field("Maintainer", strings.Join(names, ", "))
	}

	if len(emails) > 0 {
		field("Maintainer-Email", strings.Join(emails, ", "))
	}

	if p.License != "" {
		field("License-Expression", p.License)
	}

	for _, c := range p.Classifiers {
		field("Classifier", c)
	}

	if len(p.Keywords) > 0 {
		field("Keywords", strings.Join(p.Keywords, ","))
	}

	for _, label := range slices.Sorted(maps.Keys(p.URLs)) {
		field("Project-URL", label+", "+p.URLs[label])
	}

	if p.Readme != nil {
		contentType := p.Readme.ContentType
		if contentType == "" {
			contentType = ReadmeContentType(p.Readme.File)
		}

		body, err := readReadme(fsys, p.Readme.File)
		if err != nil {
			return nil, err
		}

		field("Description-Content-Type", contentType)
		b.WriteByte('\n')
		b.Write(body)
	}

	return b.Bytes(), nil
}

func readReadme(fsys fs.FS, file string) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if filepath.IsAbs(file) {
		data, err = os.ReadFile(file)
	} else {
		data, err = fs.ReadFile(fsys, path.Clean(filepath.ToSlash(file)))
	}

	if err != nil {
		return nil, fmt.Errorf("read readme %s: %w", file, err)
	}

	return data, nil
}
