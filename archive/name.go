// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package archive

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nameRe      = regexp.MustCompile(`(?i)^([A-Z0-9]|[A-Z0-9][A-Z0-9._-]*[A-Z0-9])$`)
	nameSepRe   = regexp.MustCompile(`[-_.]+`)
	localSepRe  = regexp.MustCompile(`[-_.]`)
	leadZerosRe = regexp.MustCompile(`^0+([0-9])`)
)

// versionRe is the public version scheme with optional local label.
var versionRe = regexp.MustCompile(`(?i)^v?` +
	`(?:(?P<epoch>[0-9]+)!)?` +
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` +
	`(?:[-_.]?(?P<pre_l>alpha|a|beta|b|preview|pre|c|rc)[-_.]?(?P<pre_n>[0-9]+)?)?` +
	`(?:-(?P<post_n1>[0-9]+)|[-_.]?(?P<post_l>post|rev|r)[-_.]?(?P<post_n2>[0-9]+)?)?` +
	`(?:[-_.]?(?P<dev_l>dev)[-_.]?(?P<dev_n>[0-9]+)?)?` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`)

// ValidateName reports whether raw is a valid distribution name.
func ValidateName(raw string) error {
	if !nameRe.MatchString(raw) {
		return fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}

	return nil
}

// NormalizeName lowercases raw and collapses runs of "-", "_" and "." to "-".
func NormalizeName(raw string) string {
	return strings.ToLower(nameSepRe.ReplaceAllString(raw, "-"))
}

// SnakeName returns the file-name form of a normalized name.
func SnakeName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// NormalizeVersion validates raw and returns its canonical form.
//
// Examples: "v1.0" -> "1.0", "1.0-ALPHA.1" -> "1.0a1", "1.0-1" -> "1.0.post1",
// "01.02" -> "1.2", "0!1.0" -> "1.0", "1.0+Local_Build" -> "1.0+local.build".
func NormalizeVersion(raw string) (string, error) {
	m := versionRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}

	group := func(name string) string {
		return m[versionRe.SubexpIndex(name)]
	}

	var b strings.Builder

	if epoch := trimZeros(group("epoch")); epoch != "" && epoch != "0" {
		b.WriteString(epoch)
		b.WriteByte('!')
	}

	for i, part := range strings.Split(group("release"), ".") {
		if i > 0 {
			b.WriteByte('.')
		}

		b.WriteString(trimZeros(part))
	}

	if l := group("pre_l"); l != "" {
		switch strings.ToLower(l) {
		case "alpha", "a":
			b.WriteString("a")
		case "beta", "b":
			b.WriteString("b")
		default:
			b.WriteString("rc")
		}

		b.WriteString(numberOrZero(group("pre_n")))
	}

	switch {
	case group("post_n1") != "":
		b.WriteString(".post")
		b.WriteString(trimZeros(group("post_n1")))
	case group("post_l") != "":
		b.WriteString(".post")
		b.WriteString(numberOrZero(group("post_n2")))
	}

	if group("dev_l") != "" {
		b.WriteString(".dev")
		b.WriteString(numberOrZero(group("dev_n")))
	}

	if local := group("local"); local != "" {
		b.WriteByte('+')
		b.WriteString(strings.ToLower(localSepRe.ReplaceAllString(local, ".")))
	}

	return b.String(), nil
}

func trimZeros(n string) string {
	return leadZerosRe.ReplaceAllString(n, "$1")
}

func numberOrZero(n string) string {
	if n == "" {
		return "0"
	}

	return trimZeros(n)
}
