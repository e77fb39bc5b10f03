// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

// Package config loads project manifests that drive a packaging walk.
//
// The primary manifest is pyproject.toml: the [project] table carries package
// metadata and the [tool.pkgwalk] table carries walk rules. YAML manifests
// with the same shape are accepted for projects without a pyproject.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/pkgwalk"
	"github.com/woozymasta/pkgwalk/internal/logging"
)

// ToolName is the key of the tool table inside a manifest.
const ToolName = "pkgwalk"

// ManifestNames lists manifest file names probed by Load, in priority order.
var ManifestNames = []string{"pyproject.toml", "pkgwalk.yaml", "pkgwalk.yml"}

// DefaultIgnore holds ignore rules prepended when the default ignore list is enabled.
var DefaultIgnore = []string{
	"__pycache__",
	".DS_Store",
	".gitignore",
	".venv",
	"*.egg-info",
}

// Manifest is a parsed project manifest.
type Manifest struct {
	// Path is the manifest file path.
	Path string `json:"path" yaml:"path"`
	// Project holds package metadata.
	Project Project `json:"project" yaml:"project"`
	// Tool holds walk configuration.
	Tool Tool `json:"tool" yaml:"tool"`
}

// Project is the [project] table.
type Project struct {
	Name           string            `json:"name" yaml:"name"`
	Version        string            `json:"version" yaml:"version"`
	Description    string            `json:"description,omitempty" yaml:"description,omitempty"`
	RequiresPython string            `json:"requires_python,omitempty" yaml:"requires_python,omitempty"`
	License        string            `json:"license,omitempty" yaml:"license,omitempty"`
	Dependencies   []string          `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Classifiers    []string          `json:"classifiers,omitempty" yaml:"classifiers,omitempty"`
	Keywords       []string          `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Authors        []Person          `json:"authors,omitempty" yaml:"authors,omitempty"`
	Maintainers    []Person          `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	URLs           map[string]string `json:"urls,omitempty" yaml:"urls,omitempty"`
	// Readme is nil when the manifest declares no readme.
	Readme *Readme `json:"readme,omitempty" yaml:"readme,omitempty"`
}

// Person is one entry of the authors or maintainers list.
type Person struct {
	Name  string `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Email string `json:"email,omitempty" toml:"email" yaml:"email,omitempty"`
}

// Readme points to the long description file.
type Readme struct {
	// File is relative to the manifest directory unless absolute.
	File string `json:"file" yaml:"file"`
	// ContentType is empty when it must be inferred from the file suffix.
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
}

// Tool is the [tool.pkgwalk] table.
type Tool struct {
	// UseLocalRuleFiles is nil when unset; local rule files are enabled by default.
	UseLocalRuleFiles *bool `json:"use_local_rule_files,omitempty" yaml:"use_local_rule_files,omitempty"`
	// UseDefaultIgnore is nil when unset; the default ignore list is enabled by default.
	UseDefaultIgnore *bool `json:"use_default_ignore,omitempty" yaml:"use_default_ignore,omitempty"`
	// RulesFileName is the per-directory rules file name.
	RulesFileName string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`
	// Include designates inclusion roots.
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	// Ignore excludes entries below inclusion roots.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	// ExcludeExtensions is a shorthand for "*.ext" ignore rules.
	ExcludeExtensions []string `json:"exclude_extensions,omitempty" yaml:"exclude_extensions,omitempty"`
}

// document mirrors the on-disk manifest layout.
type document struct {
	Project rawProject `toml:"project" yaml:"project"`
	Tool    struct {
		Pkgwalk rawTool `toml:"pkgwalk" yaml:"pkgwalk"`
	} `toml:"tool" yaml:"tool"`
}

type rawProject struct {
	Name           string            `toml:"name" yaml:"name"`
	Version        string            `toml:"version" yaml:"version"`
	Description    string            `toml:"description" yaml:"description"`
	RequiresPython string            `toml:"requires-python" yaml:"requires-python"`
	License        any               `toml:"license" yaml:"license"`
	Readme         any               `toml:"readme" yaml:"readme"`
	Dependencies   []string          `toml:"dependencies" yaml:"dependencies"`
	Classifiers    []string          `toml:"classifiers" yaml:"classifiers"`
	Keywords       []string          `toml:"keywords" yaml:"keywords"`
	Authors        []Person          `toml:"authors" yaml:"authors"`
	Maintainers    []Person          `toml:"maintainers" yaml:"maintainers"`
	URLs           map[string]string `toml:"urls" yaml:"urls"`
}

type rawTool struct {
	UseLocalRuleFiles *bool    `toml:"use-local-rule-files" yaml:"use-local-rule-files"`
	UseDefaultIgnore  *bool    `toml:"use-default-ignore" yaml:"use-default-ignore"`
	RulesFile         string   `toml:"rules-file" yaml:"rules-file"`
	Include           []string `toml:"include" yaml:"include"`
	Ignore            []string `toml:"ignore" yaml:"ignore"`
	ExcludeExtensions []string `toml:"exclude-extensions" yaml:"exclude-extensions"`
}

// Load reads the first manifest found in dir.
func Load(dir string) (Manifest, error) {
	logger := logging.GetLogger("config").With().Str("dir", dir).Logger()

	for _, name := range ManifestNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return Manifest{}, fmt.Errorf("stat manifest %s: %w", p, err)
		}

		logger.Debug().Str("manifest", name).Msg("Found project manifest")
		return LoadFile(p)
	}

	return Manifest{}, fmt.Errorf("%w in %s", ErrNoManifest, dir)
}

// LoadFile reads and parses one manifest file. The format follows the file extension.
func LoadFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, fmt.Errorf("%w: %s", ErrNoManifest, path)
		}

		return Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}

	m.Path = path
	return m, nil
}

// Parse decodes manifest bytes. ext selects the format: ".toml", ".yaml" or ".yml".
func Parse(data []byte, ext string) (Manifest, error) {
	var doc document

	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return Manifest{}, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Manifest{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return Manifest{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	return doc.manifest()
}

func (d document) manifest() (Manifest, error) {
	readme, err := decodeReadme(d.Project.Readme)
	if err != nil {
		return Manifest{}, err
	}

	license, err := decodeLicense(d.Project.License)
	if err != nil {
		return Manifest{}, err
	}

	t := d.Tool.Pkgwalk
	return Manifest{
		Project: Project{
			Name:           strings.TrimSpace(d.Project.Name),
			Version:        strings.TrimSpace(d.Project.Version),
			Description:    d.Project.Description,
			RequiresPython: d.Project.RequiresPython,
			License:        license,
			Dependencies:   d.Project.Dependencies,
			Classifiers:    d.Project.Classifiers,
			Keywords:       d.Project.Keywords,
			Authors:        d.Project.Authors,
			Maintainers:    d.Project.Maintainers,
			URLs:           d.Project.URLs,
			Readme:         readme,
		},
		Tool: Tool{
			UseLocalRuleFiles: t.UseLocalRuleFiles,
			UseDefaultIgnore:  t.UseDefaultIgnore,
			RulesFileName:     t.RulesFile,
			Include:           t.Include,
			Ignore:            t.Ignore,
			ExcludeExtensions: t.ExcludeExtensions,
		},
	}, nil
}

// decodeReadme accepts either a file path string or a {file, content-type} table.
func decodeReadme(raw any) (*Readme, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}

		return &Readme{File: v}, nil
	case map[string]any:
		file, _ := v["file"].(string)
		if file == "" {
			return nil, fmt.Errorf("%w: readme table without file", ErrInvalidField)
		}

		contentType, _ := v["content-type"].(string)
		return &Readme{File: file, ContentType: contentType}, nil
	default:
		return nil, fmt.Errorf("%w: readme of type %T", ErrInvalidField, raw)
	}
}

// decodeLicense accepts an SPDX expression string or a legacy {text} table.
func decodeLicense(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case map[string]any:
		text, _ := v["text"].(string)
		return strings.TrimSpace(text), nil
	default:
		return "", fmt.Errorf("%w: license of type %T", ErrInvalidField, raw)
	}
}

// LocalRuleFiles reports whether per-directory rules files are loaded.
func (t Tool) LocalRuleFiles() bool {
	return t.UseLocalRuleFiles == nil || *t.UseLocalRuleFiles
}

// DefaultIgnoreEnabled reports whether DefaultIgnore is prepended to the ignore rules.
func (t Tool) DefaultIgnoreEnabled() bool {
	return t.UseDefaultIgnore == nil || *t.UseDefaultIgnore
}

// Options converts the tool table to walker options.
//
// Ignore rules are layered as default list, extension shorthands, then
// explicit rules, so explicit negations declared later still win.
func (t Tool) Options(logger *zerolog.Logger) pkgwalk.Options {
	ignore := make([]string, 0, len(DefaultIgnore)+len(t.ExcludeExtensions)+len(t.Ignore))
	if t.DefaultIgnoreEnabled() {
		ignore = append(ignore, DefaultIgnore...)
	}

	ignore = append(ignore, pkgwalk.ExtensionRules(t.ExcludeExtensions)...)
	ignore = append(ignore, t.Ignore...)

	return pkgwalk.Options{
		Logger:            logger,
		RulesFileName:     t.RulesFileName,
		IncludeRules:      slices.Clone(t.Include),
		IgnoreRules:       ignore,
		UseLocalRuleFiles: t.LocalRuleFiles(),
	}
}
