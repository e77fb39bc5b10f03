// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgwalk

package pkgwalk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseRules parses a rules file from reader.
//
// Semantics:
// - blank lines and lines starting with "#" are skipped
// - surrounding whitespace is trimmed, "\ " keeps one trailing space
// - every other line compiles as one ignore rule ("!" negates, "/" anchors)
// - lines have no length limit
func ParseRules(r io.Reader) (RuleSet, error) {
	br := bufio.NewReader(r)
	rules := make(RuleSet, 0, 16)

	for {
		raw, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read rules: %w", err)
		}

		line := strings.TrimRight(raw, "\r\n")
		line = strings.TrimLeft(line, " \t")
		line = trimTrailingSpaces(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			rules = append(rules, CompileRule(line, CompileOptions{AllowNegated: true}))
		}

		if err != nil {
			return rules, nil
		}
	}
}

// ParseRulesString parses rules from string input.
func ParseRulesString(src string) (RuleSet, error) {
	return ParseRules(strings.NewReader(src))
}

// trimTrailingSpaces removes trailing spaces unless escaped by "\".
func trimTrailingSpaces(s string) string {
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		if len(s) >= 2 && s[len(s)-2] == '\\' {
			s = s[:len(s)-2] + s[len(s)-1:]
			break
		}

		s = s[:len(s)-1]
	}

	return s
}
