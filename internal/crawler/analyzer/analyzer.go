// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package analyzer extracts the distinct set of index terms from a post's
title and body, and applies the identical normalization to a user's
residual search query so dictionary lookups match on both sides.

Normalization: lowercase, replace every character that is neither
alphanumeric nor whitespace with a space, split on whitespace, drop tokens
of length ≤ 2, and deduplicate.
*/
package analyzer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lowerCaser performs Unicode-correct lowercasing — plain strings.ToLower
// mishandles some non-ASCII scripts that cases.Lower handles properly.
var lowerCaser = cases.Lower(language.Und)

// minTokenLength is the shortest token the index keeps (§ drop tokens of
// length ≤ 2).
const minTokenLength = 3

// Analyze returns the distinct, normalized index terms contained in s.
// The same rules apply whether s is a post's name+body or a user's
// residual search query, so dictionary lookups agree on both sides.
func Analyze(s string) []string {
	lowered := lowerCaser.String(s)

	normalized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, lowered)

	seen := make(map[string]struct{})
	terms := make([]string, 0)

	for _, token := range strings.Fields(normalized) {
		if len(token) <= minTokenLength-1 {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		terms = append(terms, token)
	}

	return terms
}
