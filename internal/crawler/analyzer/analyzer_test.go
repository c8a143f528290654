// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package analyzer_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcmaehl/lemmysearch/internal/crawler/analyzer"
)

/*
TestAnalyze_CaseInsensitive verifies that analyzing a string and its
uppercased form yield the same term set — queries and index terms must
agree regardless of original casing.
*/
func TestAnalyze_CaseInsensitive(t *testing.T) {
	lower := analyzer.Analyze("the quick brown fox")
	upper := analyzer.Analyze("THE QUICK BROWN FOX")

	sort.Strings(lower)
	sort.Strings(upper)

	assert.Equal(t, lower, upper)
}

/*
TestAnalyze_DropsShortTokens verifies tokens of length ≤ 2 never survive.
*/
func TestAnalyze_DropsShortTokens(t *testing.T) {
	terms := analyzer.Analyze("a an to go fox")

	assert.Equal(t, []string{"fox"}, terms)
}

/*
TestAnalyze_Deduplicates verifies repeated words appear once.
*/
func TestAnalyze_Deduplicates(t *testing.T) {
	terms := analyzer.Analyze("fox fox fox hound")

	assert.Equal(t, []string{"fox", "hound"}, terms)
}

/*
TestAnalyze_StripsPunctuation verifies punctuation is treated as a
separator, not part of a token.
*/
func TestAnalyze_StripsPunctuation(t *testing.T) {
	terms := analyzer.Analyze("hello, world! it's go-lang.")

	sort.Strings(terms)
	assert.Equal(t, []string{"hello", "lang", "world"}, terms)
}

/*
TestAnalyze_AllTokensLowercaseAlphanumeric is the structural property test:
every returned term is lowercase, alphanumeric, and longer than two
characters, regardless of input.
*/
func TestAnalyze_AllTokensLowercaseAlphanumeric(t *testing.T) {
	terms := analyzer.Analyze("Lemmy!! Federation_2024 https://example.com/c/tech")

	for _, term := range terms {
		assert.True(t, len(term) > 2)
		for _, r := range term {
			isLower := r >= 'a' && r <= 'z'
			isDigit := r >= '0' && r <= '9'
			assert.True(t, isLower || isDigit, "unexpected rune %q in term %q", r, term)
		}
	}
}

/*
TestAnalyze_Empty verifies an empty or whitespace-only input yields no
terms, not a nil-vs-empty panic downstream.
*/
func TestAnalyze_Empty(t *testing.T) {
	assert.Empty(t, analyzer.Analyze(""))
	assert.Empty(t, analyzer.Analyze("   "))
}
