// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates deterministic identifiers for content-addressed
entities — currently, the index's word dictionary.

Unlike [uuidv7] (time-ordered, used for request/trace IDs), a Word's ID
must be a pure function of the word string: multiple crawlers ingesting
the same term concurrently, with no coordination between them, need to
agree on its ID without a round-trip to the database. UUIDv5 (namespace +
SHA-1) gives exactly that — the same input always yields the same output.
*/
package uuid

import "github.com/google/uuid"

// wordNamespace is a fixed, arbitrary namespace UUID scoping every
// word-derived identifier. It must never change: changing it would
// silently re-key every existing Word row on next ingest.
var wordNamespace = uuid.MustParse("2f6b3f2a-9f9a-4b39-9b1b-9f7e9b6d6e4a")

// WordID deterministically derives a Word's primary key from its
// lowercased text. Equal words (after the Analyzer's normalization)
// always produce the same ID, regardless of which crawler computed it.
func WordID(word string) string {
	return uuid.NewSHA1(wordNamespace, []byte(word)).String()
}
