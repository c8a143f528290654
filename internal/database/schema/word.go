// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// wordDescriptor describes the `words` table, the term dictionary of the
// inverted index. Word.ID is a deterministic UUIDv5 derived from the
// lowercased word (see pkg/uuid), so concurrent crawlers that observe the
// same term always produce the same row and never race on ID assignment.
type wordDescriptor struct{}

// Word is the package-level [Descriptor] for the `words` table.
var Word Descriptor = wordDescriptor{}

func (wordDescriptor) TableName() string { return "words" }

func (wordDescriptor) Columns() []Column {
	return []Column{
		{Name: "id", Type: "UUID PRIMARY KEY"},
		{Name: "word", Type: "VARCHAR(255) UNIQUE NOT NULL"},
	}
}

// Keys returns "word" rather than "id": concurrent inserts of the same
// term always carry the same deterministic ID, so conflicts can only ever
// arise on the unique word text, and the column's own value never changes
// on a re-insert — this upsert is always a no-op on conflict.
func (wordDescriptor) Keys() []string { return []string{"word"} }

// WordRow is one in-memory `words` row.
type WordRow struct {
	ID   string
	Word string
}

// Values implements [Row].
func (r WordRow) Values() []any {
	return []any{r.ID, r.Word}
}
