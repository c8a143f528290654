// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// searchDescriptor describes the `search` table: the inverted-index
// junction between words and posts.
type searchDescriptor struct{}

// Search is the package-level [Descriptor] for the `search` xref table.
var Search Descriptor = searchDescriptor{}

func (searchDescriptor) TableName() string { return "search" }

func (searchDescriptor) Columns() []Column {
	return []Column{
		{Name: "word_id", Type: "UUID NOT NULL REFERENCES words(id)"},
		{Name: "post_ap_id", Type: "TEXT NOT NULL REFERENCES posts(ap_id)"},
	}
}

func (searchDescriptor) Keys() []string { return []string{"word_id", "post_ap_id"} }

// SearchRow is one in-memory xref row.
type SearchRow struct {
	WordID   string
	PostApID string
}

// Values implements [Row].
func (r SearchRow) Values() []any {
	return []any{r.WordID, r.PostApID}
}
