// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// authorDescriptor describes the `authors` table.
type authorDescriptor struct{}

// Author is the package-level [Descriptor] for the `authors` table.
var Author Descriptor = authorDescriptor{}

func (authorDescriptor) TableName() string { return "authors" }

func (authorDescriptor) Columns() []Column {
	return []Column{
		{Name: "ap_id", Type: "TEXT PRIMARY KEY"},
		{Name: "name", Type: "TEXT NOT NULL"},
		{Name: "display_name", Type: "TEXT"},
		{Name: "avatar", Type: "TEXT"},
	}
}

func (authorDescriptor) Keys() []string { return []string{"ap_id"} }

// AuthorRow is one in-memory `authors` row.
type AuthorRow struct {
	ActorID     string
	Name        string
	DisplayName *string
	Avatar      *string
}

// Values implements [Row].
func (r AuthorRow) Values() []any {
	return []any{r.ActorID, r.Name, r.DisplayName, r.Avatar}
}
