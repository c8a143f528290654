// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// communityDescriptor describes the `communities` table.
type communityDescriptor struct{}

// Community is the package-level [Descriptor] for the `communities` table.
var Community Descriptor = communityDescriptor{}

func (communityDescriptor) TableName() string { return "communities" }

func (communityDescriptor) Columns() []Column {
	return []Column{
		{Name: "ap_id", Type: "TEXT PRIMARY KEY"},
		{Name: "name", Type: "TEXT NOT NULL"},
		{Name: "title", Type: "TEXT"},
		{Name: "icon", Type: "TEXT"},
	}
}

func (communityDescriptor) Keys() []string { return []string{"ap_id"} }

// CommunityRow is one in-memory `communities` row.
type CommunityRow struct {
	ActorID string
	Name    string
	Title   *string
	Icon    *string
}

// Values implements [Row].
func (r CommunityRow) Values() []any {
	return []any{r.ActorID, r.Name, r.Title, r.Icon}
}
