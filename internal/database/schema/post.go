// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "time"

// postDescriptor describes the `posts` table.
//
// com_search is a generated tsvector column derived from name || body, so
// it is always consistent with the latest ingested content and never
// passed as an upsert parameter (see [PostRow.Values]).
type postDescriptor struct{}

// Post is the package-level [Descriptor] for the `posts` table.
var Post Descriptor = postDescriptor{}

func (postDescriptor) TableName() string { return "posts" }

func (postDescriptor) Columns() []Column {
	return []Column{
		{Name: "ap_id", Type: "TEXT PRIMARY KEY"},
		{Name: "author_actor_id", Type: "TEXT NOT NULL REFERENCES authors(ap_id)"},
		{Name: "community_ap_id", Type: "TEXT NOT NULL REFERENCES communities(ap_id)"},
		{Name: "name", Type: "TEXT NOT NULL"},
		{Name: "body", Type: "TEXT"},
		{Name: "score", Type: "INTEGER NOT NULL DEFAULT 0"},
		{Name: "nsfw", Type: "BOOLEAN NOT NULL DEFAULT FALSE"},
		{Name: "updated", Type: "TIMESTAMPTZ NOT NULL"},
		{
			Name: "com_search",
			Type: "tsvector GENERATED ALWAYS AS (" +
				"to_tsvector('english', coalesce(name, '') || ' ' || coalesce(body, ''))" +
				") STORED",
			Generated: true,
		},
	}
}

func (postDescriptor) Keys() []string { return []string{"ap_id"} }

// PostRow is one in-memory `posts` row. com_search is excluded from
// Values — it is a STORED generated column and cannot be set directly.
type PostRow struct {
	ApID          string
	AuthorActorID string
	CommunityApID string
	Name          string
	Body          *string
	Score         int
	NSFW          bool
	Updated       time.Time
}

// Values implements [Row]. It intentionally omits com_search; callers
// upserting [Post] must pass a column/value list with that column
// excluded (see [store.Store.BulkUpsert]'s generated-column handling).
func (r PostRow) Values() []any {
	return []any{
		r.ApID, r.AuthorActorID, r.CommunityApID, r.Name, r.Body,
		r.Score, r.NSFW, r.Updated,
	}
}
